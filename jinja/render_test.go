package jinja

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/recipeforge/go-recipe/format"
)

func TestParseSetStatements(t *testing.T) {
	content := `{% set name = "demo" %}
{% set version = "1.2.3" %}
{% set build_number = 3 %}
{% set ratio = 0.5 %}

package:
  name: {{ name }}
`
	vars := ParseSetStatements(content)
	if got := vars.Keys(); !cmp.Equal(got, []string{"name", "version", "build_number", "ratio"}) {
		t.Fatalf("keys = %v", got)
	}
	for key, want := range map[string]any{
		"name":         "demo",
		"version":      "1.2.3",
		"build_number": int64(3),
		"ratio":        0.5,
	} {
		got, ok := vars.Get(key)
		if !ok || !cmp.Equal(got, want) {
			t.Errorf("vars[%q] = %v (%T), want %v", key, got, got, want)
		}
	}
}

func TestVarsOrder(t *testing.T) {
	v := NewVars()
	v.Set("b", 1)
	v.Set("a", 2)
	v.Set("b", 3)
	if got := v.Keys(); !cmp.Equal(got, []string{"b", "a"}) {
		t.Errorf("keys = %v", got)
	}
	if !v.Delete("b") || v.Delete("b") {
		t.Error("delete semantics broken")
	}
	if got := v.Keys(); !cmp.Equal(got, []string{"a"}) {
		t.Errorf("keys after delete = %v", got)
	}
}

func testVars() *Vars {
	v := NewVars()
	v.Set("name", "Demo")
	v.Set("version", "1.2.3")
	v.Set("build_number", int64(5))
	return v
}

func TestRender(t *testing.T) {
	for _, tc := range []struct {
		in     string
		schema format.SchemaVersion
		want   any
	}{
		{"{{ version }}", format.V0, "1.2.3"},
		{"{{ name | lower }}", format.V0, "demo"},
		{"{{ name | upper }}", format.V0, "DEMO"},
		{"{{ name[0] }}", format.V0, "D"},
		{"{{ build_number + 100 }}", format.V0, int64(105)},
		{"{{ version + \".1\" }}", format.V0, "1.2.3.1"},
		{"demo-{{ version }}-py", format.V0, "demo-1.2.3-py"},
		{"${{ version }}", format.V1, "1.2.3"},
		{"plain text", format.V1, "plain text"},
	} {
		got, err := Render(tc.in, testVars(), tc.schema)
		if err != nil {
			t.Errorf("Render(%q): %v", tc.in, err)
			continue
		}
		if d := cmp.Diff(tc.want, got); d != "" {
			t.Errorf("Render(%q): (-want +got):\n%s", tc.in, d)
		}
	}
}

func TestRenderUnresolvedV0(t *testing.T) {
	got, err := Render("{{ mystery }}", testVars(), format.V0)
	if err != nil {
		t.Fatal(err)
	}
	if got != "${{ mystery }}" {
		t.Errorf("got %v", got)
	}
}
