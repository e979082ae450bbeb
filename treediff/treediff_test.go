package treediff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/parse"
)

func mustParse(t *testing.T, content string) *ir.Node {
	t.Helper()
	root, err := parse.Parse(content)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestDiffValueChange(t *testing.T) {
	from := mustParse(t, "build:\n  number: 0\n")
	to := mustParse(t, "build:\n  number: 1\n")

	want := []Change{{Path: "/build/number", Kind: Changed, From: "0", To: "1"}}
	if diff := cmp.Diff(want, Diff(from, to)); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffAddedAndRemovedKeys(t *testing.T) {
	from := mustParse(t, "about:\n  summary: a package\n  license: MIT\n")
	to := mustParse(t, "about:\n  summary: a package\n  home: https://example.com\n")

	got := Diff(from, to)
	want := []Change{
		{Path: "/about/license", Kind: Removed, From: "license:"},
		{Path: "/about/home", Kind: Added, To: "home:"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffListInsertDoesNotCascade(t *testing.T) {
	from := mustParse(t, "requirements:\n  host:\n    - python\n    - pip\n")
	to := mustParse(t, "requirements:\n  host:\n    - cython\n    - python\n    - pip\n")

	got := Diff(from, to)
	want := []Change{{Path: "/requirements/host/0", Kind: Added, To: "cython"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffIgnoresComments(t *testing.T) {
	from := mustParse(t, "build:\n  number: 0\n")
	to := mustParse(t, "build:\n  # bump before release\n  number: 0\n")

	if got := Diff(from, to); len(got) != 0 {
		t.Errorf("Diff = %v, want none", got)
	}
}

func TestDiffEqualTrees(t *testing.T) {
	content := "package:\n  name: demo\n  version: 1.0.0\n"
	if got := Diff(mustParse(t, content), mustParse(t, content)); len(got) != 0 {
		t.Errorf("Diff = %v, want none", got)
	}
}
