package recipe

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/recipeforge/go-recipe/format"
)

const testRecipe = `{% set name = "fakepkg" %}
{% set version = "1.2.3" %}

package:
  name: {{ name }}
  version: {{ version }}

build:
  number: 0
  script_env:
  skip: true  # [py<37]

requirements:
  host:
    - python
    # transitional
    - pip
  run:
    - python

about:
  summary: A fake package
  license: Apache-2.0
`

const testRecipeV1 = `schema_version: 1

context:
  name: fakepkg
  version: 1.2.3

package:
  name: ${{ name }}
  version: ${{ version }}

build:
  number: 0
`

func mustNew(t *testing.T, content string) *Recipe {
	t.Helper()
	r, err := New(content)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNewRoundTrip(t *testing.T) {
	r := mustNew(t, testRecipe)
	if got := r.Render(); got != testRecipe {
		t.Errorf("round trip mismatch:\n--- want ---\n%s\n--- got ---\n%s", testRecipe, got)
	}
	if r.IsModified() {
		t.Error("freshly parsed recipe reports modified")
	}
	if got := r.SchemaVersion(); got != format.V0 {
		t.Errorf("schema = %v", got)
	}
}

func TestNewV1(t *testing.T) {
	r := mustNew(t, testRecipeV1)
	if got := r.SchemaVersion(); got != format.V1 {
		t.Errorf("schema = %v", got)
	}
	if got := r.Render(); got != testRecipeV1 {
		t.Errorf("round trip mismatch:\n--- want ---\n%s\n--- got ---\n%s", testRecipeV1, got)
	}
	name, ok := r.RecipeName()
	if !ok || name != "fakepkg" {
		t.Errorf("RecipeName() = %q, %t", name, ok)
	}
}

func TestGetValue(t *testing.T) {
	r := mustNew(t, testRecipe)

	tests := []struct {
		name string
		path string
		opts []GetOption
		want any
	}{
		{"scalar int", "/build/number", nil, int64(0)},
		{"scalar bool", "/build/skip", nil, true},
		{"template untouched", "/package/name", nil, "{{ name }}"},
		{"template substituted", "/package/name", []GetOption{SubstituteVars()}, "fakepkg"},
		{"list", "/requirements/host", nil, []any{"python", "pip"}},
		{"list member", "/requirements/host/1", nil, "pip"},
		{"default", "/no/such/path", []GetOption{WithDefault("fallback")}, "fallback"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.GetValue(tc.path, tc.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("GetValue(%q) mismatch (-want +got):\n%s", tc.path, diff)
			}
		})
	}

	if _, err := r.GetValue("/no/such/path"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("missing path error = %v", err)
	}
}

func TestContainsValue(t *testing.T) {
	r := mustNew(t, testRecipe)
	if !r.ContainsValue("/build/number") {
		t.Error("ContainsValue(/build/number) = false")
	}
	if r.ContainsValue("/build/nope") {
		t.Error("ContainsValue(/build/nope) = true")
	}
}

func TestFindValue(t *testing.T) {
	r := mustNew(t, testRecipe)

	paths, err := r.FindValue(int64(0))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/build/number"}, paths); diff != "" {
		t.Errorf("FindValue(0) mismatch (-want +got):\n%s", diff)
	}

	// Keys without a value imply null.
	paths, err = r.FindValue(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/build/script_env"}, paths); diff != "" {
		t.Errorf("FindValue(nil) mismatch (-want +got):\n%s", diff)
	}

	if _, err := r.FindValue([]any{"x"}); !errors.Is(err, ErrBadValue) {
		t.Errorf("non-scalar search error = %v", err)
	}
}

func TestGetDependencyPaths(t *testing.T) {
	r := mustNew(t, testRecipe)
	want := []string{
		"/requirements/host/0",
		"/requirements/host/1",
		"/requirements/run/0",
	}
	if diff := cmp.Diff(want, r.GetDependencyPaths()); diff != "" {
		t.Errorf("GetDependencyPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchReplace(t *testing.T) {
	r := mustNew(t, testRecipe)

	ok, err := r.Patch(ReplaceOp("/build/number", int64(1)))
	if err != nil || !ok {
		t.Fatalf("Patch = %t, %v", ok, err)
	}
	if !r.IsModified() {
		t.Error("IsModified() = false after patch")
	}

	got, err := r.GetValue("/build/number")
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(1) {
		t.Errorf("number = %v", got)
	}

	diff, err := r.Diff()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(diff, "-  number: 0") || !strings.Contains(diff, "+  number: 1") {
		t.Errorf("diff missing expected lines:\n%s", diff)
	}
}

func TestPatchAddAndRemove(t *testing.T) {
	r := mustNew(t, testRecipe)

	ok, err := r.Patch(AddOp("/requirements/host/-", "setuptools"))
	if err != nil || !ok {
		t.Fatalf("append = %t, %v", ok, err)
	}
	got, err := r.GetValue("/requirements/host")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"python", "pip", "setuptools"}, got); diff != "" {
		t.Errorf("after append (-want +got):\n%s", diff)
	}

	ok, err = r.Patch(AddOp("/requirements/host/0", "cython"))
	if err != nil || !ok {
		t.Fatalf("insert = %t, %v", ok, err)
	}
	got, _ = r.GetValue("/requirements/host")
	if diff := cmp.Diff([]any{"cython", "python", "pip", "setuptools"}, got); diff != "" {
		t.Errorf("after insert (-want +got):\n%s", diff)
	}

	// The comment between list entries stays put through edits.
	if !strings.Contains(r.Render(), "# transitional") {
		t.Error("list comment lost")
	}

	ok, err = r.Patch(RemoveOp("/requirements/host/0"))
	if err != nil || !ok {
		t.Fatalf("remove = %t, %v", ok, err)
	}
	got, _ = r.GetValue("/requirements/host")
	if diff := cmp.Diff([]any{"python", "pip", "setuptools"}, got); diff != "" {
		t.Errorf("after remove (-want +got):\n%s", diff)
	}
}

func TestPatchAddNewKey(t *testing.T) {
	r := mustNew(t, testRecipe)

	// One missing path level may be synthesized.
	ok, err := r.Patch(AddOp("/about/home", "https://example.com"))
	if err != nil || !ok {
		t.Fatalf("Patch = %t, %v", ok, err)
	}
	got, err := r.GetValue("/about/home")
	if err != nil || got != "https://example.com" {
		t.Fatalf("home = %v, %v", got, err)
	}

	// Two missing levels violate the RFC.
	ok, err = r.Patch(AddOp("/missing/levels/deep", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("two-level synthesis unexpectedly succeeded")
	}
}

func TestPatchMove(t *testing.T) {
	r := mustNew(t, testRecipe)

	ok, err := r.Patch(MoveOp("/about/summary", "/about/description"))
	if err != nil || !ok {
		t.Fatalf("move = %t, %v", ok, err)
	}
	if r.ContainsValue("/about/summary") {
		t.Error("source survived the move")
	}
	got, err := r.GetValue("/about/description")
	if err != nil || got != "A fake package" {
		t.Errorf("description = %v, %v", got, err)
	}
}

func TestPatchMoveBadSourceLeavesTreeAlone(t *testing.T) {
	r := mustNew(t, testRecipe)
	before := r.Render()

	ok, err := r.Patch(MoveOp("/no/such/path", "/about/description"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("move from missing path succeeded")
	}
	if r.IsModified() {
		t.Error("failed move set the modified flag")
	}
	if got := r.Render(); got != before {
		t.Error("failed move altered the tree")
	}
}

func TestPatchMoveNoOp(t *testing.T) {
	r := mustNew(t, testRecipe)
	ok, err := r.Patch(MoveOp("/build/number", "/build/number"))
	if err != nil || !ok {
		t.Fatalf("no-op move = %t, %v", ok, err)
	}
	if r.IsModified() {
		t.Error("no-op move set the modified flag")
	}
}

func TestPatchCopy(t *testing.T) {
	r := mustNew(t, testRecipe)
	ok, err := r.Patch(CopyOp("/build/number", "/build/number_copy"))
	if err != nil || !ok {
		t.Fatalf("copy = %t, %v", ok, err)
	}
	for _, path := range []string{"/build/number", "/build/number_copy"} {
		got, err := r.GetValue(path)
		if err != nil || got != int64(0) {
			t.Errorf("GetValue(%q) = %v, %v", path, got, err)
		}
	}
}

func TestPatchTest(t *testing.T) {
	r := mustNew(t, testRecipe)

	ok, err := r.Patch(TestOp("/build/number", int64(0)))
	if err != nil || !ok {
		t.Fatalf("test = %t, %v", ok, err)
	}
	ok, err = r.Patch(TestOp("/build/number", int64(42)))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("mismatched test passed")
	}
	if r.IsModified() {
		t.Error("test op set the modified flag")
	}
}

func TestPatchValidation(t *testing.T) {
	r := mustNew(t, testRecipe)
	if _, err := r.Patch(PatchOp{Kind: "add", Path: "/x"}); !errors.Is(err, ErrBadPatch) {
		t.Errorf("add without value error = %v", err)
	}
	if _, err := r.Patch(PatchOp{Kind: "explode", Path: "/x"}); !errors.Is(err, ErrBadPatch) {
		t.Errorf("unknown op error = %v", err)
	}
	if _, err := r.Patch(PatchOp{Kind: "remove"}); !errors.Is(err, ErrBadPatch) {
		t.Errorf("missing path error = %v", err)
	}
}

func TestPatchJSON(t *testing.T) {
	r := mustNew(t, testRecipe)
	doc := []byte(`[
		{"op": "replace", "path": "/build/number", "value": 2},
		{"op": "add", "path": "/requirements/run/-", "value": "requests"}
	]`)
	ok, err := r.PatchJSON(doc)
	if err != nil || !ok {
		t.Fatalf("PatchJSON = %t, %v", ok, err)
	}
	got, _ := r.GetValue("/build/number")
	if got != int64(2) {
		t.Errorf("number = %v", got)
	}
	run, _ := r.GetValue("/requirements/run")
	if diff := cmp.Diff([]any{"python", "requests"}, run); diff != "" {
		t.Errorf("run (-want +got):\n%s", diff)
	}

	bad := []byte(`[{"op": "replace", "path": "/build/number", "value": 3, "extra": true}]`)
	if _, err := r.PatchJSON(bad); !errors.Is(err, ErrBadPatch) {
		t.Errorf("unknown field error = %v", err)
	}
}

func TestSearch(t *testing.T) {
	r := mustNew(t, testRecipe)

	paths, err := r.Search(`^python$`, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/requirements/host/0", "/requirements/run/0"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("Search mismatch (-want +got):\n%s", diff)
	}

	paths, err = r.Search(`py<37`, true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/build/skip"}, paths); diff != "" {
		t.Errorf("comment search mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchAndPatch(t *testing.T) {
	r := mustNew(t, testRecipe)
	ok, err := r.SearchAndPatch(`^python$`, ReplaceOp("", "python >=3.11"), false)
	if err != nil || !ok {
		t.Fatalf("SearchAndPatch = %t, %v", ok, err)
	}
	for _, path := range []string{"/requirements/host/0", "/requirements/run/0"} {
		got, err := r.GetValue(path)
		if err != nil || got != "python >=3.11" {
			t.Errorf("GetValue(%q) = %v, %v", path, got, err)
		}
	}
}

func TestVariables(t *testing.T) {
	r := mustNew(t, testRecipe)

	if diff := cmp.Diff([]string{"name", "version"}, r.ListVariables()); diff != "" {
		t.Errorf("ListVariables (-want +got):\n%s", diff)
	}
	v, err := r.GetVariable("version")
	if err != nil || v != "1.2.3" {
		t.Errorf("GetVariable(version) = %v, %v", v, err)
	}
	if _, err := r.GetVariable("nope"); !errors.Is(err, ErrVariableNotFound) {
		t.Errorf("missing variable error = %v", err)
	}
	v, err = r.GetVariable("nope", WithDefault(int64(7)))
	if err != nil || v != int64(7) {
		t.Errorf("GetVariable with default = %v, %v", v, err)
	}

	r.SetVariable("build_num", int64(2))
	if !r.IsModified() {
		t.Error("SetVariable left the modified flag unset")
	}
	if !strings.Contains(r.Render(), "{% set build_num = 2 %}") {
		t.Errorf("set statement missing from render:\n%s", r.Render())
	}

	r.DelVariable("build_num")
	if r.ContainsVariable("build_num") {
		t.Error("DelVariable kept the variable")
	}

	refs := r.GetVariableReferences("version")
	if diff := cmp.Diff([]string{"/package/version"}, refs); diff != "" {
		t.Errorf("GetVariableReferences (-want +got):\n%s", diff)
	}
}

func TestSelectors(t *testing.T) {
	r := mustNew(t, testRecipe)

	if diff := cmp.Diff([]string{"[py<37]"}, r.ListSelectors()); diff != "" {
		t.Errorf("ListSelectors (-want +got):\n%s", diff)
	}
	if !r.ContainsSelector("[py<37]") {
		t.Error("ContainsSelector = false")
	}
	if diff := cmp.Diff([]string{"/build/skip"}, r.GetSelectorPaths("[py<37]")); diff != "" {
		t.Errorf("GetSelectorPaths (-want +got):\n%s", diff)
	}
	if !r.ContainsSelectorAtPath("/build/skip") {
		t.Error("ContainsSelectorAtPath = false")
	}
	sel, err := r.GetSelectorAtPath("/build/skip")
	if err != nil || sel != "[py<37]" {
		t.Errorf("GetSelectorAtPath = %q, %v", sel, err)
	}
	if _, err := r.GetSelectorAtPath("/build/number"); !errors.Is(err, ErrSelectorNotFound) {
		t.Errorf("missing selector error = %v", err)
	}
	sel, err = r.GetSelectorAtPath("/build/number", WithDefault("[win]"))
	if err != nil || sel != "[win]" {
		t.Errorf("GetSelectorAtPath with default = %q, %v", sel, err)
	}
}

func TestAddSelector(t *testing.T) {
	r := mustNew(t, testRecipe)

	if err := r.AddSelector("/build/number", "[osx]", SelectorReplace); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(r.Render(), "number: 0  # [osx]") {
		t.Errorf("selector missing from render:\n%s", r.Render())
	}
	if !r.ContainsSelector("[osx]") {
		t.Error("selector table missed the new selector")
	}

	if err := r.AddSelector("/build/skip", "[osx]", SelectorAnd); err != nil {
		t.Fatal(err)
	}
	sel, err := r.GetSelectorAtPath("/build/skip")
	if err != nil || sel != "[py<37 and osx]" {
		t.Errorf("merged selector = %q, %v", sel, err)
	}

	if err := r.AddSelector("/no/such", "[osx]", SelectorReplace); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("missing path error = %v", err)
	}
	if err := r.AddSelector("/build/number", "osx", SelectorReplace); !errors.Is(err, ErrBadSelector) {
		t.Errorf("bad selector error = %v", err)
	}
}

func TestRemoveSelector(t *testing.T) {
	r := mustNew(t, testRecipe)

	sel, err := r.RemoveSelector("/build/skip")
	if err != nil || sel != "[py<37]" {
		t.Fatalf("RemoveSelector = %q, %v", sel, err)
	}
	if strings.Contains(r.Render(), "[py<37]") {
		t.Error("selector still renders")
	}

	// Lines without a selector are left alone.
	sel, err = r.RemoveSelector("/build/number")
	if err != nil || sel != "" {
		t.Errorf("RemoveSelector on plain line = %q, %v", sel, err)
	}
}

func TestComments(t *testing.T) {
	r := mustNew(t, testRecipe)

	// Selector-only and full-line comments are not addressable.
	if tbl := r.GetCommentsTable(); len(tbl) != 0 {
		t.Errorf("comments table = %v", tbl)
	}

	if err := r.AddComment("/build/number", "builds fine"); err != nil {
		t.Fatal(err)
	}
	tbl := r.GetCommentsTable()
	if got := tbl["/build/number"]; got != "# builds fine" {
		t.Errorf("comment = %q", got)
	}
	if !strings.Contains(r.Render(), "number: 0  # builds fine") {
		t.Errorf("comment missing from render:\n%s", r.Render())
	}

	// A selector on the line keeps its spot in front of the comment.
	if err := r.AddComment("/build/skip", "windows needs work"); err != nil {
		t.Fatal(err)
	}
	if got := r.GetCommentsTable()["/build/skip"]; got != "# windows needs work" {
		t.Errorf("comment beside selector = %q", got)
	}
	sel, err := r.GetSelectorAtPath("/build/skip")
	if err != nil || sel != "[py<37]" {
		t.Errorf("selector after comment = %q, %v", sel, err)
	}

	if err := r.AddComment("/build/number", "   "); !errors.Is(err, ErrBadComment) {
		t.Errorf("whitespace comment error = %v", err)
	}
	if err := r.AddComment("/build/number", "[osx]"); !errors.Is(err, ErrBadComment) {
		t.Errorf("selector comment error = %v", err)
	}
}

func TestSortSubtreeKeys(t *testing.T) {
	r := mustNew(t, testRecipe)
	r.SortSubtreeKeys("/about", map[string]int{"license": 0, "summary": 1}, "")
	rendered := r.Render()
	if strings.Index(rendered, "license:") > strings.Index(rendered, "summary:") {
		t.Errorf("sort did not reorder keys:\n%s", rendered)
	}
}

func TestRenderToObject(t *testing.T) {
	r := mustNew(t, testRecipe)
	m, err := r.RenderToObject(true)
	if err != nil {
		t.Fatal(err)
	}
	pkg, ok := m["package"].(map[string]any)
	if !ok || pkg["name"] != "fakepkg" {
		t.Errorf("package = %v", m["package"])
	}
}

func TestDigest(t *testing.T) {
	r := mustNew(t, testRecipe)
	d1 := r.Digest()
	if len(d1) != 64 {
		t.Errorf("digest length = %d", len(d1))
	}
	if _, err := r.Patch(ReplaceOp("/build/number", int64(5))); err != nil {
		t.Fatal(err)
	}
	if d2 := r.Digest(); d2 == d1 {
		t.Error("digest unchanged after edit")
	}
}

func TestEqual(t *testing.T) {
	a := mustNew(t, testRecipe)
	b := mustNew(t, testRecipe)
	if !a.Equal(b) {
		t.Error("identical recipes compare unequal")
	}
	if _, err := b.Patch(ReplaceOp("/build/number", int64(9))); err != nil {
		t.Fatal(err)
	}
	if a.Equal(b) {
		t.Error("edited recipe compares equal")
	}
	if a.Equal(nil) {
		t.Error("nil compares equal")
	}
}
