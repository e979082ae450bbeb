package parse

import (
	"testing"

	"github.com/recipeforge/go-recipe/encode"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
)

const simpleRecipe = `package:
  name: demo
  version: {{ version }}

build:
  number: 0
  skip: true  # [py<37]

requirements:
  host:
    - python
    # transitional
    - pip
  run:
    - python

about:
  summary: |
    A multi
    line summary
`

func TestParseRoundTrip(t *testing.T) {
	root, err := Parse(simpleRecipe)
	if err != nil {
		t.Fatal(err)
	}
	got := encode.Encode(root)
	if got != simpleRecipe {
		t.Errorf("round trip mismatch:\n--- want ---\n%s\n--- got ---\n%s", simpleRecipe, got)
	}
}

func TestParseStructure(t *testing.T) {
	root, err := Parse(simpleRecipe)
	if err != nil {
		t.Fatal(err)
	}

	name := ir.Traverse(root, rpath.Parse("/package/name"))
	if name == nil || !name.IsSingleKey() {
		t.Fatalf("name node = %v", name)
	}
	if got := name.Children[0].Value.String(); got != "demo" {
		t.Errorf("name = %q", got)
	}

	// Template expressions stay verbatim.
	version := ir.Traverse(root, rpath.Parse("/package/version"))
	if got := version.Children[0].Value.String(); got != "{{ version }}" {
		t.Errorf("version = %q", got)
	}

	skip := ir.Traverse(root, rpath.Parse("/build/skip"))
	if got := skip.Children[0].Comment; got != "# [py<37]" {
		t.Errorf("skip comment = %q", got)
	}

	// The comment does not consume a virtual index.
	pip := ir.Traverse(root, rpath.Parse("/requirements/host/1"))
	if pip == nil || pip.Value.String() != "pip" {
		t.Errorf("host/1 = %v", pip)
	}

	summary := ir.Traverse(root, rpath.Parse("/about/summary"))
	body := summary.Children[0]
	if body.Multiline != ir.MultilinePipe {
		t.Errorf("multiline variant = %q", body.Multiline)
	}
	if got := body.Value.Lines(); len(got) != 2 || got[0] != "A multi" {
		t.Errorf("multiline body = %v", got)
	}
}

func TestParseTemplateLinesStripped(t *testing.T) {
	content := "{% set version = \"1.2.3\" %}\npackage:\n  name: demo\n"
	root, err := Parse(content)
	if err != nil {
		t.Fatal(err)
	}
	if len(root.Children) != 1 || root.Children[0].Value.String() != "package" {
		t.Errorf("unexpected top level: %s", root.DebugString())
	}
}

func TestParseCollectionElements(t *testing.T) {
	content := `outputs:
  - name: libfoo
    requirements:
      - bar
`
	root, err := Parse(content)
	if err != nil {
		t.Fatal(err)
	}

	elem, _, _ := ir.TraverseWithIndex(root, rpath.Parse("/outputs/0"))
	if elem == nil || !elem.IsCollectionElement() {
		t.Fatalf("outputs/0 = %v", elem)
	}
	name := ir.Traverse(root, rpath.Parse("/outputs/0/name"))
	if name == nil || name.Children[0].Value.String() != "libfoo" {
		t.Fatalf("outputs/0/name = %v", name)
	}

	if got := encode.Encode(root); got != content {
		t.Errorf("round trip mismatch:\n--- want ---\n%s\n--- got ---\n%s", content, got)
	}
}

func TestParseFullLineComments(t *testing.T) {
	content := `# top comment
package:
  name: demo
`
	root, err := Parse(content)
	if err != nil {
		t.Fatal(err)
	}
	if !root.Children[0].IsComment() {
		t.Fatalf("first child not a comment: %s", root.DebugString())
	}
	if got := encode.Encode(root); got != content {
		t.Errorf("round trip mismatch:\n--- want ---\n%s\n--- got ---\n%s", content, got)
	}
}

func TestGenerateSubtree(t *testing.T) {
	children, err := GenerateSubtree(map[string]any{"number": 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(children) != 1 || children[0].Value.String() != "number" {
		t.Fatalf("children = %v", children)
	}
	if got := children[0].Children[0].Value.Int(); got != 1 {
		t.Errorf("value = %d", got)
	}

	leaves, err := GenerateSubtree("hello\nworld")
	if err != nil {
		t.Fatal(err)
	}
	if leaves[0].Multiline != ir.MultilinePipe {
		t.Errorf("variant = %q", leaves[0].Multiline)
	}
}
