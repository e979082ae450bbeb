// Package recipe parses, inspects and edits recipe files without losing
// the parts a regular YAML library throws away: comments, selectors and
// template expressions all survive a parse/render round trip. Editing
// follows RFC 6902 JSON-patch semantics, adjusted for comment lines and
// the template layer.
package recipe

import (
	"strings"

	"github.com/recipeforge/go-recipe/format"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/jinja"
	"github.com/recipeforge/go-recipe/parse"
	"github.com/recipeforge/go-recipe/token"
)

// Recipe holds the parse tree of one recipe file together with the
// derived lookup state: the template variable table and the selector
// table. Derived state is rebuilt whenever an edit succeeds.
//
// A Recipe is not safe for concurrent mutation; read operations may be
// shared.
type Recipe struct {
	// The raw text is preserved for diffing.
	initContent string
	root        *ir.Node
	schema      format.SchemaVersion
	vars        *jinja.Vars

	selectorOrder []string
	selectorTbl   map[string][]SelectorInfo

	modified bool
}

// SelectorInfo ties a selector occurrence to the node and path it
// appears on.
type SelectorInfo struct {
	Node *ir.Node
	Path string
}

// New parses recipe file text. The schema version is auto-detected from
// the `/schema_version` field; files without one are treated as V0.
func New(content string) (*Recipe, error) {
	root, err := parse.Parse(content)
	if err != nil {
		return nil, err
	}
	r := &Recipe{
		initContent: content,
		root:        root,
		schema:      format.V0,
	}
	if v, err := r.GetValue("/schema_version"); err == nil {
		if n, ok := v.(int64); ok && format.SchemaVersion(n) == format.V1 {
			r.schema = format.V1
		}
	}
	r.initVarsTbl()
	r.rebuildSelectors()
	return r, nil
}

// initVarsTbl builds the variable table. V0 recipes declare variables
// in `{% set %}` lines of the raw text; V1 recipes store them in the
// parse tree under /context.
func (r *Recipe) initVarsTbl() {
	switch r.schema {
	case format.V0:
		r.vars = jinja.ParseSetStatements(r.initContent)
	case format.V1:
		r.vars = jinja.NewVars()
		ctx, err := r.GetValue("/context")
		if err != nil {
			return
		}
		m, ok := ctx.(map[string]any)
		if !ok {
			return
		}
		// The tree keeps declaration order; the map does not.
		ctxNode := ir.Traverse(r.root, rpath.Parse("/context"))
		for _, child := range ctxNode.Children {
			if child.IsComment() {
				continue
			}
			key := child.Value.String()
			r.vars.Set(key, m[key])
		}
	}
}

// rebuildSelectors reconstructs the selector lookup table. Any edit
// that touches the tree or its comments invalidates the table.
func (r *Recipe) rebuildSelectors() {
	r.selectorOrder = nil
	r.selectorTbl = map[string][]SelectorInfo{}
	ir.TraverseAll(r.root, func(n *ir.Node, path rpath.Stack) {
		if n.Comment == "" {
			return
		}
		sel := token.SelectorRE.FindString(n.Comment)
		if sel == "" {
			return
		}
		if _, ok := r.selectorTbl[sel]; !ok {
			r.selectorOrder = append(r.selectorOrder, sel)
		}
		r.selectorTbl[sel] = append(r.selectorTbl[sel], SelectorInfo{Node: n, Path: path.String()})
	})
}

// SchemaVersion returns the schema this recipe uses.
func (r *Recipe) SchemaVersion() format.SchemaVersion {
	return r.schema
}

// IsModified reports whether the recipe changed since parsing.
func (r *Recipe) IsModified() bool {
	return r.modified
}

// Equal compares the current state of two recipes.
func (r *Recipe) Equal(o *Recipe) bool {
	if o == nil {
		return false
	}
	return r.schema == o.schema && r.Render() == o.Render()
}

// String renders internal state for debugging.
func (r *Recipe) String() string {
	var b strings.Builder
	b.WriteString("--------------------\n")
	b.WriteString("Recipe Instance\n")
	b.WriteString("- Schema Version: " + r.schema.String() + "\n")
	b.WriteString("- Variables:\n")
	for _, k := range r.vars.Keys() {
		v, _ := r.vars.Get(k)
		b.WriteString(token.TabAsSpaces + k + ": " + token.Stringify(anyToValue(v), ir.MultilineNone) + "\n")
	}
	b.WriteString("- Selectors:\n")
	for _, sel := range r.selectorOrder {
		b.WriteString(token.TabAsSpaces + sel + "\n")
		for _, info := range r.selectorTbl[sel] {
			b.WriteString(token.TabAsSpaces + token.TabAsSpaces + "- " + info.Path + "\n")
		}
	}
	b.WriteString("- Modified: ")
	if r.modified {
		b.WriteString("true\n")
	} else {
		b.WriteString("false\n")
	}
	b.WriteString("- Tree:\n" + r.root.DebugString() + "\n")
	b.WriteString("--------------------\n")
	return b.String()
}

func anyToValue(v any) ir.Value {
	val, err := ir.FromAny(v)
	if err != nil {
		return ir.String("")
	}
	return val
}
