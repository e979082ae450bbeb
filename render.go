package recipe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/recipeforge/go-recipe/encode"
	"github.com/recipeforge/go-recipe/format"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/jinja"
	"github.com/recipeforge/go-recipe/token"
)

// Render serializes the recipe back to file text. Barring edits, the
// output matches the parsed input byte for byte.
func (r *Recipe) Render(opts ...encode.Option) string {
	var b strings.Builder
	if r.schema == format.V0 && r.vars.Len() > 0 {
		for _, k := range r.vars.Keys() {
			v, _ := r.vars.Get(k)
			b.WriteString("{% set " + k + " = " + renderSetValue(v) + " %}\n")
		}
		// Set statements are separated from the recipe body.
		b.WriteString("\n")
	}
	b.WriteString(encode.Encode(r.root, opts...))
	return b.String()
}

// renderSetValue formats a variable for a `{% set %}` statement.
// Strings are double quoted; everything else renders as a YAML scalar.
func renderSetValue(v any) string {
	if s, ok := v.(string); ok {
		return `"` + s + `"`
	}
	val, err := ir.FromAny(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return token.Stringify(val, ir.MultilineNone)
}

// RenderToObject converts the recipe to a plain object tree, losing
// comments. With substituteVars, template expressions are rendered with
// their set values first.
func (r *Recipe) RenderToObject(substituteVars bool) (map[string]any, error) {
	data := map[string]any{}
	for _, child := range r.root.Children {
		if child.IsComment() {
			continue
		}
		key := child.Value.String()
		if _, ok := data[key]; !ok {
			data[key] = map[string]any{}
		}
		if err := r.objectTree(child, substituteVars, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// objectTree renders the children of a key node into data under the
// node's key.
func (r *Recipe) objectTree(node *ir.Node, substituteVars bool, data map[string]any) error {
	if node.IsComment() {
		return nil
	}
	key := node.Value.String()
	for _, child := range node.Children {
		if child.IsComment() {
			continue
		}
		switch {
		// Empty keys are interpreted as pointing at null.
		case child.IsEmptyKey():
			m, ok := data[key].(map[string]any)
			if !ok {
				m = map[string]any{}
				data[key] = m
			}
			m[child.Value.String()] = nil
		// Collection nodes are placeholders; their children render
		// into an object that joins a list.
		case child.IsCollectionElement():
			elem := map[string]any{}
			for _, e := range child.Children {
				if err := r.objectTree(e, substituteVars, elem); err != nil {
					return err
				}
			}
			lst, _ := data[key].([]any)
			data[key] = append(lst, elem)
		case child.ListMember:
			v, err := r.objectScalar(child, substituteVars)
			if err != nil {
				return err
			}
			lst, _ := data[key].([]any)
			data[key] = append(lst, v)
		case child.IsLeaf():
			v, err := r.objectScalar(child, substituteVars)
			if err != nil {
				return err
			}
			data[key] = v
		default:
			m, ok := data[key].(map[string]any)
			if !ok {
				m = map[string]any{}
				data[key] = m
			}
			if err := r.objectTree(child, substituteVars, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Recipe) objectScalar(node *ir.Node, substituteVars bool) (any, error) {
	if node.Multiline != ir.MultilineNone {
		s := token.NormalizeMultiline(node.Value.Lines(), node.Multiline)
		if substituteVars {
			return jinja.Render(s, r.vars, r.schema)
		}
		out, err := token.ParseLine(s)
		if err != nil {
			return nil, err
		}
		return token.Normalize(out), nil
	}
	v := node.Value.Interface()
	if substituteVars {
		if s, ok := v.(string); ok {
			return jinja.Render(s, r.vars, r.schema)
		}
	}
	return v, nil
}

// Digest returns the SHA-256 of the rendered recipe text, in hex.
func (r *Recipe) Digest() string {
	sum := sha256.Sum256([]byte(r.Render()))
	return hex.EncodeToString(sum[:])
}

// Diff returns a unified diff between the originally parsed text and
// the current state. An unmodified recipe diffs empty.
func (r *Recipe) Diff() (string, error) {
	if !r.modified {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(r.initContent),
		B:        difflib.SplitLines(r.Render()),
		FromFile: "original",
		ToFile:   "current",
		Context:  3,
	})
}
