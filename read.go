package recipe

import (
	"fmt"
	"strings"

	"github.com/recipeforge/go-recipe/encode"
	"github.com/recipeforge/go-recipe/format"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/jinja"
	"github.com/recipeforge/go-recipe/token"
)

type getOpts struct {
	def     any
	hasDef  bool
	subVars bool
}

// GetOption configures GetValue.
type GetOption func(*getOpts)

// WithDefault makes GetValue return v instead of an error when the path
// is not found.
func WithDefault(v any) GetOption {
	return func(o *getOpts) {
		o.def = v
		o.hasDef = true
	}
}

// SubstituteVars makes GetValue render template expressions in the
// result with their set values. Unresolvable expressions are escaped
// with `${{ }}`.
func SubstituteVars() GetOption {
	return func(o *getOpts) {
		o.subVars = true
	}
}

// ContainsValue reports whether a path exists in the recipe.
func (r *Recipe) ContainsValue(path string) bool {
	return ir.Traverse(r.root, rpath.Parse(path)) != nil
}

// GetValue retrieves the value at a path. Collections come back as
// map[string]any or []any; scalars as bool, int64, float64 or string.
func (r *Recipe) GetValue(path string, opts ...GetOption) (any, error) {
	var o getOpts
	for _, opt := range opts {
		opt(&o)
	}

	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		if o.hasDef {
			return o.def, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}

	var value ir.Value
	switch {
	case node.IsSingleKey() && !node.IsRoot():
		child := node.Children[0]
		if child.Multiline != ir.MultilineNone {
			normalized := token.NormalizeMultiline(child.Value.Lines(), child.Multiline)
			if o.subVars {
				return jinja.Render(normalized, r.vars, r.schema)
			}
			out, err := token.ParseLine(normalized)
			if err != nil {
				return nil, err
			}
			return token.Normalize(out), nil
		}
		value = child.Value
	case node.IsLeaf():
		value = node.Value
	default:
		// Rendering the subtree and re-decoding it reuses the codec
		// instead of duplicating its edge cases.
		var lines []string
		encode.Tree(node, -1, &lines)
		value = ir.String(strings.Join(lines, "\n"))
	}

	if value.Kind() != ir.KindString {
		return value.Interface(), nil
	}

	parsed, err := r.parseValue(value.String(), o.subVars)
	if err != nil {
		return nil, err
	}
	// A single-member list loses its list on re-decoding; re-wrap it.
	if _, isList := parsed.([]any); !isList &&
		len(node.Children) == 1 && node.Children[0].ListMember {
		return []any{parsed}, nil
	}
	return parsed, nil
}

// parseValue decodes rendered YAML text, optionally substituting
// template variables in every string it contains.
func (r *Recipe) parseValue(s string, subVars bool) (any, error) {
	out, err := token.ParseLine(s)
	if err != nil {
		return nil, err
	}
	out = token.Normalize(out)
	if !subVars {
		return out, nil
	}
	return r.subVarsRecursive(out)
}

func (r *Recipe) subVarsRecursive(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return jinja.Render(t, r.vars, r.schema)
	case []any:
		for i := range t {
			sub, err := r.subVarsRecursive(t[i])
			if err != nil {
				return nil, err
			}
			t[i] = sub
		}
		return t, nil
	case map[string]any:
		for k := range t {
			sub, err := r.subVarsRecursive(t[k])
			if err != nil {
				return nil, err
			}
			t[k] = sub
		}
		return t, nil
	}
	return v, nil
}

// ChildKeys returns the keys directly under a mapping path, in file
// order. Non-mapping paths return nothing.
func (r *Recipe) ChildKeys(path string) []string {
	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		return nil
	}
	var keys []string
	for _, child := range node.Children {
		if child.IsComment() || child.ListMember || child.Value.Kind() != ir.KindString {
			continue
		}
		if !child.Key && child.IsLeaf() {
			continue
		}
		keys = append(keys, child.Value.String())
	}
	return keys
}

// ListValuePaths returns every terminal path in the parse tree, useful
// as a starting point for search operations.
func (r *Recipe) ListValuePaths() []string {
	var lst []string
	ir.TraverseAll(r.root, func(n *ir.Node, path rpath.Stack) {
		if n.IsLeaf() {
			lst = append(lst, path.String())
		}
	})
	return lst
}

// FindValue returns all paths holding the given value. Only scalars can
// be searched for. A nil value finds explicit nulls and empty keys,
// which imply null.
func (r *Recipe) FindValue(value any) ([]string, error) {
	want, err := ir.FromAny(value)
	if err != nil || want.Kind() == ir.KindLines {
		return nil, fmt.Errorf("%w: non-scalar search value %v", ErrBadValue, value)
	}

	var paths []string
	ir.TraverseAll(r.root, func(n *ir.Node, path rpath.Stack) {
		// Kinds are compared so booleans are not reduced to truthiness.
		if (want.Kind() == ir.KindNull && n.IsEmptyKey()) ||
			(n.IsLeaf() && n.Value.Equal(want)) {
			paths = append(paths, path.String())
		}
	})
	return paths, nil
}

// RecipeName returns the name of the recipe. The name identifies a
// recipe but is not guaranteed unique. The second return is false in
// the unlikely case no name is present.
func (r *Recipe) RecipeName() (string, bool) {
	path := "/package/name"
	if r.schema == format.V1 && r.IsMultiOutput() {
		path = "/recipe/name"
	}
	v, err := r.GetValue(path, SubstituteVars())
	if err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IsMultiOutput reports whether the recipe produces multiple outputs.
func (r *Recipe) IsMultiOutput() bool {
	return r.ContainsValue("/outputs")
}

// GetPackagePaths returns the root path plus the path of every entry
// under /outputs. Recipes may configure packages at the top level, per
// output, or both.
func (r *Recipe) GetPackagePaths() []string {
	paths := []string{"/"}
	if outputs, err := r.GetValue("/outputs"); err == nil {
		if lst, ok := outputs.([]any); ok {
			for i := range lst {
				paths = append(paths, fmt.Sprintf("/outputs/%d", i))
			}
		}
	}
	return paths
}

// DependencySection names a requirements section of a recipe.
type DependencySection int

const (
	DepBuild DependencySection = iota
	DepHost
	DepRun
	DepRunConstraints
	DepRunExports
	DepTests
)

// SectionName returns the key a dependency section uses in the file,
// which differs between schema versions.
func (d DependencySection) SectionName(schema format.SchemaVersion) string {
	switch d {
	case DepBuild:
		return "build"
	case DepHost:
		return "host"
	case DepRun:
		return "run"
	case DepRunConstraints:
		if schema == format.V1 {
			return "run_constraints"
		}
		return "run_constrained"
	case DepRunExports:
		return "run_exports"
	case DepTests:
		return "requires"
	}
	return ""
}

// GetDependencyPaths returns the path of every dependency line in the
// recipe, covering top-level and per-output requirements.
func (r *Recipe) GetDependencyPaths() []string {
	var paths []string
	sections := []DependencySection{DepBuild, DepHost, DepRun, DepRunConstraints}

	scan := func(prefix string) {
		for _, section := range sections {
			sectionPath := prefix + "/requirements/" + section.SectionName(r.schema)
			// GetValue only sees literal values, skipping the comments
			// between dependencies.
			deps, err := r.GetValue(sectionPath)
			if err != nil {
				continue
			}
			if lst, ok := deps.([]any); ok {
				for i := range lst {
					paths = append(paths, fmt.Sprintf("%s/%d", sectionPath, i))
				}
			}
		}
	}

	scan("")
	if outputs, err := r.GetValue("/outputs"); err == nil {
		if lst, ok := outputs.([]any); ok {
			for i := range lst {
				scan(fmt.Sprintf("/outputs/%d", i))
			}
		}
	}
	return paths
}
