package recipe

import (
	"fmt"
	"regexp"

	"github.com/recipeforge/go-recipe/format"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/jinja"
)

// ListVariables returns template variable names in declaration order.
func (r *Recipe) ListVariables() []string {
	return r.vars.Keys()
}

// ContainsVariable reports whether a template variable is defined.
func (r *Recipe) ContainsVariable(name string) bool {
	return r.vars.Contains(name)
}

// GetVariable returns the value of a template variable. WithDefault is
// honored; SubstituteVars is meaningless here and ignored.
func (r *Recipe) GetVariable(name string, opts ...GetOption) (any, error) {
	var o getOpts
	for _, opt := range opts {
		opt(&o)
	}
	v, ok := r.vars.Get(name)
	if !ok {
		if o.hasDef {
			return o.def, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
	}
	return v, nil
}

// SetVariable adds or changes a template variable.
func (r *Recipe) SetVariable(name string, value any) {
	r.vars.Set(name, value)
	r.modified = true
}

// DelVariable removes a template variable. Unknown names make no
// changes.
func (r *Recipe) DelVariable(name string) {
	if r.vars.Delete(name) {
		r.modified = true
	}
}

// ClearVariables drops the whole template variable table. Rendering
// afterwards emits no variable declarations.
func (r *Recipe) ClearVariables() {
	if r.vars.Len() == 0 {
		return
	}
	r.vars = jinja.NewVars()
	r.modified = true
}

// GetVariableReferences returns the paths of every value that uses a
// template variable, in tree order without duplicates.
func (r *Recipe) GetVariableReferences(name string) []string {
	if !r.vars.Contains(name) {
		return nil
	}
	var re *regexp.Regexp
	if r.schema == format.V1 {
		re = regexp.MustCompile(`\$\{\{.*` + regexp.QuoteMeta(name) + `.*\}\}`)
	} else {
		re = regexp.MustCompile(`\{\{.*` + regexp.QuoteMeta(name) + `.*\}\}`)
	}

	seen := map[string]bool{}
	var paths []string
	ir.TraverseAll(r.root, func(n *ir.Node, path rpath.Stack) {
		if !n.IsLeaf() || n.Value.Kind() != ir.KindString {
			return
		}
		if !re.MatchString(n.Value.String()) {
			return
		}
		p := path.String()
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	})
	return paths
}
