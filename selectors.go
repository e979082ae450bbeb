package recipe

import (
	"fmt"
	"strings"

	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/token"
)

// SelectorConflictMode decides what happens when AddSelector targets a
// line that already carries a selector.
type SelectorConflictMode int

const (
	// SelectorReplace discards the old selector.
	SelectorReplace SelectorConflictMode = iota
	// SelectorAnd conjoins the new selector with the old one.
	SelectorAnd
	// SelectorOr disjoins the new selector with the old one.
	SelectorOr
)

// ListSelectors returns every selector in the recipe, in order of
// first appearance.
func (r *Recipe) ListSelectors() []string {
	out := make([]string, len(r.selectorOrder))
	copy(out, r.selectorOrder)
	return out
}

// ContainsSelector reports whether a selector, brackets included,
// appears in the recipe.
func (r *Recipe) ContainsSelector(selector string) bool {
	_, ok := r.selectorTbl[selector]
	return ok
}

// SelectorInstances returns every occurrence of a selector with the
// node it annotates. Lines pairing a key with its value report two
// instances, one per node.
func (r *Recipe) SelectorInstances(selector string) []SelectorInfo {
	infos := r.selectorTbl[selector]
	out := make([]SelectorInfo, len(infos))
	copy(out, infos)
	return out
}

// GetSelectorPaths returns the paths using a selector, in order of
// first appearance. Paths sharing a line are reported once.
func (r *Recipe) GetSelectorPaths(selector string) []string {
	infos, ok := r.selectorTbl[selector]
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var paths []string
	for _, info := range infos {
		if !seen[info.Path] {
			seen[info.Path] = true
			paths = append(paths, info.Path)
		}
	}
	return paths
}

// ContainsSelectorAtPath reports whether the line a path denotes
// carries a selector.
func (r *Recipe) ContainsSelectorAtPath(path string) bool {
	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		return false
	}
	return token.SelectorRE.FindString(node.Comment) != ""
}

// GetSelectorAtPath returns the selector on the line a path denotes.
// With WithDefault, a missing selector returns the default instead of
// an error; the default must itself look like a selector.
func (r *Recipe) GetSelectorAtPath(path string, opts ...GetOption) (string, error) {
	var o getOpts
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasDef {
		def, ok := o.def.(string)
		if !ok || token.SelectorRE.FindString(def) == "" {
			return "", fmt.Errorf("%w: default %v is not a selector", ErrBadSelector, o.def)
		}
	}

	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		return "", fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	sel := token.SelectorRE.FindString(node.Comment)
	if sel == "" {
		if o.hasDef {
			return o.def.(string), nil
		}
		return "", fmt.Errorf("%w: no selector at %q", ErrSelectorNotFound, path)
	}
	return sel, nil
}

// stripBrackets removes the outermost bracket pair of a selector.
func stripBrackets(s string) string {
	s = strings.Replace(s, "[", "", 1)
	if i := strings.LastIndex(s, "]"); i >= 0 {
		s = s[:i] + s[i+1:]
	}
	return s
}

// AddSelector puts a selector, surrounding brackets included, on the
// line a path denotes. The conflict mode decides how an existing
// selector is merged.
func (r *Recipe) AddSelector(path, selector string, mode SelectorConflictMode) error {
	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		return fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}
	if token.SelectorRE.FindString(selector) != selector || selector == "" {
		return fmt.Errorf("%w: %q", ErrBadSelector, selector)
	}

	var comment string
	oldSelector := token.SelectorRE.FindString(node.Comment)
	switch {
	case node.Comment == "" || mode == SelectorReplace:
		comment = "# " + selector
	case oldSelector != "":
		logicOp := "or"
		if mode == SelectorAnd {
			logicOp = "and"
		}
		comment = fmt.Sprintf("# [%s %s %s]",
			stripBrackets(oldSelector), logicOp, stripBrackets(selector))
	default:
		// A plain comment moves behind the new selector.
		comment = "# " + selector + " " +
			strings.TrimSpace(strings.Replace(node.Comment, "#", "", 1))
	}

	node.Comment = comment
	// Single-key lines render parent and child together, so the
	// comment is mirrored on both nodes.
	if node.IsSingleKey() {
		node.Children[0].Comment = comment
	}

	r.rebuildSelectors()
	r.modified = true
	return nil
}

// RemoveSelector removes the selector on the line a path denotes and
// returns it, keeping any comment that follows it. Lines without a
// selector return "" and make no changes.
func (r *Recipe) RemoveSelector(path string) (string, error) {
	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		return "", fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}

	selector := token.SelectorRE.FindString(node.Comment)
	if selector == "" {
		return "", nil
	}

	comment := strings.Replace(node.Comment, selector, "", 1)
	// Removal artifacts: doubled spacing and doubled comment markers.
	comment = strings.ReplaceAll(comment, "#  ", "# ")
	comment = strings.ReplaceAll(comment, "# # ", "# ")
	if strings.TrimSpace(comment) == "#" {
		comment = ""
	}

	node.Comment = comment
	if node.IsSingleKey() {
		node.Children[0].Comment = comment
	}

	r.rebuildSelectors()
	r.modified = true
	return selector, nil
}
