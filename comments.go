package recipe

import (
	"fmt"
	"strings"

	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/token"
)

// GetCommentsTable maps paths to the comments found on their lines.
// Selectors do not count as comments and are stripped. Lines holding
// nothing but a comment have no addressable path and are omitted.
func (r *Recipe) GetCommentsTable() map[string]string {
	tbl := map[string]string{}
	ir.TraverseAll(r.root, func(n *ir.Node, path rpath.Stack) {
		if n.IsComment() || n.Comment == "" {
			return
		}
		comment := n.Comment
		if token.SelectorRE.MatchString(comment) {
			comment = strings.TrimSpace(token.SelectorRE.ReplaceAllString(comment, ""))
			// Artifacts left behind by the removal.
			comment = strings.Replace(comment, "#  # ", "# ", 1)
			comment = strings.Replace(comment, "#  ", "# ", 1)
			if comment == "" || comment == "#" {
				return
			}
			if comment[0] != '#' {
				comment = "# " + comment
			}
		}
		tbl[path.String()] = comment
	})
	return tbl
}

// AddComment puts a comment on the line a path denotes, replacing any
// existing comment. A selector on the line stays, with the comment
// appended after it.
func (r *Recipe) AddComment(path, comment string) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return fmt.Errorf("%w: comment is empty", ErrBadComment)
	}
	if loc := token.SelectorRE.FindStringIndex(comment); loc != nil && loc[0] == 0 {
		return fmt.Errorf("%w: selectors cannot be added as comments: %q", ErrBadComment, comment)
	}

	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		return fmt.Errorf("%w: %q", ErrPathNotFound, path)
	}

	if selector := token.SelectorRE.FindString(node.Comment); selector != "" {
		if comment[0] == '#' {
			comment = strings.TrimSpace(comment[1:])
		}
		comment = "# " + selector + " " + comment
	}
	if comment[0] != '#' {
		comment = "# " + comment
	}

	node.Comment = comment
	// Single-key lines render parent and child together, so the
	// comment is mirrored on both nodes.
	if node.IsSingleKey() {
		node.Children[0].Comment = comment
	}
	r.modified = true
	return nil
}
