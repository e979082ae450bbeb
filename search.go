package recipe

import (
	"regexp"

	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/token"
)

// Search returns the paths of every value matching a regular
// expression. Only terminal values are searched; variables and
// selectors have their own listing functions. With includeComment the
// expression also sees the line's comment, separated from the value by
// two spaces.
func (r *Recipe) Search(pattern string, includeComment bool) ([]string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	var paths []string
	ir.TraverseAll(r.root, func(n *ir.Node, path rpath.Stack) {
		if !n.IsLeaf() {
			return
		}
		value := token.Stringify(n.Value, n.Multiline)
		if includeComment && n.Comment != "" {
			value = value + token.TabAsSpaces + n.Comment
		}
		if re.MatchString(value) {
			paths = append(paths, path.String())
		}
	})
	return paths, nil
}
