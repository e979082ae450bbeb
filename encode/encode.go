// Package encode renders a parse tree back to recipe file text. The
// output reproduces the formatting conventions the parser understands:
// two-space indentation, comments re-attached to their lines, multiline
// strings under their block headers and a blank line after every
// top-level section.
package encode

import (
	"strings"

	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/token"
)

// Encode renders the tree rooted at root. The root level itself is
// implied in YAML, so rendering starts one level below it.
func Encode(root *ir.Node, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var lines []string
	Tree(root, -1, &lines)
	out := strings.Join(lines, "\n")
	if o.colors {
		out = colorize(out)
	}
	return out
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(token.TabAsSpaces, depth)
}

func rstrip(s string) string {
	return strings.TrimRight(s, " \t")
}

// Tree renders the subtree under node into lines, at the given depth.
// Pass -1 for a tree root so top-level keys carry no indentation.
func Tree(node *ir.Node, depth int, lines *[]string) {
	tree(node, depth, lines, nil)
}

func tree(node *ir.Node, depth int, lines *[]string, parent *ir.Node) {
	spaces := indent(depth)

	// The first key of an object in a list carries the `- ` prefix.
	// Subsequent keys of the same object only carry indentation.
	isFirstCollectionChild := parent != nil && parent.IsCollectionElement() &&
		node == parent.Children[0]

	// Single key-value pairs share a line.
	if node.IsSingleKey() {
		child := node.Children[0]

		// A list holding one member.
		if child.ListMember {
			if isFirstCollectionChild {
				*lines = append(*lines, rstrip(indent(depth-1)+"- "+node.Value.String()+":  "+node.Comment))
			} else {
				*lines = append(*lines, rstrip(spaces+node.Value.String()+":  "+node.Comment))
			}
			*lines = append(*lines, rstrip(
				spaces+token.TabAsSpaces+"- "+token.Stringify(child.Value, child.Multiline)+"  "+child.Comment))
			return
		}

		if isFirstCollectionChild {
			*lines = append(*lines, rstrip(
				indent(depth-1)+"- "+node.Value.String()+": "+
					token.Stringify(child.Value, ir.MultilineNone)+"  "+child.Comment))
			return
		}

		// Multiline strings render under their block header. A `#`
		// inside the body has no comment meaning.
		if child.Multiline != ir.MultilineNone {
			*lines = append(*lines, rstrip(
				spaces+node.Value.String()+": "+string(child.Multiline)+"  "+node.Comment))
			for _, bodyLine := range child.Value.Lines() {
				*lines = append(*lines, rstrip(
					spaces+token.TabAsSpaces+token.Stringify(ir.String(bodyLine), child.Multiline)))
			}
			return
		}

		*lines = append(*lines, rstrip(
			spaces+node.Value.String()+": "+
				token.Stringify(child.Value, ir.MultilineNone)+"  "+child.Comment))
		return
	}

	depthDelta := 1
	// The root node and collection elements have no line of their own.
	if depth > -1 && !node.IsCollectionElement() {
		listPrefix := ""
		// Scoping the adjusted indent to this line keeps children of a
		// collection element from losing an indent level.
		tmpSpaces := spaces
		if node.ListMember {
			listPrefix = "- "
			depthDelta++
		}
		if isFirstCollectionChild {
			listPrefix = "- "
			tmpSpaces = strings.TrimPrefix(tmpSpaces, token.TabAsSpaces)
		}
		*lines = append(*lines, rstrip(tmpSpaces+listPrefix+node.Value.String()+":  "+node.Comment))
	}

	for _, child := range node.Children {
		// Top-level keys take no extra indentation.
		extraTab := token.TabAsSpaces
		if depth < 0 {
			extraTab = ""
		}
		switch {
		case child.IsComment():
			// Comments in a list indent to list level without the `-`
			// mark.
			*lines = append(*lines, rstrip(spaces+extraTab+child.Comment))
		case child.IsEmptyKey():
			// Renders with a dangling `:` to keep it apart from a leaf.
			*lines = append(*lines, rstrip(
				spaces+extraTab+token.Stringify(child.Value, ir.MultilineNone)+":  "+child.Comment))
		case child.IsLeaf():
			*lines = append(*lines, rstrip(
				spaces+extraTab+"- "+token.Stringify(child.Value, ir.MultilineNone)+"  "+child.Comment))
		default:
			tree(child, depth+depthDelta, lines, node)
		}
		// By tradition a blank line follows every top-level section.
		// Comments stay where they are.
		if depth < 0 && !child.IsComment() {
			*lines = append(*lines, "")
		}
	}
}
