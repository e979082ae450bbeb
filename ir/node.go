package ir

import (
	"fmt"
	"strings"
)

// RootValue is the reserved value that identifies the root node. It
// doubles as the root token of the path addressing scheme.
const RootValue = "/"

// Node is a vertex in a recipe parse tree. Each level of a path is a
// list of child nodes; a leaf is a node with no children. Comments on a
// line are stored separately from the value, and comment-only lines are
// nodes in their own right so that rendering preserves their position.
//
// Variable references are not substituted: the raw strings from the
// file are stored as-is.
type Node struct {
	Value      Value
	Comment    string
	Children   []*Node
	ListMember bool
	Multiline  MultilineVariant
	Key        bool
}

func NewRoot() *Node {
	return &Node{Value: String(RootValue)}
}

// Clone deep-copies a node. The tree is single-owner, so the copy
// shares nothing with the original.
func (n *Node) Clone() *Node {
	res := &Node{
		Value:      n.Value,
		Comment:    n.Comment,
		ListMember: n.ListMember,
		Multiline:  n.Multiline,
		Key:        n.Key,
	}
	if n.Value.Kind() == KindLines {
		res.Value = Lines(append([]string(nil), n.Value.Lines()...))
	}
	if len(n.Children) != 0 {
		res.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			res.Children[i] = c.Clone()
		}
	}
	return res
}

// Equal compares two subtrees. The key flag is deliberately left out,
// matching how equality behaves in patch remove lookups: a key node and
// a value node from the same rendered line compare by content.
func (n *Node) Equal(o *Node) bool {
	if o == nil {
		return false
	}
	if !n.Value.Equal(o.Value) {
		return false
	}
	if n.Comment != o.Comment || n.ListMember != o.ListMember || n.Multiline != o.Multiline {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0 && !n.IsComment()
}

func (n *Node) IsRoot() bool {
	return n.Value.Kind() == KindString && n.Value.String() == RootValue
}

// IsComment reports a comment-only line. Such nodes occupy a physical
// slot in their parent's child list but are invisible to virtual
// (index-based) addressing.
func (n *Node) IsComment() bool {
	return n.Value.IsEmpty() && n.Comment != "" && len(n.Children) == 0
}

// IsEmptyKey reports a "label" line (`key:`) with no children. When
// converted to a plain object the key points at null.
func (n *Node) IsEmptyKey() bool {
	return n.Key && n.IsLeaf()
}

// IsSingleKey reports a key with exactly one leaf child. Such pairs
// render on one line (`key: value`).
func (n *Node) IsSingleKey() bool {
	return n.Key && len(n.Children) == 1 && n.Children[0].IsLeaf()
}

// IsCollectionElement reports a placeholder list member whose children
// form a nested mapping. The element itself has no value.
func (n *Node) IsCollectionElement() bool {
	return n.Value.IsEmpty() && n.ListMember && len(n.Children) != 0
}

func (n *Node) ShortString() string {
	if n.IsComment() {
		return fmt.Sprintf("<Comment: %s>", n.Comment)
	}
	if n.IsCollectionElement() {
		return "<Collection Node>"
	}
	return n.Value.GoString()
}

// DebugString renders the subtree as an indented outline.
func (n *Node) DebugString() string {
	var lines []string
	dumpTree(n, 0, &lines)
	return strings.Join(lines, "\n")
}

func dumpTree(n *Node, depth int, lines *[]string) {
	branch := ""
	if depth > 0 {
		branch = "|- "
	}
	*lines = append(*lines, strings.Repeat("  ", depth)+branch+n.ShortString())
	for _, c := range n.Children {
		dumpTree(c, depth+1, lines)
	}
}
