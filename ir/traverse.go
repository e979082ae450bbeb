package ir

import (
	"strconv"

	"github.com/recipeforge/go-recipe/ir/rpath"
)

// InvalidIdx marks an index that does not address a list position.
const InvalidIdx = -1

// VirtToPhys builds a lookup table translating user-facing list indices
// to positions in the child slice. Comment nodes are preserved in-order
// for rendering but are invisible to indexed access, so the two index
// spaces diverge whenever a list holds comments.
func VirtToPhys(children []*Node) []int {
	mapping := make([]int, 0, len(children))
	for i, child := range children {
		if child.IsComment() {
			continue
		}
		mapping = append(mapping, i)
	}
	return mapping
}

// PhysToVirt inverts the table produced by VirtToPhys. Positions held
// by comments map to zero and are never consulted.
func PhysToVirt(children []*Node) []int {
	mapping := VirtToPhys(children)
	inv := make([]int, len(children))
	for virt, phys := range mapping {
		inv[phys] = virt
	}
	return inv
}

func traverseRecurse(node *Node, path rpath.Stack) *Node {
	if path.Empty() {
		return node
	}

	part := path.Top()
	if rpath.IsIndex(part) {
		idxMap := VirtToPhys(node.Children)
		virtIdx := rpath.Index(part)
		if virtIdx < 0 || virtIdx >= len(idxMap) {
			return nil
		}
		physIdx := idxMap[virtIdx]
		// Index syntax on a non-list child would expose slice layout
		// details, so it is rejected.
		if !node.Children[physIdx].ListMember {
			return nil
		}
		path.PopTop()
		return traverseRecurse(node.Children[physIdx], path)
	}

	for _, child := range node.Children {
		if child.Value.Kind() == KindString && child.Value.String() == part {
			path.PopTop()
			return traverseRecurse(child, path)
		}
	}
	return nil
}

// Traverse walks the tree along path and returns the addressed node, or
// nil when no node exists there. The stack is consumed.
func Traverse(node *Node, path rpath.Stack) *Node {
	if node == nil || path.Empty() {
		return nil
	}
	if len(path) == 1 {
		if path[0] == rpath.Root {
			return node
		}
		return nil
	}
	path.PopTop()
	return traverseRecurse(node, path)
}

// TraverseWithIndex resolves a path that may terminate in a list index.
// When it does, the parent list node is returned together with the
// virtual and physical index of the target, so callers can splice the
// child slice. Collection elements are the exception: they are abstract
// containers for the element's subtree, so the element node itself is
// returned with both indices invalid.
func TraverseWithIndex(root *Node, path rpath.Stack) (*Node, int, int) {
	if path.Empty() {
		return nil, InvalidIdx, InvalidIdx
	}

	virtIdx, physIdx := InvalidIdx, InvalidIdx
	if rpath.IsIndex(path.Front()) {
		virtIdx = rpath.Index(path.PopFront())
	}

	node := Traverse(root, path)
	if node != nil && virtIdx >= 0 {
		idxMap := VirtToPhys(node.Children)
		if virtIdx >= len(idxMap) {
			return nil, InvalidIdx, InvalidIdx
		}
		physIdx = idxMap[virtIdx]
		if node.Children[physIdx].IsCollectionElement() {
			return node.Children[physIdx], InvalidIdx, InvalidIdx
		}
	}
	return node, virtIdx, physIdx
}

// TraverseAll visits every node in the tree, passing each visited node
// and its path stack to fn. Paths carry virtual list indices, so
// comments inside a list do not shift the positions fn observes.
func TraverseAll(node *Node, fn func(*Node, rpath.Stack)) {
	traverseAll(node, fn, nil, 0)
}

func traverseAll(node *Node, fn func(*Node, rpath.Stack), path rpath.Stack, idxNum int) {
	if node == nil {
		return
	}
	switch {
	case path == nil:
		path = rpath.Stack{rpath.Root}
	case node.ListMember:
		path = append(rpath.Stack{strconv.Itoa(idxNum)}, path...)
	case node.IsEmptyKey() || !node.IsLeaf():
		// Leaf values are not part of the path, except empty keys where
		// the key itself is the addressable part.
		path = append(rpath.Stack{node.Value.String()}, path...)
	}
	fn(node, path.Clone())
	mapping := PhysToVirt(node.Children)
	for i, child := range node.Children {
		traverseAll(child, fn, path, mapping[i])
	}
}
