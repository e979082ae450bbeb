// Package treediff compares two recipe parse trees and reports the
// paths that differ. Keys and list members are aligned with a
// character-level diff over a rune alphabet built from the node
// labels, so insertions in the middle of a mapping or list do not
// cascade into spurious changes below them.
package treediff

import (
	"strconv"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/token"
)

// ChangeKind classifies one reported difference.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Changed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	}
	return "unknown"
}

// Change is one difference between two trees. From and To hold the
// stringified values on either side; an Added change has no From and a
// Removed change has no To.
type Change struct {
	Path string
	Kind ChangeKind
	From string
	To   string
}

// Diff reports the differences between two trees, in the order the
// second tree reaches them. Comment lines never count as differences.
func Diff(from, to *ir.Node) []Change {
	var changes []Change
	diffNodes(from, to, rpath.Root, &changes)
	return changes
}

func diffNodes(from, to *ir.Node, path string, changes *[]Change) {
	fromVal, fromScalar := scalarOf(from)
	toVal, toScalar := scalarOf(to)

	switch {
	case fromScalar && toScalar:
		if !fromVal.Value.Equal(toVal.Value) {
			*changes = append(*changes, Change{
				Path: path,
				Kind: Changed,
				From: token.Stringify(fromVal.Value, fromVal.Multiline),
				To:   token.Stringify(toVal.Value, toVal.Multiline),
			})
		}
	case fromScalar != toScalar:
		// A scalar on one side and a subtree on the other.
		*changes = append(*changes, Change{
			Path: path,
			Kind: Changed,
			From: label(from),
			To:   label(to),
		})
	default:
		diffChildren(from, to, path, changes)
	}
}

// scalarOf resolves the value a path addresses: the node itself for a
// leaf, the lone child for a key-value pair sharing a line. Lists of
// one member stay subtrees so member alignment applies.
func scalarOf(node *ir.Node) (*ir.Node, bool) {
	if node.IsLeaf() {
		return node, true
	}
	if node.IsSingleKey() && !node.Children[0].ListMember {
		return node.Children[0], true
	}
	return nil, false
}

// diffChildren aligns the two child lists by label and recurses into
// the aligned pairs.
func diffChildren(from, to *ir.Node, path string, changes *[]Change) {
	labels := map[string]rune{}
	fromKids := realChildren(from)
	toKids := realChildren(to)
	fromRunes := mapLabels(labels, fromKids)
	toRunes := mapLabels(labels, toKids)

	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)
	fi, ti := 0, 0
	fVirt, tVirt := 0, 0
	for i := range diffs {
		d := &diffs[i]
		switch d.Type {
		case diffpatch.DiffDelete:
			for range d.Text {
				child := fromKids[fi]
				*changes = append(*changes, Change{
					Path: childPath(path, child, fVirt),
					Kind: Removed,
					From: label(child),
				})
				fi++
				fVirt++
			}
		case diffpatch.DiffInsert:
			for range d.Text {
				child := toKids[ti]
				*changes = append(*changes, Change{
					Path: childPath(path, child, tVirt),
					Kind: Added,
					To:   label(child),
				})
				ti++
				tVirt++
			}
		case diffpatch.DiffEqual:
			for range d.Text {
				child := toKids[ti]
				diffNodes(fromKids[fi], child, childPath(path, child, tVirt), changes)
				fi++
				ti++
				fVirt++
				tVirt++
			}
		}
	}
}

// realChildren drops comment lines, mirroring the virtual index space
// used by paths.
func realChildren(node *ir.Node) []*ir.Node {
	kids := make([]*ir.Node, 0, len(node.Children))
	for _, child := range node.Children {
		if child.IsComment() {
			continue
		}
		kids = append(kids, child)
	}
	return kids
}

// mapLabels assigns one rune per distinct child label so the rune
// slices can feed a text diff.
func mapLabels(m map[string]rune, kids []*ir.Node) []rune {
	rs := make([]rune, len(kids))
	for i, child := range kids {
		l := label(child)
		r, ok := m[l]
		if !ok {
			r = rune(len(m))
			m[l] = r
		}
		rs[i] = r
	}
	return rs
}

// label names a child for alignment: keys by their key text, list
// members by their stringified value and collection elements by the
// label of their first real child.
func label(node *ir.Node) string {
	if node.IsCollectionElement() {
		kids := realChildren(node)
		if len(kids) == 0 {
			return "{}"
		}
		return "{" + label(kids[0]) + "}"
	}
	if node.Key || !node.IsLeaf() {
		return node.Value.String() + ":"
	}
	return token.Stringify(node.Value, node.Multiline)
}

// childPath extends a path with a child's addressable segment. List
// members and collection elements address by virtual index.
func childPath(path string, child *ir.Node, virtIdx int) string {
	if child.ListMember {
		return rpath.Join(path, strconv.Itoa(virtIdx))
	}
	return rpath.Join(path, child.Value.String())
}
