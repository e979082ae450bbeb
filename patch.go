package recipe

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/recipeforge/go-recipe/debug"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/parse"
)

// PatchOp is one RFC 6902 operation, adjusted for recipe files: paths
// address the parse tree, and comment lines are invisible to indices.
type PatchOp struct {
	Kind  string
	Path  string
	From  string
	Value any

	hasValue bool
}

// AddOp builds an add operation. A trailing `/-` path segment appends
// to a list.
func AddOp(path string, value any) PatchOp {
	return PatchOp{Kind: "add", Path: path, Value: value, hasValue: true}
}

// RemoveOp builds a remove operation.
func RemoveOp(path string) PatchOp {
	return PatchOp{Kind: "remove", Path: path}
}

// ReplaceOp builds a replace operation.
func ReplaceOp(path string, value any) PatchOp {
	return PatchOp{Kind: "replace", Path: path, Value: value, hasValue: true}
}

// MoveOp builds a move operation from one path to another.
func MoveOp(from, path string) PatchOp {
	return PatchOp{Kind: "move", Path: path, From: from}
}

// CopyOp builds a copy operation from one path to another.
func CopyOp(from, path string) PatchOp {
	return PatchOp{Kind: "copy", Path: path, From: from}
}

// TestOp builds a test operation. Testing never modifies the recipe.
func TestOp(path string, value any) PatchOp {
	return PatchOp{Kind: "test", Path: path, Value: value, hasValue: true}
}

func (p PatchOp) validate() error {
	if p.Path == "" {
		return fmt.Errorf("%w: missing path", ErrBadPatch)
	}
	switch p.Kind {
	case "add", "replace", "test":
		if !p.hasValue {
			return fmt.Errorf("%w: %s requires a value", ErrBadPatch, p.Kind)
		}
	case "move", "copy":
		if p.From == "" {
			return fmt.Errorf("%w: %s requires a from path", ErrBadPatch, p.Kind)
		}
	case "remove":
	default:
		return fmt.Errorf("%w: unknown op %q", ErrBadPatch, p.Kind)
	}
	return nil
}

// Patch applies one operation to the recipe. The boolean reports
// whether the operation took effect; for test ops it is the test
// verdict. An error means the operation itself was malformed.
func (r *Recipe) Patch(op PatchOp) (bool, error) {
	if err := op.validate(); err != nil {
		return false, err
	}

	// A no-op move must not trip the modification flag.
	if op.Kind == "move" && op.Path == op.From {
		return true, nil
	}

	ok := r.applyPatchOp(op)
	if debug.Patch() {
		debug.Logf("patch %s %s -> %t\n", op.Kind, op.Path, ok)
	}

	if ok && op.Kind != "test" {
		r.rebuildSelectors()
		r.modified = true
	}
	return ok, nil
}

func (r *Recipe) applyPatchOp(op PatchOp) bool {
	path := rpath.Parse(op.Path)
	switch op.Kind {
	case "add":
		return r.patchAdd(path, op.Value)
	case "remove":
		return r.patchRemove(path)
	case "replace":
		return r.patchReplace(path, op.Value)
	case "move":
		return r.patchMove(path, op.From)
	case "copy":
		return r.patchCopy(path, op.From)
	case "test":
		return r.patchTest(op.Path, op.Value)
	}
	return false
}

// isValidPatchNode checks a patch target per the RFC path rules. Leaf
// nodes hold values, not path positions, so only list members and keys
// may be addressed directly. nodeIdx is the virtual list index when the
// target is a list member, negative otherwise.
func isValidPatchNode(node *ir.Node, nodeIdx int) bool {
	if node == nil {
		return false
	}
	if !node.ListMember && !node.Key && node.IsLeaf() {
		return false
	}
	if nodeIdx >= 0 {
		idxMap := ir.VirtToPhys(node.Children)
		if nodeIdx > len(idxMap)-1 {
			return false
		}
		// Index access only applies to lists.
		if len(node.Children) > 0 && !node.Children[idxMap[nodeIdx]].ListMember {
			return false
		}
	}
	return true
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case nil, bool, int, int64, float64, string:
		return true
	}
	return false
}

// patchAddFindTarget locates the target of an add without modifying
// the tree. Per the RFC the containing object must already exist, so
// at most one missing path level may be synthesized; that level comes
// back as pathToCreate. appendToList is set when the path ends in `-`.
func (r *Recipe) patchAddFindTarget(path rpath.Stack) (node *ir.Node, virtIdx, physIdx int, pathToCreate string, appendToList bool) {
	if path.Empty() {
		return nil, ir.InvalidIdx, ir.InvalidIdx, "", false
	}

	if path.Front() == "-" {
		path.PopFront()
		appendToList = true
	}

	node, virtIdx, physIdx = ir.TraverseWithIndex(r.root, path.Clone())
	// Appending to a missing list would create two levels, which the
	// RFC disallows.
	if node == nil && !appendToList {
		retry := path.Clone()
		pathToCreate = retry.PopFront()
		node, virtIdx, physIdx = ir.TraverseWithIndex(r.root, retry)
	}
	return node, virtIdx, physIdx, pathToCreate, appendToList
}

func (r *Recipe) patchAdd(path rpath.Stack, value any) bool {
	node, virtIdx, physIdx, pathToCreate, appendToList := r.patchAddFindTarget(path)
	if !isValidPatchNode(node, virtIdx) {
		return false
	}

	// Re-root the new subtree under the level being created.
	if pathToCreate != "" {
		value = map[string]any{pathToCreate: value}
	}

	newChildren, err := parse.GenerateSubtree(value)
	if err != nil {
		return false
	}
	if appendToList || physIdx > ir.InvalidIdx {
		// Objects in lists live under a collection node.
		if !isPrimitive(value) {
			newChildren = []*ir.Node{{Value: ir.Empty(), ListMember: true, Children: newChildren}}
		} else {
			for _, child := range newChildren {
				child.ListMember = true
			}
		}
	}

	switch {
	case physIdx > ir.InvalidIdx:
		node.Children = append(node.Children[:physIdx],
			append(newChildren, node.Children[physIdx:]...)...)
	case appendToList || pathToCreate != "":
		node.Children = append(node.Children, newChildren...)
	default:
		// The RFC replaces members that already exist.
		node.Children = newChildren
	}
	return true
}

func (r *Recipe) patchRemove(path rpath.Stack) bool {
	if path.Empty() {
		return false
	}

	// Eviction goes through the parent node.
	nodeIdx := ir.InvalidIdx
	if rpath.IsIndex(path.Front()) {
		nodeIdx = rpath.Index(path.Front())
	}
	nodeToRm := ir.Traverse(r.root, path.Clone())
	if !isValidPatchNode(nodeToRm, ir.InvalidIdx) {
		return false
	}

	parentPath := path.Clone()
	parentPath.PopFront()
	node := ir.Traverse(r.root, parentPath)
	if !isValidPatchNode(node, nodeIdx) {
		return false
	}

	if nodeIdx > ir.InvalidIdx {
		// Pop the physical index so comment lines stay put.
		phys := ir.VirtToPhys(node.Children)[nodeIdx]
		node.Children = append(node.Children[:phys], node.Children[phys+1:]...)
		return true
	}

	for i, child := range node.Children {
		if child == nodeToRm {
			node.Children = append(node.Children[:i], node.Children[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Recipe) patchReplace(path rpath.Stack, value any) bool {
	node, virtIdx, physIdx := ir.TraverseWithIndex(r.root, path)
	if !isValidPatchNode(node, virtIdx) {
		return false
	}

	newChildren, err := parse.GenerateSubtree(value)
	if err != nil {
		return false
	}

	// List targets splice the new children in, then evict the old
	// member now sitting behind them.
	if physIdx > ir.InvalidIdx {
		if !isPrimitive(value) {
			newChildren = []*ir.Node{{Value: ir.Empty(), ListMember: true, Children: newChildren}}
		} else {
			for _, child := range newChildren {
				child.ListMember = true
			}
		}
		node.Children = append(node.Children[:physIdx],
			append(newChildren, node.Children[physIdx:]...)...)
		old := physIdx + len(newChildren)
		node.Children = append(node.Children[:old], node.Children[old+1:]...)
		return true
	}

	node.Children = newChildren
	return true
}

func (r *Recipe) patchMove(path rpath.Stack, from string) bool {
	// Per the RFC, move is remove-from followed by add-at-target. The
	// add target is validated first so a failed move cannot lose data.
	original, err := r.GetValue(from)
	if err != nil {
		return false
	}

	node, virtIdx, _, _, _ := r.patchAddFindTarget(path.Clone())
	if !isValidPatchNode(node, virtIdx) {
		return false
	}

	return r.patchRemove(rpath.Parse(from)) && r.patchAdd(path, original)
}

func (r *Recipe) patchCopy(path rpath.Stack, from string) bool {
	original, err := r.GetValue(from)
	if err != nil {
		return false
	}
	return r.patchAdd(path, original)
}

func (r *Recipe) patchTest(path string, value any) bool {
	v, err := r.GetValue(path)
	if err != nil {
		return false
	}
	return reflect.DeepEqual(v, value)
}

// PatchJSON applies a JSON-encoded RFC 6902 patch document (an array
// of operations) in order. It reports whether every operation took
// effect.
func (r *Recipe) PatchJSON(data []byte) (bool, error) {
	patch, err := jsonpatch.DecodePatch(data)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}

	ok := true
	for _, raw := range patch {
		op, err := decodePatchOp(raw)
		if err != nil {
			return false, err
		}
		res, err := r.Patch(op)
		if err != nil {
			return false, err
		}
		ok = ok && res
	}
	return ok, nil
}

// decodePatchOp converts a decoded operation to a PatchOp, rejecting
// unknown fields.
func decodePatchOp(raw jsonpatch.Operation) (PatchOp, error) {
	for key := range raw {
		switch key {
		case "op", "path", "value", "from":
		default:
			return PatchOp{}, fmt.Errorf("%w: unknown field %q", ErrBadPatch, key)
		}
	}

	op := PatchOp{Kind: raw.Kind()}
	path, err := raw.Path()
	if err != nil {
		return PatchOp{}, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}
	op.Path = path
	if from, err := raw.From(); err == nil {
		op.From = from
	}
	if rawValue, ok := raw["value"]; ok && rawValue != nil {
		var v any
		if err := json.Unmarshal(*rawValue, &v); err != nil {
			return PatchOp{}, fmt.Errorf("%w: %v", ErrBadPatch, err)
		}
		op.Value = normalizeJSONNumbers(v)
		op.hasValue = true
	}
	return op, nil
}

// normalizeJSONNumbers rewrites integral float64 values, which is all
// encoding/json produces, back to int64 so integer round trips hold.
func normalizeJSONNumbers(v any) any {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
	case []any:
		for i := range t {
			t[i] = normalizeJSONNumbers(t[i])
		}
	case map[string]any:
		for k := range t {
			t[k] = normalizeJSONNumbers(t[k])
		}
	}
	return v
}

// SearchAndPatch applies a patch at every path whose value matches the
// regular expression. The operation's own path is ignored; the matched
// paths substitute for it. Reports whether every application succeeded.
func (r *Recipe) SearchAndPatch(pattern string, op PatchOp, includeComment bool) (bool, error) {
	paths, err := r.Search(pattern, includeComment)
	if err != nil {
		return false, err
	}
	all := true
	for _, path := range paths {
		op.Path = path
		ok, err := r.Patch(op)
		if err != nil {
			return false, err
		}
		all = all && ok
	}
	return all, nil
}

// SortSubtreeKeys reorders one level of keys under a path into the
// order a table prescribes. Comments float to the top, keys the table
// does not know sink to the bottom, and ties keep their relative
// order. An optional rename replaces the key at the path itself. An
// unknown path makes no changes.
func (r *Recipe) SortSubtreeKeys(path string, tbl map[string]int, rename string) {
	node := ir.Traverse(r.root, rpath.Parse(path))
	if node == nil {
		return
	}
	if rename != "" {
		node.Value = ir.String(rename)
	}
	sort.SliceStable(node.Children, func(i, j int) bool {
		return sortPriority(node.Children[i], tbl) < sortPriority(node.Children[j], tbl)
	})
}

func sortPriority(n *ir.Node, tbl map[string]int) int {
	const maxInt = int(^uint(0) >> 1)
	if n.IsComment() {
		return -maxInt
	}
	if n.Value.Kind() != ir.KindString {
		return maxInt
	}
	p, ok := tbl[n.Value.String()]
	if !ok {
		return maxInt
	}
	return p
}
