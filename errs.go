package recipe

import "errors"

var (
	// ErrPathNotFound reports a path that does not resolve to a node.
	ErrPathNotFound = errors.New("path not found")
	// ErrVariableNotFound reports an unknown template variable.
	ErrVariableNotFound = errors.New("variable not found")
	// ErrSelectorNotFound reports a path that carries no selector.
	ErrSelectorNotFound = errors.New("selector not found")
	// ErrBadSelector reports malformed selector syntax.
	ErrBadSelector = errors.New("bad selector")
	// ErrBadComment reports a rejected comment string.
	ErrBadComment = errors.New("bad comment")
	// ErrBadPatch reports a patch payload that fails schema validation.
	ErrBadPatch = errors.New("bad patch")
	// ErrBadValue reports an unsupported value type.
	ErrBadValue = errors.New("bad value")
)
