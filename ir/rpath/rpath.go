// Package rpath converts between JSON-Pointer-style recipe path strings
// ("/build/number", "/requirements/run/0") and the stack-of-segments
// form used by tree traversal. The root path is the single token "/".
package rpath

import (
	"strconv"
	"strings"
)

// Root is the reserved token identifying the tree root.
const Root = "/"

// Stack holds reversed path segments: the root sentinel sits at the top
// of the stack (the end of the slice) and the final path segment at the
// front. Traversal pops from the top; patch ops peek at the front to
// inspect the last segment without a full walk.
type Stack []string

// Parse deconstructs a path string into a Stack.
//
//	"/foo/bar/baz" -> ["baz", "bar", "foo", "/"]
func Parse(path string) Stack {
	// A trailing slash carries no meaning; only the root token is
	// tracked.
	if strings.HasSuffix(path, Root) {
		path = path[:len(path)-1]
	}
	parts := strings.Split(path, "/")
	res := make(Stack, 0, len(parts))
	for i := len(parts) - 1; i >= 0; i-- {
		p := parts[i]
		if p == "" {
			p = Root
		}
		res = append(res, p)
	}
	return res
}

// String reassembles a stack into a path string. The root token at the
// top of the stack contributes the leading slash.
func (s Stack) String() string {
	var b strings.Builder
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == Root {
			continue
		}
		b.WriteByte('/')
		b.WriteString(s[i])
	}
	if b.Len() == 0 {
		return Root
	}
	return b.String()
}

func (s Stack) Clone() Stack {
	return append(Stack(nil), s...)
}

// Top returns the innermost unconsumed segment.
func (s Stack) Top() string {
	return s[len(s)-1]
}

func (s *Stack) PopTop() string {
	old := *s
	v := old[len(old)-1]
	*s = old[:len(old)-1]
	return v
}

// Front returns the final path segment (the target of the path).
func (s Stack) Front() string {
	return s[0]
}

func (s *Stack) PopFront() string {
	old := *s
	v := old[0]
	*s = old[1:]
	return v
}

func (s Stack) Empty() bool {
	return len(s) == 0
}

// IsIndex reports whether a segment addresses a list position.
func IsIndex(seg string) bool {
	if seg == "" {
		return false
	}
	for _, c := range seg {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Index parses a numeric segment. Callers check IsIndex first.
func Index(seg string) int {
	i, _ := strconv.Atoi(seg)
	return i
}

// Join concatenates two path fragments, normalizing the slashes at the
// seam. The root path "/" inherently carries its trailing slash.
func Join(base, ext string) string {
	if base == "" {
		base = Root
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	ext = strings.TrimPrefix(ext, "/")
	return base + ext
}
