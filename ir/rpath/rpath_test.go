package rpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	for _, tc := range []struct {
		path string
		want Stack
	}{
		{"/", Stack{"/"}},
		{"/build/number", Stack{"number", "build", "/"}},
		{"/requirements/run/0", Stack{"0", "run", "requirements", "/"}},
		{"/package/", Stack{"package", "/"}},
	} {
		got := Parse(tc.path)
		if d := cmp.Diff(tc.want, got); d != "" {
			t.Errorf("Parse(%q): (-want +got):\n%s", tc.path, d)
		}
	}
}

func TestString(t *testing.T) {
	for _, path := range []string{
		"/",
		"/build/number",
		"/requirements/run/0",
		"/a",
	} {
		if got := Parse(path).String(); got != path {
			t.Errorf("round trip %q: got %q", path, got)
		}
	}
}

func TestJoin(t *testing.T) {
	for _, tc := range []struct {
		base, ext, want string
	}{
		{"/", "foo", "/foo"},
		{"/foo", "bar", "/foo/bar"},
		{"/foo", "/bar", "/foo/bar"},
		{"/foo/", "bar/baz", "/foo/bar/baz"},
		{"", "foo", "/foo"},
	} {
		if got := Join(tc.base, tc.ext); got != tc.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tc.base, tc.ext, got, tc.want)
		}
	}
}

func TestStackOps(t *testing.T) {
	s := Parse("/a/b/1")
	if got := s.Top(); got != "/" {
		t.Errorf("Top() = %q", got)
	}
	if got := s.Front(); got != "1" {
		t.Errorf("Front() = %q", got)
	}
	if !IsIndex(s.Front()) {
		t.Errorf("IsIndex(%q) = false", s.Front())
	}
	if got := s.PopFront(); got != "1" || len(s) != 3 {
		t.Errorf("PopFront() = %q, len %d", got, len(s))
	}
	if got := s.PopTop(); got != "/" || len(s) != 2 {
		t.Errorf("PopTop() = %q, len %d", got, len(s))
	}
}
