package ir

import (
	"fmt"
	"slices"
	"strconv"
)

// Kind enumerates the shapes a Node value can take. KindEmpty is a real
// variant, not a nil trick: it marks nodes that carry no value at all
// (comment-only lines, collection elements, the root). That keeps "no
// value set" statically distinguishable from an explicit YAML null.
type Kind int

const (
	KindEmpty Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindLines
)

func (k Kind) String() string {
	s, ok := map[Kind]string{
		KindEmpty:  "Empty",
		KindNull:   "Null",
		KindBool:   "Bool",
		KindInt:    "Int",
		KindFloat:  "Float",
		KindString: "String",
		KindLines:  "Lines",
	}[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

// Value is a tagged union over the primitive scalar types, a multi-line
// string body (KindLines, an ordered list of raw lines) and the empty
// sentinel.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	lines []string
}

func Empty() Value               { return Value{kind: KindEmpty} }
func Null() Value                { return Value{kind: KindNull} }
func Bool(b bool) Value          { return Value{kind: KindBool, b: b} }
func Int(i int64) Value          { return Value{kind: KindInt, i: i} }
func Float(f float64) Value      { return Value{kind: KindFloat, f: f} }
func String(s string) Value      { return Value{kind: KindString, s: s} }
func Lines(ls []string) Value    { return Value{kind: KindLines, lines: ls} }
func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsEmpty() bool    { return v.kind == KindEmpty }
func (v Value) Bool() bool       { return v.b }
func (v Value) Int() int64       { return v.i }
func (v Value) Float() float64   { return v.f }
func (v Value) String() string   { return v.s }
func (v Value) Lines() []string  { return v.lines }
func (v Value) IsScalar() bool   { return v.kind != KindEmpty && v.kind != KindLines }

// FromAny converts a decoded YAML/JSON scalar into a Value. Integer
// widths are normalized so that values decoded by different front ends
// (goccy unsigned integers, JSON float64 integrals) compare equal.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		return Int(int64(t)), nil
	case float64:
		return Float(t), nil
	case float32:
		return Float(float64(t)), nil
	case string:
		return String(t), nil
	case []string:
		return Lines(t), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrValue, x)
}

// Interface returns the plain-Go rendition of the value. KindEmpty maps
// to nil, as does KindNull; callers that must distinguish the two check
// Kind first. KindLines returns the raw line slice.
func (v Value) Interface() any {
	switch v.kind {
	case KindEmpty, KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindLines:
		return v.lines
	}
	return nil
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEmpty, KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindLines:
		return slices.Equal(v.lines, o.lines)
	}
	return false
}

// Debug rendition used by String()/short dumps.
func (v Value) GoString() string {
	switch v.kind {
	case KindEmpty:
		return "<empty>"
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindLines:
		return fmt.Sprintf("<%d lines>", len(v.lines))
	}
	return "<unknown>"
}
