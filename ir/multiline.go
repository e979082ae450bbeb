package ir

import "fmt"

// MultilineVariant records which YAML block-scalar header introduced a
// multi-line value, so rendering can reproduce it exactly.
type MultilineVariant string

const (
	MultilineNone      MultilineVariant = ""
	MultilinePipe      MultilineVariant = "|"
	MultilinePipePlus  MultilineVariant = "|+"
	MultilinePipeMinus MultilineVariant = "|-"
	MultilineFold      MultilineVariant = ">"
	MultilineFoldPlus  MultilineVariant = ">+"
	MultilineFoldMinus MultilineVariant = ">-"
)

func ParseMultilineVariant(s string) (MultilineVariant, error) {
	switch MultilineVariant(s) {
	case MultilineNone, MultilinePipe, MultilinePipePlus, MultilinePipeMinus,
		MultilineFold, MultilineFoldPlus, MultilineFoldMinus:
		return MultilineVariant(s), nil
	}
	return MultilineNone, fmt.Errorf("%w: multiline variant %q", ErrValue, s)
}
