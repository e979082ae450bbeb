// Package parse turns recipe file text into a comment-preserving parse
// tree. The grammar is the YAML subset used by recipe files plus the
// template syntax layered on top of it: whole-line template statements
// are stripped before parsing, inline expressions are kept verbatim as
// string values.
package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/recipeforge/go-recipe/debug"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/token"
)

// ErrParse wraps all tree construction failures.
var ErrParse = errors.New("parse error")

// Parse reads recipe text line by line and builds the parse tree. A
// stack tracks the last owning node per indentation level; relative
// depth changes push and pop it.
func Parse(content string) (*ir.Node, error) {
	root := ir.NewRoot()
	// Whole-line template statements vanish from the tree. Variable
	// assignments are recovered separately from the raw text.
	sanitized := token.JinjaLineRE.ReplaceAllString(content, "")

	nodeStack := []*ir.Node{root}
	curIndent := 0
	lastNode := root

	lines := strings.Split(sanitized, "\n")
	// A trailing newline is file termination, not an extra blank line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	numLines := len(lines)
	lineIdx := 0
	for lineIdx < numLines {
		line := lines[lineIdx]
		// Increment before multiline handling so the inner loop leaves
		// the index on the first line of the next node.
		lineIdx++
		cleanLine := strings.TrimSpace(line)
		if cleanLine == "" {
			continue
		}

		newIndent := token.NumIndentSpaces(line)
		newNode, err := ParseLineNode(cleanLine)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrParse, lineIdx, err)
		}

		// A line ending in `|`, `>` or a chomping variant owns the
		// extra-indented lines that follow. Per the YAML spec those
		// lines cannot hold comments: `#` is a string character there.
		if m := token.MultilineRE.FindStringSubmatch(line); m != nil {
			variant := m[token.MultilineVariantGroupChar] + m[token.MultilineVariantGroupSuffix]
			var body []string
			for lineIdx < numLines {
				ml := lines[lineIdx]
				// Blank lines are valid inside multiline strings.
				if ml != "" && token.NumIndentSpaces(ml) <= newIndent {
					break
				}
				body = append(body, strings.TrimSpace(ml))
				lineIdx++
			}
			newNode.Children = []*ir.Node{{
				Value:     ir.Lines(body),
				Multiline: ir.MultilineVariant(variant),
			}}
		}

		switch {
		case newIndent > curIndent:
			nodeStack = append(nodeStack, lastNode)
			// The first element of a list of objects that is not a
			// one-line key-value pair joins the stack too, keeping the
			// composition intact.
			if lastNode.IsCollectionElement() && !lastNode.Children[0].IsSingleKey() {
				nodeStack = append(nodeStack, lastNode.Children[0])
			}
		case newIndent < curIndent:
			// Multiple levels can close between two lines.
			depthToPop := (curIndent - newIndent) / token.TabSpaceCount
			for i := 0; i < depthToPop && len(nodeStack) > 1; i++ {
				nodeStack = nodeStack[:len(nodeStack)-1]
			}
		}
		curIndent = newIndent

		parent := nodeStack[len(nodeStack)-1]
		parent.Children = append(parent.Children, newNode)
		lastNode = newNode
	}

	if debug.Parse() {
		debug.Logf("parsed tree:\n%s", root.DebugString())
	}
	return root, nil
}

// ParseLineNode parses one pre-stripped, non-template line into a node.
// Fully commented lines become nodes of their own so rendering keeps
// their position.
func ParseLineNode(s string) (*ir.Node, error) {
	if strings.HasPrefix(s, "#") {
		return &ir.Node{Value: ir.Empty(), Comment: s}, nil
	}

	// A `#` with whitespace on its left starts a trailing comment. One
	// touching a character on its left is part of a string.
	comment := ""
	if loc := token.TrailingCommentRE.FindStringSubmatchIndex(s); loc != nil {
		comment = s[loc[4]:]
	}

	output, err := token.ParseLine(s)
	if err != nil {
		return nil, err
	}

	switch t := output.(type) {
	case yaml.MapSlice:
		// A key, and potentially a value, share this line. The comment
		// tags to both.
		return mappingNode(t, comment)
	case []any:
		if len(t) == 0 {
			return nil, fmt.Errorf("%w: empty list item %q", ErrParse, s)
		}
		// One line can hold a list member that is itself a key-value
		// pair (`- foo: bar`), common in multi-output recipe files. The
		// member becomes a collection element holding the pair.
		if ms, ok := t[0].(yaml.MapSlice); ok {
			keyNode, err := mappingNode(ms, comment)
			if err != nil {
				return nil, err
			}
			elem := &ir.Node{Value: ir.Empty(), Comment: comment, ListMember: true}
			elem.Children = append(elem.Children, keyNode)
			return elem, nil
		}
		v, err := ir.FromAny(t[0])
		if err != nil {
			return nil, err
		}
		return &ir.Node{Value: v, Comment: comment, ListMember: true}, nil
	}

	v, err := ir.FromAny(output)
	if err != nil {
		return nil, err
	}
	return &ir.Node{Value: v, Comment: comment}, nil
}

func mappingNode(ms yaml.MapSlice, comment string) (*ir.Node, error) {
	if len(ms) == 0 {
		return nil, fmt.Errorf("%w: empty mapping", ErrParse)
	}
	key := fmt.Sprintf("%v", ms[0].Key)
	node := &ir.Node{Value: ir.String(key), Comment: comment, Key: true}
	if ms[0].Value != nil {
		v, err := ir.FromAny(ms[0].Value)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, &ir.Node{Value: v, Comment: comment})
	}
	return node, nil
}

// GenerateSubtree converts a plain value into parse tree children, the
// building block for patching new data into an existing tree.
func GenerateSubtree(value any) ([]*ir.Node, error) {
	// Strings holding newlines become a single multiline leaf. The
	// plain-value form is lossy here; `|` is the closest equivalent
	// since it preserves the newlines.
	if s, ok := value.(string); ok && strings.Contains(s, "\n") {
		return []*ir.Node{{
			Value:     ir.Lines(strings.Split(s, "\n")),
			Multiline: ir.MultilinePipe,
		}}, nil
	}

	switch value.(type) {
	case nil, bool, int, int64, uint64, float32, float64, string:
		v, err := ir.FromAny(value)
		if err != nil {
			return nil, err
		}
		root, err := Parse(token.Stringify(v, ir.MultilineNone))
		if err != nil {
			return nil, err
		}
		return root.Children, nil
	}

	// Complex values take a round trip through the YAML encoder. The
	// optional sequence indentation matches how recipe files are
	// written by hand.
	out, err := yaml.MarshalWithOptions(value,
		yaml.Indent(token.TabSpaceCount),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root, err := Parse(string(out))
	if err != nil {
		return nil, err
	}
	return root.Children, nil
}
