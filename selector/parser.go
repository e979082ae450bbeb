package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/recipeforge/go-recipe/format"
)

// ErrSelector wraps selector parsing and evaluation failures.
var ErrSelector = errors.New("selector error")

// LogicOp is a boolean operator recognized inside a selector.
type LogicOp string

const (
	OpAnd LogicOp = "and"
	OpOr  LogicOp = "or"
	OpNot LogicOp = "not"
)

func logicOp(s string) (LogicOp, bool) {
	switch LogicOp(s) {
	case OpAnd, OpOr, OpNot:
		return LogicOp(s), true
	}
	return "", false
}

// node is a vertex in a selector parse tree: an operator with operand
// children, or a bare token.
type node struct {
	value    string
	op       LogicOp
	isOp     bool
	children []*node
}

func newNode(tok string) *node {
	lower := strings.ToLower(tok)
	if op, ok := logicOp(lower); ok {
		return &node{value: lower, op: op, isOp: true}
	}
	return &node{value: lower}
}

// Parser holds a parsed selector statement.
type Parser struct {
	content string
	schema  format.SchemaVersion
	root    *node
}

// Parse builds a selector parse tree. On V0 recipes the surrounding
// brackets are stripped first.
func Parse(content string, schema format.SchemaVersion) (*Parser, error) {
	trimmed := content
	if schema == format.V0 && len(trimmed) >= 2 &&
		trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']' {
		trimmed = trimmed[1 : len(trimmed)-1]
	}

	root, err := parseTree(strings.Fields(trimmed))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrSelector, content, err)
	}
	return &Parser{content: trimmed, schema: schema, root: root}, nil
}

// parseTree runs the shunting-yard algorithm over the token stream and
// folds the postfix result into a tree. `not` binds tightest:
// `not osx and win` reads as `(not osx) and win`.
func parseTree(tokens []string) (*node, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty selector")
	}

	var opStack, postfix []*node
	for _, tok := range tokens {
		n := newNode(tok)
		if n.isOp {
			if n.op != OpNot {
				for len(opStack) > 0 && opStack[len(opStack)-1].op == OpNot {
					postfix = append(postfix, opStack[len(opStack)-1])
					opStack = opStack[:len(opStack)-1]
				}
			}
			opStack = append(opStack, n)
			continue
		}
		postfix = append(postfix, n)
	}
	for len(opStack) > 0 {
		postfix = append(postfix, opStack[len(opStack)-1])
		opStack = opStack[:len(opStack)-1]
	}

	root, rest, err := foldPostfix(postfix)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.New("dangling selector tokens")
	}
	return root, nil
}

func foldPostfix(stack []*node) (*node, []*node, error) {
	if len(stack) == 0 {
		return nil, nil, errors.New("missing operand")
	}
	cur := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	var err error
	switch {
	case cur.isOp && cur.op == OpNot:
		var child *node
		child, stack, err = foldPostfix(stack)
		if err != nil {
			return nil, nil, err
		}
		cur.children = []*node{child}
	case cur.isOp:
		var l, r *node
		r, stack, err = foldPostfix(stack)
		if err != nil {
			return nil, nil, err
		}
		l, stack, err = foldPostfix(stack)
		if err != nil {
			return nil, nil, err
		}
		cur.children = []*node{l, r}
	}
	return cur, stack, nil
}

// String returns the bracket-free selector text.
func (p *Parser) String() string {
	return p.content
}

// SchemaVersion returns the schema the selector was parsed against.
func (p *Parser) SchemaVersion() format.SchemaVersion {
	return p.schema
}

// Matches evaluates the selector against a target platform. Tokens that
// are not platform qualifiers (version checks like `py<37`, feature
// flags) are unknowable here and evaluate false.
func (p *Parser) Matches(plat Platform) (bool, error) {
	out, err := expr.Eval(exprString(p.root, plat), nil)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %v", ErrSelector, p.content, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q: non-boolean result %v", ErrSelector, p.content, out)
	}
	return b, nil
}

// exprString lowers the parse tree into a boolean expression, with
// every qualifier token already resolved against the target platform.
func exprString(n *node, plat Platform) string {
	if !n.isOp {
		return strconv.FormatBool(QualifierMatches(n.value, plat))
	}
	switch n.op {
	case OpNot:
		return "not (" + exprString(n.children[0], plat) + ")"
	default:
		return "(" + exprString(n.children[0], plat) + " " +
			string(n.op) + " " +
			exprString(n.children[1], plat) + ")"
	}
}

// SelectedPlatforms returns every known platform the selector accepts.
func (p *Parser) SelectedPlatforms() ([]Platform, error) {
	var out []Platform
	for _, plat := range AllPlatforms {
		ok, err := p.Matches(plat)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, plat)
		}
	}
	return out, nil
}
