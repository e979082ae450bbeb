// Package jinja implements the template dialect recipe files layer on
// top of YAML: `{% set %}` variable assignments, `{{ }}` and `${{ }}`
// substitution expressions, and the small filter set used by recipes in
// the wild (lower, upper, index access, addition and concatenation).
package jinja

import (
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/recipeforge/go-recipe/token"
)

// Vars is an insertion-ordered variable table. Order matters when the
// `{% set %}` header block is rendered back to text.
type Vars struct {
	keys []string
	tbl  map[string]any
}

func NewVars() *Vars {
	return &Vars{tbl: map[string]any{}}
}

func (v *Vars) Contains(key string) bool {
	_, ok := v.tbl[key]
	return ok
}

func (v *Vars) Get(key string) (any, bool) {
	val, ok := v.tbl[key]
	return val, ok
}

func (v *Vars) Set(key string, value any) {
	if _, ok := v.tbl[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.tbl[key] = value
}

func (v *Vars) Delete(key string) bool {
	if _, ok := v.tbl[key]; !ok {
		return false
	}
	delete(v.tbl, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the variable names in insertion order.
func (v *Vars) Keys() []string {
	return append([]string(nil), v.keys...)
}

func (v *Vars) Len() int {
	return len(v.tbl)
}

// ParseSetStatements collects `{% set name = value %}` assignments from
// raw recipe text. Values are decoded as YAML literals where possible;
// anything undecodable stays a raw string.
func ParseSetStatements(content string) *Vars {
	vars := NewVars()
	for _, line := range token.JinjaSetLineRE.FindAllString(content, -1) {
		setIdx := strings.Index(line, "set")
		eqIdx := strings.Index(line, "=")
		endIdx := strings.Index(line, "%}")
		if setIdx < 0 || eqIdx < setIdx || endIdx < eqIdx {
			continue
		}
		key := strings.TrimSpace(line[setIdx+len("set") : eqIdx])
		raw := strings.TrimSpace(line[eqIdx+1 : endIdx])
		vars.Set(key, decodeLiteral(raw))
	}
	return vars
}

// decodeLiteral interprets an assignment's right-hand side. Expressions
// that are not plain literals (function calls, references to other
// variables) keep their raw text.
func decodeLiteral(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, map[any]any:
		// A mapping here means the YAML decoder misread an expression.
		return raw
	}
	return token.Normalize(v)
}
