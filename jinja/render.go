package jinja

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"

	"github.com/recipeforge/go-recipe/debug"
	"github.com/recipeforge/go-recipe/format"
	"github.com/recipeforge/go-recipe/token"
)

// Render replaces every substitution expression in s with the value it
// evaluates to and decodes the result as YAML, so types come back
// intact ("0" substituted into a bare scalar is an int, not a string).
// V0 recipes use `{{ }}`, V1 recipes `${{ }}`. Expressions referring to
// unknown variables are left in place; on V0 they are additionally
// $-escaped, which marks them unresolved, normalizes the syntax with V1
// and keeps the value YAML-parsable.
func Render(s string, vars *Vars, schema format.SchemaVersion) (any, error) {
	startIdx, subRE := 2, token.JinjaV0SubRE
	if schema == format.V1 {
		startIdx, subRE = 3, token.JinjaV1SubRE
	}

	for _, match := range subRE.FindAllString(s, -1) {
		// The pattern guarantees the match starts and ends with double
		// braces.
		key := strings.TrimSpace(match[startIdx : len(match)-2])
		key, lowerMatch, upperMatch, idxMatch := applyFilters(key)

		if concat := token.JinjaFunctionAddConcatRE.FindStringSubmatch(key); concat != nil {
			lhs := evalToken(concat[1], vars)
			rhs := evalToken(concat[2], vars)
			s = strings.ReplaceAll(s, match, evalAddConcat(lhs, rhs))
			continue
		}

		val, ok := vars.Get(key)
		if !ok {
			if schema == format.V0 && strings.HasPrefix(s, "{{") {
				s = "$" + s
			}
			continue
		}
		value := toString(val)
		if lowerMatch {
			value = strings.ToLower(value)
		}
		if upperMatch {
			value = strings.ToUpper(value)
		}
		if idxMatch != nil {
			// Indexing is near-exclusively used to take the first
			// character. Out of bounds falls back to the whole value.
			if idx, err := strconv.Atoi(idxMatch[2]); err == nil && 0 <= idx && idx < len(value) {
				value = string(value[idx])
			}
		}
		s = strings.ReplaceAll(s, match, value)
	}

	if debug.Jinja() {
		debug.Logf("rendered template line: %q", s)
	}
	var out any
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return token.Normalize(out), nil
}

// applyFilters strips recognized filter expressions off a substitution
// body, reporting which ones applied.
func applyFilters(key string) (string, bool, bool, []string) {
	lower := token.JinjaFunctionLowerRE.FindString(key)
	if lower != "" {
		key = strings.TrimSpace(strings.Replace(key, lower, "", 1))
	}
	upper := token.JinjaFunctionUpperRE.FindString(key)
	if upper != "" {
		key = strings.TrimSpace(strings.Replace(key, upper, "", 1))
	}
	idxMatch := token.JinjaFunctionIdxAccessRE.FindStringSubmatch(key)
	if idxMatch != nil {
		key = strings.TrimSpace(strings.Replace(key, "["+idxMatch[2]+"]", "", 1))
	}
	return key, lower != "", upper != "", idxMatch
}

// evalToken resolves one side of an addition or concatenation: a
// variable, an integer, a float, or a string with its outer quotes
// stripped. Unrecognized variables are treated as strings.
func evalToken(s string, vars *Vars) any {
	if v, ok := vars.Get(s); ok {
		return v
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if len(s) >= 2 && s[0] == s[len(s)-1] && (s[0] == '\'' || s[0] == '"') {
		return s[1 : len(s)-1]
	}
	return s
}

// evalAddConcat folds two resolved tokens. Numeric pairs add
// arithmetically; everything else concatenates as a quoted string so
// the YAML decoder keeps the string type.
func evalAddConcat(lhs, rhs any) string {
	if isNumeric(lhs) && isNumeric(rhs) {
		out, err := expr.Eval("lhs + rhs", map[string]any{"lhs": lhs, "rhs": rhs})
		if err == nil {
			return toString(out)
		}
	}
	return `"` + toString(lhs) + toString(rhs) + `"`
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int64, uint64, float32, float64:
		return true
	}
	return false
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

