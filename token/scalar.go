package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/recipeforge/go-recipe/ir"
)

// ErrScalar wraps line decoding failures.
var ErrScalar = errors.New("scalar error")

// Special characters that force quoting when a string is rendered back
// to YAML. `#`, `|`, `{`, `}`, `>` and `<` are left out: the parser
// assigns them meaning of their own.
var toQuoteSpecialChars = map[string]bool{
	"[": true, "]": true, ",": true, "&": true, ":": true, "*": true,
	"?": true, "-": true, "=": true, "!": true, "%": true, "@": true,
	"\\": true,
}

func startsWithSpecialChar(s string) bool {
	for c := range toQuoteSpecialChars {
		if strings.HasPrefix(s, c) {
			return true
		}
	}
	return false
}

// QuoteSpecialStrings quote-escapes strings that plain YAML emitters
// would otherwise corrupt on a round trip (`"**/lib"` -> `**/lib`, and
// `*` cannot start a bare scalar). Multiline bodies and strings holding
// template expressions are passed through untouched: quoting them would
// change their meaning.
func QuoteSpecialStrings(s string, variant ir.MultilineVariant) string {
	if variant != ir.MultilineNone ||
		JinjaV0SubRE.MatchString(s) ||
		JinjaFunctionMatchRE.MatchString(s) {
		return s
	}
	if toQuoteSpecialChars[s] ||
		(!strings.Contains(s, "${{") && (strings.Contains(s, "'") || strings.Contains(s, `"`))) ||
		startsWithSpecialChar(s) {
		// YAML emitters inject newlines into long quoted strings; the
		// JSON encoder produces the exact single-line form needed here.
		quoted, _ := json.Marshal(s)
		return string(quoted)
	}
	return s
}

// Stringify renders a value the way it appears on a recipe line.
func Stringify(v ir.Value, variant ir.MultilineVariant) string {
	switch v.Kind() {
	case ir.KindEmpty:
		return ""
	case ir.KindNull:
		return "null"
	case ir.KindBool:
		return strconv.FormatBool(v.Bool())
	case ir.KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case ir.KindFloat:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case ir.KindString:
		return QuoteSpecialStrings(v.String(), variant)
	case ir.KindLines:
		return strings.Join(v.Lines(), "\n")
	}
	return ""
}

// NormalizeMultiline folds the raw lines of a multiline string back
// under their block header so a YAML decoder can interpret the
// whitespace rules for us.
func NormalizeMultiline(lines []string, variant ir.MultilineVariant) string {
	body := strings.Join(lines, "\n"+TabAsSpaces)
	return string(variant) + "\n" + TabAsSpaces + body
}

// ParseLine decodes one recipe line into plain Go values. Mappings come
// back as yaml.MapSlice so key order survives. Three attempts are made:
// the raw line, a quote-escaped copy for problematic plain strings like
// `**/lib.so`, and finally a copy with template expressions masked by
// substitution markers, re-injected into the decoded strings afterwards.
func ParseLine(s string) (any, error) {
	// Unquoted template expressions look like nested flow mappings to a
	// YAML scanner, so lines holding one go straight to the masking
	// path. All expressions decode as strings, whatever they stand for.
	if JinjaV0SubRE.MatchString(s) {
		return parseMasked(s)
	}
	if v, err := decodeStrict(s); err == nil {
		return v, nil
	}
	if v, err := decodeStrict(QuoteSpecialStrings(s, ir.MultilineNone)); err == nil {
		return v, nil
	}
	return parseMasked(s)
}

func parseMasked(s string) (any, error) {
	subs := JinjaV0SubRE.FindAllString(s, -1)
	masked := JinjaV0SubRE.ReplaceAllString(s, SubMarker)
	v, err := decodeStrict(masked)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScalar, err)
	}
	// Each masked expression is consumed once, in order of appearance.
	idx := 0
	return recursiveSub(v, func(str string) string {
		for idx < len(subs) && strings.Contains(str, SubMarker) {
			str = strings.Replace(str, SubMarker, subs[idx], 1)
			idx++
		}
		return str
	}), nil
}

func decodeStrict(s string) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions([]byte(s), &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return v, nil
}

// Normalize rewrites a decoded YAML structure into plain Go types:
// ordered mappings become string-keyed maps and decoder-specific
// integer widths become int64, so values compare consistently wherever
// they were decoded.
func Normalize(v any) any {
	switch t := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]any, len(t))
		for _, item := range t {
			out[fmt.Sprintf("%v", item.Key)] = Normalize(item.Value)
		}
		return out
	case map[string]any:
		for k := range t {
			t[k] = Normalize(t[k])
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = Normalize(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = Normalize(t[i])
		}
		return t
	}
	if val, err := ir.FromAny(v); err == nil {
		return val.Interface()
	}
	return v
}

// recursiveSub applies fn to every string in a decoded YAML structure,
// keys included.
func recursiveSub(v any, fn func(string) string) any {
	switch t := v.(type) {
	case string:
		return fn(t)
	case yaml.MapSlice:
		for i := range t {
			if k, ok := t[i].Key.(string); ok {
				t[i].Key = fn(k)
			}
			t[i].Value = recursiveSub(t[i].Value, fn)
		}
		return t
	case []any:
		for i := range t {
			t[i] = recursiveSub(t[i], fn)
		}
		return t
	}
	return v
}
