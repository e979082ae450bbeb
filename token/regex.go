// Package token holds the lexical tables shared by the parser, the
// renderer, the variable engine and the format converter: compiled
// regular expressions, indentation constants and the scalar codec that
// bridges single recipe lines and typed values.
package token

import (
	"regexp"
	"strings"
)

const (
	// TabSpaceCount is the number of spaces per indentation level.
	TabSpaceCount = 2
	// TabAsSpaces is one indentation level, rendered.
	TabAsSpaces = "  "

	// SubMarker temporarily stands in for template expressions that
	// break YAML scanning, so a line can be decoded and the originals
	// re-injected afterwards.
	SubMarker = "__RECIPE_SUBSTITUTION_MARKER__"
)

// Pattern fragment matching a template variable name, optionally
// followed by filter syntax.
const jinjaVarFunction = `[a-zA-Z_][a-zA-Z0-9_\|'"\(\)\[\]\, =\.\+\-]*`

var (
	// SelectorRE detects a bracketed selector anywhere in a line.
	SelectorRE = regexp.MustCompile(`\[.*\]`)

	// TrailingCommentRE locates a comment that follows content on the
	// same line. The `#` must have whitespace on its left, otherwise it
	// is part of a string.
	TrailingCommentRE = regexp.MustCompile(`(\s)+(#)`)

	// MultilineRE detects the six multiline string headers (`|`, `>`
	// and their chomping variants), with an optional trailing comment.
	MultilineRE = regexp.MustCompile(`^\s*.*:\s+(\||>)(\+|\-)?(\s*|\s+#.*)`)

	// Submatch positions in MultilineRE.
	MultilineVariantGroupChar   = 1
	MultilineVariantGroupSuffix = 2

	// JinjaV0SubRE matches a V0 substitution expression, braces
	// included: `{{ version }}`.
	JinjaV0SubRE = regexp.MustCompile(`\{\{\s*` + jinjaVarFunction + `\s*\}\}`)

	// JinjaV1SubRE is the V1 equivalent: `${{ version }}`.
	JinjaV1SubRE = regexp.MustCompile(`\$\{\{\s*` + jinjaVarFunction + `\s*\}\}`)

	// JinjaLineRE matches whole-line template statements and comments.
	JinjaLineRE = regexp.MustCompile(`(\{%.*%\}|\{#.*#\})\n`)

	// JinjaSetLineRE matches variable assignments:
	// `{% set version = "1.2.3" %}`.
	JinjaSetLineRE = regexp.MustCompile(`\{%\s*set\s*` + jinjaVarFunction + `\s*=.*%\}\s*\n`)

	// Filter expressions recognized inside substitutions. Group 1 holds
	// the filter name; group 2 the arguments, when the filter takes any.
	JinjaFunctionLowerRE     = regexp.MustCompile(`\|\s*(lower)`)
	JinjaFunctionUpperRE     = regexp.MustCompile(`\|\s*(upper)`)
	JinjaFunctionReplaceRE   = regexp.MustCompile(`\|\s*(replace)\((.*)\)`)
	JinjaFunctionMatchRE     = regexp.MustCompile(`match\(.*\)`)
	JinjaFunctionIdxAccessRE = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*)\[([0-9]+)\]`)
	JinjaFunctionAddConcatRE = regexp.MustCompile(`([a-zA-Z0-9_'"\.]+)\s*\+\s*([a-zA-Z0-9_'"\.]+)`)

	// JinjaFunctionsSet gathers the filters checked during conversion.
	JinjaFunctionsSet = []*regexp.Regexp{
		JinjaFunctionLowerRE,
		JinjaFunctionUpperRE,
		JinjaFunctionReplaceRE,
	}

	// Normalization patterns applied by the text pre-processor before
	// parsing. A whitespace guard on the environ pattern avoids matching
	// `os.environ[]`.
	PreProcessEnvironRE           = regexp.MustCompile(`\s+environ\[("|')(.*)("|')\]`)
	PreProcessJinjaHashTypeKeyRE  = regexp.MustCompile(`'{0,1}\{\{ (hash_type|hash|hashtype) \}\}'{0,1}:`)
	PreProcessDotFuncAssignRE     = regexp.MustCompile(`(\{%\s*set.*=.*)\.(.*\(.*\)\s*%\})`)
	PreProcessDotFuncSubRE        = regexp.MustCompile(`(\{\{\s*[a-zA-Z0-9_]*.*)\.([a-zA-Z0-9_]*\(.*\)\s*\}\})`)
	PreProcessStripEmptyParensRE  = regexp.MustCompile(`(\|\s*(lower|upper))(\(\))`)
	PreProcessQuotedMultilineRE   = regexp.MustCompile(`(\s*)(.*):\s*['"](.*)\\n(.*)['"]`)
	PreProcessMinPinReplacementRE = regexp.MustCompile(`min_pin=`)
	PreProcessMaxPinReplacementRE = regexp.MustCompile(`max_pin=`)
)

// ReplaceV0StartMarker rewrites every `{{` not already preceded by `$`
// into `${{`. The guard keeps repeated conversions from stacking
// dollar signs. The standard regexp engine has no look-behind, so this
// is a manual scan.
func ReplaceV0StartMarker(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '{' && i+1 < len(s) && s[i+1] == '{' && (i == 0 || s[i-1] != '$') {
			b.WriteString("${{")
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// SearchAny reports whether any pattern in the set matches s.
func SearchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// NumIndentSpaces counts the leading spaces of a line, the measure of
// field depth. Tabs are not valid YAML indentation and do not count.
func NumIndentSpaces(s string) int {
	n := 0
	for _, c := range s {
		if c != ' ' {
			break
		}
		n++
	}
	return n
}

// SubstituteMarkers re-injects template expressions that were masked
// with SubMarker, in order of appearance.
func SubstituteMarkers(s string, subs []string) string {
	for len(subs) > 0 && strings.Contains(s, SubMarker) {
		s = strings.Replace(s, SubMarker, subs[0], 1)
		subs = subs[1:]
	}
	return s
}
