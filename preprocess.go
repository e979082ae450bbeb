package recipe

import (
	"strings"

	"github.com/recipeforge/go-recipe/token"
)

// hashTypeSetVariants are the `{% set %}` statements commonly used to
// store a hash algorithm name in a variable. The variable-as-a-key
// pattern they enable is not parseable, so these lines are dropped.
var hashTypeSetVariants = []string{
	"{% set hash_type = \"sha256\" %}\n",
	"{% set hashtype = \"sha256\" %}\n",
	"{% set hash = \"sha256\" %}\n",
}

// PreProcessRemoveHashType rewrites the `{{ hash_type }}: <hash>`
// pattern to a literal `sha256:` key. Run it on file text before
// parsing.
func PreProcessRemoveHashType(content string) string {
	for _, variant := range hashTypeSetVariants {
		content = strings.ReplaceAll(content, variant, "")
	}
	return token.PreProcessJinjaHashTypeKeyRE.ReplaceAllString(content, "sha256:")
}

// PreProcessRecipeText cleans up template constructs that defeat the
// parser or are illegal in the V1 format. Run it on file text before
// parsing a recipe destined for conversion.
func PreProcessRecipeText(content string) string {
	// `foo.lower()` style calls become `foo | lower` filters.
	content = token.PreProcessDotFuncAssignRE.ReplaceAllString(content, "$1 | $2")
	content = token.PreProcessDotFuncSubRE.ReplaceAllString(content, "$1 | $2")
	content = token.PreProcessStripEmptyParensRE.ReplaceAllString(content, "$1")

	// Quoted strings holding an escaped newline become `|` blocks.
	content = token.PreProcessQuotedMultilineRE.ReplaceAllString(content, "$1$2: |$1  $3$1  $4")

	// rattler-build deprecated the pin bound names.
	content = token.PreProcessMinPinReplacementRE.ReplaceAllString(content, "lower_bound=")
	content = token.PreProcessMaxPinReplacementRE.ReplaceAllString(content, "upper_bound=")

	// `environ["KEY"]` lookups become `env.get("KEY")` calls.
	for _, groups := range token.PreProcessEnvironRE.FindAllStringSubmatch(content, -1) {
		quote, key := groups[1], groups[2]
		content = strings.Replace(content,
			"environ["+quote+key+quote+"]",
			"env.get("+quote+key+quote+")", 1)
	}

	return PreProcessRemoveHashType(content)
}
