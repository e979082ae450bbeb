package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/recipeforge/go-recipe/token"
)

var (
	commentColor  = color.New(color.FgGreen)
	selectorColor = color.New(color.FgCyan)
)

// colorize paints comments and the selectors inside them. Values stay
// uncolored; recipes quote enough odd strings that coloring them is
// more distracting than helpful.
func colorize(rendered string) string {
	lines := strings.Split(rendered, "\n")
	for i, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		if strings.HasPrefix(trimmed, "#") {
			lines[i] = paintComment(ln, strings.Index(ln, "#"))
			continue
		}
		if loc := token.TrailingCommentRE.FindStringSubmatchIndex(ln); loc != nil {
			lines[i] = paintComment(ln, loc[4])
		}
	}
	return strings.Join(lines, "\n")
}

func paintComment(line string, at int) string {
	comment := line[at:]
	if sel := token.SelectorRE.FindStringIndex(comment); sel != nil {
		return line[:at] +
			commentColor.Sprint(comment[:sel[0]]) +
			selectorColor.Sprint(comment[sel[0]:sel[1]]) +
			commentColor.Sprint(comment[sel[1]:])
	}
	return line[:at] + commentColor.Sprint(comment)
}
