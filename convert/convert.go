// Package convert rewrites recipes from the original format to the
// schema-versioned V1 format: comment selectors become conditional
// expressions, template variables move into a context section and the
// many renamed or relocated fields are patched into their new homes.
// Conversion is best effort; problems are collected in a MessageTable
// instead of aborting the run.
package convert

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	recipe "github.com/recipeforge/go-recipe"
	"github.com/recipeforge/go-recipe/debug"
	"github.com/recipeforge/go-recipe/format"
	"github.com/recipeforge/go-recipe/ir"
	"github.com/recipeforge/go-recipe/ir/rpath"
	"github.com/recipeforge/go-recipe/parse"
	"github.com/recipeforge/go-recipe/token"
	"github.com/recipeforge/go-recipe/treediff"
)

// LicenseCorrector maps a license string to its canonical SPDX
// identifier. The boolean reports whether a match was found.
type LicenseCorrector func(license string) (string, bool)

// Option configures a conversion run.
type Option func(*Converter)

// WithLicenseCorrector installs a corrector for the about/license
// field. Without one, license values pass through unchanged.
func WithLicenseCorrector(fn LicenseCorrector) Option {
	return func(c *Converter) {
		c.correctLicense = fn
	}
}

// Converter drives one V0 to V1 conversion. It works on its own copy
// of the recipe, so the source Recipe is never modified.
type Converter struct {
	v1             *recipe.Recipe
	msgs           *MessageTable
	correctLicense LicenseCorrector
}

// V0ToV1 converts recipe file text from the V0 format to V1. The
// returned MessageTable is non-nil even on error and carries the
// warnings and errors hit along the way.
func V0ToV1(content string, opts ...Option) (string, *MessageTable, error) {
	msgs := NewMessageTable()

	src, err := recipe.New(content)
	if err != nil {
		msgs.AddMessage(Exception, fmt.Sprintf("Failed to parse recipe: %v", err))
		return "", msgs, err
	}
	if src.SchemaVersion() != format.V0 {
		err := fmt.Errorf("%w: recipe is not in the V0 format", format.ErrBadSchemaVersion)
		msgs.AddMessage(Exception, err.Error())
		return "", msgs, err
	}

	// Rendering and re-parsing gives the converter a normalized
	// working copy and leaves the caller's text untouched.
	work, err := recipe.New(src.Render())
	if err != nil {
		msgs.AddMessage(Exception, fmt.Sprintf("Failed to re-parse recipe: %v", err))
		return "", msgs, err
	}

	c := &Converter{v1: work, msgs: msgs}
	for _, opt := range opts {
		opt(c)
	}
	out := c.run()
	if debug.Convert() {
		logTreeChanges(content, out)
	}
	return out, msgs, nil
}

// logTreeChanges prints the structural delta a conversion produced.
// Debug only; parse failures here are silently ignored.
func logTreeChanges(before, after string) {
	fromRoot, err := parse.Parse(before)
	if err != nil {
		return
	}
	toRoot, err := parse.Parse(after)
	if err != nil {
		return
	}
	for _, ch := range treediff.Diff(fromRoot, toRoot) {
		debug.Logf("convert %s %s\n", ch.Kind, ch.Path)
	}
}

func (c *Converter) run() string {
	oldComments := c.v1.GetCommentsTable()

	// Selectors go first so later patches cannot wipe their comments.
	c.upgradeSelectorsToConditionals()
	c.upgradeJinjaToContext()

	// Multi-output and single-output recipes share one loop by
	// treating the root as another package path.
	basePaths := c.v1.GetPackagePaths()

	c.correctCommonMisspellings(basePaths)
	c.upgradeSourceSection(basePaths)
	c.upgradeBuildSection(basePaths)
	c.upgradeRequirementsSection(basePaths)
	c.upgradeAboutSection(basePaths)
	c.upgradeTestSection(basePaths)
	c.upgradeMultiOutput(basePaths)

	// Patches drop comments they overwrite. Flag the ones that did
	// not survive.
	newComments := c.v1.GetCommentsTable()
	for path, comment := range oldComments {
		if _, ok := newComments[path]; ok {
			continue
		}
		if !c.v1.ContainsValue(path) {
			c.msgs.AddMessage(Warning, "Could not relocate comment: "+comment)
		}
	}

	// The variable table has been rehomed under /context; rendering
	// the old declarations now would duplicate it.
	c.v1.ClearVariables()

	c.v1.SortSubtreeKeys("/", topLevelKeySortOrder, "")
	return c.v1.Render()
}

// patch plumbing

func (c *Converter) patchAndLog(op recipe.PatchOp) bool {
	ok, err := c.v1.Patch(op)
	if err != nil || !ok {
		c.msgs.AddMessage(Error, fmt.Sprintf("Failed to patch: %s %s", op.Kind, op.Path))
		return false
	}
	return true
}

// addMissingPath builds a path level by level; the patch standard only
// creates one new level per operation.
func (c *Converter) addMissingPath(basePath, ext string, value any) {
	path := rpath.Join(basePath, ext)
	if c.v1.ContainsValue(path) {
		return
	}
	c.patchAndLog(recipe.AddOp(path, value))
}

// moveBasePath moves a value between two extensions of a shared base
// path, if the old location exists.
func (c *Converter) moveBasePath(basePath, oldExt, newExt string) {
	oldPath := rpath.Join(basePath, oldExt)
	if !c.v1.ContainsValue(oldPath) {
		return
	}
	c.patchAndLog(recipe.MoveOp(oldPath, rpath.Join(basePath, newExt)))
}

// moveNewPath relocates a field under a section that may not exist
// yet, creating the section first. An empty newExt keeps the old name.
func (c *Converter) moveNewPath(basePath, oldExt, newPath, newExt string) {
	if newExt == "" {
		newExt = oldExt
	}
	if c.v1.ContainsValue(rpath.Join(basePath, oldExt)) {
		c.addMissingPath(basePath, newPath, nil)
	}
	c.moveBasePath(basePath, oldExt, rpath.Join(newPath, newExt))
}

func (c *Converter) deprecateFields(basePath string, fields []string) {
	for _, field := range fields {
		path := rpath.Join(basePath, field)
		if !c.v1.ContainsValue(path) {
			continue
		}
		if c.patchAndLog(recipe.RemoveOp(path)) {
			c.msgs.AddMessage(Warning, fmt.Sprintf("Field at `%s` is no longer supported.", path))
		}
	}
}

// orderedValue reads the value at a path with mapping key order intact,
// which a plain GetValue cannot promise.
func (c *Converter) orderedValue(path string) any {
	keys := c.v1.ChildKeys(path)
	if len(keys) == 0 {
		v, err := c.v1.GetValue(path)
		if err != nil {
			return nil
		}
		return v
	}
	ms := yaml.MapSlice{}
	for _, key := range keys {
		ms = append(ms, yaml.MapItem{Key: key, Value: c.orderedValue(rpath.Join(path, key))})
	}
	return ms
}

// upgrade stages

// upgradeSelectorsToConditionals rewrites the bracketed comment
// selectors as conditional expressions: booleans become ternary
// statements, list members become if/then objects and skip becomes a
// list of boolean expressions.
func (c *Converter) upgradeSelectorsToConditionals() {
	for _, selector := range c.v1.ListSelectors() {
		for _, info := range c.v1.SelectorInstances(selector) {
			// A selector shows up on both nodes of a key-value line.
			// Only the leaf carries the value to rewrite.
			if !info.Node.IsLeaf() {
				continue
			}

			boolExpression := strings.TrimSuffix(strings.TrimPrefix(selector, "["), "]")

			op := recipe.ReplaceOp(info.Path, "${{ true if "+boolExpression+" }}")
			// skip is special and takes a list of boolean expressions.
			if strings.HasSuffix(info.Path, "/build/skip") {
				op = recipe.ReplaceOp(info.Path, []any{boolExpression})
			}
			if info.Node.Value.Kind() != ir.KindBool {
				// Only list members may use if/then blocks.
				if !info.Node.ListMember {
					c.msgs.AddMessage(Warning,
						fmt.Sprintf("A non-list item had a selector at: %s", info.Path))
					continue
				}
				var thenValue any
				if !info.Node.Value.IsEmpty() {
					thenValue = info.Node.Value.Interface()
				}
				op = recipe.ReplaceOp(info.Path, yaml.MapSlice{
					{Key: "if", Value: boolExpression},
					{Key: "then", Value: thenValue},
				})
			}
			c.patchAndLog(op)
			if _, err := c.v1.RemoveSelector(info.Path); err != nil {
				c.msgs.AddMessage(Error,
					fmt.Sprintf("Failed to remove selector at: %s", info.Path))
			}
		}
	}
}

// upgradeJinjaToContext moves the template variable table into a
// /context section and re-marks substitutions with the V1 `${{ }}`
// syntax.
func (c *Converter) upgradeJinjaToContext() {
	context := yaml.MapSlice{}
	for _, name := range c.v1.ListVariables() {
		value, err := c.v1.GetVariable(name)
		if err != nil {
			continue
		}
		switch value.(type) {
		case string, bool, int64, float64:
		default:
			c.msgs.AddMessage(Warning,
				fmt.Sprintf("The variable `%s` is an unsupported type.", name))
			continue
		}
		// Function calls keep their template escaping or they would
		// land as unevaluated strings.
		if s, ok := value.(string); ok && token.SearchAny(token.JinjaFunctionsSet, s) {
			value = "{{" + s + "}}"
		}
		context = append(context, yaml.MapItem{Key: name, Value: value})
	}
	// The schema forbids an empty context object.
	if len(context) > 0 {
		c.patchAndLog(recipe.AddOp("/context", context))
	}

	c.patchAndLog(recipe.AddOp("/schema_version", int64(format.CurrentSchemaVersion)))

	// Each path is visited once; a value holding several variables
	// must not be re-escaped per variable.
	paths, err := c.v1.Search(token.JinjaV0SubRE.String(), false)
	if err != nil {
		return
	}
	seen := map[string]bool{}
	for _, path := range paths {
		if seen[path] {
			continue
		}
		seen[path] = true
		value, err := c.v1.GetValue(path)
		if err != nil {
			continue
		}
		s, ok := value.(string)
		if !ok {
			c.msgs.AddMessage(Warning,
				fmt.Sprintf("A non-string value was found as a JINJA substitution: %v", value))
			continue
		}
		c.patchAndLog(recipe.ReplaceOp(path, token.ReplaceV0StartMarker(s)))
	}
}

func (c *Converter) correctCommonMisspellings(basePaths []string) {
	for _, basePath := range basePaths {
		buildPath := rpath.Join(basePath, "/build")
		c.moveBasePath(buildPath, "skipt", "skip")
		c.moveBasePath(buildPath, "skips", "skip")
		c.moveBasePath(buildPath, "Skip", "skip")

		c.moveBasePath(basePath, "extras", "extra")
	}
}

func (c *Converter) upgradeSourceSection(basePaths []string) {
	for _, basePath := range basePaths {
		sourcePath := rpath.Join(basePath, "/source")
		if !c.v1.ContainsValue(sourcePath) {
			continue
		}

		// The source section is either one object or a list of them.
		sourcePaths := []string{sourcePath}
		if data, err := c.v1.GetValue(sourcePath); err == nil {
			if lst, ok := data.([]any); ok {
				sourcePaths = sourcePaths[:0]
				for i := range lst {
					sourcePaths = append(sourcePaths, fmt.Sprintf("%s/%d", sourcePath, i))
				}
			}
		}

		for _, srcPath := range sourcePaths {
			if c.v1.ContainsValue(rpath.Join(srcPath, "svn_url")) {
				c.msgs.AddMessage(Warning, "SVN packages are no longer supported in the V1 format")
			}
			if c.v1.ContainsValue(rpath.Join(srcPath, "hg_url")) {
				c.msgs.AddMessage(Warning, "HG (Mercurial) packages are no longer supported in the V1 format")
			}

			c.moveBasePath(srcPath, "/fn", "/file_name")
			c.moveBasePath(srcPath, "/folder", "/target_directory")

			c.moveBasePath(srcPath, "/git_url", "/git")
			c.moveBasePath(srcPath, "/git_tag", "/tag")
			c.moveBasePath(srcPath, "/git_rev", "/rev")
			c.moveBasePath(srcPath, "/git_depth", "/depth")

			c.v1.SortSubtreeKeys(srcPath, sourceSectionKeySortOrder, "")
		}
	}
}

var buildDeprecatedFields = []string{
	"pre-link",
	"noarch_python",
	"features",
	"msvc_compiler",
	"requires_features",
	"provides_features",
	"preferred_env",
	"preferred_env_executable_paths",
	"disable_pip",
	"pin_depends",
	"overlinking_ignore_patterns",
	"rpaths_patcher",
	"post-link",
	"pre-unlink",
}

func (c *Converter) upgradeBuildSection(basePaths []string) {
	for _, basePath := range basePaths {
		// run_exports and ignore_run_exports live under requirements
		// now. Each is checked on its own; recipes carry either one.
		for _, field := range []string{"/run_exports", "/ignore_run_exports"} {
			oldPath := rpath.Join(basePath, "/build"+field)
			if !c.v1.ContainsValue(oldPath) {
				continue
			}
			requirementsPath := rpath.Join(basePath, "/requirements")
			if !c.v1.ContainsValue(requirementsPath) {
				c.patchAndLog(recipe.AddOp(requirementsPath, nil))
			}
			c.patchAndLog(recipe.MoveOp(oldPath, rpath.Join(requirementsPath, field)))
		}

		buildPath := rpath.Join(basePath, "/build")
		if !c.v1.ContainsValue(buildPath) {
			continue
		}

		c.moveBasePath(buildPath, "merge_build_host", "merge_build_and_host_envs")
		c.moveBasePath(buildPath, "no_link", "always_copy_files")

		c.moveNewPath(buildPath, "/entry_points", "/python", "")

		c.moveNewPath(buildPath, "/ignore_prefix_files", "/prefix_detection", "/ignore")
		c.moveNewPath(buildPath, "/detect_binary_files_with_prefix", "/prefix_detection", "/ignore_binary_files")

		c.moveNewPath(buildPath, "/rpaths", "/dynamic_linking", "/rpaths")
		c.moveNewPath(buildPath, "/binary_relocation", "/dynamic_linking", "/binary_relocation")
		c.moveNewPath(buildPath, "/missing_dso_whitelist", "/dynamic_linking", "/missing_dso_allowlist")
		c.moveNewPath(buildPath, "/runpath_whitelist", "/dynamic_linking", "/rpath_allowlist")

		c.upgradeBuildScriptSection(buildPath)
		c.deprecateFields(buildPath, buildDeprecatedFields)

		c.v1.SortSubtreeKeys(buildPath, buildSectionKeySortOrder, "")
	}
}

// upgradeBuildScriptSection folds script_env into a script object. Set
// variables become the env table, unset variables are secrets.
func (c *Converter) upgradeBuildScriptSection(buildPath string) {
	scriptEnvPath := rpath.Join(buildPath, "/script_env")
	scriptEnvValue, err := c.v1.GetValue(scriptEnvPath, recipe.WithDefault([]any{}))
	if err != nil {
		return
	}
	scriptEnv, ok := scriptEnvValue.([]any)
	if !ok || len(scriptEnv) == 0 {
		return
	}

	env := yaml.MapSlice{}
	var secrets []any
	for _, item := range scriptEnv {
		switch t := item.(type) {
		case map[string]any:
			// Conditionally included variables arrive as if/then
			// objects.
			then, ok := t["then"].(string)
			if !ok {
				c.msgs.AddMessage(Error,
					fmt.Sprintf("Could not parse dictionary `%v` found in %s", t, scriptEnvPath))
				continue
			}
			if !strings.Contains(then, "=") {
				secrets = append(secrets, t)
				continue
			}
			// Assignments under a condition have no V1 equivalent.
			c.msgs.AddMessage(Error,
				fmt.Sprintf("Converting `%v` found in %s is not supported."+
					" Manually replace the selector with a `cmp()` function.", t, scriptEnvPath))
		case string:
			tokens := strings.Split(t, "=")
			for i := range tokens {
				tokens[i] = strings.TrimSpace(tokens[i])
			}
			switch len(tokens) {
			case 1:
				secrets = append(secrets, tokens[0])
			case 2:
				env = append(env, yaml.MapItem{Key: tokens[0], Value: tokens[1]})
			default:
				c.msgs.AddMessage(Error,
					fmt.Sprintf("Could not parse `%s` found in %s", t, scriptEnvPath))
			}
		default:
			c.msgs.AddMessage(Error,
				fmt.Sprintf("Could not parse `%v` found in %s", item, scriptEnvPath))
		}
	}

	scriptObj := yaml.MapSlice{}
	if len(env) > 0 {
		scriptObj = append(scriptObj, yaml.MapItem{Key: "env", Value: env})
	}
	if len(secrets) > 0 {
		scriptObj = append(scriptObj, yaml.MapItem{Key: "secrets", Value: secrets})
	}

	scriptPath := rpath.Join(buildPath, "/script")
	scriptValue, _ := c.v1.GetValue(scriptPath, recipe.WithDefault(""))
	hasScript := scriptValue != nil && scriptValue != ""
	if lst, ok := scriptValue.([]any); ok {
		hasScript = len(lst) > 0
	}
	if hasScript {
		scriptObj = append(scriptObj, yaml.MapItem{Key: "content", Value: scriptValue})
		c.patchAndLog(recipe.ReplaceOp(scriptPath, scriptObj))
	} else {
		c.patchAndLog(recipe.AddOp(scriptPath, scriptObj))
	}
	c.patchAndLog(recipe.RemoveOp(scriptEnvPath))
}

func (c *Converter) upgradeRequirementsSection(basePaths []string) {
	for _, basePath := range basePaths {
		requirementsPath := rpath.Join(basePath, "/requirements")
		if !c.v1.ContainsValue(requirementsPath) {
			continue
		}
		c.moveBasePath(requirementsPath, "/run_constrained", "/run_constraints")
	}
}

func (c *Converter) fixBadLicenses(aboutPath string) {
	licensePath := rpath.Join(aboutPath, "/license")
	licenseValue, _ := c.v1.GetValue(licensePath, recipe.WithDefault(nil))
	if licenseValue == nil {
		c.msgs.AddMessage(Warning, fmt.Sprintf("No `license` provided in `%s`", aboutPath))
		return
	}
	oldLicense, ok := licenseValue.(string)
	if !ok || c.correctLicense == nil {
		return
	}

	corrected, found := c.correctLicense(oldLicense)
	if !found {
		c.msgs.AddMessage(Warning,
			fmt.Sprintf("Could not patch unrecognized license: `%s`", oldLicense))
		return
	}
	if corrected == oldLicense {
		return
	}
	if c.patchAndLog(recipe.ReplaceOp(licensePath, corrected)) {
		c.msgs.AddMessage(Warning,
			fmt.Sprintf("Changed %s from `%s` to `%s`", licensePath, oldLicense, corrected))
	}
}

var aboutDeprecatedFields = []string{
	"prelink_message",
	"license_family",
	"identifiers",
	"tags",
	"keywords",
	"doc_source_url",
}

func (c *Converter) upgradeAboutSection(basePaths []string) {
	renames := [][2]string{
		{"home", "homepage"},
		{"dev_url", "repository"},
		{"doc_url", "documentation"},
	}

	for _, basePath := range basePaths {
		aboutPath := rpath.Join(basePath, "/about")
		if !c.v1.ContainsValue(aboutPath) {
			continue
		}

		for _, rename := range renames {
			c.moveBasePath(aboutPath, rename[0], rename[1])
		}

		c.fixBadLicenses(aboutPath)

		// Multiline strings without a block marker parse as list
		// members. Stitch them back together.
		summaryPath := rpath.Join(aboutPath, "/summary")
		if summary, err := c.v1.GetValue(summaryPath, recipe.WithDefault("")); err == nil {
			if lst, ok := summary.([]any); ok {
				parts := make([]string, 0, len(lst))
				for _, v := range lst {
					parts = append(parts, fmt.Sprintf("%v", v))
				}
				c.patchAndLog(recipe.ReplaceOp(summaryPath, strings.Join(parts, "\n")))
			}
		}

		c.deprecateFields(aboutPath, aboutDeprecatedFields)
	}
}

var pipCheckVariants = map[string]bool{
	"pip check":            true,
	"python -m pip check":  true,
	"python3 -m pip check": true,
}

// upgradeTestPipCheck replaces the common `pip check` test command
// with the python/pip_check attribute. The flag defaults to true, so
// python recipes without the command get an explicit false.
func (c *Converter) upgradeTestPipCheck(basePath, testPath string) {
	hostDeps, _ := c.v1.GetValue(rpath.Join(basePath, "/requirements/host"), recipe.WithDefault([]any{}))
	lst, ok := hostDeps.([]any)
	if !ok {
		return
	}
	isPython := false
	for _, dep := range lst {
		if dep == "python" {
			isPython = true
			break
		}
	}
	if !isPython {
		return
	}

	pipCheck := false
	commands, _ := c.v1.GetValue(rpath.Join(testPath, "/commands"), recipe.WithDefault([]any{}))
	if cmdList, ok := commands.([]any); ok {
		for i, command := range cmdList {
			s, ok := command.(string)
			if !ok || !pipCheckVariants[s] {
				continue
			}
			c.patchAndLog(recipe.RemoveOp(fmt.Sprintf("%s/commands/%d", testPath, i)))
			pipCheck = true
			break
		}
	}

	c.addMissingPath(testPath, "/python", nil)
	c.patchAndLog(recipe.AddOp(rpath.Join(testPath, "/python/pip_check"), pipCheck))
}

func (c *Converter) upgradeTestSection(basePaths []string) {
	// The old test section maps to a single test entity; splitting it
	// into finer-grained tests is left to the maintainer.
	for _, basePath := range basePaths {
		testPath := rpath.Join(basePath, "/test")
		if !c.v1.ContainsValue(testPath) {
			continue
		}

		// files moves under files/recipe, which takes two steps: the
		// value cannot move into a path created beneath itself.
		testFilesPath := rpath.Join(testPath, "/files")
		if c.v1.ContainsValue(testFilesPath) {
			filesValue, err := c.v1.GetValue(testFilesPath)
			if err == nil {
				c.patchAndLog(recipe.RemoveOp(testFilesPath))
				c.patchAndLog(recipe.AddOp(testFilesPath, nil))
				c.patchAndLog(recipe.AddOp(rpath.Join(testFilesPath, "/recipe"), filesValue))
			}
		} else if c.v1.ContainsValue(rpath.Join(testPath, "/source_files")) {
			c.addMissingPath(testPath, "/files", nil)
		}
		c.moveBasePath(testPath, "/source_files", "/files/source")

		if c.v1.ContainsValue(rpath.Join(testPath, "/requires")) {
			c.addMissingPath(testPath, "/requirements", nil)
		}
		c.moveBasePath(testPath, "/requires", "/requirements/run")

		c.upgradeTestPipCheck(basePath, testPath)

		c.moveBasePath(testPath, "/commands", "/script")
		if c.v1.ContainsValue(rpath.Join(testPath, "/imports")) {
			c.addMissingPath(testPath, "/python", nil)
			c.moveBasePath(testPath, "/imports", "/python/imports")
		}
		c.moveBasePath(testPath, "/downstreams", "/downstream")

		c.v1.SortSubtreeKeys(rpath.Join(testPath, "/python"), pythonTestKeySortOrder, "")

		// test becomes a tests list holding up to three element
		// types: a python element, a downstream element and one
		// command element for whatever remains.
		var testArray []any
		var commandElement yaml.MapSlice
		keys := c.v1.ChildKeys(testPath)
		for _, key := range []string{"python", "downstream"} {
			keyPath := rpath.Join(testPath, key)
			if c.v1.ContainsValue(keyPath) {
				testArray = append(testArray, yaml.MapSlice{{Key: key, Value: c.orderedValue(keyPath)}})
			}
		}
		for _, key := range keys {
			if key == "python" || key == "downstream" {
				continue
			}
			commandElement = append(commandElement, yaml.MapItem{Key: key, Value: c.orderedValue(rpath.Join(testPath, key))})
		}
		if len(commandElement) > 0 {
			testArray = append(testArray, commandElement)
		}
		c.patchAndLog(recipe.AddOp(testPath+"s", testArray))
		c.patchAndLog(recipe.RemoveOp(testPath))
	}
}

func (c *Converter) upgradeMultiOutput(basePaths []string) {
	if !c.v1.ContainsValue("/outputs") {
		return
	}

	// At the top level, package describes the whole recipe now.
	c.moveBasePath("/", "/package", "/recipe")

	for _, outputPath := range basePaths {
		if outputPath == "/" {
			continue
		}

		if c.v1.ContainsValue(rpath.Join(outputPath, "/name")) ||
			c.v1.ContainsValue(rpath.Join(outputPath, "/version")) {
			c.addMissingPath(outputPath, "/package", nil)
		}
		c.moveBasePath(outputPath, "/name", "/package/name")
		c.moveBasePath(outputPath, "/version", "/package/version")

		// Output sections reuse the top-level key ordering; every
		// output key also exists at the top level.
		c.v1.SortSubtreeKeys(outputPath, topLevelKeySortOrder, "")
	}
}
