package convert

// Canonical key orderings applied after conversion so the emitted file
// reads the way maintainers expect. Lower values sort toward the top;
// keys absent from a table sink to the bottom of their section.

var topLevelKeySortOrder = map[string]int{
	"schema_version": 0,
	"context":        10,
	"package":        20,
	"recipe":         30,
	"source":         40,
	"files":          50,
	"build":          60,
	"requirements":   70,
	"outputs":        80,
	"test":           90,
	"tests":          100,
	"about":          110,
	"extra":          120,
}

var sourceSectionKeySortOrder = map[string]int{
	"url":    0,
	"sha256": 10,
	"md5":    20,

	"path":          30,
	"use_gitignore": 40,

	"git":    50,
	"branch": 60,
	"tag":    70,
	"rev":    80,
	"depth":  90,
	"lfs":    100,

	"target_directory": 120,
	"file_name":        130,
	"patches":          140,
}

var buildSectionKeySortOrder = map[string]int{
	"number":                    0,
	"string":                    10,
	"skip":                      20,
	"noarch":                    30,
	"script":                    40,
	"merge_build_and_host_envs": 50,
	"always_include_files":      60,
	"always_copy_files":         70,
	"variant":                   80,
	"python":                    90,
	"prefix_detection":          100,
	"dynamic_linking":           110,
}

var pythonTestKeySortOrder = map[string]int{
	"imports":   0,
	"pip_check": 10,
}
