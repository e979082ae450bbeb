package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Patch   bool
	Convert bool
	Jinja   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("RECIPE_DEBUG_PARSE")
	d.Patch = boolEnv("RECIPE_DEBUG_PATCH")
	d.Convert = boolEnv("RECIPE_DEBUG_CONVERT")
	d.Jinja = boolEnv("RECIPE_DEBUG_JINJA")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Patch() bool {
	return d.Patch
}
func Convert() bool {
	return d.Convert
}
func Jinja() bool {
	return d.Jinja
}
