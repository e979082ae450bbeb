// Package format defines the recipe schema version discriminator shared
// by the parser, the substitution engine and the format converter.
package format
