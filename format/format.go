package format

import (
	"errors"
	"fmt"
)

// SchemaVersion discriminates the two recipe dialects. The pre-CEP-13
// format has no schema_version field and is designated V0. CEP-13+
// recipes carry `schema_version: 1` at the top level.
type SchemaVersion int

const (
	V0 SchemaVersion = 0
	V1 SchemaVersion = 1
)

// CurrentSchemaVersion is the version written by the format converter.
const CurrentSchemaVersion = V1

// Recipe file names mandated by each dialect.
const (
	V0RecipeFileName = "meta.yaml"
	V1RecipeFileName = "recipe.yaml"
)

var ErrBadSchemaVersion = errors.New("bad schema version")

func ParseSchemaVersion(v int) (SchemaVersion, error) {
	switch v {
	case 0:
		return V0, nil
	case 1:
		return V1, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrBadSchemaVersion, v)
}

func (sv SchemaVersion) String() string {
	switch sv {
	case V0:
		return "V0"
	case V1:
		return "V1"
	}
	return "<unknown schema version>"
}
