package yaml

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator reflects a JSON schema from a Go value.
// Uses [github.com/invopop/jsonschema].
type SchemaGenerator struct {
	reflector *jsonschema.Reflector
	value     any
	id        string
}

// NewSchemaGenerator creates a [SchemaGenerator] for v, publishing the
// schema under id.
func NewSchemaGenerator(v any, id string) *SchemaGenerator {
	return &SchemaGenerator{
		value: v,
		id:    id,
		reflector: &jsonschema.Reflector{
			ExpandedStruct:            true,
			AllowAdditionalProperties: false,
		},
	}
}

// Generate returns the indented schema document.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	jss := g.reflector.Reflect(g.value)
	jss.ID = jsonschema.ID(g.id)

	out, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(out, '\n'), nil
}
