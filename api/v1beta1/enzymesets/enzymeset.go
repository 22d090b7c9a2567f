// Package enzymesets provides the EnzymeSet document type.
package enzymesets

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/cleave/api/v1beta1"
	"github.com/macropower/cleave/pkg/enzyme"
	"github.com/macropower/cleave/pkg/yaml"
)

//go:generate go run ../../../internal/schemagen/main.go -o enzymesets.v1beta1.json

// SchemaURL is the published location of the EnzymeSet schema.
const SchemaURL = "https://raw.githubusercontent.com/macropower/cleave/refs/heads/main/api/v1beta1/enzymesets/enzymesets.v1beta1.json"

// Kind is the kind of an EnzymeSet document.
const Kind = "EnzymeSet"

var (
	//go:embed enzymes.yaml
	builtinYAML []byte

	//go:embed enzymesets.v1beta1.json
	schemaJSON []byte

	// ValidKinds contains the valid kind values for enzyme sets.
	ValidKinds = []string{Kind}

	// DefaultValidator validates enzyme sets against the JSON schema.
	DefaultValidator = yaml.MustNewValidator(SchemaURL, schemaJSON)

	// Compile-time interface checks.
	_ v1beta1.Object = (*EnzymeSet)(nil)
)

// EnzymeSet is a document defining a list of enzymes.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type EnzymeSet struct {
	v1beta1.TypeMeta `json:",inline"`
	// Enzymes lists the enzymes defined by the document.
	Enzymes []*enzyme.Enzyme `json:"enzymes" jsonschema:"title=Enzymes"`
}

// New creates an empty [EnzymeSet].
func New() *EnzymeSet {
	s := &EnzymeSet{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	s.EnsureDefaults()

	return s
}

// EnsureDefaults initializes nil fields to their default values.
func (s *EnzymeSet) EnsureDefaults() {
	if s.Enzymes == nil {
		s.Enzymes = []*enzyme.Enzyme{}
	}
}

func (s EnzymeSet) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// Compile compiles the rules of every enzyme. All failures are returned
// together.
func (s *EnzymeSet) Compile(ctx context.Context) error {
	var errs []error

	for i, e := range s.Enzymes {
		if e == nil {
			errs = append(errs, fmt.Errorf("enzymes[%d]: empty entry", i))
			continue
		}

		err := e.Compile(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("enzymes[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

// BuiltinYAML returns the embedded catalogue document.
func BuiltinYAML() []byte {
	return bytes.Clone(builtinYAML)
}

// SchemaJSON returns the embedded JSON schema.
func SchemaJSON() []byte {
	return bytes.Clone(schemaJSON)
}
