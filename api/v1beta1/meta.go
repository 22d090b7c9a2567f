// Package v1beta1 contains the metadata shared by all v1beta1 cleave
// documents.
package v1beta1

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
)

// APIVersion is the current API version for all cleave document kinds.
const APIVersion = "cleave.jacobcolvin.com/v1beta1"

var (
	// ValidAPIVersions contains all valid API versions.
	ValidAPIVersions = []string{APIVersion}

	// ErrTypeMeta is returned when a document has an unknown apiVersion or kind.
	ErrTypeMeta = errors.New("invalid type metadata")
)

// TypeMeta contains the API version and kind metadata common to all documents.
type TypeMeta struct {
	// APIVersion specifies the API version for this document.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of document.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

func (tm TypeMeta) GetAPIVersion() string {
	return tm.APIVersion
}

func (tm TypeMeta) GetKind() string {
	return tm.Kind
}

// Object is the interface that all document types implement.
type Object interface {
	GetAPIVersion() string
	GetKind() string
	EnsureDefaults()
}

// CheckTypeMeta returns an error wrapping [ErrTypeMeta] unless obj has a
// valid API version and one of the given kinds.
func CheckTypeMeta(obj Object, kinds ...string) error {
	if !slices.Contains(ValidAPIVersions, obj.GetAPIVersion()) {
		return fmt.Errorf("%w: unsupported apiVersion %q", ErrTypeMeta, obj.GetAPIVersion())
	}

	if !slices.Contains(kinds, obj.GetKind()) {
		return fmt.Errorf("%w: unexpected kind %q", ErrTypeMeta, obj.GetKind())
	}

	return nil
}

// ExtendSchemaWithEnums restricts the apiVersion and kind properties of a
// JSON schema to the given values.
func ExtendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	extendProperty(jss, "apiVersion", "API Version", apiVersions)
	extendProperty(jss, "kind", "Kind", kinds)
}

func extendProperty(jss *jsonschema.Schema, name, title string, values []string) {
	prop, ok := jss.Properties.Get(name)
	if !ok {
		panic(name + " property not found in schema")
	}

	for _, v := range values {
		prop.OneOf = append(prop.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: v,
			Title: title,
		})
	}

	_, _ = jss.Properties.Set(name, prop)
}
