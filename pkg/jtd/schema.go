package jtd

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Primitive type names used in the "type" keyword.
const (
	TypeBoolean = "boolean"
	TypeString  = "string"
)

// RFC 8927 schema forms, as reported by Schema.Form.
const (
	FormEmpty         = "empty"
	FormType          = "type"
	FormEnum          = "enum"
	FormElements      = "elements"
	FormProperties    = "properties"
	FormValues        = "values"
	FormDiscriminator = "discriminator"
)

// Schema is a JSON Type Definition schema. The zero value is the empty form,
// which accepts any value.
type Schema struct {
	Type               string                                  `json:"type,omitempty"`
	Enum               []string                                `json:"enum,omitempty"`
	Elements           *Schema                                 `json:"elements,omitempty"`
	Properties         *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty"`
	OptionalProperties *orderedmap.OrderedMap[string, *Schema] `json:"optionalProperties,omitempty"`
	Values             *Schema                                 `json:"values,omitempty"`
	Discriminator      string                                  `json:"discriminator,omitempty"`
	Mapping            *orderedmap.OrderedMap[string, *Schema] `json:"mapping,omitempty"`
	Nullable           bool                                    `json:"nullable,omitempty"`
}

// Form names the RFC 8927 form of the schema.
func (s *Schema) Form() string {
	switch {
	case s.Type != "":
		return FormType
	case s.Enum != nil:
		return FormEnum
	case s.Elements != nil:
		return FormElements
	case s.Properties != nil || s.OptionalProperties != nil:
		return FormProperties
	case s.Values != nil:
		return FormValues
	case s.Discriminator != "":
		return FormDiscriminator
	default:
		return FormEmpty
	}
}

// MarshalIndent renders the schema as indented JSON.
func (s *Schema) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
