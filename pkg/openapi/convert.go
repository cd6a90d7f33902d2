// Package openapi converts inferred JSON Type Definition schemas into
// OpenAPI 3.0 schema objects.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/usestring/jtd-infer/pkg/jtd"
)

// Convert returns the OpenAPI 3.0 equivalent of s. Discriminators become a
// oneOf of inline branch objects with a discriminator object; each branch
// pins its tag with a single-member enum.
func Convert(s *jtd.Schema) *openapi3.Schema {
	if s == nil {
		return &openapi3.Schema{}
	}

	var out *openapi3.Schema
	switch s.Form() {
	case jtd.FormType:
		out = typeSchema(s.Type)

	case jtd.FormEnum:
		out = &openapi3.Schema{Type: openapi3.TypeString, Enum: make([]interface{}, len(s.Enum))}
		for i, v := range s.Enum {
			out.Enum[i] = v
		}

	case jtd.FormElements:
		out = &openapi3.Schema{Type: openapi3.TypeArray, Items: Convert(s.Elements).NewRef()}

	case jtd.FormValues:
		out = &openapi3.Schema{
			Type:                 openapi3.TypeObject,
			AdditionalProperties: openapi3.AdditionalProperties{Schema: Convert(s.Values).NewRef()},
		}

	case jtd.FormProperties:
		out = object(s, "", "")

	case jtd.FormDiscriminator:
		out = &openapi3.Schema{
			Discriminator: &openapi3.Discriminator{PropertyName: s.Discriminator},
		}
		if s.Mapping != nil {
			for p := s.Mapping.Oldest(); p != nil; p = p.Next() {
				out.OneOf = append(out.OneOf, object(p.Value, s.Discriminator, p.Key).NewRef())
			}
		}

	default:
		return &openapi3.Schema{}
	}

	out.Nullable = s.Nullable
	return out
}

func object(s *jtd.Schema, tag, value string) *openapi3.Schema {
	closed := false
	out := &openapi3.Schema{
		Type:                 openapi3.TypeObject,
		Properties:           make(openapi3.Schemas),
		AdditionalProperties: openapi3.AdditionalProperties{Has: &closed},
	}
	if tag != "" {
		out.Properties[tag] = (&openapi3.Schema{
			Type: openapi3.TypeString,
			Enum: []interface{}{value},
		}).NewRef()
		out.Required = append(out.Required, tag)
	}
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			out.Properties[p.Key] = Convert(p.Value).NewRef()
			out.Required = append(out.Required, p.Key)
		}
	}
	if s.OptionalProperties != nil {
		for p := s.OptionalProperties.Oldest(); p != nil; p = p.Next() {
			out.Properties[p.Key] = Convert(p.Value).NewRef()
		}
	}
	return out
}

func typeSchema(name string) *openapi3.Schema {
	switch name {
	case jtd.TypeBoolean:
		return &openapi3.Schema{Type: openapi3.TypeBoolean}
	case jtd.TypeString:
		return &openapi3.Schema{Type: openapi3.TypeString}
	// Inference never emits float32; hand-built schemas may.
	case "float32":
		return &openapi3.Schema{Type: openapi3.TypeNumber, Format: "float"}
	case "float64":
		return &openapi3.Schema{Type: openapi3.TypeNumber, Format: "double"}
	}

	t, err := jtd.ParseNumType(name)
	if err != nil {
		return &openapi3.Schema{}
	}
	lo, hi, ok := t.Range()
	if !ok {
		return &openapi3.Schema{Type: openapi3.TypeNumber, Format: "double"}
	}
	out := &openapi3.Schema{Type: openapi3.TypeInteger, Min: &lo, Max: &hi}
	switch t {
	case jtd.Int32:
		out.Format = "int32"
	case jtd.Uint32:
		out.Format = "int64"
	}
	return out
}
