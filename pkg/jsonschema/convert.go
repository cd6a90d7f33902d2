// Package jsonschema converts inferred JSON Type Definition schemas into
// JSON Schema Draft 2020-12.
package jsonschema

import (
	"encoding/json"
	"strconv"

	"github.com/invopop/jsonschema"

	"github.com/usestring/jtd-infer/pkg/jtd"
)

// JSON Schema type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Options controls conversion.
type Options struct {
	// AllowAdditional leaves additionalProperties unset on object schemas.
	// By default unknown keys are rejected, matching JTD semantics.
	AllowAdditional bool
	// ID sets $id on the root schema when non-empty.
	ID string
}

// Convert returns the JSON Schema equivalent of s. The root carries $schema.
func Convert(s *jtd.Schema, opts *Options) *jsonschema.Schema {
	if opts == nil {
		opts = &Options{}
	}
	c := converter{opts: opts}
	out := c.convert(s)
	out.Version = jsonschema.Version
	if opts.ID != "" {
		out.ID = jsonschema.ID(opts.ID)
	}
	return out
}

type converter struct {
	opts *Options
}

func (c *converter) convert(s *jtd.Schema) *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{}
	}
	out := c.form(s)
	if s.Nullable && s.Form() != jtd.FormEmpty {
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{out, {Type: TypeNull}}}
	}
	return out
}

func (c *converter) form(s *jtd.Schema) *jsonschema.Schema {
	switch s.Form() {
	case jtd.FormType:
		return typeSchema(s.Type)

	case jtd.FormEnum:
		enum := make([]any, len(s.Enum))
		for i, v := range s.Enum {
			enum[i] = v
		}
		return &jsonschema.Schema{Type: TypeString, Enum: enum}

	case jtd.FormElements:
		return &jsonschema.Schema{Type: TypeArray, Items: c.convert(s.Elements)}

	case jtd.FormValues:
		return &jsonschema.Schema{Type: TypeObject, AdditionalProperties: c.convert(s.Values)}

	case jtd.FormProperties:
		return c.object(s, "", "")

	case jtd.FormDiscriminator:
		if s.Mapping == nil || s.Mapping.Len() == 0 {
			return &jsonschema.Schema{Type: TypeObject}
		}
		out := &jsonschema.Schema{OneOf: make([]*jsonschema.Schema, 0, s.Mapping.Len())}
		for p := s.Mapping.Oldest(); p != nil; p = p.Next() {
			out.OneOf = append(out.OneOf, c.object(p.Value, s.Discriminator, p.Key))
		}
		return out
	}
	return &jsonschema.Schema{}
}

// object converts a properties form. When tag is set, the object is a
// discriminator branch and gets a required const property for it.
func (c *converter) object(s *jtd.Schema, tag, value string) *jsonschema.Schema {
	out := &jsonschema.Schema{Type: TypeObject, Properties: jsonschema.NewProperties()}
	if tag != "" {
		out.Properties.Set(tag, &jsonschema.Schema{Type: TypeString, Const: value})
		out.Required = append(out.Required, tag)
	}
	if s.Properties != nil {
		for p := s.Properties.Oldest(); p != nil; p = p.Next() {
			out.Properties.Set(p.Key, c.convert(p.Value))
			out.Required = append(out.Required, p.Key)
		}
	}
	if s.OptionalProperties != nil {
		for p := s.OptionalProperties.Oldest(); p != nil; p = p.Next() {
			out.Properties.Set(p.Key, c.convert(p.Value))
		}
	}
	if !c.opts.AllowAdditional {
		out.AdditionalProperties = jsonschema.FalseSchema
	}
	return out
}

func typeSchema(name string) *jsonschema.Schema {
	switch name {
	case jtd.TypeBoolean:
		return &jsonschema.Schema{Type: TypeBoolean}
	case jtd.TypeString:
		return &jsonschema.Schema{Type: TypeString}
	// Inference never emits float32; hand-built schemas may.
	case "float32", "float64":
		return &jsonschema.Schema{Type: TypeNumber}
	}
	t, err := jtd.ParseNumType(name)
	if err != nil {
		return &jsonschema.Schema{}
	}
	lo, hi, ok := t.Range()
	if !ok {
		return &jsonschema.Schema{Type: TypeNumber}
	}
	return &jsonschema.Schema{
		Type:    TypeInteger,
		Minimum: formatBound(lo),
		Maximum: formatBound(hi),
	}
}

func formatBound(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}
