package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jtd-infer/pkg/jtd"
)

func inferred(t *testing.T, cfg jtd.HintConfig, docs ...string) *jtd.Schema {
	t.Helper()
	h, err := jtd.ParseHints(cfg)
	require.NoError(t, err)
	in := jtd.New(h)
	for _, d := range docs {
		require.NoError(t, in.InferBytes([]byte(d)))
	}
	return in.Schema()
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestConvert_Forms(t *testing.T) {
	tests := []struct {
		name  string
		hints jtd.HintConfig
		docs  []string
		want  string
	}{
		{
			name: "empty",
			docs: []string{`null`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema"}`,
		},
		{
			name: "boolean",
			docs: []string{`true`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"boolean"}`,
		},
		{
			name: "integer bounds",
			docs: []string{`42`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"integer","minimum":0,"maximum":255}`,
		},
		{
			name: "float",
			docs: []string{`1.5`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"number"}`,
		},
		{
			name:  "enum",
			hints: jtd.HintConfig{EnumHints: []string{""}},
			docs:  []string{`"b"`, `"a"`},
			want:  `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"string","enum":["a","b"]}`,
		},
		{
			name: "nullable",
			docs: []string{`"x"`, `null`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema","anyOf":[{"type":"string"},{"type":"null"}]}`,
		},
		{
			name: "elements",
			docs: []string{`[true]`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"array","items":{"type":"boolean"}}`,
		},
		{
			name:  "values",
			hints: jtd.HintConfig{ValuesHints: []string{""}},
			docs:  []string{`{"a":"x","b":"y"}`},
			want:  `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"object","additionalProperties":{"type":"string"}}`,
		},
		{
			name: "properties",
			docs: []string{`{"a":"x","b":true}`, `{"a":"y"}`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"object",` +
				`"properties":{"a":{"type":"string"},"b":{"type":"boolean"}},"required":["a"],"additionalProperties":false}`,
		},
		{
			name:  "discriminator",
			hints: jtd.HintConfig{DiscriminatorHints: []string{"/type"}},
			docs:  []string{`{"type":"s","v":"x"}`, `{"type":"b","v":true}`},
			want: `{"$schema":"https://json-schema.org/draft/2020-12/schema","oneOf":[` +
				`{"type":"object","properties":{"type":{"type":"string","const":"s"},"v":{"type":"string"}},"required":["type","v"],"additionalProperties":false},` +
				`{"type":"object","properties":{"type":{"type":"string","const":"b"},"v":{"type":"boolean"}},"required":["type","v"],"additionalProperties":false}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(inferred(t, tt.hints, tt.docs...), nil)
			assert.JSONEq(t, tt.want, marshal(t, got))
		})
	}
}

func TestConvert_HandBuiltFloat32(t *testing.T) {
	got := Convert(&jtd.Schema{Type: "float32"}, nil)
	assert.JSONEq(t, `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"number"}`, marshal(t, got))
}

func TestConvert_Options(t *testing.T) {
	s := inferred(t, jtd.HintConfig{}, `{"a":1}`)

	got := Convert(s, &Options{AllowAdditional: true, ID: "https://example.com/doc.json"})
	assert.Equal(t, "https://example.com/doc.json", string(got.ID))
	assert.Nil(t, got.AdditionalProperties)
	assert.Equal(t, []string{"a"}, got.Required)
}

func TestConvert_PropertyOrderPreserved(t *testing.T) {
	s := inferred(t, jtd.HintConfig{}, `{"z":1,"a":2,"m":3}`)

	got := Convert(s, nil)
	var keys []string
	for p := got.Properties.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestConvert_Nil(t *testing.T) {
	got := Convert(nil, nil)
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", got.Version)
	assert.Empty(t, got.Type)
}
