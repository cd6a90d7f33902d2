package openapi

import (
	"encoding/json"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
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

func TestConvert_Types(t *testing.T) {
	tests := []struct {
		doc    string
		typ    string
		format string
	}{
		{`true`, openapi3.TypeBoolean, ""},
		{`"s"`, openapi3.TypeString, ""},
		{`1.5`, openapi3.TypeNumber, "double"},
		{`7`, openapi3.TypeInteger, ""},
		{`-70000`, openapi3.TypeInteger, "int32"},
		{`70000`, openapi3.TypeInteger, "int64"},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got := Convert(inferred(t, jtd.HintConfig{}, tt.doc))
			assert.Equal(t, tt.typ, got.Type)
			assert.Equal(t, tt.format, got.Format)
		})
	}
}

func TestConvert_HandBuiltFloat32(t *testing.T) {
	got := Convert(&jtd.Schema{Type: "float32"})
	assert.Equal(t, openapi3.TypeNumber, got.Type)
	assert.Equal(t, "float", got.Format)
}

func TestConvert_IntegerBounds(t *testing.T) {
	got := Convert(inferred(t, jtd.HintConfig{}, `-3`, `100`))

	require.NotNil(t, got.Min)
	require.NotNil(t, got.Max)
	assert.Equal(t, float64(-128), *got.Min)
	assert.Equal(t, float64(127), *got.Max)
}

func TestConvert_Properties(t *testing.T) {
	got := Convert(inferred(t, jtd.HintConfig{}, `{"a":"x","b":null}`, `{"a":"y","b":1}`, `{"a":"z"}`))

	assert.Equal(t, openapi3.TypeObject, got.Type)
	assert.Equal(t, []string{"a"}, got.Required)
	require.Contains(t, got.Properties, "b")
	assert.True(t, got.Properties["b"].Value.Nullable)
	require.NotNil(t, got.AdditionalProperties.Has)
	assert.False(t, *got.AdditionalProperties.Has)
}

func TestConvert_Discriminator(t *testing.T) {
	s := inferred(t, jtd.HintConfig{DiscriminatorHints: []string{"/kind"}},
		`{"kind":"a","x":1}`, `{"kind":"b","y":"s"}`)

	got := Convert(s)
	require.NotNil(t, got.Discriminator)
	assert.Equal(t, "kind", got.Discriminator.PropertyName)
	require.Len(t, got.OneOf, 2)
	assert.Equal(t, []interface{}{"a"}, got.OneOf[0].Value.Properties["kind"].Value.Enum)
	assert.Equal(t, []string{"kind", "x"}, got.OneOf[0].Value.Required)
}

func TestConvert_AcceptsEveryInput(t *testing.T) {
	tests := []struct {
		name  string
		hints jtd.HintConfig
		docs  []string
	}{
		{
			name: "mixed",
			docs: []string{
				`{"id":1,"tags":["a"],"meta":null}`,
				`{"id":300,"tags":[],"meta":{"k":true}}`,
			},
		},
		{
			name:  "values",
			hints: jtd.HintConfig{ValuesHints: []string{"/scores"}},
			docs:  []string{`{"scores":{"x":1.5,"y":2}}`},
		},
		{
			name:  "discriminator",
			hints: jtd.HintConfig{DiscriminatorHints: []string{"/-/type"}},
			docs:  []string{`[{"type":"p","v":1},{"type":"q","w":"s"}]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := Convert(inferred(t, tt.hints, tt.docs...))
			for _, d := range tt.docs {
				var v interface{}
				require.NoError(t, json.Unmarshal([]byte(d), &v))
				assert.NoError(t, schema.VisitJSON(v), d)
			}
		})
	}
}

func TestConvert_Nil(t *testing.T) {
	got := Convert(nil)
	assert.Empty(t, got.Type)
	assert.False(t, got.Nullable)
}
