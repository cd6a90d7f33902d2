package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/pipeline"
	"github.com/usestring/jtd-infer/pkg/jtd"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	cfg := &config.Config{Workers: 2, ParallelThreshold: 100, HintCacheMaxItems: 4, MaxDocuments: 100}
	engine, err := pipeline.New(cfg)
	require.NoError(t, err)
	return &Deps{Engine: engine, Config: cfg}
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestToolInfer_Input(t *testing.T) {
	handler := ToolInfer(testDeps(t))

	_, out, err := handler(context.Background(), nil, InferInput{
		Input:     "{\"status\":\"ok\",\"n\":1}\n{\"status\":\"err\",\"n\":2}",
		EnumHints: []string{"/status"},
		Stats:     true,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"properties":{"status":{"enum":["err","ok"]},"n":{"type":"uint8"}}}`, toJSON(t, out.Schema))
	assert.Equal(t, 2, out.Summary.Documents)
	assert.Len(t, out.Stats, 3)
	assert.Empty(t, out.Hint)
}

func TestToolInfer_Documents(t *testing.T) {
	handler := ToolInfer(testDeps(t))

	_, out, err := handler(context.Background(), nil, InferInput{
		Documents: []any{map[string]any{"a": true}, map[string]any{"a": nil}},
		Output:    "jsonschema",
		Verify:    true,
	})
	require.NoError(t, err)

	schema, ok := out.Schema.(map[string]any)
	require.True(t, ok, "%T", out.Schema)
	assert.Equal(t, "object", schema["type"])
	require.NotNil(t, out.Verification)
	assert.True(t, out.Verification.Valid)
	assert.NotEmpty(t, out.Hint)
}

func TestToolInfer_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    InferInput
		wantCode string
	}{
		{"missing input", InferInput{}, ErrCodeInvalidInput},
		{"bad output", InferInput{Input: "1", Output: "xml"}, ErrCodeInvalidInput},
		{"bad json", InferInput{Input: `{"a":`}, ErrCodeInvalidInput},
		{"bad hint", InferInput{Input: "1", ValuesHints: []string{"a/b"}}, ErrCodeInvalidHint},
		{"bad number type", InferInput{Input: "1", DefaultNumberType: "int64"}, ErrCodeInvalidHint},
		{"discriminator", InferInput{Input: `{"t":5}`, DiscriminatorHints: []string{"/t"}}, ErrCodeDiscriminator},
	}

	handler := ToolInfer(testDeps(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := handler(context.Background(), nil, tt.input)
			require.Error(t, err)

			var coded *CodedError
			require.True(t, errors.As(err, &coded), "got %T", err)
			assert.Equal(t, tt.wantCode, coded.Code)
		})
	}
}

func TestToolParseHint(t *testing.T) {
	tests := []struct {
		name  string
		input ParseHintInput
		want  ParseHintOutput
	}{
		{
			name:  "wildcards",
			input: ParseHintInput{Pointer: "/items/-/status"},
			want:  ParseHintOutput{Valid: true, Pointer: "/items/-/status", Segments: []string{"items", "-", "status"}, Wildcards: 1},
		},
		{
			name:  "escapes",
			input: ParseHintInput{Pointer: "/a~1b/c~0d"},
			want:  ParseHintOutput{Valid: true, Pointer: "/a~1b/c~0d", Segments: []string{"a/b", "c~d"}},
		},
		{
			name:  "root",
			input: ParseHintInput{Pointer: "", Kind: HintKindValues},
			want:  ParseHintOutput{Valid: true, Pointer: ""},
		},
	}

	handler := ToolParseHint(testDeps(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := handler(context.Background(), nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestToolParseHint_Invalid(t *testing.T) {
	handler := ToolParseHint(testDeps(t))

	_, out, err := handler(context.Background(), nil, ParseHintInput{Pointer: "no-slash"})
	require.NoError(t, err)
	assert.False(t, out.Valid)
	assert.NotEmpty(t, out.Error)

	_, out, err = handler(context.Background(), nil, ParseHintInput{Pointer: "", Kind: HintKindDiscriminator})
	require.NoError(t, err)
	assert.False(t, out.Valid)

	_, _, err = handler(context.Background(), nil, ParseHintInput{Pointer: "/a", Kind: "struct"})
	assert.Error(t, err)
}

func TestCode(t *testing.T) {
	assert.Equal(t, ErrCodeInvalidHint, Code(&jtd.PatternError{Hint: "x", Reason: "bad"}))
	assert.Equal(t, ErrCodeDiscriminator, Code(&jtd.DiscriminatorError{Tag: "t", Reason: "is missing"}))
	assert.Equal(t, ErrCodeTimeout, Code(context.DeadlineExceeded))
	assert.Equal(t, ErrCodeInternal, Code(errors.New("boom")))
	assert.Equal(t, ErrCodeInvalidInput, Code(ErrInvalidInput("x")))
}
