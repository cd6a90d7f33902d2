package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	invopop "github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/pkg/jtd"
	"github.com/usestring/jtd-infer/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Workers:           4,
		ParallelThreshold: 8,
		HintCacheMaxItems: 8,
		MaxDocuments:      1000,
	}
}

func newEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	e, err := New(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return e
}

func schemaJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestRun_JTDFromInput(t *testing.T) {
	e := newEngine(t, testConfig())

	res, err := e.Run(context.Background(), &types.InferRequest{
		Input: strings.NewReader(`{"name":"a","age":3} {"name":"b","age":300}`),
	})
	require.NoError(t, err)

	assert.Equal(t, types.OutputJTD, res.Output)
	assert.JSONEq(t, `{"properties":{"name":{"type":"string"},"age":{"type":"uint16"}}}`, schemaJSON(t, res.Schema))
	assert.Equal(t, 2, res.Summary.Documents)
	assert.Equal(t, 2, res.Summary.InputDocuments)
	assert.Equal(t, 1, res.Summary.Workers)
	assert.Equal(t, jtd.FormProperties, res.Summary.Form)
	assert.Nil(t, res.Stats)
	assert.Nil(t, res.Verification)
}

func TestRun_YAMLWithQuery(t *testing.T) {
	e := newEngine(t, testConfig())

	res, err := e.Run(context.Background(), &types.InferRequest{
		Input:       strings.NewReader("items:\n  - id: 1\n  - id: 2\n    extra: x\n"),
		InputFormat: "yaml",
		Query:       ".items[]",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"properties":{"id":{"type":"uint8"}},"optionalProperties":{"extra":{"type":"string"}}}`, schemaJSON(t, res.Schema))
	assert.Equal(t, 1, res.Summary.InputDocuments)
	assert.Equal(t, 2, res.Summary.Documents)
}

func TestRun_ConfiguredDefaultNumberType(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultNumberType = "int32"
	e := newEngine(t, cfg)

	res, err := e.Run(context.Background(), &types.InferRequest{Documents: [][]byte{[]byte(`12`)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"int32"}`, schemaJSON(t, res.Schema))

	res, err = e.Run(context.Background(), &types.InferRequest{
		Documents: [][]byte{[]byte(`12`)},
		Hints:     jtd.HintConfig{DefaultNumType: "uint8"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"uint8"}`, schemaJSON(t, res.Schema))
}

func TestRun_OutputFormats(t *testing.T) {
	e := newEngine(t, testConfig())
	docs := [][]byte{[]byte(`{"a":1}`)}

	res, err := e.Run(context.Background(), &types.InferRequest{Documents: docs, Output: types.OutputJSONSchema})
	require.NoError(t, err)
	_, ok := res.Schema.(*invopop.Schema)
	assert.True(t, ok, "%T", res.Schema)

	res, err = e.Run(context.Background(), &types.InferRequest{Documents: docs, Output: types.OutputOpenAPI})
	require.NoError(t, err)
	_, ok = res.Schema.(*openapi3.Schema)
	assert.True(t, ok, "%T", res.Schema)

	_, err = e.Run(context.Background(), &types.InferRequest{Documents: docs, Output: "xsd"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	var docs [][]byte
	for i := range 40 {
		switch i % 3 {
		case 0:
			docs = append(docs, []byte(`{"kind":"a","n":1,"tags":["x"]}`))
		case 1:
			docs = append(docs, []byte(`{"kind":"b","n":-1.5,"meta":null}`))
		default:
			docs = append(docs, []byte(`{"kind":"a","n":70000,"meta":{"k":true}}`))
		}
	}
	hints := jtd.HintConfig{DiscriminatorHints: []string{"/kind"}}

	seqCfg := testConfig()
	seqCfg.ParallelThreshold = 1 << 20
	seq, err := newEngine(t, seqCfg).Run(context.Background(), &types.InferRequest{Documents: docs, Hints: hints, Stats: true})
	require.NoError(t, err)

	par, err := newEngine(t, testConfig()).Run(context.Background(), &types.InferRequest{Documents: docs, Hints: hints, Stats: true})
	require.NoError(t, err)

	assert.Equal(t, 1, seq.Summary.Workers)
	assert.Equal(t, 4, par.Summary.Workers)
	assert.Equal(t, schemaJSON(t, seq.Schema), schemaJSON(t, par.Schema))
	assert.Equal(t, seq.Stats, par.Stats)
}

func TestRun_VerifyAcceptsInputs(t *testing.T) {
	e := newEngine(t, testConfig())

	res, err := e.Run(context.Background(), &types.InferRequest{
		Documents: [][]byte{
			[]byte(`{"type":"circle","r":1.5,"tags":{"a":"x"}}`),
			[]byte(`{"type":"square","side":2,"tags":{},"note":null}`),
			[]byte(`{"type":"square","side":-4,"tags":{"b":"y"},"note":"n"}`),
		},
		Hints: jtd.HintConfig{
			DiscriminatorHints: []string{"/type"},
			ValuesHints:        []string{"/tags"},
		},
		Verify: true,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Verification)
	assert.True(t, res.Verification.Valid, res.Verification.Failures)
	assert.Equal(t, 3, res.Verification.Checked)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(*config.Config)
		req     *types.InferRequest
		wantIs  error
		wantMsg string
	}{
		{
			name:   "no input",
			req:    &types.InferRequest{},
			wantIs: ErrInvalidInput,
		},
		{
			name:   "unknown input format",
			req:    &types.InferRequest{Input: strings.NewReader(`{}`), InputFormat: "toml"},
			wantIs: ErrInvalidInput,
		},
		{
			name:    "malformed document",
			req:     &types.InferRequest{Documents: [][]byte{[]byte(`{}`), []byte(`{"a":`)}},
			wantIs:  ErrInvalidInput,
			wantMsg: "document 1",
		},
		{
			name:   "bad hint",
			req:    &types.InferRequest{Documents: [][]byte{[]byte(`{}`)}, Hints: jtd.HintConfig{EnumHints: []string{"x"}}},
			wantIs: jtd.ErrInvalidPointer,
		},
		{
			name:   "bad default type",
			req:    &types.InferRequest{Documents: [][]byte{[]byte(`1`)}, Hints: jtd.HintConfig{DefaultNumType: "float32"}},
			wantIs: jtd.ErrUnsupportedNumType,
		},
		{
			name: "discriminator violation",
			req: &types.InferRequest{
				Documents: [][]byte{[]byte(`{"t":"a"}`), []byte(`{"t":1}`)},
				Hints:     jtd.HintConfig{DiscriminatorHints: []string{"/t"}},
			},
			wantIs:  jtd.ErrDiscriminatorTag,
			wantMsg: "document 1",
		},
		{
			name:   "too many documents",
			cfg:    func(c *config.Config) { c.MaxDocuments = 1 },
			req:    &types.InferRequest{Documents: [][]byte{[]byte(`1`), []byte(`2`)}},
			wantIs: ErrInvalidInput,
		},
		{
			name:   "bad query",
			req:    &types.InferRequest{Documents: [][]byte{[]byte(`1`)}, Query: ".["},
			wantIs: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			_, err := newEngine(t, cfg).Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantIs), "got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRun_DiscriminatorErrorIsNotInvalidInput(t *testing.T) {
	e := newEngine(t, testConfig())

	_, err := e.Run(context.Background(), &types.InferRequest{
		Documents: [][]byte{[]byte(`{}`)},
		Hints:     jtd.HintConfig{DiscriminatorHints: []string{"/t"}},
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidInput))

	var derr *jtd.DiscriminatorError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "t", derr.Tag)
}

func TestRun_Canceled(t *testing.T) {
	e := newEngine(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, &types.InferRequest{Documents: [][]byte{[]byte(`1`)}})
	assert.ErrorIs(t, err, context.Canceled)
}
