package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/pipeline"
	"github.com/usestring/jtd-infer/pkg/types"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := &config.Config{
		Workers:           2,
		ParallelThreshold: 100,
		HintCacheMaxItems: 4,
		MaxDocuments:      100,
		MaxBodyBytes:      1 << 16,
	}
	if mutate != nil {
		mutate(cfg)
	}
	engine, err := pipeline.New(cfg, pipeline.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return New(engine, cfg)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type inferResponse struct {
	Schema       json.RawMessage     `json:"schema"`
	Output       string              `json:"output"`
	Summary      types.InferSummary  `json:"summary"`
	Verification *types.VerifyResult `json:"verification"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestInfer_JSONBody(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/infer", "application/json",
		`{"documents":[{"kind":"a","n":1},{"kind":"b","n":2}],"enum_hints":["/kind"],"verify":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	res := decode[inferResponse](t, rec)
	assert.JSONEq(t, `{"properties":{"kind":{"enum":["a","b"]},"n":{"type":"uint8"}}}`, string(res.Schema))
	assert.Equal(t, "jtd", res.Output)
	assert.Equal(t, 2, res.Summary.Documents)
	require.NotNil(t, res.Verification)
	assert.True(t, res.Verification.Valid)

	assert.Equal(t, float64(2), testutil.ToFloat64(s.Metrics().documents))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics().requests.WithLabelValues("/v1/infer", http.MethodPost, "200")))
}

func TestInfer_InputField(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/infer", "",
		`{"input":"a: 1\n---\na: -1\n","input_format":"yaml","output":"jsonschema"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[inferResponse](t, rec)
	assert.Equal(t, "jsonschema", res.Output)
	assert.Contains(t, string(res.Schema), `"minimum":-128`)
}

func TestInfer_RawNDJSON(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/infer?values_hint=/scores&output=openapi&stats=true",
		"application/x-ndjson", "{\"scores\":{\"x\":1}}\n{\"scores\":{\"y\":2.5}}\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[inferResponse](t, rec)
	assert.Equal(t, "openapi", res.Output)
	var schema struct {
		Type                 string `json:"type"`
		AdditionalProperties bool   `json:"additionalProperties"`
		Properties           struct {
			Scores struct {
				Type                 string         `json:"type"`
				AdditionalProperties map[string]any `json:"additionalProperties"`
			} `json:"scores"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(res.Schema, &schema))
	assert.Equal(t, "object", schema.Type)
	assert.False(t, schema.AdditionalProperties)
	assert.Equal(t, "object", schema.Properties.Scores.Type)
	assert.Equal(t, "number", schema.Properties.Scores.AdditionalProperties["type"])
	assert.Equal(t, "double", schema.Properties.Scores.AdditionalProperties["format"])
	assert.Contains(t, rec.Body.String(), `"stats":[`)
}

func TestInfer_RawYAML(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/infer?query=.items%5B%5D", "application/yaml", "items:\n  - id: x\n  - id: y\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[inferResponse](t, rec)
	assert.JSONEq(t, `{"properties":{"id":{"type":"string"}}}`, string(res.Schema))
	assert.Equal(t, 1, res.Summary.InputDocuments)
	assert.Equal(t, 2, res.Summary.Documents)
}

func TestInfer_Errors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*config.Config)
		target      string
		contentType string
		body        string
		wantStatus  int
		wantCode    string
	}{
		{
			name:        "missing documents",
			contentType: "application/json",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
		},
		{
			name:        "malformed body",
			contentType: "application/json",
			body:        `{"documents":`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
		},
		{
			name:        "unknown field",
			contentType: "application/json",
			body:        `{"docs":[1]}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
		},
		{
			name:        "unsupported content type",
			contentType: "application/xml",
			body:        `<a/>`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
		},
		{
			name:        "bad hint",
			contentType: "application/json",
			body:        `{"documents":[{}],"values_hints":["nope"]}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_HINT",
		},
		{
			name:        "discriminator violation",
			contentType: "application/json",
			body:        `{"documents":[{"t":"a"},{"t":1}],"discriminator_hints":["/t"]}`,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "DISCRIMINATOR",
		},
		{
			name:        "bad stats flag",
			target:      "/v1/infer?stats=maybe",
			contentType: "application/x-ndjson",
			body:        `1`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
		},
		{
			name:        "body too large",
			mutate:      func(c *config.Config) { c.MaxBodyBytes = 8 },
			contentType: "application/x-ndjson",
			body:        `{"a":"0123456789"}`,
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantCode:    ErrCodeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.mutate)
			target := tt.target
			if target == "" {
				target = "/v1/infer"
			}

			rec := do(t, s, http.MethodPost, target, tt.contentType, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			body := decode[ErrorBody](t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
			assert.Equal(t, rec.Header().Get(HeaderRequestID), body.RequestID)
			assert.Equal(t, float64(1), testutil.ToFloat64(s.Metrics().errors.WithLabelValues(tt.wantCode)))
		})
	}
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/v1/infer", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, s, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[ErrorBody](t, rec).Code)

	do(t, s, http.MethodGet, "/healthz", "", "")
	rec = do(t, s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `jtd_infer_http_requests_total{code="200",method="GET",route="/healthz"} 1`)
}
