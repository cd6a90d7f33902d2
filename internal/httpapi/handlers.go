package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/usestring/jtd-infer/internal/mcp/tools"
	"github.com/usestring/jtd-infer/internal/source"
	"github.com/usestring/jtd-infer/pkg/jtd"
	"github.com/usestring/jtd-infer/pkg/types"
)

// InferBody is the JSON request body of POST /v1/infer. Either Documents or
// Input is required.
type InferBody struct {
	Documents          []json.RawMessage `json:"documents,omitempty"`
	Input              string            `json:"input,omitempty"`
	InputFormat        string            `json:"input_format,omitempty"`
	Query              string            `json:"query,omitempty"`
	EnumHints          []string          `json:"enum_hints,omitempty"`
	ValuesHints        []string          `json:"values_hints,omitempty"`
	DiscriminatorHints []string          `json:"discriminator_hints,omitempty"`
	DefaultNumberType  string            `json:"default_number_type,omitempty"`
	Output             string            `json:"output,omitempty"`
	Stats              bool              `json:"stats,omitempty"`
	Verify             bool              `json:"verify,omitempty"`
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// handleInfer accepts either an InferBody (application/json) or the raw
// documents themselves (application/x-ndjson, application/yaml) with options
// in the query string.
func (s *Server) handleInfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxBodyBytes))
		}

		req, err := s.decodeInferRequest(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		res, err := s.engine.Run(r.Context(), req)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		s.metrics.documents.Add(float64(res.Summary.Documents))

		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) decodeInferRequest(r *http.Request) (*types.InferRequest, error) {
	contentType := r.Header.Get("Content-Type")
	format, ok := source.FormatForContentType(contentType)
	if contentType == "" {
		format, ok = source.FormatJSON, true
	}
	if !ok {
		return nil, &tools.CodedError{Code: tools.ErrCodeInvalidInput, Message: fmt.Sprintf("unsupported content type %q", contentType)}
	}

	if format == source.FormatJSON && !isRawJSON(contentType) {
		return decodeBody(r)
	}
	return decodeRaw(r, format)
}

// isRawJSON reports whether a JSON content type carries documents rather
// than an InferBody.
func isRawJSON(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "ndjson") || strings.Contains(ct, "jsonl") || strings.Contains(ct, "json-seq")
}

func decodeBody(r *http.Request) (*types.InferRequest, error) {
	var body InferBody
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return nil, bodyError(err)
	}

	output, err := types.ParseOutputFormat(body.Output)
	if err != nil {
		return nil, tools.ErrInvalidInput(err.Error())
	}

	req := &types.InferRequest{
		InputFormat: body.InputFormat,
		Query:       body.Query,
		Hints: jtd.HintConfig{
			DefaultNumType:     body.DefaultNumberType,
			EnumHints:          body.EnumHints,
			ValuesHints:        body.ValuesHints,
			DiscriminatorHints: body.DiscriminatorHints,
		},
		Output: output,
		Stats:  body.Stats,
		Verify: body.Verify,
	}
	switch {
	case len(body.Documents) > 0:
		req.Documents = make([][]byte, len(body.Documents))
		for i, d := range body.Documents {
			req.Documents[i] = d
		}
	case strings.TrimSpace(body.Input) != "":
		req.Input = strings.NewReader(body.Input)
	default:
		return nil, tools.ErrInvalidInput("either input or documents is required")
	}
	return req, nil
}

func decodeRaw(r *http.Request, format source.Format) (*types.InferRequest, error) {
	q := r.URL.Query()

	output, err := types.ParseOutputFormat(q.Get("output"))
	if err != nil {
		return nil, tools.ErrInvalidInput(err.Error())
	}
	stats, err := queryBool(q.Get("stats"))
	if err != nil {
		return nil, tools.ErrInvalidInput("stats: " + err.Error())
	}
	verify, err := queryBool(q.Get("verify"))
	if err != nil {
		return nil, tools.ErrInvalidInput("verify: " + err.Error())
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r.Body); err != nil {
		return nil, bodyError(err)
	}

	return &types.InferRequest{
		Input:       &buf,
		InputFormat: string(format),
		Query:       q.Get("query"),
		Hints: jtd.HintConfig{
			DefaultNumType:     q.Get("default_number_type"),
			EnumHints:          q["enum_hint"],
			ValuesHints:        q["values_hint"],
			DiscriminatorHints: q["discriminator_hint"],
		},
		Output: output,
		Stats:  stats,
		Verify: verify,
	}, nil
}

func queryBool(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &tools.CodedError{
			Code:    ErrCodeTooLarge,
			Message: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		}
	}
	return &tools.CodedError{Code: tools.ErrCodeInvalidInput, Message: "malformed request body", Cause: err}
}
