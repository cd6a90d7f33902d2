package types

import (
	"fmt"
	"io"
	"strings"

	"github.com/usestring/jtd-infer/pkg/jtd"
)

// OutputFormat selects the schema language of an inference result.
type OutputFormat string

// Output format constants.
const (
	OutputJTD        OutputFormat = "jtd"
	OutputJSONSchema OutputFormat = "jsonschema"
	OutputOpenAPI    OutputFormat = "openapi"
)

// ParseOutputFormat maps a user-supplied name to an OutputFormat. The empty
// string means OutputJTD.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "jtd":
		return OutputJTD, nil
	case "jsonschema", "json_schema", "json-schema":
		return OutputJSONSchema, nil
	case "openapi", "oas":
		return OutputOpenAPI, nil
	}
	return "", fmt.Errorf("unknown output format %q (want jtd, jsonschema or openapi)", s)
}

// InferRequest describes one run of the inference pipeline. Documents holds
// pre-split JSON documents; when it is empty, Input is decoded according to
// InputFormat.
type InferRequest struct {
	Documents   [][]byte
	Input       io.Reader
	InputFormat string

	Query   string // optional jq expression applied to every document
	Hints   jtd.HintConfig
	Output  OutputFormat
	Stats   bool
	Verify  bool
	Workers int // 0 uses the engine default
}

// InferResult is the output of the inference pipeline.
type InferResult struct {
	// Schema is a *jtd.Schema, a JSON Schema or an OpenAPI schema object,
	// depending on Output.
	Schema       any             `json:"schema"`
	Output       OutputFormat    `json:"output"`
	Summary      InferSummary    `json:"summary"`
	Stats        []jtd.FieldStat `json:"stats,omitempty"`
	Verification *VerifyResult   `json:"verification,omitempty"`
	QueryErrors  []string        `json:"query_errors,omitempty"`
}

// InferSummary describes the inference process.
type InferSummary struct {
	InputDocuments int    `json:"input_documents"` // Documents decoded from the input
	Documents      int    `json:"documents"`       // Documents inferred from, after the query
	Workers        int    `json:"workers"`
	Form           string `json:"form"` // RFC 8927 form of the root schema
	DurationMs     int64  `json:"duration_ms"`
}
