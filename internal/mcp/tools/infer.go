package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jtd-infer/pkg/jtd"
	"github.com/usestring/jtd-infer/pkg/types"
)

// InferInput is the input for jtd_infer.
type InferInput struct {
	Input              string   `json:"input,omitempty" jsonschema:"Raw input text: concatenated or newline-delimited JSON, or YAML when input_format is yaml. Preserves property order. Either input or documents is required."`
	InputFormat        string   `json:"input_format,omitempty" jsonschema:"Format of input: json (default) or yaml"`
	Documents          []any    `json:"documents,omitempty" jsonschema:"Already-parsed JSON documents. Property order is not preserved; prefer input when order matters."`
	Query              string   `json:"query,omitempty" jsonschema:"Optional jq expression applied to every document; each result becomes a document (e.g. .items[])"`
	EnumHints          []string `json:"enum_hints,omitempty" jsonschema:"JSON pointers of string paths to infer as enums. Use - to match any array index or object key."`
	ValuesHints        []string `json:"values_hints,omitempty" jsonschema:"JSON pointers of object paths to infer as maps (values form)"`
	DiscriminatorHints []string `json:"discriminator_hints,omitempty" jsonschema:"JSON pointers to the tag property of tagged unions, e.g. /events/-/type"`
	DefaultNumberType  string   `json:"default_number_type,omitempty" jsonschema:"Numeric type to prefer when every value fits: uint8, int8, uint16, int16, uint32, int32 or float64"`
	Output             string   `json:"output,omitempty" jsonschema:"Schema language: jtd (default), jsonschema or openapi"`
	Stats              bool     `json:"stats,omitempty" jsonschema:"Include per-path document frequency"`
	Verify             bool     `json:"verify,omitempty" jsonschema:"Check that the inferred schema accepts every document"`
}

// InferOutput is the output of jtd_infer.
type InferOutput struct {
	Schema       any                 `json:"schema"`
	Summary      types.InferSummary  `json:"summary"`
	Stats        []jtd.FieldStat     `json:"stats,omitempty"`
	Verification *types.VerifyResult `json:"verification,omitempty"`
	QueryErrors  []string            `json:"query_errors,omitempty"`
	Hint         string              `json:"hint,omitempty"`
}

// ToolInfer infers a schema from the supplied documents.
func ToolInfer(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, InferOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, InferOutput, error) {
		if strings.TrimSpace(input.Input) == "" && len(input.Documents) == 0 {
			return nil, InferOutput{}, ErrInvalidInput("either input or documents is required")
		}

		output, err := types.ParseOutputFormat(input.Output)
		if err != nil {
			return nil, InferOutput{}, ErrInvalidInput(err.Error())
		}

		inferReq := &types.InferRequest{
			InputFormat: input.InputFormat,
			Query:       input.Query,
			Hints: jtd.HintConfig{
				DefaultNumType:     input.DefaultNumberType,
				EnumHints:          input.EnumHints,
				ValuesHints:        input.ValuesHints,
				DiscriminatorHints: input.DiscriminatorHints,
			},
			Output: output,
			Stats:  input.Stats,
			Verify: input.Verify,
		}
		if len(input.Documents) > 0 {
			inferReq.Documents = make([][]byte, len(input.Documents))
			for i, doc := range input.Documents {
				b, err := json.Marshal(doc)
				if err != nil {
					return nil, InferOutput{}, ErrInvalidInput(fmt.Sprintf("documents[%d]: %v", i, err))
				}
				inferReq.Documents[i] = b
			}
		} else {
			inferReq.Input = strings.NewReader(input.Input)
		}

		res, err := d.Engine.Run(ctx, inferReq)
		if err != nil {
			return nil, InferOutput{}, WrapError(err)
		}

		schema, err := types.ToAny(res.Schema)
		if err != nil {
			return nil, InferOutput{}, fmt.Errorf("encoding schema: %w", err)
		}

		return nil, InferOutput{
			Schema:       schema,
			Summary:      res.Summary,
			Stats:        res.Stats,
			Verification: res.Verification,
			QueryErrors:  res.QueryErrors,
			Hint:         inferHint(input, res),
		}, nil
	}
}

// inferHint suggests the next call based on what the result shows.
func inferHint(input InferInput, res *types.InferResult) string {
	switch {
	case res.Verification != nil && !res.Verification.Valid:
		return "The schema rejects some inputs; inspect verification.failures."
	case !input.Stats && len(input.EnumHints)+len(input.ValuesHints)+len(input.DiscriminatorHints) == 0:
		return "Set stats=true to see how often each path occurs, then add enum_hints, values_hints or discriminator_hints where the shape is ambiguous."
	default:
		return ""
	}
}
