package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jtd-infer/pkg/jtd"
)

// Hint kinds accepted by jtd_parse_hint.
const (
	HintKindEnum          = "enum"
	HintKindValues        = "values"
	HintKindDiscriminator = "discriminator"
)

// ParseHintInput is the input for jtd_parse_hint.
type ParseHintInput struct {
	Pointer string `json:"pointer" jsonschema:"Hint pointer to check, e.g. /items/-/status. The empty string is the document root."`
	Kind    string `json:"kind,omitempty" jsonschema:"Hint kind: enum (default), values or discriminator"`
}

// ParseHintOutput is the output of jtd_parse_hint.
type ParseHintOutput struct {
	Valid     bool     `json:"valid"`
	Pointer   string   `json:"pointer"`
	Segments  []string `json:"segments,omitempty"`
	Wildcards int      `json:"wildcards"`
	Error     string   `json:"error,omitempty"`
}

// ToolParseHint validates a hint pointer and shows how it is split into segments.
// An invalid pointer is reported in the output rather than as a tool error.
func ToolParseHint(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ParseHintInput) (*sdkmcp.CallToolResult, ParseHintOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ParseHintInput) (*sdkmcp.CallToolResult, ParseHintOutput, error) {
		var cfg jtd.HintConfig
		switch input.Kind {
		case "", HintKindEnum:
			cfg.EnumHints = []string{input.Pointer}
		case HintKindValues:
			cfg.ValuesHints = []string{input.Pointer}
		case HintKindDiscriminator:
			cfg.DiscriminatorHints = []string{input.Pointer}
		default:
			return nil, ParseHintOutput{}, ErrInvalidInput(fmt.Sprintf("kind must be %q, %q or %q", HintKindEnum, HintKindValues, HintKindDiscriminator))
		}

		out := ParseHintOutput{Pointer: input.Pointer}
		if _, err := jtd.ParseHints(cfg); err != nil {
			out.Error = err.Error()
			return nil, out, nil
		}

		p, err := jtd.ParsePattern(input.Pointer)
		if err != nil {
			out.Error = err.Error()
			return nil, out, nil
		}
		out.Valid = true
		out.Pointer = p.String()
		if len(p) > 0 {
			out.Segments = []string(p)
		}
		for _, seg := range p {
			if seg == jtd.Wildcard {
				out.Wildcards++
			}
		}
		return nil, out, nil
	}
}
