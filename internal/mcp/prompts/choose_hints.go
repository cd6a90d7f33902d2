package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleChooseHints implements the hint selection workflow.
func HandleChooseHints(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		description := ""
		output := "jtd"
		if args != nil {
			if v, ok := args["description"]; ok {
				description = v
			}
			if v, ok := args["output"]; ok && v != "" {
				output = v
			}
		}

		var sb strings.Builder

		sb.WriteString("# Infer a Schema and Choose Hints\n\n")
		sb.WriteString("You are a data modeling expert turning sample JSON documents into a precise JSON Type Definition (RFC 8927) schema. ")
		sb.WriteString("Inference sees only the shapes present in the samples; hints tell it what the data cannot.\n\n")
		if description != "" {
			sb.WriteString(fmt.Sprintf("The documents are: %s\n\n", description))
		}

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Infer without hints** and request stats\n")
		sb.WriteString("   - `jtd_infer(input: \"<documents>\", stats: true)`\n")
		sb.WriteString("   - Pass documents concatenated in `input` to keep property order\n")
		if cfg.MaxDocuments > 0 {
			sb.WriteString(fmt.Sprintf("   - At most %d documents per call; use `query` to narrow large inputs\n", cfg.MaxDocuments))
		}
		sb.WriteString("\n")
		sb.WriteString("2. **Read the stats** to spot hint candidates\n")
		sb.WriteString("   - Object with many optional properties of low `frequency` whose names look like ids, dates or user data -> **values hint**\n")
		sb.WriteString("   - String field that only ever holds a small fixed set of values in the samples -> **enum hint**\n")
		sb.WriteString("   - Objects whose property sets depend on one string field such as `type` or `kind` -> **discriminator hint**\n\n")
		sb.WriteString("3. **Check each pointer** with `jtd_parse_hint(pointer, kind)`\n")
		sb.WriteString("   - Use `-` for any array element or map key: `/items/-/status`\n")
		sb.WriteString("   - Escape `~` as `~0` and `/` as `~1`\n")
		sb.WriteString("   - Discriminator hints point at the tag property itself: `/events/-/type`\n\n")
		sb.WriteString("4. **Infer again with hints** and `verify: true`\n")
		sb.WriteString(fmt.Sprintf("   - `jtd_infer(input: ..., output: \"%s\", enum_hints: [...], values_hints: [...], discriminator_hints: [...], verify: true)`\n", output))
		sb.WriteString("   - `verification.valid` must be true; failures name the document and the rejected location\n\n")

		sb.WriteString("## Hint Precedence\n\n")
		sb.WriteString("| Situation | Result |\n")
		sb.WriteString("|-----------|--------|\n")
		sb.WriteString("| Discriminator and values on the same object | Discriminator wins |\n")
		sb.WriteString("| Enum hint on an object, values hint on a string | Hint is ignored |\n")
		sb.WriteString("| Discriminator tag missing or not a string | Inference fails with DISCRIMINATOR; drop or move the hint |\n\n")

		sb.WriteString("## Numbers\n\n")
		sb.WriteString("Integers get the narrowest type covering every sample, in the order uint8, int8, uint16, int16, uint32, int32, float64. ")
		if cfg.DefaultNumberType != "" {
			sb.WriteString(fmt.Sprintf("This server widens integers to at least `%s` unless `default_number_type` overrides it. ", cfg.DefaultNumberType))
		} else {
			sb.WriteString("Set `default_number_type` when samples are too small to show the real range. ")
		}
		sb.WriteString("Read `jtd://number-types` for the exact bounds.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Schema inference and hint selection workflow",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
