package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: jtd_infer
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jtd_infer",
		Description: "Infer a JSON Type Definition (RFC 8927) schema from example JSON or YAML documents. Returns {schema, summary: {input_documents, documents, workers, form, duration_ms}, stats?, verification?, hint}. Hints resolve shapes data cannot: enum_hints for closed string sets, values_hints for maps with arbitrary keys, discriminator_hints for tagged unions. Set output=jsonschema or openapi for other schema languages. Use jtd_parse_hint to check a pointer before using it.",
	}, ToolInfer(d))

	// Tool 2: jtd_parse_hint
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jtd_parse_hint",
		Description: "Validate a hint pointer and show its segments. Returns {valid, pointer, segments, wildcards, error?}. Pointers follow RFC 6901 with ~0 and ~1 escapes; a segment of - matches any array index or object key. Discriminator hints must name the tag property and cannot be the root.",
	}, ToolParseHint(d))
}
