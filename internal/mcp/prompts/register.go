package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "choose_hints",
		Description: "RECOMMENDED: Walk through inferring a schema and picking enum, values and discriminator hints for a set of sample documents. Start here before calling jtd_infer with hints.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "description",
				Description: "What the documents are (e.g., 'webhook payloads from a billing provider')",
				Required:    false,
			},
			{
				Name:        "output",
				Description: "Target schema language: jtd (default), jsonschema or openapi",
				Required:    false,
			},
		},
	}, HandleChooseHints(cfg))
}
