// Package prompts contains MCP prompt implementations for jtd-infer.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultNumberType string
	MaxDocuments      int
}
