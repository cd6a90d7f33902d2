// Package tools contains MCP tool implementations for jtd-infer.
package tools

// MIME type constant.
const MimeJSON = "application/json"
