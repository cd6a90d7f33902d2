// Package mcpsrv provides an extensible MCP server for JSON Type Definition
// inference.
//
// This package exposes a high-level API for creating and running an MCP server
// with the builtin jtd_infer and jtd_parse_hint tools, the choose_hints prompt
// and the jtd://number-types resources. Users can extend the server with custom
// tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with configuration loaded from the environment:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    Query string `json:"query"`
//	}
//
//	type MyOutput struct {
//	    Count int `json:"count"`
//	}
//
//	func myHandler(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	    return nil, MyOutput{Count: 42}, nil
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// # Configuration
//
// Configure logging and inference defaults:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/jtd-infer.log"),
//	    mcpsrv.WithDefaultNumberType("int32"),
//	    mcpsrv.WithWorkers(8),
//	)
package mcpsrv
