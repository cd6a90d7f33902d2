package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/logging"
	"github.com/usestring/jtd-infer/internal/mcp"
	"github.com/usestring/jtd-infer/internal/mcp/tools"
	"github.com/usestring/jtd-infer/internal/pipeline"
)

// Server is the jtd-infer MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin inference tools.
//
// Configuration is loaded from the environment and can be overridden with
// functional options, which also add custom tools, prompts and resources.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.defaultNumberType != "" {
		cfg.config.DefaultNumberType = cfg.defaultNumberType
	}
	if cfg.workers > 0 {
		cfg.config.Workers = cfg.workers
	}

	logCfg := logging.FromConfig(cfg.config)
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	var logCleanup func() error
	if !cfg.skipLogging {
		var err error
		logCleanup, err = logging.Setup(logCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to setup logging: %w", err)
		}
	}

	engine, err := pipeline.New(cfg.config, pipeline.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference engine: %w", err)
	}

	toolDeps := &tools.Deps{
		Engine: engine,
		Config: cfg.config,
	}
	deps := &Deps{
		Engine: engine,
		Config: cfg.config,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Tools that need Deps are registered once Deps exists.
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		if logCleanup != nil {
			_ = logCleanup()
		}
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
