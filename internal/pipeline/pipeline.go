// Package pipeline runs the full inference flow shared by the CLI, MCP and
// HTTP hosts: decode, select, infer, export and verify.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/usestring/jtd-infer/internal/cache"
	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/query"
	"github.com/usestring/jtd-infer/internal/schema"
	"github.com/usestring/jtd-infer/internal/source"
	"github.com/usestring/jtd-infer/pkg/jsonschema"
	"github.com/usestring/jtd-infer/pkg/jtd"
	"github.com/usestring/jtd-infer/pkg/openapi"
	"github.com/usestring/jtd-infer/pkg/types"
)

// maxReportedFailures caps the per-document failures a verification reports.
const maxReportedFailures = 20

// ErrInvalidInput marks failures caused by the caller's documents, query or
// options rather than by hints or the engine.
var ErrInvalidInput = errors.New("invalid input")

// Engine runs inference requests. It is safe for concurrent use.
type Engine struct {
	cfg    *config.Config
	hints  *cache.HintCache
	query  *query.Engine
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine from cfg.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	hints, err := cache.NewHintCache(max(cfg.HintCacheMaxItems, 1))
	if err != nil {
		return nil, fmt.Errorf("creating hint cache: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		hints:  hints,
		query:  query.NewEngine(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// ParseHints validates a hint configuration, applying the configured default
// number type when cfg leaves it empty.
func (e *Engine) ParseHints(cfg jtd.HintConfig) (*jtd.Hints, error) {
	if cfg.DefaultNumType == "" {
		cfg.DefaultNumType = e.cfg.DefaultNumberType
	}
	return e.hints.Parse(cfg)
}

// Run executes one inference request.
func (e *Engine) Run(ctx context.Context, req *types.InferRequest) (*types.InferResult, error) {
	start := time.Now()

	output, err := types.ParseOutputFormat(string(req.Output))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// Hints are validated before any document is read.
	hints, err := e.ParseHints(req.Hints)
	if err != nil {
		return nil, err
	}

	docs, err := e.documents(req)
	if err != nil {
		return nil, err
	}
	inputDocs := len(docs)

	var queryErrors []string
	if req.Query != "" {
		sel, err := e.query.Select(ctx, docs, req.Query, e.cfg.MaxDocuments)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		docs = sel.Documents
		queryErrors = sel.Errors
		e.logger.Debug("query applied", "query", req.Query, "input_documents", inputDocs, "documents", len(docs), "errors", len(sel.Errors))
	}

	workers := req.Workers
	if workers <= 0 {
		workers = e.cfg.Workers
	}
	if workers < 1 || len(docs) < e.cfg.ParallelThreshold {
		workers = 1
	}

	in, err := e.infer(ctx, docs, hints, workers, req.Stats)
	if err != nil {
		return nil, err
	}

	jtdSchema := in.Schema()
	result := &types.InferResult{
		Output:      output,
		QueryErrors: queryErrors,
		Summary: types.InferSummary{
			InputDocuments: inputDocs,
			Documents:      in.Documents(),
			Workers:        workers,
			Form:           jtdSchema.Form(),
		},
	}
	if req.Stats {
		result.Stats = in.Stats()
	}

	switch output {
	case types.OutputJSONSchema:
		result.Schema = jsonschema.Convert(jtdSchema, nil)
	case types.OutputOpenAPI:
		result.Schema = openapi.Convert(jtdSchema)
	default:
		result.Schema = jtdSchema
	}

	if req.Verify {
		v, err := schema.NewValidator(jsonschema.Convert(jtdSchema, nil))
		if err != nil {
			return nil, fmt.Errorf("compiling verification schema: %w", err)
		}
		result.Verification, err = v.ValidateAll(ctx, docs, maxReportedFailures)
		if err != nil {
			return nil, err
		}
		if !result.Verification.Valid {
			e.logger.Warn("inferred schema rejects input documents", "failures", len(result.Verification.Failures))
		}
	}

	result.Summary.DurationMs = time.Since(start).Milliseconds()
	e.logger.Info("schema inferred",
		"documents", result.Summary.Documents,
		"workers", workers,
		"form", result.Summary.Form,
		"output", output,
		"duration_ms", result.Summary.DurationMs,
	)
	return result, nil
}

func (e *Engine) documents(req *types.InferRequest) ([][]byte, error) {
	docs := req.Documents
	if len(docs) == 0 {
		if req.Input == nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, source.ErrNoDocuments)
		}
		format, err := source.ParseFormat(req.InputFormat)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		docs, err = source.Decode(req.Input, format)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	if e.cfg.MaxDocuments > 0 && len(docs) > e.cfg.MaxDocuments {
		return nil, fmt.Errorf("%w: %d documents exceeds the limit of %d", ErrInvalidInput, len(docs), e.cfg.MaxDocuments)
	}
	return docs, nil
}

func (e *Engine) infer(ctx context.Context, docs [][]byte, hints *jtd.Hints, workers int, stats bool) (*jtd.Inferrer, error) {
	var opts []jtd.Option
	if stats {
		opts = append(opts, jtd.WithStats())
	}

	if workers > 1 {
		in, err := jtd.InferParallel(ctx, docs, hints, workers, opts...)
		return in, classify(ctx, err)
	}

	in := jtd.New(hints, opts...)
	for i, d := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := in.InferBytes(d); err != nil {
			return nil, classify(ctx, &jtd.DocumentError{Index: i, Err: err})
		}
	}
	return in, nil
}

// classify marks document failures other than discriminator violations as
// invalid input.
func classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	case errors.Is(err, jtd.ErrDiscriminatorTag):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
}
