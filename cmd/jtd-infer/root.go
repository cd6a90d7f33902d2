package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/logging"
	"github.com/usestring/jtd-infer/internal/pipeline"
	"github.com/usestring/jtd-infer/internal/source"
	"github.com/usestring/jtd-infer/pkg/jtd"
	"github.com/usestring/jtd-infer/pkg/types"
)

// errRejected is returned when --verify finds documents the schema rejects.
var errRejected = errors.New("inferred schema rejects some input documents")

// Exit codes
const (
	exitError    = 1
	exitUsage    = 2
	exitRejected = 3
)

type inferFlags struct {
	enumHints          []string
	valuesHints        []string
	discriminatorHints []string
	defaultNumberType  string
	inputFormat        string
	query              string
	output             string
	verify             bool
	stats              bool
	workers            int
	indent             bool
	logLevel           string
}

func newRootCmd() *cobra.Command {
	f := &inferFlags{}

	cmd := &cobra.Command{
		Use:   "jtd-infer [file...]",
		Short: "Infer a JSON Type Definition schema from example documents",
		Long: `Reads JSON (concatenated or newline-delimited) or YAML documents from the
given files, or from stdin when no file or "-" is given, and prints a schema
that accepts every one of them.

Hints are JSON pointers; "-" matches any array index or object key:

  jtd-infer --enum-hint /status --values-hint /labels events.ndjson
  jtd-infer --discriminator-hint /events/-/type --output openapi log.json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&f.enumHints, "enum-hint", nil, "pointer of a string path to infer as an enum (repeatable)")
	flags.StringArrayVar(&f.valuesHints, "values-hint", nil, "pointer of an object path to infer as a map (repeatable)")
	flags.StringArrayVar(&f.discriminatorHints, "discriminator-hint", nil, "pointer to the tag property of a tagged union (repeatable)")
	flags.StringVar(&f.defaultNumberType, "default-number-type", "", "minimum numeric type: uint8, int8, uint16, int16, uint32, int32 or float64")
	flags.StringVar(&f.inputFormat, "input-format", "", "input format: json or yaml (default: from file extension, json for stdin)")
	flags.StringVarP(&f.query, "query", "q", "", "jq expression applied to every document; each result is inferred from")
	flags.StringVarP(&f.output, "output", "o", "jtd", "schema language: jtd, jsonschema or openapi")
	flags.BoolVar(&f.verify, "verify", false, "check that the schema accepts every document")
	flags.BoolVar(&f.stats, "stats", false, "print per-path document frequency alongside the schema")
	flags.IntVarP(&f.workers, "workers", "w", 0, "parallel workers for large inputs (default: JTD_WORKERS)")
	flags.BoolVar(&f.indent, "indent", isTerminal(os.Stdout), "indent the output (default: on when stdout is a terminal)")

	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error (default: LOG_LEVEL)")

	cmd.AddCommand(newMCPCmd(f), newServeCmd(f))
	return cmd
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadConfig reads the environment and applies the persistent flags.
// quiet lowers the default log level for one-shot commands.
func loadConfig(f *inferFlags, quiet bool) *config.Config {
	cfg := config.Load()
	switch {
	case f.logLevel != "":
		cfg.LogLevel = f.logLevel
	case quiet && os.Getenv("LOG_LEVEL") == "":
		cfg.LogLevel = "warn"
	}
	if f.defaultNumberType != "" {
		cfg.DefaultNumberType = f.defaultNumberType
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	return cfg
}

func runInfer(cmd *cobra.Command, args []string, f *inferFlags) error {
	cfg := loadConfig(f, true)
	cleanup, err := logging.Setup(logging.FromConfig(cfg))
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer cleanup()

	output, err := types.ParseOutputFormat(f.output)
	if err != nil {
		return usageError{err}
	}
	if f.inputFormat != "" {
		if _, err := source.ParseFormat(f.inputFormat); err != nil {
			return usageError{err}
		}
	}

	engine, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	docs, err := readDocuments(cmd.InOrStdin(), args, f.inputFormat)
	if err != nil {
		return err
	}

	res, err := engine.Run(cmd.Context(), &types.InferRequest{
		Documents: docs,
		Query:     f.query,
		Hints: jtd.HintConfig{
			EnumHints:          f.enumHints,
			ValuesHints:        f.valuesHints,
			DiscriminatorHints: f.discriminatorHints,
		},
		Output: output,
		Stats:  f.stats,
		Verify: f.verify,
	})
	if err != nil {
		return err
	}

	// The bare schema is printed unless stats or verification were requested.
	var out any = res.Schema
	if f.stats || f.verify {
		out = res
	}
	if err := writeJSON(cmd.OutOrStdout(), out, f.indent); err != nil {
		return err
	}

	for _, qe := range res.QueryErrors {
		fmt.Fprintln(cmd.ErrOrStderr(), "query:", qe)
	}
	if res.Verification != nil && !res.Verification.Valid {
		return errRejected
	}
	return nil
}

// readDocuments decodes every named file, or stdin for none or "-", in
// argument order.
func readDocuments(stdin io.Reader, paths []string, inputFormat string) ([][]byte, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var docs [][]byte
	for _, path := range paths {
		format := source.Format(inputFormat)
		if inputFormat == "" && path != "-" {
			format = source.FormatForPath(path)
		}
		parsed, err := source.ParseFormat(string(format))
		if err != nil {
			return nil, usageError{err}
		}

		var r io.Reader = stdin
		name := "stdin"
		if path != "-" {
			file, err := os.Open(path)
			if err != nil {
				return nil, err
			}
			defer file.Close()
			r, name = file, path
		}

		got, err := source.Decode(r, parsed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		docs = append(docs, got...)
	}
	return docs, nil
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// usageError marks errors caused by flag values.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var usage usageError
	switch {
	case errors.As(err, &usage):
		return exitUsage
	case errors.Is(err, errRejected):
		return exitRejected
	default:
		return exitError
	}
}
