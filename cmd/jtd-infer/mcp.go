package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/jtd-infer/pkg/mcpsrv"
)

func newMCPCmd(f *inferFlags) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server on stdio",
		Long: `Serves the jtd_infer and jtd_parse_hint tools, the choose_hints prompt and
the jtd://number-types resources over stdio. Configuration is read from the
environment (see LOG_*, JTD_* and MAX_DOCUMENTS); flags override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []mcpsrv.Option{
				mcpsrv.WithDefaultNumberType(f.defaultNumberType),
				mcpsrv.WithWorkers(f.workers),
			}
			if f.logLevel != "" {
				opts = append(opts, mcpsrv.WithLogLevel(f.logLevel))
			}
			if logFile != "" {
				opts = append(opts, mcpsrv.WithLogFile(logFile))
			}

			server, err := mcpsrv.NewServer(opts...)
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting jtd-infer MCP server on stdio")
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&f.defaultNumberType, "default-number-type", "", "minimum numeric type for inferred integers")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel workers for large inputs")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file, rotated (default: LOG_FILE)")
	return cmd
}
