package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usestring/jtd-infer/internal/httpapi"
	"github.com/usestring/jtd-infer/internal/logging"
	"github.com/usestring/jtd-infer/internal/pipeline"
)

func newServeCmd(f *inferFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serves POST /v1/infer, GET /healthz and GET /metrics. The listen address
defaults to HTTP_ADDR; request bodies are capped at MAX_BODY_BYTES.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(f, false)
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			cleanup, err := logging.Setup(logging.FromConfig(cfg))
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}
			defer cleanup()

			engine, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			return httpapi.New(engine, cfg).ListenAndServe(cmd.Context(), cfg.HTTPAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: HTTP_ADDR or 127.0.0.1:8080)")
	cmd.Flags().StringVar(&f.defaultNumberType, "default-number-type", "", "minimum numeric type for inferred integers")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel workers for large inputs")
	return cmd
}
