// Package httpapi serves schema inference over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/usestring/jtd-infer/internal/config"
	"github.com/usestring/jtd-infer/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP host for the inference pipeline.
type Server struct {
	engine  *pipeline.Engine
	cfg     *config.Config
	metrics *Metrics
	router  *mux.Router
}

// New creates a Server and registers its routes.
func New(engine *pipeline.Engine, cfg *config.Config) *Server {
	s := &Server{
		engine:  engine,
		cfg:     cfg,
		metrics: NewMetrics(),
		router:  mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/v1/infer", s.handleInfer()).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth()).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, &ErrorBody{Code: "NOT_FOUND", Message: "no such route"})
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, &ErrorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " is not allowed here"})
	})
	s.router.Use(requestIDMiddleware, instrumentMiddleware(s.metrics))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
