// Package server exposes a graph engine over HTTP/JSON.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanonone/kektorgraph/pkg/engine"
)

// Server holds the HTTP interface and the underlying graph engine.
type Server struct {
	Engine *engine.Engine

	httpServer  *http.Server
	taskManager *TaskManager
	schemas     *requestSchemas
	cfg         Config
	logger      *slog.Logger
}

// NewServer builds the HTTP server for an engine. A nil logger uses
// slog.Default().
func NewServer(eng *engine.Engine, cfg Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	schemas, err := newRequestSchemas()
	if err != nil {
		return nil, fmt.Errorf("failed to build request schemas: %w", err)
	}

	s := &Server{
		Engine:      eng,
		taskManager: NewTaskManager(),
		schemas:     schemas,
		cfg:         cfg,
		logger:      logger,
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Recovery -> Logging -> Auth -> Mux. Recovery must be outer-most.
	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", promhttp.Handler())
	rootMux.Handle("/", handler)

	s.httpServer = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rootMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Starting graceful shutdown of HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	return nil
}
