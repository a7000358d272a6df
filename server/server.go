// Package server exposes the pipeline over HTTP with JSON request and
// response bodies.
package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/harendratomar/SQLify/pipeline"
)

// Server routes HTTP requests to the pipeline.
type Server struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// New creates a server. The logger defaults to slog.Default when nil.
func New(p *pipeline.Pipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: p, logger: logger}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate-sql", s.handleGenerateSQL)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withRequestLog(mux)
}

// withRequestLog tags every request with an ID and logs it.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		s.logger.Info("request", "id", requestID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe starts the server on addr and blocks.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}
