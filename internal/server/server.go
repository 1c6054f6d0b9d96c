// Package server implements the HTTP transport adapters: the streamable MCP
// endpoint and the legacy SSE endpoint pair, plus health and metrics routes.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/szaher/chronos/internal/session"
	"github.com/szaher/chronos/internal/telemetry"
)

// SessionHeader carries the streamable session identifier.
const SessionHeader = "Mcp-Session-Id"

// maxBodyBytes caps inbound request bodies.
const maxBodyBytes = 1 << 20

// Server is the chronos HTTP server.
type Server struct {
	sessions *session.Manager
	logger   *slog.Logger
	metrics  *telemetry.Metrics
	version  string

	mux       *http.ServeMux
	server    *http.Server
	startTime time.Time
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics enables metric collection and the /metrics route.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by /healthz.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates the HTTP server over a session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		logger:    slog.Default(),
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleStreamable)
	mux.HandleFunc("GET /sse", s.handleStream)
	mux.HandleFunc("POST /messages", s.handleMessage)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	s.mux = mux
	return s
}

// Handler returns the HTTP handler for use with httptest or custom servers.
func (s *Server) Handler() http.Handler {
	return s.requestMiddleware(s.mux)
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("server starting", "addr", addr, "version", s.version)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        s.version,
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
		"sessions": map[string]int{
			string(session.Streamable): s.sessions.Count(session.Streamable),
			string(session.LegacySSE):  s.sessions.Count(session.LegacySSE),
		},
	})
}

func (s *Server) recordSessions(variant session.Variant) {
	if s.metrics != nil {
		s.metrics.SetActiveSessions(string(variant), s.sessions.Count(variant))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
