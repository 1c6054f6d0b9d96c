package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/szaher/chronos/internal/telemetry"
)

// statusWriter records the response status and keeps http.Flusher visible
// for the SSE stream handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// requestMiddleware tags every request with a ULID, logs it, and records its
// duration.
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := telemetry.WithRequestID(r.Context(), r.Header.Get("X-Request-Id"))
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r.WithContext(ctx))

		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.ObserveRequest(r.URL.Path, strconv.Itoa(sw.status), elapsed)
		}
		s.logger.Debug("request completed",
			"request_id", telemetry.RequestID(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", elapsed.Milliseconds())
	})
}
