package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/szaher/chronos/internal/session"
	"github.com/szaher/chronos/internal/telemetry"
)

// handleStream serves the legacy long-lived event stream. Opening it
// unconditionally creates a session; the first event tells the client where
// to submit messages. The session lives until the stream disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	sess := s.sessions.CreateLegacy()
	s.recordSessions(session.LegacySSE)
	defer func() {
		s.sessions.Remove(sess)
		s.recordSessions(session.LegacySSE)
	}()

	logger := telemetry.RequestLogger(r.Context(), s.logger, string(session.LegacySSE))
	logger.Info("stream opened", "session_id", sess.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: endpoint\ndata: /messages?sessionId=%s\n\n", sess.ID)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			logger.Info("stream disconnected", "session_id", sess.ID)
			return
		case <-sess.Done():
			return
		case frame := <-sess.Events():
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", frame)
			flusher.Flush()
		}
	}
}

// handleMessage accepts a message for a legacy session named by the
// sessionId query parameter. The response travels back on the event stream;
// the POST itself is only acknowledged.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	sess, ok := s.sessions.Legacy(id)
	if !ok {
		http.Error(w, "Unknown or expired sessionId", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if resp, ok := sess.Dispatch(body); ok {
		sess.Push(resp)
	}
	w.WriteHeader(http.StatusAccepted)
}
