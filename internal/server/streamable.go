package server

import (
	"io"
	"net/http"

	"github.com/szaher/chronos/internal/protocol"
	"github.com/szaher/chronos/internal/session"
	"github.com/szaher/chronos/internal/telemetry"
)

// badHandshakeBody is the fixed rejection for a streamable request that
// neither carries a live session identifier nor opens one with a valid
// initialize payload.
const badHandshakeBody = `{"jsonrpc":"2.0","error":{"code":-32000,"message":"Bad Request: invalid MCP handshake"},"id":null}`

// handleStreamable serves the single-endpoint transport. POST carries
// JSON-RPC payloads, DELETE terminates a session, everything else is
// rejected.
func (s *Server) handleStreamable(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStreamablePost(w, r)
	case http.MethodDelete:
		s.handleStreamableDelete(w, r)
	default:
		w.Header().Set("Allow", "POST, DELETE")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleStreamablePost(w http.ResponseWriter, r *http.Request) {
	logger := telemetry.RequestLogger(r.Context(), s.logger, string(session.Streamable))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var sess *session.Session
	if id := r.Header.Get(SessionHeader); id != "" {
		// Known identifier reuses the active session; unknown or stale
		// identifiers are rejected without creating anything.
		live, ok := s.sessions.Streamable(id)
		if !ok {
			logger.Warn("unknown streamable session", "session_id", id)
			s.rejectHandshake(w)
			return
		}
		sess = live
	} else {
		// No identifier: only a valid initialize payload may open a session.
		if !protocol.IsInitialize(body) {
			logger.Warn("streamable request without session is not a handshake")
			s.rejectHandshake(w)
			return
		}
		sess = s.sessions.CreateStreamable()
		s.recordSessions(session.Streamable)
	}

	resp, ok := sess.Dispatch(body)
	w.Header().Set(SessionHeader, sess.ID)
	if !ok {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(resp)
}

func (s *Server) handleStreamableDelete(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	sess, ok := s.sessions.Streamable(id)
	if !ok {
		s.rejectHandshake(w)
		return
	}
	s.sessions.Remove(sess)
	s.recordSessions(session.Streamable)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) rejectHandshake(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = io.WriteString(w, badHandshakeBody)
}
