package session

import (
	"log/slog"
	"sync"

	"github.com/szaher/chronos/internal/protocol"
)

// EngineFactory builds the tool-serving protocol engine bound to a new
// session. Each session gets a fresh instance so no tool state is ever
// shared across connections.
type EngineFactory func() *protocol.Engine

// Manager owns the session lookup tables for both transport variants. The
// tables hold non-owning references: the transport connection remains the
// source of truth for session identity, and the manager only tracks which
// identifiers are currently live.
type Manager struct {
	mu         sync.Mutex
	streamable map[string]*Session
	legacy     map[string]*Session

	newEngine EngineFactory
	logger    *slog.Logger
}

// NewManager creates a session manager. newEngine is invoked once per
// created session.
func NewManager(newEngine EngineFactory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		streamable: make(map[string]*Session),
		legacy:     make(map[string]*Session),
		newEngine:  newEngine,
		logger:     logger,
	}
}

// CreateStreamable registers a new streamable session. The caller has
// already validated the initialize handshake.
func (m *Manager) CreateStreamable() *Session {
	return m.create(Streamable)
}

// CreateLegacy registers a new legacy SSE session. Opening the stream is the
// handshake; there is nothing further to negotiate.
func (m *Manager) CreateLegacy() *Session {
	return m.create(LegacySSE)
}

func (m *Manager) create(variant Variant) *Session {
	s := &Session{
		ID:      generateSecureID(),
		Variant: variant,
		engine:  m.newEngine(),
		done:    make(chan struct{}),
	}
	if variant == LegacySSE {
		s.events = make(chan []byte, eventBuffer)
	}

	m.mu.Lock()
	m.table(variant)[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", s.ID, "transport", string(variant))
	return s
}

// Streamable looks up a live streamable session.
func (m *Manager) Streamable(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.streamable[id]
	return s, ok
}

// Legacy looks up a live legacy SSE session.
func (m *Manager) Legacy(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.legacy[id]
	return s, ok
}

// Remove tears down a session and drops it from its table, keyed by the
// session's own identifier. Removing an already-removed session is a no-op.
func (m *Manager) Remove(s *Session) {
	m.mu.Lock()
	_, present := m.table(s.Variant)[s.ID]
	delete(m.table(s.Variant), s.ID)
	m.mu.Unlock()

	s.close()
	if present {
		m.logger.Info("session closed", "session_id", s.ID, "transport", string(s.Variant))
	}
}

// Count returns the number of live sessions for a variant.
func (m *Manager) Count(variant Variant) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table(variant))
}

func (m *Manager) table(variant Variant) map[string]*Session {
	if variant == LegacySSE {
		return m.legacy
	}
	return m.streamable
}
