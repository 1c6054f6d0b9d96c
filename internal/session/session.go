// Package session manages the mapping from session identifiers to live
// transport bindings for both wire variants.
package session

import (
	"sync"

	"github.com/szaher/chronos/internal/protocol"
)

// Variant tags which transport a session belongs to. The two variants keep
// disjoint identifier spaces: a streamable ID is never valid on the legacy
// message endpoint and vice versa.
type Variant string

const (
	Streamable Variant = "streamable"
	LegacySSE  Variant = "legacy-sse"
)

// eventBuffer bounds the outbound frames queued for a legacy SSE stream
// between the message endpoint and the stream writer.
const eventBuffer = 16

// Session binds one transport connection to its own protocol engine. Message
// handling within a session is strictly sequential: Dispatch serializes all
// in-flight work on the session.
type Session struct {
	ID      string
	Variant Variant

	engine *protocol.Engine

	mu        sync.Mutex
	events    chan []byte // legacy-sse outbound frames, nil for streamable
	done      chan struct{}
	closeOnce sync.Once
}

// Dispatch runs one inbound payload through the session's engine. The second
// return is false for notifications, which produce no response.
func (s *Session) Dispatch(raw []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Handle(raw)
}

// Events returns the outbound frame channel for a legacy SSE session.
func (s *Session) Events() <-chan []byte { return s.events }

// Push queues a frame for the legacy SSE stream writer. It reports false if
// the session closed before the frame could be queued.
func (s *Session) Push(frame []byte) bool {
	if s.events == nil {
		return false
	}
	select {
	case s.events <- frame:
		return true
	case <-s.done:
		return false
	}
}

// Done is closed when the session is torn down.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
