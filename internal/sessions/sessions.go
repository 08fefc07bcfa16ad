// Package sessions keeps one analysis controller per browser session, in
// memory.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/queryscope/console/internal/ui"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session binds a browser session to its controller.
type Session struct {
	ID         string
	Controller *ui.Controller
	CreatedAt  time.Time
	LastSeen   time.Time
}

// ControllerFactory builds the controller for a new session.
type ControllerFactory func() *ui.Controller

// MemorySessionStore is a thread-safe in-memory session store.
type MemorySessionStore struct {
	mu         sync.RWMutex
	sessions   map[string]*Session // key: session ID
	newControl ControllerFactory
	now        func() time.Time
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore(factory ControllerFactory) *MemorySessionStore {
	return &MemorySessionStore{
		sessions:   make(map[string]*Session),
		newControl: factory,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Acquire returns the session for id, creating it when it does not exist,
// and marks it as seen.
func (s *MemorySessionStore) Acquire(_ context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		sess.LastSeen = now
		return sess, nil
	}
	sess := &Session{
		ID:         id,
		Controller: s.newControl(),
		CreatedAt:  now,
		LastSeen:   now,
	}
	s.sessions[id] = sess
	return sess, nil
}

// GetSession retrieves a session by ID.
func (s *MemorySessionStore) GetSession(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return sess, nil
}

// DeleteSession removes a session.
func (s *MemorySessionStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle removes sessions not seen for longer than ttl. Sessions with a
// run in flight are kept. It returns the number of evicted sessions.
func (s *MemorySessionStore) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.LastSeen.After(cutoff) || sess.Controller.Busy() {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	return evicted
}

// Wait blocks until no session has a run in flight.
func (s *MemorySessionStore) Wait() {
	s.mu.RLock()
	controllers := make([]*ui.Controller, 0, len(s.sessions))
	for _, sess := range s.sessions {
		controllers = append(controllers, sess.Controller)
	}
	s.mu.RUnlock()

	for _, c := range controllers {
		c.Wait()
	}
}
