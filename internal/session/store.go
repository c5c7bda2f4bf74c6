package session

import (
	"sync"

	"tutor-agent/internal/domain"
)

// Store keeps the live conversation context for every session in memory.
// Sessions are created implicitly on first use and live for the process
// lifetime; the session count itself is unbounded. The number of retained
// turns per session is capped by maxTurns (oldest turns dropped first) so a
// single long-lived session cannot grow without bound.
type Store struct {
	mu       sync.RWMutex
	turns    map[string][]domain.Turn
	locks    map[string]*sync.Mutex
	maxTurns int
}

// NewStore creates a Store. maxTurnsPerSession caps the retained context per
// session; 0 or negative disables the cap.
func NewStore(maxTurnsPerSession int) *Store {
	return &Store{
		turns:    make(map[string][]domain.Turn),
		locks:    make(map[string]*sync.Mutex),
		maxTurns: maxTurnsPerSession,
	}
}

// Lock serializes request processing for one session and returns the unlock
// function. Callers must hold the lock for the whole read-generate-append
// cycle so concurrent requests on the same session cannot interleave their
// appends. Different sessions never contend.
func (s *Store) Lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Get returns a copy of the session's turns in append order. An unseen
// session yields an empty slice, never an error.
func (s *Store) Get(sessionID string) []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts := s.turns[sessionID]
	out := make([]domain.Turn, len(ts))
	copy(out, ts)
	return out
}

// Append adds turns to the session in order and returns the new history
// length. When the per-session cap is exceeded the oldest turns are dropped.
func (s *Store) Append(sessionID string, turns ...domain.Turn) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := append(s.turns[sessionID], turns...)
	if s.maxTurns > 0 && len(ts) > s.maxTurns {
		trimmed := make([]domain.Turn, s.maxTurns)
		copy(trimmed, ts[len(ts)-s.maxTurns:])
		ts = trimmed
	}
	s.turns[sessionID] = ts
	return len(ts)
}

// Len returns the current history length for a session.
func (s *Store) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns[sessionID])
}
