package schedule

import (
	"sync"
	"time"
)

// PendingDeletion records an event the orchestrator has proposed for
// deletion but not yet executed. It carries no backend resource lock, so
// an abandoned record needs no cleanup beyond eventually being replaced.
type PendingDeletion struct {
	EventID   string
	Summary   string
	CreatedAt time.Time
}

// PendingStore holds at most one pending deletion per session, keyed by
// the session id so concurrent sessions can never cross-confirm each
// other's deletions. It is safe for concurrent use.
type PendingStore struct {
	mu      sync.RWMutex
	pending map[string]PendingDeletion
}

// NewPendingStore creates an empty store.
func NewPendingStore() *PendingStore {
	return &PendingStore{
		pending: make(map[string]PendingDeletion),
	}
}

// Put records a proposed deletion for the session, replacing any earlier
// proposal that was never confirmed. It reports whether a proposal was
// replaced.
func (s *PendingStore) Put(sessionID, eventID, summary string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced := s.pending[sessionID]
	s.pending[sessionID] = PendingDeletion{
		EventID:   eventID,
		Summary:   summary,
		CreatedAt: time.Now(),
	}
	return replaced
}

// Take returns and erases the pending deletion for the session. The second
// return is false when nothing was pending; a second Take for the same
// session always reports false.
func (s *PendingStore) Take(sessionID string) (PendingDeletion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[sessionID]
	if ok {
		delete(s.pending, sessionID)
	}
	return p, ok
}

// Peek returns the pending deletion for the session without consuming it.
func (s *PendingStore) Peek(sessionID string) (PendingDeletion, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[sessionID]
	return p, ok
}

// Len reports how many sessions currently have a pending deletion.
func (s *PendingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}
