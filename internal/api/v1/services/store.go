package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"voice-transcriber/internal/app/orchestrator"
)

type sessionEntry struct {
	orch     *orchestrator.Orchestrator
	lastUsed time.Time
	done     chan struct{}
}

// sessionStore holds live sessions in memory. Sessions idle longer than ttl
// are dropped the next time the store is touched.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	factory  *orchestrator.Factory
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(factory *orchestrator.Factory, ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*sessionEntry),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *sessionStore) create() *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	id := uuid.New().String()
	e := &sessionEntry{
		orch:     s.factory.New(id),
		lastUsed: s.now(),
		done:     make(chan struct{}),
	}
	s.sessions[id] = e
	return e
}

// get returns the session and marks it used.
func (s *sessionStore) get(id string) (*sessionEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked()

	e, ok := s.sessions[id]
	if ok {
		e.lastUsed = s.now()
	}
	return e, ok
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		close(e.done)
	}
	return ok
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) evictLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, e := range s.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			close(e.done)
		}
	}
}
