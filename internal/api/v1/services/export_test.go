package services

import "time"

// SetClock replaces the store clock.
func (s *SessionServiceImpl) SetClock(now func() time.Time) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.now = now
}
