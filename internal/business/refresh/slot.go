package refresh

import (
	"sync"
	"time"
)

// Slot holds the latest snapshot produced by a poller. Writes replace the
// previous value unconditionally; readers always see a complete snapshot.
type Slot[T any] struct {
	mu        sync.RWMutex
	value     T
	updatedAt time.Time
	set       bool
}

// Set stores v as the current snapshot.
func (s *Slot[T]) Set(v T, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	s.updatedAt = at
	s.set = true
}

// Get returns the current snapshot and when it was stored. ok is false until
// the first Set.
func (s *Slot[T]) Get() (v T, updatedAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.updatedAt, s.set
}

// Fresh reports whether the slot holds a value younger than maxAge at now.
func (s *Slot[T]) Fresh(now time.Time, maxAge time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set && now.Sub(s.updatedAt) < maxAge
}
