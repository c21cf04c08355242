// Package scheduler holds named one-shot timers owned by a single session.
package scheduler

import (
	"sync"
	"time"
)

type handle struct {
	timer *time.Timer
}

// Scheduler runs named callbacks once after a delay. Scheduling a name that
// is already pending replaces it. A cancelled callback never runs, even when
// its timer fired concurrently with the cancel.
type Scheduler struct {
	mu      sync.Mutex
	handles map[string]*handle
}

func New() *Scheduler {
	return &Scheduler{handles: make(map[string]*handle)}
}

// After schedules fn to run in its own goroutine after d.
func (s *Scheduler) After(name string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked(name)
	h := &handle{}
	h.timer = time.AfterFunc(d, func() {
		if s.claim(name, h) {
			fn()
		}
	})
	s.handles[name] = h
}

// claim removes h if it is still the pending handle for name.
func (s *Scheduler) claim(name string, h *handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handles[name] != h {
		return false
	}
	delete(s.handles, name)
	return true
}

// Cancel stops the pending callback for name. It reports whether one was
// pending.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked(name)
}

// CancelAll stops every pending callback and returns how many there were.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.handles)
	for name := range s.handles {
		s.stopLocked(name)
	}
	return n
}

// Pending reports whether a callback is scheduled under name.
func (s *Scheduler) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.handles[name]
	return ok
}

func (s *Scheduler) stopLocked(name string) bool {
	h, ok := s.handles[name]
	if !ok {
		return false
	}
	h.timer.Stop()
	delete(s.handles, name)
	return true
}
