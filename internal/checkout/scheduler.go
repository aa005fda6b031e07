package checkout

import (
	"sync"
	"time"
)

// Scheduler runs deferred flow advances. Pending tasks can be cancelled
// wholesale, which is what keeps a restarted order from being corrupted
// by a prior order's timers.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
	CancelAll()
}

type timerScheduler struct {
	mu     sync.Mutex
	nextID int
	timers map[int]*time.Timer
}

// NewScheduler creates a Scheduler backed by real timers
func NewScheduler() Scheduler {
	return &timerScheduler{timers: make(map[int]*time.Timer)}
}

func (s *timerScheduler) AfterFunc(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.timers[id] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
}

func (s *timerScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
