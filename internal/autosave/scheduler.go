package autosave

import (
	"sync"
	"time"
)

// Scheduler owns debounce timers keyed by name, independent of any UI
// lifecycle. Scheduling a key that is already pending restarts its timer;
// only the last function scheduled for a key ever runs.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*task
}

type task struct {
	timer *time.Timer
	fn    func()
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string]*task)}
}

// ScheduleDebounced runs fn after delay unless the key is scheduled,
// canceled or flushed again first.
func (s *Scheduler) ScheduleDebounced(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.pending[key]; ok {
		prev.timer.Stop()
	}

	t := &task{fn: fn}
	t.timer = time.AfterFunc(delay, func() {
		s.fire(key, t)
	})
	s.pending[key] = t
}

// Cancel drops the pending work for a key without running it.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.pending[key]; ok {
		t.timer.Stop()
		delete(s.pending, key)
	}
}

// Flush runs the pending work for a key synchronously, now. A key with
// nothing pending is a no-op.
func (s *Scheduler) Flush(key string) {
	s.mu.Lock()
	t, ok := s.pending[key]
	if ok {
		t.timer.Stop()
		delete(s.pending, key)
	}
	s.mu.Unlock()

	if ok {
		t.fn()
	}
}

// Stop cancels everything pending.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, t := range s.pending {
		t.timer.Stop()
		delete(s.pending, key)
	}
}

func (s *Scheduler) fire(key string, t *task) {
	s.mu.Lock()
	if s.pending[key] != t {
		// superseded by a newer schedule or a flush
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.mu.Unlock()

	t.fn()
}
