package syncer

import (
	"sync"
	"time"
)

// DefaultRefreshWindow is the coalescing window between refresh executions.
const DefaultRefreshWindow = 2 * time.Second

// Scheduler coalesces bursts of refresh requests. A request runs immediately
// when at least one window has passed since the previous execution began;
// otherwise it arms a single trailing timer for the end of the window, so a
// burst of N requests costs at most two executions: one leading, one
// trailing. Requests inside the window reuse the pending timer rather than
// stacking new ones.
type Scheduler struct {
	window time.Duration
	run    func()

	mu      sync.Mutex
	lastRun time.Time
	timer   *time.Timer
	stopped bool
}

// NewScheduler returns a scheduler invoking run on the caller's or the
// timer's goroutine. A non-positive window falls back to the default.
func NewScheduler(window time.Duration, run func()) *Scheduler {
	if window <= 0 {
		window = DefaultRefreshWindow
	}
	return &Scheduler{window: window, run: run}
}

// RequestRefresh asks for a refresh, synchronously when the window has
// elapsed, deferred otherwise.
func (s *Scheduler) RequestRefresh() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	now := time.Now()
	// A pending timer always wins: running synchronously with a timer
	// already armed could execute twice at the window boundary.
	if s.timer == nil && now.Sub(s.lastRun) >= s.window {
		s.lastRun = now
		s.mu.Unlock()
		s.run()
		return
	}

	delay := s.window - now.Sub(s.lastRun)
	if s.timer == nil {
		s.timer = time.AfterFunc(delay, s.fire)
	} else {
		s.timer.Reset(delay)
	}
	s.mu.Unlock()
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.lastRun = time.Now()
	s.mu.Unlock()
	s.run()
}

// Stop cancels any pending execution. Further requests are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
