// Package tour walks the selection over every module on a fixed timer.
package tour

import (
	"slices"
	"sync"
	"time"
)

// DefaultInterval is the delay between consecutive tour steps.
const DefaultInterval = 900 * time.Millisecond

// Step is one scheduled tour callback.
type Step struct {
	// Generation identifies the Start call that scheduled this step.
	Generation uint64
	Index      int
	ModuleID   string

	// Last is true for the final step of the walk.
	Last bool
}

// Scheduler schedules one callback per module at index × interval.
//
// The scheduler does not decide whether a tour may start; the owner keeps
// that guard. Every Start and Cancel bumps the generation, so an owner that
// checks IsCurrent under its own lock never acts on a stale step.
type Scheduler struct {
	clock    Clock
	interval time.Duration

	mu         sync.Mutex
	generation uint64
	timers     []Timer
}

// NewScheduler creates a scheduler. A nil clock uses real time; a
// non-positive interval uses DefaultInterval.
func NewScheduler(clock Clock, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = RealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{clock: clock, interval: interval}
}

// Interval returns the delay between steps.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start cancels anything pending and schedules fn for every id in order.
// The first step is scheduled with zero delay. Returns the generation of
// the new walk.
func (s *Scheduler) Start(ids []string, fn func(Step)) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.generation++
	gen := s.generation

	ids = slices.Clone(ids)
	for i, id := range ids {
		step := Step{Generation: gen, Index: i, ModuleID: id, Last: i == len(ids)-1}
		s.timers = append(s.timers, s.clock.AfterFunc(time.Duration(i)*s.interval, func() {
			fn(step)
		}))
	}
	return gen
}

// Cancel stops every pending step and invalidates the current generation.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.generation++
}

// IsCurrent reports whether gen belongs to the most recent Start that has
// not been canceled.
func (s *Scheduler) IsCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

func (s *Scheduler) stopLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
