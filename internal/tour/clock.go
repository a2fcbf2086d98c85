package tour

import (
	"sort"
	"sync"
	"time"
)

// Clock schedules callbacks after a delay.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback that can be stopped.
type Timer interface {
	Stop() bool
}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock is a Clock whose time only moves when Advance is called.
// Callbacks run synchronously on the goroutine calling Advance, in due
// order.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

// NewManualClock returns a clock at time zero with nothing scheduled.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

type manualTimer struct {
	clock   *ManualClock
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, due: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

// Advance moves the clock forward by d and runs every callback that
// became due, earliest first.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	now := c.now
	c.mu.Unlock()

	for {
		t := c.nextDue(now)
		if t == nil {
			return
		}
		t.f()
	}
}

// nextDue pops the earliest unfired timer due at or before now.
func (c *ManualClock) nextDue(now time.Duration) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.SliceStable(c.pending, func(i, j int) bool {
		if c.pending[i].due != c.pending[j].due {
			return c.pending[i].due < c.pending[j].due
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	for i, t := range c.pending {
		if t.stopped {
			continue
		}
		if t.due > now {
			return nil
		}
		t.fired = true
		c.pending = append(c.pending[:i], c.pending[i+1:]...)
		return t
	}
	return nil
}

// Pending returns how many callbacks are scheduled and not yet stopped.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
