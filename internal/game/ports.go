package game

import (
	"context"
	"sync"
)

// BestScoreStore persists the fewest steps ever used to win. The
// write-if-better decision belongs to the controller.
type BestScoreStore interface {
	// Read returns the stored best and whether one exists.
	Read(ctx context.Context) (int, bool, error)
	Write(ctx context.Context, stepsUsed int) error
}

// EventRecorder receives an append-only record of play.
type EventRecorder interface {
	RecordAttempt(ctx context.Context, e AttemptEvent) error
	RecordSession(ctx context.Context, e SessionEvent) error
}

// AttemptEvent describes one budget-consuming submission.
type AttemptEvent struct {
	SessionID      string
	ModuleID       string
	Outcome        Status
	StepsRemaining int
	Mistakes       int

	// Wrong lists the question IDs answered incorrectly or left blank.
	Wrong []string
}

// SessionAction is the kind of session lifecycle event.
type SessionAction string

const (
	SessionStart       SessionAction = "start"
	SessionReset       SessionAction = "reset"
	SessionForcedReset SessionAction = "forced_reset"
	SessionWon         SessionAction = "won"
	SessionExhausted   SessionAction = "exhausted"
)

// SessionEvent describes a lifecycle change of a session.
type SessionEvent struct {
	SessionID string
	Action    SessionAction
	Variant   string
	StepsUsed int
	NewBest   bool
}

// MemoryBestScore is an in-process BestScoreStore.
type MemoryBestScore struct {
	mu    sync.Mutex
	value int
	set   bool
}

// NewMemoryBestScore returns an empty store, or one holding initial when
// a value is given.
func NewMemoryBestScore(initial ...int) *MemoryBestScore {
	m := &MemoryBestScore{}
	if len(initial) > 0 {
		m.value, m.set = initial[0], true
	}
	return m
}

func (m *MemoryBestScore) Read(_ context.Context) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.set, nil
}

func (m *MemoryBestScore) Write(_ context.Context, stepsUsed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value, m.set = stepsUsed, true
	return nil
}
