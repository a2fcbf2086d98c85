// Package progress holds the mutable session state of a boot sequence.
// A State is owned by a single controller and is not safe for concurrent
// use on its own.
package progress

import (
	"maps"
	"slices"
)

// State tracks the action budget, completion flags, mistakes, selection
// and tour guard of one session.
type State struct {
	moduleIDs     []string
	initialBudget int

	stepsRemaining int
	mistakes       int
	mistakesBy     map[string]int
	completed      map[string]bool
	selected       string
	tourRunning    bool
}

// New creates a fresh state for the given modules and initial budget.
// A negative budget is treated as zero.
func New(moduleIDs []string, initialBudget int) *State {
	s := &State{
		moduleIDs:     slices.Clone(moduleIDs),
		initialBudget: max(initialBudget, 0),
	}
	s.Reset()
	return s
}

// Reset restores every field to its initial value: full budget, zero
// mistakes, nothing completed, no selection, no tour.
func (s *State) Reset() {
	s.stepsRemaining = s.initialBudget
	s.mistakes = 0
	s.mistakesBy = make(map[string]int)
	s.completed = make(map[string]bool, len(s.moduleIDs))
	for _, id := range s.moduleIDs {
		s.completed[id] = false
	}
	s.selected = ""
	s.tourRunning = false
}

// ConsumeStep spends one unit of budget and returns what remains. The
// budget never drops below zero.
func (s *State) ConsumeStep() int {
	if s.stepsRemaining > 0 {
		s.stepsRemaining--
	}
	return s.stepsRemaining
}

// MarkCompleted flags a module as online. It refuses, returning false,
// once the budget is exhausted or for a module this state does not track.
func (s *State) MarkCompleted(id string) bool {
	if s.stepsRemaining <= 0 {
		return false
	}
	if _, ok := s.completed[id]; !ok {
		return false
	}
	s.completed[id] = true
	return true
}

// RecordMistake counts a rejected submission against a module and returns
// the new total.
func (s *State) RecordMistake(id string) int {
	s.mistakes++
	s.mistakesBy[id]++
	return s.mistakes
}

// ClearMistakes removes a module's contribution from the mistake total.
func (s *State) ClearMistakes(id string) {
	s.mistakes -= s.mistakesBy[id]
	if s.mistakes < 0 {
		s.mistakes = 0
	}
	delete(s.mistakesBy, id)
}

// Select sets the current selection. An empty id clears it.
func (s *State) Select(id string) {
	s.selected = id
}

// SetTourRunning sets the tour guard.
func (s *State) SetTourRunning(running bool) {
	s.tourRunning = running
}

// InitialBudget returns the configured starting budget.
func (s *State) InitialBudget() int { return s.initialBudget }

// StepsRemaining returns the unspent budget.
func (s *State) StepsRemaining() int { return s.stepsRemaining }

// StepsUsed returns how much of the budget has been spent.
func (s *State) StepsUsed() int { return s.initialBudget - s.stepsRemaining }

// Exhausted reports whether the budget has run out.
func (s *State) Exhausted() bool { return s.stepsRemaining <= 0 }

// Mistakes returns the current mistake total.
func (s *State) Mistakes() int { return s.mistakes }

// MistakesFor returns the mistakes recorded against one module.
func (s *State) MistakesFor(id string) int { return s.mistakesBy[id] }

// IsCompleted reports whether a module is online.
func (s *State) IsCompleted(id string) bool { return s.completed[id] }

// Completed returns a copy of the completion map.
func (s *State) Completed() map[string]bool { return maps.Clone(s.completed) }

// CompletedCount returns how many modules are online.
func (s *State) CompletedCount() int {
	n := 0
	for _, done := range s.completed {
		if done {
			n++
		}
	}
	return n
}

// Selected returns the current selection, if any.
func (s *State) Selected() (string, bool) { return s.selected, s.selected != "" }

// TourRunning reports the tour guard.
func (s *State) TourRunning() bool { return s.tourRunning }

// Snapshot is an immutable copy of a State at one point in time.
type Snapshot struct {
	InitialBudget  int
	StepsRemaining int
	Mistakes       int
	Completed      map[string]bool
	Selected       string
	TourRunning    bool
}

// StepsUsed returns how much of the budget had been spent.
func (s Snapshot) StepsUsed() int { return s.InitialBudget - s.StepsRemaining }

// Snapshot captures the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		InitialBudget:  s.initialBudget,
		StepsRemaining: s.stepsRemaining,
		Mistakes:       s.mistakes,
		Completed:      s.Completed(),
		Selected:       s.selected,
		TourRunning:    s.tourRunning,
	}
}
