package game

import "github.com/abhisek/bootseq/internal/quiz"

// Action is an event reported by a rendering surface.
type Action interface {
	isAction()
}

// SelectAction focuses a module.
type SelectAction struct {
	ModuleID string
}

// AttemptAction submits answers for a module's quiz.
type AttemptAction struct {
	ModuleID   string
	Submission quiz.Submission
}

// ResetAction reinitializes the session.
type ResetAction struct{}

// StartTourAction starts the guided tour.
type StartTourAction struct{}

func (SelectAction) isAction()    {}
func (AttemptAction) isAction()   {}
func (ResetAction) isAction()     {}
func (StartTourAction) isAction() {}
