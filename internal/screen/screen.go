package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bootseq/internal/coach"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that are currently editing text
// and want global single-letter keys passed through.
type InputCapturer interface {
	CapturingInput() bool
}

// FrameMsg carries a new controller frame to every screen.
type FrameMsg struct {
	Frame game.Frame
}

// ActionMsg asks the app to dispatch an action to the controller.
type ActionMsg struct {
	Action game.Action
}

// NudgeMsg carries a coach nudge for the failed module.
type NudgeMsg struct {
	Nudge coach.Nudge
}

// Dispatch returns a command that emits an ActionMsg.
func Dispatch(a game.Action) tea.Cmd {
	return func() tea.Msg { return ActionMsg{Action: a} }
}
