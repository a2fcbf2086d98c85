package recap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/router"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/ui/components"
	"github.com/abhisek/bootseq/internal/ui/layout"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

// RecapScreen shows the mission recap after the pipeline comes online.
type RecapScreen struct {
	frame game.Frame
	menu  components.Menu
}

var _ screen.Screen = (*RecapScreen)(nil)
var _ screen.KeyHintProvider = (*RecapScreen)(nil)

// New creates a recap for the winning frame.
func New(f game.Frame) *RecapScreen {
	s := &RecapScreen{frame: f}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Reset and boot again", Key: "n", Action: func() tea.Cmd {
			return tea.Sequence(
				screen.Dispatch(game.ResetAction{}),
				func() tea.Msg { return router.PopToRootMsg{} },
			)
		}},
		{Label: "Back to the board", Key: "b", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PopToRootMsg{} }
		}},
	})
	return s
}

func (s *RecapScreen) Init() tea.Cmd {
	return nil
}

func (s *RecapScreen) Title() string {
	return "Mission Recap"
}

func (s *RecapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Board"},
	}
}

func (s *RecapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.FrameMsg:
		// Only frames that still carry the recap replace the one shown;
		// a reset underneath leaves the screen as it was until it is popped.
		if msg.Frame.Won() {
			s.frame = msg.Frame
		}
		return s, nil
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *RecapScreen) View(width, height int) string {
	f := s.frame
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render(game.MsgWon)))
	b.WriteString("\n\n")

	used := f.InitialBudget - f.StepsRemaining
	stats := fmt.Sprintf("Steps used: %d of %d        Mistakes: %d        Best: %s",
		used, f.InitialBudget, f.Mistakes, game.FormatBest(f.Best, f.HasBest))
	b.WriteString(center(theme.Body.Render(stats)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(center(theme.Subtitle.Render("Mission recap")))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	lineW := min(width-8, 72)
	for _, line := range f.Recap {
		b.WriteString(center(theme.Body.Width(lineW).Render("• " + line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(center(s.menu.View()))
	return b.String()
}
