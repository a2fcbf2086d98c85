package board

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/router"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/screens/module"
	"github.com/abhisek/bootseq/internal/ui/components"
	"github.com/abhisek/bootseq/internal/ui/layout"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

// BoardScreen lists every module of the boot sequence with its state and
// a detail panel for the module under the cursor.
type BoardScreen struct {
	catalog *catalog.Catalog
	frame   game.Frame
	cursor  int
	seen    bool
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)

// New creates a board over the given catalog.
func New(cat *catalog.Catalog) *BoardScreen {
	return &BoardScreen{catalog: cat}
}

func (s *BoardScreen) Init() tea.Cmd {
	return nil
}

func (s *BoardScreen) Title() string {
	return "Boot Sequence"
}

func (s *BoardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "t", Description: "Tour"},
		{Key: "r", Description: "Reset"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Cursor returns the ID of the module under the cursor.
func (s *BoardScreen) Cursor() string {
	if s.cursor < 0 || s.cursor >= len(s.frame.Nodes) {
		return ""
	}
	return s.frame.Nodes[s.cursor].ID
}

func (s *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.FrameMsg:
		s.applyFrame(msg.Frame)
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.move(-1)
		case "down", "j":
			s.move(1)
		case "home":
			s.cursor = 0
		case "end":
			s.cursor = max(len(s.frame.Nodes)-1, 0)
		case "enter":
			return s, s.open()
		}
	}
	return s, nil
}

// applyFrame stores the frame. The cursor jumps to the selected module on
// the first frame and whenever the tour moves the selection.
func (s *BoardScreen) applyFrame(f game.Frame) {
	prev := s.frame.Selected
	s.frame = f
	follow := !s.seen || f.Status == game.StatusTourStep || f.Status == game.StatusTourDone
	s.seen = true
	if f.Selected != "" && (follow || (prev != f.Selected && f.Status == game.StatusSelected)) {
		for i, n := range f.Nodes {
			if n.ID == f.Selected {
				s.cursor = i
				break
			}
		}
	}
	s.cursor = min(s.cursor, max(len(f.Nodes)-1, 0))
}

func (s *BoardScreen) move(delta int) {
	if len(s.frame.Nodes) == 0 {
		return
	}
	s.cursor = (s.cursor + delta + len(s.frame.Nodes)) % len(s.frame.Nodes)
}

// open selects the module under the cursor and pushes its screen. The
// select is dispatched first so the module screen's first frame shows it.
func (s *BoardScreen) open() tea.Cmd {
	id := s.Cursor()
	if id == "" {
		return nil
	}
	return tea.Sequence(
		screen.Dispatch(game.SelectAction{ModuleID: id}),
		func() tea.Msg { return router.PushScreenMsg{Screen: module.New(id)} },
	)
}

func (s *BoardScreen) View(width, height int) string {
	if len(s.frame.Nodes) == 0 {
		return components.Centered(theme.Hint.Render("Booting…"), width, height)
	}

	compact := layout.IsCompactWidth(width)
	listW, detailW := components.PanelWidth(width, compact)

	list := components.Card(s.renderNodes(listW-4), listW, true)
	detail := components.Card(s.renderDetail(detailW-4), detailW, false)

	if compact {
		return lipgloss.JoinVertical(lipgloss.Left, list, detail)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
}

func (s *BoardScreen) renderNodes(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Modules"))
	b.WriteString("\n\n")

	online := 0
	for i, n := range s.frame.Nodes {
		if n.State == catalog.StateCompleted {
			online++
		}
		prefix := "  "
		if i == s.cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", prefix, n.State.Icon(), n.Title)

		style := theme.Unselected
		switch {
		case i == s.cursor:
			style = theme.Selected
		case n.State == catalog.StateCompleted:
			style = theme.Online
		case n.State == catalog.StateLocked:
			style = theme.Locked
		}
		if n.Selected {
			line += " •"
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	bar := components.NewProgressBar("Online", online, len(s.frame.Nodes), width)
	b.WriteString(bar.View())
	b.WriteString("\n")
	budget := components.NewProgressBar("Steps ", s.frame.StepsRemaining, s.frame.InitialBudget, width)
	budget.Warning = s.frame.Danger()
	b.WriteString(budget.View())
	return b.String()
}

func (s *BoardScreen) renderDetail(width int) string {
	id := s.Cursor()
	m, err := s.catalog.Get(id)
	if err != nil {
		return theme.Hint.Render("Pick a module to inspect.")
	}

	var node game.NodeView
	for _, n := range s.frame.Nodes {
		if n.ID == id {
			node = n
		}
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(theme.Subtitle.Render(node.State.Label()))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Render(m.Summary()))
	b.WriteString("\n\n")
	if m.Path != "" {
		b.WriteString(theme.Subtitle.Render(m.Path))
		b.WriteString("\n")
	}
	if m.Snippet != "" {
		b.WriteString(theme.Code.Render(m.Snippet))
		b.WriteString("\n")
	}

	if missing := s.catalog.MissingPrerequisites(id, s.frame.Completed); len(missing) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Needs: " + strings.Join(s.catalog.Titles(missing), ", ")))
		b.WriteString("\n")
	}
	return b.String()
}
