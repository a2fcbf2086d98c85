package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/router"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/store"
	"github.com/abhisek/bootseq/internal/ui/layout"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

// queryLimit caps how many rows of each event type are loaded.
const queryLimit = 500

// Source is the part of the event store the screen reads.
type Source interface {
	QueryAttempts(ctx context.Context, opts store.QueryOpts) ([]store.AttemptRecord, error)
	QuerySessions(ctx context.Context, opts store.QueryOpts) ([]store.SessionRecord, error)
}

// Session is the attempt log of one controller session.
type Session struct {
	ID       string
	Variant  string
	Attempts []store.AttemptRecord // newest first
	Wins     int
	Best     int // fewest steps used in a win, 0 without one
}

// Passes counts the attempts that brought a module online.
func (s Session) Passes() int {
	n := 0
	for _, a := range s.Attempts {
		if a.Outcome == game.StatusCompleted || a.Outcome == game.StatusWon {
			n++
		}
	}
	return n
}

type historyLoadedMsg struct {
	Sessions []Session
	Err      error
}

// HistoryScreen lists past sessions; enter expands one into its attempts.
type HistoryScreen struct {
	source   Source
	sessions []Session
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen reading from source.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := Load(context.Background(), s.source)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

// Load groups stored events by session, newest session first.
func Load(ctx context.Context, source Source) ([]Session, error) {
	attempts, err := source.QueryAttempts(ctx, store.QueryOpts{Limit: queryLimit})
	if err != nil {
		return nil, err
	}
	events, err := source.QuerySessions(ctx, store.QueryOpts{Limit: queryLimit})
	if err != nil {
		return nil, err
	}

	var order []string
	byID := make(map[string]*Session)
	get := func(id string) *Session {
		if s, ok := byID[id]; ok {
			return s
		}
		s := &Session{ID: id}
		byID[id] = s
		order = append(order, id)
		return s
	}

	// Both queries are newest first, so first sight decides the order.
	for _, e := range events {
		s := get(e.SessionID)
		if s.Variant == "" {
			s.Variant = e.Variant
		}
		if e.Action == game.SessionWon {
			s.Wins++
			if s.Best == 0 || e.StepsUsed < s.Best {
				s.Best = e.StepsUsed
			}
		}
	}
	for _, a := range attempts {
		s := get(a.SessionID)
		s.Attempts = append(s.Attempts, a)
	}

	out := make([]Session, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Attempts"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	notice := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return notice.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return notice.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return notice.Foreground(theme.TextDim).Italic(true).Render("\n\n  No attempts yet. Bring a module online!")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(prefix + sessionLine(sess)))
		b.WriteString("\n")

		if !s.expanded[i] {
			continue
		}
		if len(sess.Attempts) == 0 {
			b.WriteString(theme.Hint.Render("    No attempts this session"))
			b.WriteString("\n")
			continue
		}
		for _, a := range sess.Attempts {
			b.WriteString(attemptStyle(a.Outcome).Render("    " + attemptLine(a)))
			b.WriteString("\n")
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func sessionLine(s Session) string {
	started := "-"
	if n := len(s.Attempts); n > 0 {
		started = s.Attempts[n-1].Timestamp.Local().Format("Jan 02 15:04")
	}
	line := fmt.Sprintf("%s  %-8s  %s  %d attempts  %d passed",
		started, s.ID[:min(8, len(s.ID))], s.Variant, len(s.Attempts), s.Passes())
	if s.Wins > 0 {
		line += fmt.Sprintf("  %d won, best %d steps", s.Wins, s.Best)
	}
	return line
}

func attemptLine(a store.AttemptRecord) string {
	line := fmt.Sprintf("%s  %-10s %-16s %d steps left", a.Timestamp.Local().Format("15:04:05"),
		a.ModuleID, a.Outcome, a.StepsRemaining)
	if len(a.Wrong) > 0 {
		line += "  missed " + strings.Join(a.Wrong, ",")
	}
	return line
}

func attemptStyle(o game.Status) lipgloss.Style {
	switch o {
	case game.StatusCompleted, game.StatusWon:
		return lipgloss.NewStyle().Foreground(theme.Success)
	case game.StatusFailed, game.StatusForcedReset, game.StatusBudgetExhausted:
		return lipgloss.NewStyle().Foreground(theme.Error)
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim)
}
