// Package welcome renders the splash shown before the board: a boot log
// that walks the catalog in dependency order.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/router"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/ui/layout"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

const tickInterval = 120 * time.Millisecond

type tickMsg time.Time

// WelcomeScreen prints one boot-log line per tick, then the banner, and
// hands over to the board on the next key press.
type WelcomeScreen struct {
	lines        []string
	next         func() screen.Screen
	shown        int
	transitioned bool
}

var (
	_ screen.Screen        = (*WelcomeScreen)(nil)
	_ screen.InputCapturer   = (*WelcomeScreen)(nil)
	_ screen.KeyHintProvider = (*WelcomeScreen)(nil)
)

// New creates a splash for cat that is replaced by the screen next returns.
func New(cat *catalog.Catalog, next func() screen.Screen) *WelcomeScreen {
	order := cat.TopologicalOrder()
	lines := make([]string, 0, len(order))
	for _, id := range order {
		m, err := cat.Get(id)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("probe %-10s %s", m.ID, m.Title))
	}
	return &WelcomeScreen{lines: lines, next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) KeyHints() []layout.KeyHint {
	if !w.Done() {
		return []layout.KeyHint{{Key: "any key", Description: "Skip"}}
	}
	return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
}

// CapturingInput is always true so every key skips the splash instead of
// triggering a global shortcut.
func (w *WelcomeScreen) CapturingInput() bool {
	return true
}

// Done reports whether the whole boot log has been printed.
func (w *WelcomeScreen) Done() bool {
	return w.shown >= len(w.lines)
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.Done() {
			return w, nil
		}
		w.shown++
		return w, tick()

	case tea.KeyPressMsg:
		// The first key finishes the log; the next one leaves.
		if !w.Done() {
			w.shown = len(w.lines)
			return w, nil
		}
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	s := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: s}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	ok := lipgloss.NewStyle().Foreground(theme.Success).Render("[ ok ]")
	pending := lipgloss.NewStyle().Foreground(theme.TextDim).Render("[ .. ]")

	log := make([]string, len(w.lines))
	for i, l := range w.lines {
		mark := pending
		if i < w.shown {
			mark = ok
		}
		log[i] = mark + " " + theme.Body.Render(l)
	}
	sections := []string{strings.Join(log, "\n")}

	if w.Done() {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			theme.Title.Render("Every module is offline. Bring them up in order."),
			"",
			theme.Hint.Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
