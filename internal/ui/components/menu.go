package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bootseq/internal/ui/theme"
)

// MenuItem is one choice. Key, when set, picks the item directly.
type MenuItem struct {
	Label    string
	Key      string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of choices. Cursor movement wraps and skips
// disabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.Selected = m.step(1)
	return m
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "up", "k":
		m.Selected = m.step(-1)
	case "down", "j", "tab":
		m.Selected = m.step(1)
	case "enter":
		return m, m.fire(m.Selected)
	default:
		for i, item := range m.Items {
			if item.Key != "" && item.Key == k {
				m.Selected = i
				return m, m.fire(i)
			}
		}
	}
	return m, nil
}

func (m Menu) fire(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	if item := m.Items[i]; !item.Disabled && item.Action != nil {
		return item.Action()
	}
	return nil
}

// step returns the next enabled index in direction dir, wrapping around.
// It returns Selected unchanged when nothing else is enabled.
func (m Menu) step(dir int) int {
	n := len(m.Items)
	for i := 1; i <= n; i++ {
		j := ((m.Selected+dir*i)%n + n) % n
		if !m.Items[j].Disabled {
			return j
		}
	}
	return m.Selected
}

func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		label := item.Label
		if item.Key != "" {
			label += " (" + item.Key + ")"
		}
		switch {
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("▸ " + label))
		case item.Disabled:
			b.WriteString(theme.Locked.Render("  " + label))
		default:
			b.WriteString(theme.Unselected.Render("  " + label))
		}
	}
	return b.String()
}
