package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

type picked string

func pick(s string) func() tea.Cmd {
	return func() tea.Cmd { return func() tea.Msg { return picked(s) } }
}

func press(code rune, text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Text: text}
}

func TestMenu_SkipsDisabledAndWraps(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "locked", Disabled: true},
		{Label: "reset", Action: pick("reset")},
		{Label: "board", Action: pick("board")},
	})
	if m.Selected != 1 {
		t.Fatalf("first enabled item should be selected, got %d", m.Selected)
	}

	m, _ = m.Update(press(tea.KeyDown, ""))
	if m.Selected != 2 {
		t.Fatalf("down: got %d", m.Selected)
	}
	m, _ = m.Update(press(tea.KeyDown, ""))
	if m.Selected != 1 {
		t.Fatalf("down should wrap past the disabled item, got %d", m.Selected)
	}
	m, _ = m.Update(press(tea.KeyUp, ""))
	if m.Selected != 2 {
		t.Fatalf("up should wrap to the last item, got %d", m.Selected)
	}

	_, cmd := m.Update(press(tea.KeyEnter, ""))
	if cmd == nil || cmd() != picked("board") {
		t.Fatal("enter should fire the selected action")
	}
}

func TestMenu_ShortcutKey(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "Reset", Key: "r", Action: pick("reset")},
		{Label: "Board", Key: "b", Action: pick("board")},
	})

	m, cmd := m.Update(press('b', "b"))
	if m.Selected != 1 || cmd == nil || cmd() != picked("board") {
		t.Fatalf("shortcut should select and fire, selected=%d", m.Selected)
	}
}

func TestMenu_AllDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "a", Disabled: true}})
	m, cmd := m.Update(press(tea.KeyEnter, ""))
	if cmd != nil {
		t.Fatal("disabled items never fire")
	}
	if m.View() == "" {
		t.Fatal("view should still list the item")
	}
}
