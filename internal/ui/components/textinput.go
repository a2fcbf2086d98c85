package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

// FieldInput wraps bubbles/textinput for one free-text quiz field.
type FieldInput struct {
	Model      textinput.Model
	QuestionID string
	Field      quiz.Field
}

// NewFieldInput creates an unfocused input for a field.
func NewFieldInput(questionID string, f quiz.Field, width int) FieldInput {
	ti := textinput.New()
	ti.Placeholder = f.Placeholder
	ti.Prompt = ""
	ti.CharLimit = 120
	if width > 0 {
		ti.SetWidth(width)
	}
	return FieldInput{Model: ti, QuestionID: questionID, Field: f}
}

// Focus focuses the input and returns the cursor blink command.
func (t *FieldInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *FieldInput) Blur() {
	t.Model.Blur()
}

// Update handles messages.
func (t FieldInput) Update(msg tea.Msg) (FieldInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input.
func (t FieldInput) View(active bool) string {
	label := theme.Unselected
	prefix := "  "
	if active {
		label = theme.Selected
		prefix = "▸ "
	}
	return label.Render(prefix+t.Field.Label+": ") +
		lipgloss.NewStyle().Foreground(theme.Text).Render(t.Model.View())
}

// Value returns the trimmed input value.
func (t FieldInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}
