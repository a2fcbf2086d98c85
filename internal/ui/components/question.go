package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

// QuestionView renders one single- or multi-select question. Cursor is the
// highlighted option index, or -1 when the cursor is elsewhere.
type QuestionView struct {
	Number   int
	Question quiz.Question
	Cursor   int
	Chosen   func(optionID string) bool
}

// View renders the prompt followed by one line per option.
func (q QuestionView) View() string {
	var b strings.Builder

	prompt := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	b.WriteString(prompt.Render(fmt.Sprintf("%d. %s", q.Number, q.Question.Prompt)))
	b.WriteString("\n")

	for i, opt := range q.Question.Options {
		prefix := "  "
		if i == q.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", prefix, q.box(opt.ID), opt.Label)

		style := theme.Unselected
		if i == q.Cursor {
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (q QuestionView) box(optionID string) string {
	on := q.Chosen != nil && q.Chosen(optionID)
	switch {
	case q.Question.Kind == quiz.KindMulti && on:
		return "[x]"
	case q.Question.Kind == quiz.KindMulti:
		return "[ ]"
	case on:
		return "(•)"
	default:
		return "( )"
	}
}
