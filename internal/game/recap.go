package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/quiz"
)

// Recap returns the mission recap: one line per module in catalog order.
func Recap(cat *catalog.Catalog) []string {
	modules := cat.Modules()
	lines := make([]string, 0, len(modules))
	for _, m := range modules {
		lines = append(lines, m.Recap)
	}
	return lines
}

// FormatBest renders a best score the way the header shows it.
func FormatBest(best int, ok bool) string {
	if !ok {
		return "--"
	}
	return fmt.Sprintf("%d steps", best)
}

// TextRenderer writes frames as plain text. With Verbose unset only the
// status line of each frame is written, deduplicated against the previous
// one.
type TextRenderer struct {
	w       io.Writer
	Verbose bool
	last    string
}

// NewTextRenderer creates a TextRenderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(f Frame) {
	if r.Verbose {
		fmt.Fprint(r.w, FormatFrame(f))
		return
	}
	if f.Message == r.last && !f.Won() {
		return
	}
	r.last = f.Message
	fmt.Fprintf(r.w, "[%2d steps] %s\n", f.StepsRemaining, f.Message)
	if f.Won() {
		fmt.Fprint(r.w, formatRecap(f.Recap))
	}
}

// FormatFrame renders a full frame: header, board, panel, status line and
// recap.
func FormatFrame(f Frame) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Steps: %d/%d  Mistakes: %d", f.StepsRemaining, f.InitialBudget, f.Mistakes)
	if f.MistakeLimit > 0 {
		fmt.Fprintf(&b, "/%d", f.MistakeLimit)
	}
	fmt.Fprintf(&b, "  Best: %s\n", FormatBest(f.Best, f.HasBest))

	for _, n := range f.Nodes {
		marker := " "
		if n.Selected {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %s %-13s %s\n", marker, n.State.Icon(), n.Title, n.State.Label())
	}

	if f.Panel.Module.ID != "" {
		m := f.Panel.Module
		fmt.Fprintf(&b, "\n%s\n%s\n%s\n", m.Title, m.Summary(), m.Path)
		switch f.Panel.Task {
		case TaskQuiz:
			if f.Panel.Quiz != nil {
				b.WriteString(FormatQuiz(*f.Panel.Quiz))
			}
		default:
			if f.Panel.Message != "" {
				fmt.Fprintf(&b, "%s\n", f.Panel.Message)
			}
		}
	}

	fmt.Fprintf(&b, "\n%s\n", f.Message)
	if f.Won() {
		b.WriteString(formatRecap(f.Recap))
	}
	return b.String()
}

// FormatQuiz renders a quiz instance with numbered options.
func FormatQuiz(inst quiz.Instance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", inst.Title)
	for qi, q := range inst.Questions {
		fmt.Fprintf(&b, "%d. %s\n", qi+1, q.Prompt)
		switch q.Kind {
		case quiz.KindText:
			for fi, fld := range q.Fields {
				fmt.Fprintf(&b, "   %d) %s (e.g. %s)\n", fi+1, fld.Label, fld.Placeholder)
			}
		default:
			box := "( )"
			if q.Kind == quiz.KindMulti {
				box = "[ ]"
			}
			for oi, o := range q.Options {
				fmt.Fprintf(&b, "   %s %d) %s\n", box, oi+1, o.Label)
			}
		}
	}
	return b.String()
}

func formatRecap(lines []string) string {
	var b strings.Builder
	b.WriteString("Mission recap\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "  • %s\n", l)
	}
	return b.String()
}
