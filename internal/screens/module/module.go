package module

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/bootseq/internal/coach"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/ui/components"
	"github.com/abhisek/bootseq/internal/ui/layout"
	"github.com/abhisek/bootseq/internal/ui/theme"
)

type rowKind int

const (
	rowOption rowKind = iota
	rowField
	rowSubmit
)

// row is one focusable line of the task panel.
type row struct {
	kind     rowKind
	question int
	index    int // option or field index within the question
}

// ModuleScreen shows one module's detail panel and its task: the quiz
// when it can be attempted, otherwise the panel message.
type ModuleScreen struct {
	id     string
	frame  game.Frame
	inst   *quiz.Instance
	deal   uint64
	rows   []row
	inputs map[[2]int]*components.FieldInput
	sub    quiz.Submission
	cursor int
	nudge  *coach.Nudge
}

var _ screen.Screen = (*ModuleScreen)(nil)
var _ screen.KeyHintProvider = (*ModuleScreen)(nil)
var _ screen.InputCapturer = (*ModuleScreen)(nil)

// New creates the screen for module id.
func New(id string) *ModuleScreen {
	return &ModuleScreen{id: id, sub: quiz.NewSubmission()}
}

func (s *ModuleScreen) Init() tea.Cmd {
	return nil
}

func (s *ModuleScreen) Title() string {
	if s.frame.Panel.Module.ID == s.id {
		return s.frame.Panel.Module.Title
	}
	return s.id
}

func (s *ModuleScreen) KeyHints() []layout.KeyHint {
	if s.inst == nil {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Board"},
			{Key: "r", Description: "Reset"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Space", Description: "Pick"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Board"},
	}
}

// CapturingInput is true while a text field has the cursor.
func (s *ModuleScreen) CapturingInput() bool {
	return s.inst != nil && s.current().kind == rowField
}

func (s *ModuleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.FrameMsg:
		return s, s.applyFrame(msg.Frame)
	case screen.NudgeMsg:
		if msg.Nudge.ModuleID == s.id {
			n := msg.Nudge
			s.nudge = &n
		}
		return s, nil
	case tea.KeyPressMsg:
		if s.inst == nil {
			return s, nil
		}
		return s, s.handleKey(msg)
	}

	if in := s.focusedInput(); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return s, cmd
	}
	return s, nil
}

// applyFrame keeps the answers in progress while the same quiz instance is
// shown and starts over when the controller deals a new one.
func (s *ModuleScreen) applyFrame(f game.Frame) tea.Cmd {
	s.frame = f
	switch f.Status {
	case game.StatusReset, game.StatusForcedReset, game.StatusCompleted:
		s.nudge = nil
	}

	var (
		inst *quiz.Instance
		deal uint64
	)
	if f.Panel.Module.ID == s.id && f.Panel.Task == game.TaskQuiz && f.Panel.Quiz != nil {
		inst, deal = f.Panel.Quiz, f.Panel.Deal
	}
	if (inst == nil) == (s.inst == nil) && deal == s.deal {
		s.inst = inst
		return nil
	}
	s.inst, s.deal = inst, deal
	s.sub = quiz.NewSubmission()
	s.cursor = 0
	s.buildRows()
	return s.refocus()
}

func (s *ModuleScreen) buildRows() {
	s.rows = nil
	s.inputs = make(map[[2]int]*components.FieldInput)
	if s.inst == nil {
		return
	}
	for qi, q := range s.inst.Questions {
		if q.Kind == quiz.KindText {
			for fi, f := range q.Fields {
				in := components.NewFieldInput(q.ID, f, 36)
				s.inputs[[2]int{qi, fi}] = &in
				s.rows = append(s.rows, row{kind: rowField, question: qi, index: fi})
			}
			continue
		}
		for oi := range q.Options {
			s.rows = append(s.rows, row{kind: rowOption, question: qi, index: oi})
		}
	}
	s.rows = append(s.rows, row{kind: rowSubmit})
}

func (s *ModuleScreen) current() row {
	if s.cursor < 0 || s.cursor >= len(s.rows) {
		return row{kind: rowSubmit}
	}
	return s.rows[s.cursor]
}

func (s *ModuleScreen) focusedInput() *components.FieldInput {
	r := s.current()
	if s.inst == nil || r.kind != rowField {
		return nil
	}
	return s.inputs[[2]int{r.question, r.index}]
}

// refocus blurs every input and focuses the one under the cursor.
func (s *ModuleScreen) refocus() tea.Cmd {
	for _, in := range s.inputs {
		in.Blur()
	}
	if in := s.focusedInput(); in != nil {
		return in.Focus()
	}
	return nil
}

func (s *ModuleScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	r := s.current()
	switch msg.String() {
	case "up", "shift+tab":
		return s.move(-1)
	case "down", "tab":
		return s.move(1)
	case "enter":
		if r.kind == rowSubmit {
			return s.submit()
		}
		if r.kind == rowOption {
			s.pick(r)
		}
		return s.move(1)
	case "space", " ":
		if r.kind == rowOption {
			s.pick(r)
			return nil
		}
		if r.kind == rowSubmit {
			return s.submit()
		}
	case "k":
		if r.kind != rowField {
			return s.move(-1)
		}
	case "j":
		if r.kind != rowField {
			return s.move(1)
		}
	}

	if in := s.focusedInput(); in != nil {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return cmd
	}
	return nil
}

func (s *ModuleScreen) move(delta int) tea.Cmd {
	if len(s.rows) == 0 {
		return nil
	}
	s.cursor = min(max(s.cursor+delta, 0), len(s.rows)-1)
	return s.refocus()
}

// pick chooses a single-select option or toggles a multi-select one.
func (s *ModuleScreen) pick(r row) {
	q := s.inst.Questions[r.question]
	opt := q.Options[r.index]
	if q.Kind == quiz.KindMulti {
		s.sub.Toggle(q.ID, opt.ID)
		return
	}
	s.sub.Choose(q.ID, opt.ID)
}

// Submission returns the answers entered so far, text fields included.
func (s *ModuleScreen) Submission() quiz.Submission {
	sub := quiz.NewSubmission()
	for q, o := range s.sub.Choices {
		sub.Choose(q, o)
	}
	for q, set := range s.sub.Sets {
		for _, o := range set {
			sub.Toggle(q, o)
		}
	}
	for key, in := range s.inputs {
		q := s.inst.Questions[key[0]]
		sub.Fill(q.ID, q.Fields[key[1]].ID, in.Value())
	}
	return sub
}

func (s *ModuleScreen) submit() tea.Cmd {
	s.nudge = nil
	return screen.Dispatch(game.AttemptAction{ModuleID: s.id, Submission: s.Submission()})
}

func (s *ModuleScreen) View(width, height int) string {
	p := s.frame.Panel
	if p.Module.ID != s.id {
		return components.Centered(theme.Hint.Render("Loading module…"), width, height)
	}

	compact := layout.IsCompactWidth(width)
	detailW, taskW := components.PanelWidth(width, compact)

	detail := components.Card(s.renderDetail(detailW-4), detailW, false)
	task := components.Card(s.renderTask(taskW-4), taskW, true)

	if compact {
		return lipgloss.JoinVertical(lipgloss.Left, detail, task)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, detail, " ", task)
}

func (s *ModuleScreen) renderDetail(width int) string {
	m := s.frame.Panel.Module
	var b strings.Builder
	b.WriteString(theme.Title.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(m.Role))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Render(m.Description))
	b.WriteString("\n")
	if m.Path != "" {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render(m.Path))
		b.WriteString("\n")
	}
	if m.Snippet != "" {
		b.WriteString(theme.Code.Render(m.Snippet))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ModuleScreen) renderTask(width int) string {
	p := s.frame.Panel
	var b strings.Builder

	if s.inst == nil {
		style := theme.Body
		switch p.Task {
		case game.TaskOnline:
			style = theme.Online
		case game.TaskLocked, game.TaskExpired:
			style = theme.Locked
		}
		b.WriteString(style.Width(width).Render(p.Message))
		if s.frame.Selected == s.id && s.frame.Status == game.StatusCompleted {
			b.WriteString("\n\n")
			b.WriteString(theme.ToneStyle(s.frame.Tone).Width(width).Render(s.frame.Message))
		}
		return b.String()
	}

	b.WriteString(theme.Title.Render(s.inst.Title))
	b.WriteString("\n\n")

	for qi, q := range s.inst.Questions {
		if q.Kind == quiz.KindText {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render(questionPrompt(qi, q)))
			b.WriteString("\n")
			for fi := range q.Fields {
				active := s.current() == row{kind: rowField, question: qi, index: fi}
				b.WriteString(s.inputs[[2]int{qi, fi}].View(active))
				b.WriteString("\n")
			}
			b.WriteString("\n")
			continue
		}

		cursor := -1
		if r := s.current(); r.kind == rowOption && r.question == qi {
			cursor = r.index
		}
		qv := components.QuestionView{
			Number:   qi + 1,
			Question: q,
			Cursor:   cursor,
			Chosen:   func(optionID string) bool { return s.sub.Selected(q.ID, optionID) },
		}
		b.WriteString(qv.View())
		b.WriteString("\n")
	}

	b.WriteString(components.NewButton(s.inst.SubmitLabel, s.current().kind == rowSubmit).View())

	if s.frame.Status == game.StatusFailed && s.frame.Selected == s.id {
		b.WriteString("\n\n")
		b.WriteString(theme.ToneStyle(s.frame.Tone).Width(width).Render(s.frame.Message))
	}
	if s.nudge != nil {
		label := "Hint: "
		if s.nudge.Source == coach.SourceCoach {
			label = "Coach: "
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(width).Render(label + s.nudge.Text))
	}
	return b.String()
}

func questionPrompt(i int, q quiz.Question) string {
	return fmt.Sprintf("%d. %s", i+1, q.Prompt)
}
