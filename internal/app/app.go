package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bootseq/internal/coach"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/router"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/screens/board"
	"github.com/abhisek/bootseq/internal/screens/history"
	"github.com/abhisek/bootseq/internal/screens/recap"
	"github.com/abhisek/bootseq/internal/screens/welcome"
	"github.com/abhisek/bootseq/internal/ui/layout"
)

// Options configures the interactive program.
type Options struct {
	Controller *game.Controller

	// Mailbox must be one of the controller's renderers. Tour steps reach
	// the UI through it.
	Mailbox *game.Mailbox

	// Coach is optional. When it is enabled, failed attempts get a
	// generated nudge.
	Coach *coach.Service

	Logger *slog.Logger

	// History is optional; when set, h opens the attempt log.
	History history.Source

	// Splash shows the boot log before the board.
	Splash bool
}

// frameArrivedMsg carries a frame taken from the mailbox.
type frameArrivedMsg struct {
	frame game.Frame
}

// nudgeArrivedMsg carries a nudge delivered by the coach.
type nudgeArrivedMsg struct {
	nudge coach.Nudge
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx     context.Context
	router  *router.Router
	ctl     *game.Controller
	mailbox *game.Mailbox
	coach   *coach.Service
	history history.Source
	logger  *slog.Logger

	done   chan struct{}
	nudges chan coach.Nudge

	frame      game.Frame
	attempting string
	width      int
	height     int
}

// newAppModel creates an AppModel with the board, or the splash leading to
// it, as its root screen. initial is the frame Start returned.
func newAppModel(ctx context.Context, opts Options, initial game.Frame) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cat := opts.Controller.Catalog()
	var root screen.Screen = board.New(cat)
	if opts.Splash {
		b := root
		root = welcome.New(cat, func() screen.Screen { return b })
	}
	r := router.New(root)
	r.Update(screen.FrameMsg{Frame: initial})

	return AppModel{
		ctx:     ctx,
		router:  r,
		ctl:     opts.Controller,
		mailbox: opts.Mailbox,
		coach:   opts.Coach,
		history: opts.History,
		logger:  logger,
		done:    make(chan struct{}),
		nudges:  make(chan coach.Nudge, 1),
		frame:   initial,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.waitFrame(), m.waitNudge())
}

// waitFrame blocks on the mailbox until a frame arrives or the app quits.
func (m AppModel) waitFrame() tea.Cmd {
	if m.mailbox == nil {
		return nil
	}
	return func() tea.Msg {
		f, ok := m.mailbox.Wait(m.done)
		if !ok {
			return nil
		}
		return frameArrivedMsg{frame: f}
	}
}

func (m AppModel) waitNudge() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-m.nudges:
			return nudgeArrivedMsg{nudge: n}
		case <-m.done:
			return nil
		}
	}
}

// deliverNudge keeps only the newest undelivered nudge.
func (m AppModel) deliverNudge(n coach.Nudge) {
	for {
		select {
		case m.nudges <- n:
			return
		default:
		}
		select {
		case <-m.nudges:
		default:
		}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case frameArrivedMsg:
		cmd := m.applyFrame(msg.frame)
		return m, tea.Batch(cmd, m.waitFrame())

	case nudgeArrivedMsg:
		return m, tea.Batch(m.router.Update(screen.NudgeMsg{Nudge: msg.nudge}), m.waitNudge())

	case screen.ActionMsg:
		if a, ok := msg.Action.(game.AttemptAction); ok {
			m.attempting = a.ModuleID
		}
		f := m.ctl.Dispatch(m.ctx, msg.Action)
		return m, m.applyFrame(f)

	case router.PushScreenMsg, router.ReplaceScreenMsg:
		// A new screen catches up with the current frame straight away.
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, m.router.Update(screen.FrameMsg{Frame: m.frame}))
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// handleGlobalKey handles keys that work on every screen. Single letters
// are left to the screen while it is editing text.
func (m AppModel) handleGlobalKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quit()
		return tea.Quit, true
	case "esc":
		if m.router.Depth() > 1 {
			return func() tea.Msg { return router.PopScreenMsg{} }, true
		}
		return nil, true
	}

	if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
		return nil, false
	}
	switch msg.String() {
	case "r":
		return screen.Dispatch(game.ResetAction{}), true
	case "t":
		return tea.Sequence(
			func() tea.Msg { return router.PopToRootMsg{} },
			screen.Dispatch(game.StartTourAction{}),
		), true
	case "h":
		if m.history != nil {
			if _, open := m.router.Active().(*history.HistoryScreen); !open {
				s := history.New(m.history)
				return func() tea.Msg { return router.PushScreenMsg{Screen: s} }, true
			}
		}
	case "q":
		if m.router.Depth() == 1 {
			m.quit()
			return tea.Quit, true
		}
	}
	return nil, false
}

func (m AppModel) quit() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	if m.coach != nil {
		m.coach.Cancel()
	}
}

// applyFrame takes a frame newer than the current one, hands it to every
// screen and reacts to the outcomes the app owns: the coach and the recap.
func (m *AppModel) applyFrame(f game.Frame) tea.Cmd {
	if f.Seq <= m.frame.Seq {
		return nil
	}
	m.frame = f
	cmds := []tea.Cmd{m.router.Update(screen.FrameMsg{Frame: f})}

	switch f.Status {
	case game.StatusFailed:
		m.requestNudge(f)
	case game.StatusReset, game.StatusForcedReset:
		if m.coach != nil {
			m.coach.Cancel()
		}
	case game.StatusWon:
		s := recap.New(f)
		if m.router.Depth() > 1 {
			cmds = append(cmds, func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} })
		} else {
			cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: s} })
		}
	}
	return tea.Batch(cmds...)
}

func (m *AppModel) requestNudge(f game.Frame) {
	if m.coach == nil || !m.coach.Enabled() || m.attempting == "" {
		return
	}
	mod, err := m.ctl.Catalog().Get(m.attempting)
	if err != nil {
		return
	}
	in := coach.NewInput(mod, m.ctl.Bank(), f.Wrong, f.Mistakes, f.MistakeLimit)
	m.coach.Request(m.ctx, in, m.deliverNudge)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.frame, m.width)
	status := layout.RenderStatus(m.frame, m.width)
	footer := layout.RenderFooter(m.keyHints(active), m.width)

	content := m.router.View(m.width, layout.ContentHeight(header, status, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, status, footer, m.width, m.height))
	return v
}

func (m AppModel) keyHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints := p.KeyHints()
		if m.history == nil || m.router.Depth() > 1 || len(hints) == 0 {
			return hints
		}
		if c, ok := active.(screen.InputCapturer); ok && c.CapturingInput() {
			return hints
		}
		// History is an app-level key; list it ahead of the quit hint.
		last := len(hints) - 1
		return append(append(slices.Clone(hints[:last]), layout.KeyHint{Key: "h", Description: "History"}), hints[last])
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the controller and the Bubble Tea program and blocks until
// the player quits or ctx is canceled.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return fmt.Errorf("app: controller is required")
	}
	initial := opts.Controller.Start(ctx)
	model := newAppModel(ctx, opts, initial)
	defer model.quit()

	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
