package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/coach"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/llm"
	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/router"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/screens/module"
	"github.com/abhisek/bootseq/internal/store"
	"github.com/abhisek/bootseq/internal/tour"
)

type fixture struct {
	model   AppModel
	ctl     *game.Controller
	mailbox *game.Mailbox
	clock   *tour.ManualClock
	bank    *quiz.Bank
}

func newFixture(t *testing.T, svc *coach.Service) *fixture {
	t.Helper()
	fx := &fixture{
		mailbox: game.NewMailbox(),
		clock:   tour.NewManualClock(),
		bank:    quiz.Classic(),
	}
	fx.ctl = game.New(game.DefaultConfig(), catalog.Default(), quiz.NewSeeded(fx.bank, 1), game.Deps{
		Best:     game.NewMemoryBestScore(),
		Renderer: fx.mailbox,
		Clock:    fx.clock,
	})
	t.Cleanup(fx.ctl.Close)

	opts := Options{Controller: fx.ctl, Mailbox: fx.mailbox, Coach: svc}
	fx.model = newAppModel(context.Background(), opts, fx.ctl.Start(context.Background()))
	t.Cleanup(fx.model.quit)
	return fx
}

func (fx *fixture) send(msg tea.Msg) tea.Cmd {
	m, cmd := fx.model.Update(msg)
	fx.model = m.(AppModel)
	return cmd
}

func (fx *fixture) dispatch(a game.Action) {
	fx.send(screen.ActionMsg{Action: a})
}

// navigation runs cmd and returns the router messages it produces.
func navigation(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, navigation(c)...)
		}
		return out
	case router.PushScreenMsg, router.ReplaceScreenMsg, router.PopScreenMsg, router.PopToRootMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func TestApp_DispatchUpdatesFrame(t *testing.T) {
	fx := newFixture(t, nil)
	fx.dispatch(game.SelectAction{ModuleID: catalog.Spock})

	if fx.model.frame.Selected != catalog.Spock || fx.model.frame.Status != game.StatusSelected {
		t.Fatalf("frame: selected=%q status=%v", fx.model.frame.Selected, fx.model.frame.Status)
	}
}

func TestApp_StaleMailboxFramesIgnored(t *testing.T) {
	fx := newFixture(t, nil)
	fx.dispatch(game.SelectAction{ModuleID: catalog.Spock})
	seq := fx.model.frame.Seq

	fx.send(frameArrivedMsg{frame: game.Frame{Seq: seq - 1, Selected: catalog.XFiles}})
	if fx.model.frame.Selected != catalog.Spock {
		t.Fatal("an older frame replaced the current one")
	}
}

func TestApp_TourFramesArriveThroughMailbox(t *testing.T) {
	fx := newFixture(t, nil)
	fx.dispatch(game.StartTourAction{})
	fx.clock.Advance(tour.DefaultInterval)

	done := make(chan struct{})
	defer close(done)
	f, ok := fx.mailbox.Wait(done)
	if !ok {
		t.Fatal("expected a frame in the mailbox")
	}
	fx.send(frameArrivedMsg{frame: f})
	if fx.model.frame.Selected != catalog.Morpheus || !fx.model.frame.TourRunning {
		t.Fatalf("frame: selected=%q tour=%v", fx.model.frame.Selected, fx.model.frame.TourRunning)
	}
}

func TestApp_WinPushesRecap(t *testing.T) {
	fx := newFixture(t, nil)
	fx.send(router.PushScreenMsg{Screen: module.New(catalog.Spock)})

	var last tea.Cmd
	for _, id := range catalog.Default().TopologicalOrder() {
		sub, _ := fx.bank.AnswerKey(id)
		last = fx.send(screen.ActionMsg{Action: game.AttemptAction{ModuleID: id, Submission: sub}})
	}
	if fx.model.frame.Status != game.StatusWon {
		t.Fatalf("status = %v", fx.model.frame.Status)
	}
	nav := navigation(last)
	if len(nav) != 1 {
		t.Fatalf("expected one navigation message, got %v", nav)
	}
	if _, ok := nav[0].(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected the module screen to be replaced, got %T", nav[0])
	}
	fx.send(nav[0])
	if fx.model.router.Depth() != 2 || fx.model.router.Active().Title() != "Mission Recap" {
		t.Fatalf("depth=%d active=%q", fx.model.router.Depth(), fx.model.router.Active().Title())
	}
}

func TestApp_GlobalKeys(t *testing.T) {
	fx := newFixture(t, nil)

	if cmd := fx.send(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd == nil {
		t.Error("expected reset on r")
	} else if msg, ok := cmd().(screen.ActionMsg); !ok {
		t.Errorf("expected ActionMsg, got %T", cmd())
	} else if _, ok := msg.Action.(game.ResetAction); !ok {
		t.Errorf("expected ResetAction, got %T", msg.Action)
	}

	if cmd := fx.send(tea.KeyPressMsg{Code: 't', Text: "t"}); cmd == nil {
		t.Error("expected tour on t")
	}

	fx.send(router.PushScreenMsg{Screen: module.New(catalog.Spock)})
	if cmd := fx.send(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd == nil {
		t.Error("expected pop on Esc")
	}
}

func TestApp_LettersPassThroughWhileTyping(t *testing.T) {
	fx := newFixture(t, nil)
	fx.winUpTo(t, catalog.XFiles)
	fx.send(router.PushScreenMsg{Screen: module.New(catalog.XFiles)})
	fx.dispatch(game.SelectAction{ModuleID: catalog.XFiles})

	before := fx.model.frame.Seq
	fx.send(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if fx.model.frame.Seq != before {
		t.Fatal("r reset the game while a text field had focus")
	}
}

// winUpTo completes every module ordered before id.
func (fx *fixture) winUpTo(t *testing.T, id string) {
	t.Helper()
	for _, m := range catalog.Default().TopologicalOrder() {
		if m == id {
			return
		}
		sub, _ := fx.bank.AnswerKey(m)
		fx.dispatch(game.AttemptAction{ModuleID: m, Submission: sub})
	}
}

func TestApp_FailedAttemptRequestsNudge(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.Fallback = json.RawMessage(`{"hint":"Check the default shape.","concept":"config"}`)
	fx := newFixture(t, coach.NewService(mock, coach.DefaultConfig(), nil))

	fx.dispatch(game.AttemptAction{ModuleID: catalog.Spock, Submission: quiz.NewSubmission()})
	if fx.model.frame.Status != game.StatusFailed {
		t.Fatalf("status = %v", fx.model.frame.Status)
	}

	select {
	case n := <-fx.model.nudges:
		if n.ModuleID != catalog.Spock || n.Source != coach.SourceCoach {
			t.Fatalf("nudge = %+v", n)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("expected a nudge")
	}
}

func TestApp_ViewUsesAltScreen(t *testing.T) {
	fx := newFixture(t, nil)
	for _, size := range []tea.WindowSizeMsg{{Width: 40, Height: 10}, {Width: 120, Height: 40}} {
		fx.send(size)
		if v := fx.model.View(); !v.AltScreen || v.Content == nil {
			t.Fatalf("view at %dx%d: alt=%v", size.Width, size.Height, v.AltScreen)
		}
	}
}

func TestApp_SplashHandsOverToBoard(t *testing.T) {
	fx := newFixture(t, nil)
	opts := Options{Controller: fx.ctl, Mailbox: fx.mailbox, Splash: true}
	fx.model = newAppModel(context.Background(), opts, fx.ctl.Frame())

	if got := fx.model.router.Active().Title(); got != "" {
		t.Fatalf("expected the splash first, got %q", got)
	}

	// Letters belong to the splash, not to the global shortcuts.
	if cmd := fx.send(tea.KeyPressMsg{Code: 'q', Text: "q"}); cmd != nil {
		t.Fatal("q should only finish the boot log")
	}
	nav := navigation(fx.send(tea.KeyPressMsg{Code: 'r', Text: "r"}))
	if len(nav) != 1 {
		t.Fatalf("expected one navigation message, got %v", nav)
	}
	if _, ok := nav[0].(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", nav[0])
	}
	fx.send(nav[0])

	if got := fx.model.router.Active().Title(); got != "Boot Sequence" {
		t.Fatalf("active = %q, want the board", got)
	}
	if fx.model.router.Depth() != 1 {
		t.Errorf("board should be the root, depth %d", fx.model.router.Depth())
	}
}

type emptyHistory struct{}

func (emptyHistory) QueryAttempts(context.Context, store.QueryOpts) ([]store.AttemptRecord, error) {
	return nil, nil
}

func (emptyHistory) QuerySessions(context.Context, store.QueryOpts) ([]store.SessionRecord, error) {
	return nil, nil
}

func TestApp_HistoryKey(t *testing.T) {
	fx := newFixture(t, nil)
	if cmd := fx.send(tea.KeyPressMsg{Code: 'h', Text: "h"}); len(navigation(cmd)) != 0 {
		t.Fatal("h should do nothing without a history source")
	}

	fx.model.history = emptyHistory{}
	nav := navigation(fx.send(tea.KeyPressMsg{Code: 'h', Text: "h"}))
	if len(nav) != 1 {
		t.Fatalf("expected a push, got %v", nav)
	}
	fx.send(nav[0])
	if got := fx.model.router.Active().Title(); got != "History" {
		t.Fatalf("active = %q", got)
	}
	if cmd := fx.send(tea.KeyPressMsg{Code: 'h', Text: "h"}); len(navigation(cmd)) != 0 {
		t.Error("h should not stack a second history screen")
	}
}

func TestApp_HistoryHintOnlyOnBoard(t *testing.T) {
	fx := newFixture(t, nil)
	hasHistory := func() bool {
		for _, h := range fx.model.keyHints(fx.model.router.Active()) {
			if h.Key == "h" {
				return true
			}
		}
		return false
	}

	if hasHistory() {
		t.Fatal("no history source, no hint")
	}
	fx.model.history = emptyHistory{}
	if !hasHistory() {
		t.Fatal("board should advertise history")
	}
	hints := fx.model.keyHints(fx.model.router.Active())
	if hints[len(hints)-1].Key != "Ctrl+C" {
		t.Errorf("quit hint should stay last: %+v", hints)
	}
}
