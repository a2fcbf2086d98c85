package board

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/screen"
	"github.com/abhisek/bootseq/internal/tour"
)

type harness struct {
	board *BoardScreen
	ctl   *game.Controller
	clock *tour.ManualClock
	last  game.Frame
}

func newBoard(t *testing.T) *harness {
	t.Helper()
	h := &harness{clock: tour.NewManualClock(), board: New(catalog.Default())}
	h.ctl = game.New(game.DefaultConfig(), catalog.Default(), quiz.NewSeeded(quiz.Classic(), 1), game.Deps{
		Best:     game.NewMemoryBestScore(),
		Clock:    h.clock,
		Renderer: game.RendererFunc(func(f game.Frame) { h.last = f }),
	})
	t.Cleanup(h.ctl.Close)

	h.board.Update(screen.FrameMsg{Frame: h.ctl.Start(context.Background())})
	return h
}

func TestBoardScreen_Title(t *testing.T) {
	s := New(catalog.Default())
	if s.Title() != "Boot Sequence" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestBoardScreen_CursorWraps(t *testing.T) {
	s := newBoard(t).board
	if s.Cursor() != catalog.Spock {
		t.Fatalf("initial cursor = %q, want %q", s.Cursor(), catalog.Spock)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.Cursor() != catalog.XFiles {
		t.Errorf("cursor after up = %q, want the last module", s.Cursor())
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	if s.Cursor() != catalog.Morpheus {
		t.Errorf("cursor = %q, want %q", s.Cursor(), catalog.Morpheus)
	}
}

func TestBoardScreen_EnterOpensModule(t *testing.T) {
	s := newBoard(t).board
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected select and push on Enter")
	}
}

func TestBoardScreen_CursorFollowsTour(t *testing.T) {
	h := newBoard(t)
	h.board.Update(screen.FrameMsg{Frame: h.ctl.StartTour(context.Background())})

	h.clock.Advance(tour.DefaultInterval)
	h.board.Update(screen.FrameMsg{Frame: h.last})

	if h.last.Status != game.StatusTourStep || h.last.Selected != catalog.Morpheus {
		t.Fatalf("last frame: status=%v selected=%q", h.last.Status, h.last.Selected)
	}
	if h.board.Cursor() != catalog.Morpheus {
		t.Fatalf("cursor = %q, want %q", h.board.Cursor(), catalog.Morpheus)
	}
}

func TestBoardScreen_ViewShowsStates(t *testing.T) {
	h := newBoard(t)
	s := h.board
	sub, _ := quiz.Classic().AnswerKey(catalog.Spock)
	s.Update(screen.FrameMsg{Frame: h.ctl.Attempt(context.Background(), catalog.Spock, sub)})

	view := s.View(120, 30)
	for _, want := range []string{"Spock", "Morpheus", "Online", "1/5"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	compact := s.View(80, 40)
	if compact == "" {
		t.Error("expected a compact view")
	}
}
