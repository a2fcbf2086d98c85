package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/tour"
)

func newPlain(t *testing.T) (*plainSession, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ctl := game.New(game.DefaultConfig(), catalog.Default(), quiz.NewSeeded(quiz.Classic(), 1), game.Deps{
		Best:     game.NewMemoryBestScore(),
		Renderer: game.NewTextRenderer(&out),
		Clock:    tour.NewManualClock(),
	})
	t.Cleanup(ctl.Close)
	ctl.Start(context.Background())
	return &plainSession{ctl: ctl, out: &out, sub: quiz.NewSubmission()}, &out
}

// correctCommands returns the choose/toggle/fill lines that answer the
// dealt quiz correctly.
func correctCommands(t *testing.T, s *plainSession) []string {
	t.Helper()
	inst := s.instance()
	if inst == nil {
		t.Fatal("no quiz dealt")
	}
	var lines []string
	for qi, q := range inst.Questions {
		switch q.Kind {
		case quiz.KindText:
			for fi := range q.Fields {
				lines = append(lines, fmt.Sprintf("fill %d %d some value", qi+1, fi+1))
			}
		default:
			verb := "choose"
			if q.Kind == quiz.KindMulti {
				verb = "toggle"
			}
			for oi, o := range q.Options {
				if o.Correct {
					lines = append(lines, fmt.Sprintf("%s %d %d", verb, qi+1, oi+1))
				}
			}
		}
	}
	return lines
}

func run(t *testing.T, s *plainSession, lines ...string) {
	t.Helper()
	for _, l := range lines {
		if err := s.exec(context.Background(), l); err != nil {
			t.Fatalf("%q: %v", l, err)
		}
	}
}

func TestPlain_PlaysToWin(t *testing.T) {
	s, out := newPlain(t)
	for _, id := range catalog.Default().TopologicalOrder() {
		run(t, s, "select "+id)
		run(t, s, correctCommands(t, s)...)
		run(t, s, "submit")
	}

	if !s.ctl.Frame().Won() {
		t.Fatalf("expected a win, output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Mission recap") {
		t.Error("expected the recap to be printed")
	}
}

func TestPlain_Errors(t *testing.T) {
	s, _ := newPlain(t)

	tests := []struct {
		line string
		want string
	}{
		{"dance", "unknown command"},
		{"submit", "select a module first"},
		{"choose 1 1", "no quiz open"},
		{"select", "usage"},
		{"fill 1 1", "usage"},
	}
	for _, tt := range tests {
		err := s.exec(context.Background(), tt.line)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: err = %v, want %q", tt.line, err, tt.want)
		}
	}

	run(t, s, "select "+catalog.Spock)
	for line, want := range map[string]string{
		"choose 9 1":  "question",
		"choose 1 9":  "option",
		"toggle 1 1":  "single-select",
		"fill 1 1 xx": "no text fields",
	} {
		err := s.exec(context.Background(), line)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("%q: err = %v, want %q", line, err, want)
		}
	}
}

func TestPlain_ReselectDropsAnswers(t *testing.T) {
	s, _ := newPlain(t)
	run(t, s, "select "+catalog.Spock, "choose 1 1")
	if len(s.sub.Choices) != 1 {
		t.Fatalf("Choices = %v", s.sub.Choices)
	}
	run(t, s, "select "+catalog.Spock)
	if len(s.sub.Choices) != 0 {
		t.Fatalf("answers survived a new deal: %v", s.sub.Choices)
	}
}

func TestRunPlain_QuitsAndLists(t *testing.T) {
	var out bytes.Buffer
	ctl := game.New(game.DefaultConfig(), catalog.Default(), quiz.NewSeeded(quiz.Classic(), 1), game.Deps{
		Renderer: game.NewTextRenderer(&out),
		Clock:    tour.NewManualClock(),
	})
	t.Cleanup(ctl.Close)

	in := strings.NewReader("list\nbogus\nquit\nreset\n")
	if err := RunPlain(context.Background(), ctl, in, &out); err != nil {
		t.Fatal(err)
	}

	got := out.String()
	if !strings.Contains(got, catalog.Spock) || !strings.Contains(got, "error: unknown command") {
		t.Fatalf("unexpected output:\n%s", got)
	}
}
