package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/abhisek/bootseq/internal/game"
	"github.com/abhisek/bootseq/internal/quiz"
)

const plainHelp = `Commands:
  list                      show every module and its state
  show                      print the full board
  select <module>           open a module
  choose <q> <option>       answer a single-select question
  toggle <q> <option>       flip an option of a multi-select question
  fill <q> <field> <text>   fill a text field
  submit                    attempt the selected module
  clear                     drop the answers entered so far
  tour                      walk through every module
  reset                     start over
  quit                      leave
Questions, options and fields are numbered as printed.
`

// errQuit ends the plain loop.
var errQuit = errors.New("quit")

// SyncWriter serializes writes so tour frames printed from timer
// goroutines do not interleave with command output.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w.
func NewSyncWriter(w io.Writer) *SyncWriter {
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// plainSession holds the answers being entered for the current deal.
type plainSession struct {
	ctl  *game.Controller
	out  io.Writer
	sub  quiz.Submission
	deal uint64
}

// RunPlain drives the controller from line commands read from in. Frames
// are printed by the controller's own renderer; RunPlain writes listings,
// quizzes and errors to out. It returns when in is exhausted, the player
// quits or ctx is canceled.
func RunPlain(ctx context.Context, ctl *game.Controller, in io.Reader, out io.Writer) error {
	ctl.Start(ctx)
	s := &plainSession{ctl: ctl, out: out, sub: quiz.NewSubmission()}
	fmt.Fprint(out, "Type 'help' for commands.\n")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (s *plainSession) exec(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprint(s.out, plainHelp)
	case "quit", "exit", "q":
		return errQuit
	case "list", "ls":
		s.list()
	case "show":
		fmt.Fprint(s.out, game.FormatFrame(s.ctl.Frame()))
	case "select", "open":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <module>")
		}
		f := s.ctl.Select(ctx, args[0])
		if inst := s.instance(); inst != nil && f.Status == game.StatusSelected {
			fmt.Fprint(s.out, game.FormatQuiz(*inst))
		}
	case "choose", "toggle":
		return s.pick(cmd, args)
	case "fill":
		return s.fill(args)
	case "clear":
		s.sub = quiz.NewSubmission()
	case "submit":
		id := s.ctl.Frame().Selected
		if id == "" {
			return fmt.Errorf("select a module first")
		}
		s.instance()
		s.ctl.Attempt(ctx, id, s.sub)
	case "tour":
		s.ctl.StartTour(ctx)
	case "reset":
		s.ctl.Reset(ctx)
		s.sub = quiz.NewSubmission()
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	return nil
}

// instance returns the dealt quiz of the selected module, starting a fresh
// answer sheet whenever the controller deals a new one.
func (s *plainSession) instance() *quiz.Instance {
	p := s.ctl.Frame().Panel
	if p.Task != game.TaskQuiz || p.Quiz == nil {
		return nil
	}
	if p.Deal != s.deal {
		s.deal = p.Deal
		s.sub = quiz.NewSubmission()
	}
	return p.Quiz
}

func (s *plainSession) list() {
	for _, n := range s.ctl.Frame().Nodes {
		marker := " "
		if n.Selected {
			marker = ">"
		}
		fmt.Fprintf(s.out, "%s %s %-10s %-9s %s\n", marker, n.State.Icon(), n.ID, n.State.Label(), n.Title)
	}
}

func (s *plainSession) question(arg string) (quiz.Question, error) {
	inst := s.instance()
	if inst == nil {
		return quiz.Question{}, fmt.Errorf("no quiz open; select an available module")
	}
	i, err := index(arg, len(inst.Questions))
	if err != nil {
		return quiz.Question{}, fmt.Errorf("question: %w", err)
	}
	return inst.Questions[i], nil
}

func (s *plainSession) pick(cmd string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: %s <question> <option>", cmd)
	}
	q, err := s.question(args[0])
	if err != nil {
		return err
	}
	o, err := index(args[1], len(q.Options))
	if err != nil {
		return fmt.Errorf("option: %w", err)
	}
	opt := q.Options[o].ID

	switch {
	case cmd == "choose" && q.Kind == quiz.KindSingle:
		s.sub.Choose(q.ID, opt)
	case cmd == "toggle" && q.Kind == quiz.KindMulti:
		s.sub.Toggle(q.ID, opt)
	case q.Kind == quiz.KindMulti:
		return fmt.Errorf("question %s is multi-select, use toggle", args[0])
	default:
		return fmt.Errorf("question %s is single-select, use choose", args[0])
	}
	return nil
}

func (s *plainSession) fill(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: fill <question> <field> <text>")
	}
	q, err := s.question(args[0])
	if err != nil {
		return err
	}
	if q.Kind != quiz.KindText {
		return fmt.Errorf("question %s has no text fields", args[0])
	}
	f, err := index(args[1], len(q.Fields))
	if err != nil {
		return fmt.Errorf("field: %w", err)
	}
	s.sub.Fill(q.ID, q.Fields[f].ID, strings.Join(args[2:], " "))
	return nil
}

// index parses a 1-based position.
func index(arg string, n int) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("%q is not between 1 and %d", arg, n)
	}
	return i - 1, nil
}
