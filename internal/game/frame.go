package game

import (
	"sync"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/quiz"
)

// TaskKind selects what the task panel shows for the selected module.
type TaskKind int

const (
	TaskNone    TaskKind = iota // Nothing selected
	TaskQuiz                    // Quiz can be attempted
	TaskLocked                  // Prerequisites missing
	TaskOnline                  // Module already completed
	TaskExpired                 // Budget exhausted
)

// NodeView is one module as the board shows it.
type NodeView struct {
	ID       string
	Title    string
	State    catalog.State
	Selected bool
}

// Panel is the detail and task panel for the selected module.
type Panel struct {
	// Module is the selected module; zero when nothing is selected.
	Module catalog.Module
	Task   TaskKind

	// Quiz is a freshly shuffled instance when Task is TaskQuiz.
	Quiz *quiz.Instance

	// Deal changes whenever the controller shuffles a new instance, so a
	// surface knows when answers in progress no longer apply.
	Deal uint64

	// Missing lists unmet prerequisite IDs when Task is TaskLocked.
	Missing []string

	// Message is the task panel text for non-quiz tasks.
	Message string
}

// Frame is a complete render instruction. Frames are snapshots: a surface
// can always draw the latest one without replaying earlier ones.
type Frame struct {
	// Seq increases with every frame a controller emits.
	Seq uint64

	Variant        string
	InitialBudget  int
	StepsRemaining int
	Mistakes       int
	MistakeLimit   int
	Completed      map[string]bool
	Selected       string
	TourRunning    bool
	Nodes          []NodeView
	Panel          Panel

	Status  Status
	Message string
	Tone    Tone

	// Wrong lists the question IDs missed by the attempt that produced a
	// StatusFailed frame.
	Wrong []string

	// Recap holds the mission recap lines after a win.
	Recap []string

	Best    int
	HasBest bool
}

// Danger reports whether the step counter should be drawn as a warning.
func (f Frame) Danger() bool {
	return f.StepsRemaining <= 3
}

// Won reports whether this frame shows a completed boot sequence.
func (f Frame) Won() bool {
	return len(f.Recap) > 0
}

// Renderer displays frames. Render is called while the controller holds
// its lock, so implementations must not call back into the controller or
// block on the goroutine that does.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

func (f RendererFunc) Render(fr Frame) { f(fr) }

// Renderers fans a frame out to several renderers in order.
type Renderers []Renderer

func (rs Renderers) Render(f Frame) {
	for _, r := range rs {
		if r != nil {
			r.Render(f)
		}
	}
}

// Mailbox is a Renderer that keeps only the newest frame and signals a
// single waiter. Render never blocks.
type Mailbox struct {
	mu     sync.Mutex
	latest Frame
	has    bool
	notify chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{notify: make(chan struct{}, 1)}
}

func (m *Mailbox) Render(f Frame) {
	m.mu.Lock()
	if !m.has || f.Seq >= m.latest.Seq {
		m.latest, m.has = f, true
	}
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Wait blocks until a frame newer than the last one taken is available and
// returns it. It returns false when done is closed first.
func (m *Mailbox) Wait(done <-chan struct{}) (Frame, bool) {
	select {
	case <-m.notify:
	case <-done:
		return Frame{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest, m.has
}
