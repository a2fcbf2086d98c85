// Package game implements the progression controller: prerequisite gating,
// the action budget, quiz attempts, win detection, reset and the guided
// tour. All state is owned by a Controller and mutated under its lock.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/progress"
	"github.com/abhisek/bootseq/internal/quiz"
	"github.com/abhisek/bootseq/internal/tour"
)

// Deps are the collaborators of a Controller. Every field is optional.
type Deps struct {
	Best     BestScoreStore
	Events   EventRecorder
	Renderer Renderer
	Clock    tour.Clock
	Logger   *slog.Logger
}

// Controller serializes every gameplay operation behind one mutex. Tour
// callbacks arrive on timer goroutines and take the same lock.
type Controller struct {
	mu sync.Mutex

	variant      string
	catalog      *catalog.Catalog
	engine       *quiz.Engine
	state        *progress.State
	mistakeLimit int
	tour         *tour.Scheduler

	best     BestScoreStore
	events   EventRecorder
	renderer Renderer
	logger   *slog.Logger

	sessionID string
	seq       uint64
	message   string
	tone      Tone
	recap     []string
	bestValue int
	hasBest   bool
	lastWrong []string

	// instance is the shuffled quiz of the selected module. It is
	// reshuffled on every selection, not on every render.
	instance *quiz.Instance
	deal     uint64
}

// New creates a controller for the engine's bank. The budget and mistake
// limit come from cfg.Economy.
func New(cfg Config, cat *catalog.Catalog, engine *quiz.Engine, deps Deps) *Controller {
	budget, limit := cfg.Economy(engine.Bank())

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	best := deps.Best
	if best == nil {
		best = NewMemoryBestScore()
	}
	renderer := deps.Renderer
	if renderer == nil {
		renderer = RendererFunc(func(Frame) {})
	}

	return &Controller{
		variant:      engine.Bank().Name,
		catalog:      cat,
		engine:       engine,
		state:        progress.New(cat.AllIDs(), budget),
		mistakeLimit: limit,
		tour:         tour.NewScheduler(deps.Clock, cfg.TourInterval),
		best:         best,
		events:       deps.Events,
		renderer:     renderer,
		logger:       logger.With("component", "game"),
		sessionID:    uuid.NewString(),
		message:      MsgAwaiting,
	}
}

// SessionID identifies this controller's session in the event log.
func (c *Controller) SessionID() string { return c.sessionID }

// Catalog returns the module catalog.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// Bank returns the quiz bank being played.
func (c *Controller) Bank() *quiz.Bank { return c.engine.Bank() }

// Start loads the best score, records the session start and renders the
// initial frame.
func (c *Controller) Start(ctx context.Context) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refreshBestLocked(ctx)
	c.recordSession(ctx, SessionEvent{Action: SessionStart})
	c.logger.Info("session started",
		"session", c.sessionID,
		"variant", c.variant,
		"budget", c.state.InitialBudget(),
		"mistake_limit", c.mistakeLimit,
	)
	return c.emitLocked(StatusIdle, MsgAwaiting, ToneNeutral)
}

// Dispatch routes an action to its operation.
func (c *Controller) Dispatch(ctx context.Context, a Action) Frame {
	switch a := a.(type) {
	case SelectAction:
		return c.Select(ctx, a.ModuleID)
	case AttemptAction:
		return c.Attempt(ctx, a.ModuleID, a.Submission)
	case ResetAction:
		return c.Reset(ctx)
	case StartTourAction:
		return c.StartTour(ctx)
	default:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.emitLocked(StatusIgnored, fmt.Sprintf("Unsupported action %T.", a), ToneNeutral)
	}
}

// Select focuses a module regardless of whether it is locked, online or
// out of budget. The task panel explains which of those applies.
func (c *Controller) Select(_ context.Context, id string) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.catalog.Has(id) {
		return c.emitLocked(StatusIgnored, fmt.Sprintf("Unknown module %q.", id), ToneNeutral)
	}
	c.selectLocked(id)
	return c.emitLocked(StatusSelected, "", ToneNeutral)
}

// Attempt submits answers for a module.
//
// Rejections that cost nothing come first: unknown module, exhausted
// budget, missing prerequisites, already online. Otherwise one step is
// spent before validation. Spending the last step ends the run without
// validating.
func (c *Controller) Attempt(ctx context.Context, id string, sub quiz.Submission) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.catalog.Get(id)
	if err != nil {
		return c.emitLocked(StatusIgnored, fmt.Sprintf("Unknown module %q.", id), ToneNeutral)
	}
	if c.state.Exhausted() {
		return c.emitLocked(StatusBudgetExhausted, MsgBootFailed, ToneDanger)
	}
	if missing := c.catalog.MissingPrerequisites(id, c.state.Completed()); len(missing) > 0 {
		return c.emitLocked(StatusLocked, lockedMessage(missing), ToneDanger)
	}
	if c.state.IsCompleted(id) {
		return c.emitLocked(StatusAlreadyCompleted, fmt.Sprintf("%s is already active.", m.Title), ToneNeutral)
	}

	if remaining := c.state.ConsumeStep(); remaining == 0 {
		c.instance = nil
		c.recordAttempt(ctx, id, StatusBudgetExhausted, nil)
		c.recordSession(ctx, SessionEvent{Action: SessionExhausted, StepsUsed: c.state.StepsUsed()})
		c.logger.Info("budget exhausted", "module", id, "steps_used", c.state.StepsUsed())
		return c.emitLocked(StatusBudgetExhausted, MsgBootFailed, ToneDanger)
	}

	if c.engine.Validate(id, sub) {
		c.state.MarkCompleted(id)
		c.state.ClearMistakes(id)
		c.recordAttempt(ctx, id, StatusCompleted, nil)
		c.logger.Info("module online", "module", id, "steps_remaining", c.state.StepsRemaining())
		if id == c.catalog.Terminal() {
			return c.winLocked(ctx)
		}
		return c.emitLocked(StatusCompleted, c.completionMessage(m), ToneSuccess)
	}

	wrong := c.engine.Mismatches(id, sub)
	mistakes := c.state.RecordMistake(id)
	c.recordAttempt(ctx, id, StatusFailed, wrong)
	c.logger.Info("attempt failed",
		"module", id,
		"wrong", wrong,
		"mistakes", mistakes,
		"steps_remaining", c.state.StepsRemaining(),
	)

	if c.mistakeLimit > 0 && mistakes >= c.mistakeLimit {
		c.resetLocked()
		c.recordSession(ctx, SessionEvent{Action: SessionForcedReset})
		c.logger.Info("forced reset", "mistakes", mistakes, "limit", c.mistakeLimit)
		return c.emitLocked(StatusForcedReset, MsgTooMany, ToneDanger)
	}
	c.lastWrong = wrong
	return c.emitLocked(StatusFailed, c.engine.Bank().HintFor(id), ToneDanger)
}

// Reset reinitializes the session and cancels a running tour. The best
// score is never touched.
func (c *Controller) Reset(ctx context.Context) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.recordSession(ctx, SessionEvent{Action: SessionReset})
	c.logger.Info("reset")
	return c.emitLocked(StatusReset, MsgAwaiting, ToneNeutral)
}

// StartTour walks the selection over every module in catalog order. It is
// a no-op while a tour is already running.
func (c *Controller) StartTour(ctx context.Context) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.TourRunning() {
		return c.emitLocked(StatusIgnored, MsgTourBusy, ToneNeutral)
	}
	c.state.SetTourRunning(true)

	bg := context.WithoutCancel(ctx)
	c.tour.Start(c.catalog.AllIDs(), func(step tour.Step) {
		c.onTourStep(bg, step)
	})
	c.logger.Info("tour started", "interval", c.tour.Interval())
	return c.emitLocked(StatusTourStep, "", ToneNeutral)
}

// Close cancels any pending tour steps.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tour.Cancel()
	c.state.SetTourRunning(false)
}

func (c *Controller) onTourStep(_ context.Context, step tour.Step) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tour.IsCurrent(step.Generation) {
		return
	}
	m, err := c.catalog.Get(step.ModuleID)
	if err != nil {
		return
	}
	c.selectLocked(step.ModuleID)
	if step.Last {
		c.state.SetTourRunning(false)
		c.emitLocked(StatusTourDone, MsgTourDone, ToneNeutral)
		return
	}
	c.emitLocked(StatusTourStep, fmt.Sprintf("Tour: %s — %s", m.Title, m.Role), ToneNeutral)
}

// Frame returns the current frame without emitting it.
func (c *Controller) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameLocked(StatusIdle)
}

// Snapshot returns a copy of the progress state.
func (c *Controller) Snapshot() progress.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// ModuleView is a module's state as seen by the learner.
type ModuleView struct {
	State catalog.State

	// Expired is true when the budget is exhausted.
	Expired bool
}

// ModuleStatus reports the derived state of one module.
func (c *Controller) ModuleStatus(id string) ModuleView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ModuleView{
		State:   c.catalog.StateOf(id, c.state.Completed()),
		Expired: c.state.Exhausted(),
	}
}

func (c *Controller) winLocked(ctx context.Context) Frame {
	used := c.state.StepsUsed()

	if v, ok, err := c.best.Read(ctx); err != nil {
		c.logger.Warn("read best score", "error", err)
	} else {
		c.bestValue, c.hasBest = v, ok
	}

	newBest := !c.hasBest || used < c.bestValue
	if newBest {
		if err := c.best.Write(ctx, used); err != nil {
			c.logger.Warn("write best score", "error", err, "steps_used", used)
		} else {
			c.bestValue, c.hasBest = used, true
		}
	}

	c.recap = Recap(c.catalog)
	c.recordSession(ctx, SessionEvent{Action: SessionWon, StepsUsed: used, NewBest: newBest})
	c.logger.Info("boot sequence complete", "steps_used", used, "new_best", newBest)
	return c.emitLocked(StatusWon, MsgWon, ToneSuccess)
}

func (c *Controller) resetLocked() {
	c.tour.Cancel()
	c.state.Reset()
	c.recap = nil
	c.instance = nil
}

func (c *Controller) selectLocked(id string) {
	c.state.Select(id)
	c.instance = nil
	c.ensureInstanceLocked()
}

// ensureInstanceLocked shuffles a quiz for the selection when its task is
// a quiz and none is held yet, e.g. after its prerequisites came online.
func (c *Controller) ensureInstanceLocked() {
	id, ok := c.state.Selected()
	if !ok || c.taskLocked(id) != TaskQuiz {
		return
	}
	if c.instance != nil && c.instance.ModuleID == id {
		return
	}
	inst, err := c.engine.Instantiate(id)
	if err != nil {
		c.logger.Warn("instantiate quiz", "module", id, "error", err)
		return
	}
	c.instance = &inst
	c.deal++
}

func (c *Controller) taskLocked(id string) TaskKind {
	switch {
	case id == "":
		return TaskNone
	case c.state.Exhausted():
		return TaskExpired
	case len(c.catalog.MissingPrerequisites(id, c.state.Completed())) > 0:
		return TaskLocked
	case c.state.IsCompleted(id):
		return TaskOnline
	default:
		return TaskQuiz
	}
}

func (c *Controller) refreshBestLocked(ctx context.Context) {
	v, ok, err := c.best.Read(ctx)
	if err != nil {
		c.logger.Warn("read best score", "error", err)
		return
	}
	c.bestValue, c.hasBest = v, ok
}

// emitLocked records the status line, builds a frame and renders it. An
// empty msg keeps the current status line.
func (c *Controller) emitLocked(status Status, msg string, tone Tone) Frame {
	if msg != "" {
		c.message, c.tone = msg, tone
	}
	c.ensureInstanceLocked()
	c.seq++
	f := c.frameLocked(status)
	c.renderer.Render(f)
	return f
}

func (c *Controller) frameLocked(status Status) Frame {
	completed := c.state.Completed()
	selected, _ := c.state.Selected()

	f := Frame{
		Seq:            c.seq,
		Variant:        c.variant,
		InitialBudget:  c.state.InitialBudget(),
		StepsRemaining: c.state.StepsRemaining(),
		Mistakes:       c.state.Mistakes(),
		MistakeLimit:   c.mistakeLimit,
		Completed:      completed,
		Selected:       selected,
		TourRunning:    c.state.TourRunning(),
		Status:         status,
		Message:        c.message,
		Tone:           c.tone,
		Recap:          append([]string(nil), c.recap...),
		Best:           c.bestValue,
		HasBest:        c.hasBest,
	}
	if status == StatusFailed {
		f.Wrong = slices.Clone(c.lastWrong)
	}

	for _, m := range c.catalog.Modules() {
		f.Nodes = append(f.Nodes, NodeView{
			ID:       m.ID,
			Title:    m.Title,
			State:    c.catalog.StateOf(m.ID, completed),
			Selected: m.ID == selected,
		})
	}

	if selected == "" {
		return f
	}
	m, err := c.catalog.Get(selected)
	if err != nil {
		return f
	}
	f.Panel.Module = m
	f.Panel.Task = c.taskLocked(selected)
	switch f.Panel.Task {
	case TaskExpired:
		f.Panel.Message = MsgTimerExpired
	case TaskLocked:
		f.Panel.Missing = c.catalog.MissingPrerequisites(selected, completed)
		f.Panel.Message = lockedMessage(f.Panel.Missing)
	case TaskOnline:
		f.Panel.Message = fmt.Sprintf("%s is already active.", m.Title)
	case TaskQuiz:
		if c.instance != nil && c.instance.ModuleID == selected {
			inst := *c.instance
			f.Panel.Quiz = &inst
			f.Panel.Deal = c.deal
		}
	}
	return f
}

func (c *Controller) completionMessage(m catalog.Module) string {
	if c.engine.Bank().Lessons && m.Lesson != "" {
		return MsgLessonHeading + "\n" + m.Lesson
	}
	return fmt.Sprintf("%s is online.", m.Title)
}

func (c *Controller) recordAttempt(ctx context.Context, id string, outcome Status, wrong []string) {
	if c.events == nil {
		return
	}
	err := c.events.RecordAttempt(ctx, AttemptEvent{
		SessionID:      c.sessionID,
		ModuleID:       id,
		Outcome:        outcome,
		StepsRemaining: c.state.StepsRemaining(),
		Mistakes:       c.state.Mistakes(),
		Wrong:          wrong,
	})
	if err != nil {
		c.logger.Warn("record attempt", "module", id, "error", err)
	}
}

func (c *Controller) recordSession(ctx context.Context, e SessionEvent) {
	if c.events == nil {
		return
	}
	e.SessionID = c.sessionID
	e.Variant = c.variant
	if err := c.events.RecordSession(ctx, e); err != nil {
		c.logger.Warn("record session event", "action", e.Action, "error", err)
	}
}

func lockedMessage(missing []string) string {
	return fmt.Sprintf("Activate %s first.", strings.Join(missing, ", "))
}
