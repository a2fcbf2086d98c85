// Package coach turns a failed quiz attempt into a short nudge. With an LLM
// provider configured the nudge is generated; otherwise, or when
// generation fails, the bank's static hint is used.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/abhisek/bootseq/internal/catalog"
	"github.com/abhisek/bootseq/internal/llm"
	"github.com/abhisek/bootseq/internal/quiz"
)

// Source tells where a nudge came from.
type Source string

const (
	SourceCoach  Source = "coach"
	SourceStatic Source = "static"
)

// Input describes the failed attempt to coach.
type Input struct {
	ModuleID     string
	Title        string
	Role         string
	Description  string
	Mistakes     int
	MistakeLimit int

	// Missed holds the prompts of the questions answered wrong.
	Missed []string

	// Fallback is the static hint used when no nudge can be generated.
	Fallback string
}

// NewInput builds an Input from the module, the bank and the question IDs
// the attempt got wrong.
func NewInput(m catalog.Module, bank *quiz.Bank, wrong []string, mistakes, limit int) Input {
	in := Input{
		ModuleID:     m.ID,
		Title:        m.Title,
		Role:         m.Role,
		Description:  m.Description,
		Mistakes:     mistakes,
		MistakeLimit: limit,
		Fallback:     bank.HintFor(m.ID),
	}
	if q, ok := bank.Quiz(m.ID); ok {
		for _, question := range q.Questions {
			for _, id := range wrong {
				if question.ID == id {
					in.Missed = append(in.Missed, question.Prompt)
				}
			}
		}
	}
	return in
}

// Nudge is the hint shown after a failed attempt.
type Nudge struct {
	ModuleID string
	Text     string
	Concept  string
	Source   Source
}

// Service generates nudges asynchronously. Only the newest request
// delivers; older in-flight ones are dropped.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *slog.Logger

	mu  sync.Mutex
	gen uint64
}

// NewService creates a coach. A nil provider yields static nudges only.
func NewService(provider llm.Provider, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger.With("component", "coach"),
	}
}

// Enabled reports whether nudges are generated rather than static.
func (s *Service) Enabled() bool {
	return s.provider != nil
}

// Request starts nudge generation and calls deliver from another goroutine
// once it is ready, unless a newer Request or Cancel came first.
func (s *Service) Request(ctx context.Context, in Input, deliver func(Nudge)) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	go func() {
		n := s.Nudge(ctx, in)

		s.mu.Lock()
		current := gen == s.gen
		s.mu.Unlock()
		if current {
			deliver(n)
		}
	}()
}

// Cancel drops any in-flight request.
func (s *Service) Cancel() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

// Nudge generates a nudge synchronously, falling back to the static hint.
func (s *Service) Nudge(ctx context.Context, in Input) Nudge {
	static := Nudge{ModuleID: in.ModuleID, Text: in.Fallback, Source: SourceStatic}
	if s.provider == nil {
		return static
	}

	n, err := s.generate(ctx, in)
	if err != nil {
		s.logger.Warn("nudge generation failed, using static hint", "module", in.ModuleID, "error", err)
		return static
	}
	return n
}

type nudgeOutput struct {
	Hint    string `json:"hint"`
	Concept string `json:"concept"`
}

func (s *Service) generate(ctx context.Context, in Input) (Nudge, error) {
	ctx = llm.WithPurpose(ctx, "boot-nudge")
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.UserPrompt(nudgeSystemPrompt, buildNudgeUserMessage(in), NudgeSchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Nudge{}, fmt.Errorf("nudge generation: %w", err)
	}

	var out nudgeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Nudge{}, fmt.Errorf("parse nudge response: %w", err)
	}
	hint := strings.TrimSpace(out.Hint)
	if hint == "" {
		return Nudge{}, fmt.Errorf("parse nudge response: empty hint")
	}

	return Nudge{
		ModuleID: in.ModuleID,
		Text:     hint,
		Concept:  strings.TrimSpace(out.Concept),
		Source:   SourceCoach,
	}, nil
}
