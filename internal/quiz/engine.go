package quiz

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

// Engine instantiates shuffled quizzes and validates submissions against
// a bank. It is safe for concurrent use.
type Engine struct {
	bank *Bank

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an engine with a non-deterministic shuffle source.
func New(bank *Bank) *Engine {
	return &Engine{
		bank: bank,
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeeded creates an engine whose shuffles are fully determined by seed.
func NewSeeded(bank *Bank, seed int64) *Engine {
	return &Engine{
		bank: bank,
		rng:  rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// Bank returns the bank this engine serves.
func (e *Engine) Bank() *Bank {
	return e.bank
}

// Instantiate returns the module's quiz with every question's options
// freshly shuffled. Each call reshuffles; the bank is never modified.
func (e *Engine) Instantiate(moduleID string) (Instance, error) {
	q, ok := e.bank.Quiz(moduleID)
	if !ok {
		return Instance{}, fmt.Errorf("no quiz for module %q", moduleID)
	}

	inst := Instance{
		ModuleID:    q.ModuleID,
		Title:       q.Title,
		SubmitLabel: q.SubmitLabel,
		Questions:   make([]Question, len(q.Questions)),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, question := range q.Questions {
		question.Options = slices.Clone(question.Options)
		question.Fields = slices.Clone(question.Fields)
		e.shuffle(question.Options)
		inst.Questions[i] = question
	}
	return inst, nil
}

// shuffle permutes opts in place with Fisher-Yates. Caller holds e.mu.
func (e *Engine) shuffle(opts []Option) {
	for i := len(opts) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		opts[i], opts[j] = opts[j], opts[i]
	}
}

// Validate reports whether sub answers every question of the module
// correctly. A submission missing any answer is rejected, as is an
// unknown module. Validate never mutates state.
func (e *Engine) Validate(moduleID string, sub Submission) bool {
	q, ok := e.bank.Quiz(moduleID)
	if !ok || len(q.Questions) == 0 {
		return false
	}
	for _, question := range q.Questions {
		if !questionCorrect(question, sub) {
			return false
		}
	}
	return true
}

// Mismatches returns the IDs of questions the submission gets wrong or
// leaves unanswered, in authoring order.
func (e *Engine) Mismatches(moduleID string, sub Submission) []string {
	q, ok := e.bank.Quiz(moduleID)
	if !ok {
		return nil
	}
	var wrong []string
	for _, question := range q.Questions {
		if !questionCorrect(question, sub) {
			wrong = append(wrong, question.ID)
		}
	}
	return wrong
}

func questionCorrect(q Question, sub Submission) bool {
	switch q.Kind {
	case KindSingle:
		chosen, ok := sub.Choices[q.ID]
		if !ok || chosen == "" {
			return false
		}
		correct := q.CorrectIDs()
		return len(correct) == 1 && chosen == correct[0]
	case KindMulti:
		return sameSet(sub.Sets[q.ID], q.CorrectIDs())
	case KindText:
		values := sub.Text[q.ID]
		for _, f := range q.Fields {
			if strings.TrimSpace(values[f.ID]) == "" {
				return false
			}
		}
		return len(q.Fields) > 0
	default:
		return false
	}
}

// sameSet reports whether got and want contain the same elements,
// ignoring order and duplicates. An empty submission never matches.
func sameSet(got, want []string) bool {
	if len(got) == 0 || len(want) == 0 {
		return false
	}
	wantSet := make(map[string]bool, len(want))
	for _, id := range want {
		wantSet[id] = true
	}
	gotSet := make(map[string]bool, len(got))
	for _, id := range got {
		if !wantSet[id] {
			return false
		}
		gotSet[id] = true
	}
	return len(gotSet) == len(wantSet)
}
