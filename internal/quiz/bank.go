package quiz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/bootseq/internal/catalog"
)

// DefaultFailureHint is shown after a rejected submission when neither the
// module quiz nor the bank carries a more specific hint.
const DefaultFailureHint = "Try again: focus on what this module is responsible for."

// Bank is a complete set of module quizzes plus the economy it is played
// under.
type Bank struct {
	// Name identifies the bank, e.g. "concepts" or "classic".
	Name string

	// Budget is the initial action budget.
	Budget int

	// MistakeLimit forces a full reset once this many submissions have
	// been rejected. Zero disables the limit.
	MistakeLimit int

	// Lessons selects the completion message: the module's "what you
	// learned" text when true, a short "<Title> is online." otherwise.
	Lessons bool

	// FailureHint is the bank-wide message for rejected submissions.
	FailureHint string

	quizzes map[string]ModuleQuiz
	order   []string
}

// NewBank assembles a bank from module quizzes. Quizzes keep the order
// they are given in.
func NewBank(name string, budget, mistakeLimit int, quizzes ...ModuleQuiz) *Bank {
	b := &Bank{
		Name:         name,
		Budget:       budget,
		MistakeLimit: mistakeLimit,
		FailureHint:  DefaultFailureHint,
		quizzes:      make(map[string]ModuleQuiz, len(quizzes)),
	}
	for _, q := range quizzes {
		if _, dup := b.quizzes[q.ModuleID]; !dup {
			b.order = append(b.order, q.ModuleID)
		}
		b.quizzes[q.ModuleID] = q
	}
	return b
}

// Quiz returns the quiz for a module.
func (b *Bank) Quiz(moduleID string) (ModuleQuiz, bool) {
	q, ok := b.quizzes[moduleID]
	return q, ok
}

// ModuleIDs returns the IDs of every module with a quiz, in bank order.
func (b *Bank) ModuleIDs() []string {
	return slices.Clone(b.order)
}

// HintFor returns the failure hint for a module.
func (b *Bank) HintFor(moduleID string) string {
	if q, ok := b.quizzes[moduleID]; ok && q.FailureHint != "" {
		return q.FailureHint
	}
	if b.FailureHint != "" {
		return b.FailureHint
	}
	return DefaultFailureHint
}

// AnswerKey returns a submission that passes the module's quiz. Free-text
// fields are filled with their placeholders, or the field ID when none.
func (b *Bank) AnswerKey(moduleID string) (Submission, bool) {
	q, ok := b.quizzes[moduleID]
	if !ok {
		return Submission{}, false
	}
	sub := NewSubmission()
	for _, question := range q.Questions {
		switch question.Kind {
		case KindSingle:
			if ids := question.CorrectIDs(); len(ids) > 0 {
				sub.Choose(question.ID, ids[0])
			}
		case KindMulti:
			for _, id := range question.CorrectIDs() {
				sub.Toggle(question.ID, id)
			}
		case KindText:
			for _, f := range question.Fields {
				v := f.Placeholder
				if v == "" {
					v = f.ID
				}
				sub.Fill(question.ID, f.ID, v)
			}
		}
	}
	return sub, true
}

// Validate checks the structural invariants of every quiz and that every
// catalog module has one. Returns a combined error describing all problems
// found, or nil if valid.
func (b *Bank) Validate(c *catalog.Catalog) error {
	var errs []string

	if b.Budget <= 0 {
		errs = append(errs, fmt.Sprintf("budget must be positive, got %d", b.Budget))
	}
	if b.MistakeLimit < 0 {
		errs = append(errs, fmt.Sprintf("mistake limit must not be negative, got %d", b.MistakeLimit))
	}

	if c != nil {
		for _, id := range c.AllIDs() {
			if _, ok := b.quizzes[id]; !ok {
				errs = append(errs, fmt.Sprintf("module %q has no quiz", id))
			}
		}
		for _, id := range b.order {
			if !c.Has(id) {
				errs = append(errs, fmt.Sprintf("quiz for unknown module %q", id))
			}
		}
	}

	for _, id := range b.order {
		errs = append(errs, validateQuiz(b.quizzes[id])...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("quiz bank %q validation failed:\n  %s", b.Name, strings.Join(errs, "\n  "))
	}
	return nil
}

func validateQuiz(q ModuleQuiz) []string {
	var errs []string
	if len(q.Questions) == 0 {
		return []string{fmt.Sprintf("module %q: quiz has no questions", q.ModuleID)}
	}

	seenQ := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		where := fmt.Sprintf("module %q question %q", q.ModuleID, question.ID)
		if question.ID == "" {
			errs = append(errs, fmt.Sprintf("module %q: question with blank ID", q.ModuleID))
		} else if seenQ[question.ID] {
			errs = append(errs, fmt.Sprintf("module %q: duplicate question ID %q", q.ModuleID, question.ID))
		}
		seenQ[question.ID] = true

		seenO := make(map[string]bool, len(question.Options))
		for _, o := range question.Options {
			if o.ID == "" {
				errs = append(errs, where+": option with blank ID")
			} else if seenO[o.ID] {
				errs = append(errs, fmt.Sprintf("%s: duplicate option ID %q", where, o.ID))
			}
			seenO[o.ID] = true
		}

		correct := len(question.CorrectIDs())
		switch question.Kind {
		case KindSingle:
			if correct != 1 {
				errs = append(errs, fmt.Sprintf("%s: single-select needs exactly one correct option, has %d", where, correct))
			}
		case KindMulti:
			if correct == 0 {
				errs = append(errs, where+": multi-select needs at least one correct option")
			}
		case KindText:
			if len(question.Fields) == 0 {
				errs = append(errs, where+": free-text question has no fields")
			}
			if len(question.Options) > 0 {
				errs = append(errs, where+": free-text question must not have options")
			}
			seenF := make(map[string]bool, len(question.Fields))
			for _, f := range question.Fields {
				if f.ID == "" || seenF[f.ID] {
					errs = append(errs, fmt.Sprintf("%s: blank or duplicate field ID %q", where, f.ID))
				}
				seenF[f.ID] = true
			}
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown kind %q", where, question.Kind))
		}
	}
	return errs
}
