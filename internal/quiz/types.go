package quiz

// Kind describes how the learner answers a question.
type Kind string

const (
	// KindSingle means the learner picks exactly one option.
	KindSingle Kind = "single"

	// KindMulti means the learner toggles any number of options and must
	// submit exactly the correct set.
	KindMulti Kind = "multi"

	// KindText means the learner fills in named fields, each of which must
	// be non-blank.
	KindText Kind = "text"
)

// Option is one answer choice of a single- or multi-select question.
type Option struct {
	ID      string
	Label   string
	Correct bool
}

// Field is one named input of a free-text question.
type Field struct {
	ID          string
	Label       string
	Placeholder string
}

// Question is a single prompt within a module's quiz. Options are kept in
// authoring order; Instantiate shuffles a copy.
type Question struct {
	ID      string
	Prompt  string
	Kind    Kind
	Options []Option
	Fields  []Field
}

// CorrectIDs returns the IDs of the correct options in authoring order.
func (q Question) CorrectIDs() []string {
	var ids []string
	for _, o := range q.Options {
		if o.Correct {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// ModuleQuiz is the quiz that activates one module.
type ModuleQuiz struct {
	ModuleID string

	// Title heads the task panel, e.g. "Spock boot quiz".
	Title string

	// SubmitLabel is the text of the activate button.
	SubmitLabel string

	// FailureHint is shown when a submission is rejected. Empty means the
	// bank-wide hint applies.
	FailureHint string

	Questions []Question
}

// Instance is a rendered quiz for one module with freshly shuffled options.
type Instance struct {
	ModuleID    string
	Title       string
	SubmitLabel string
	Questions   []Question
}

// Submission holds the learner's answers for one module's quiz.
// Answers are keyed by question ID.
type Submission struct {
	// Choices holds the chosen option ID of single-select questions.
	Choices map[string]string

	// Sets holds the toggled option IDs of multi-select questions.
	Sets map[string][]string

	// Text holds free-text values keyed by question ID then field ID.
	Text map[string]map[string]string
}

// NewSubmission returns an empty submission ready to be filled.
func NewSubmission() Submission {
	return Submission{
		Choices: make(map[string]string),
		Sets:    make(map[string][]string),
		Text:    make(map[string]map[string]string),
	}
}

// Choose records optionID as the answer to a single-select question.
func (s *Submission) Choose(questionID, optionID string) *Submission {
	if s.Choices == nil {
		s.Choices = make(map[string]string)
	}
	s.Choices[questionID] = optionID
	return s
}

// Toggle adds optionID to a multi-select answer, or removes it if present.
func (s *Submission) Toggle(questionID, optionID string) *Submission {
	if s.Sets == nil {
		s.Sets = make(map[string][]string)
	}
	cur := s.Sets[questionID]
	for i, id := range cur {
		if id == optionID {
			s.Sets[questionID] = append(cur[:i:i], cur[i+1:]...)
			return s
		}
	}
	s.Sets[questionID] = append(cur, optionID)
	return s
}

// Fill records the value of a free-text field.
func (s *Submission) Fill(questionID, fieldID, value string) *Submission {
	if s.Text == nil {
		s.Text = make(map[string]map[string]string)
	}
	fields := s.Text[questionID]
	if fields == nil {
		fields = make(map[string]string)
		s.Text[questionID] = fields
	}
	fields[fieldID] = value
	return s
}

// Selected reports whether optionID is part of the current answer to
// questionID, for either single- or multi-select questions.
func (s Submission) Selected(questionID, optionID string) bool {
	if s.Choices[questionID] == optionID && optionID != "" {
		return true
	}
	for _, id := range s.Sets[questionID] {
		if id == optionID {
			return true
		}
	}
	return false
}
