package quiz

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/abhisek/bootseq/internal/catalog"
)

func TestBuiltinBanksValidate(t *testing.T) {
	for _, name := range Variants() {
		b, err := Builtin(name)
		if err != nil {
			t.Fatalf("Builtin(%q): %v", name, err)
		}
		if err := b.Validate(catalog.Default()); err != nil {
			t.Errorf("bank %q failed validation: %v", name, err)
		}
	}
}

func TestBuiltin_Unknown(t *testing.T) {
	_, err := Builtin("hardcore")
	if err == nil {
		t.Fatal("expected error for unknown variant, got nil")
	}
	var uv *UnknownVariantError
	if !errors.As(err, &uv) || uv.Name != "hardcore" {
		t.Errorf("got %v, want *UnknownVariantError for hardcore", err)
	}
}

func TestBankEconomy(t *testing.T) {
	tests := []struct {
		bank      *Bank
		budget    int
		limit     int
		lessons   bool
		questions int
	}{
		{Concepts(), 20, 5, true, 3},
		{Classic(), 12, 0, false, 2},
	}
	for _, tt := range tests {
		if tt.bank.Budget != tt.budget || tt.bank.MistakeLimit != tt.limit || tt.bank.Lessons != tt.lessons {
			t.Errorf("bank %q: got budget=%d limit=%d lessons=%v", tt.bank.Name, tt.bank.Budget, tt.bank.MistakeLimit, tt.bank.Lessons)
		}
		q, _ := tt.bank.Quiz(catalog.Spock)
		if len(q.Questions) != tt.questions {
			t.Errorf("bank %q: spock has %d questions, want %d", tt.bank.Name, len(q.Questions), tt.questions)
		}
	}
}

func TestValidate_AnswerKeyPasses(t *testing.T) {
	for _, b := range []*Bank{Concepts(), Classic()} {
		e := NewSeeded(b, 1)
		for _, id := range catalog.Default().AllIDs() {
			sub, ok := b.AnswerKey(id)
			if !ok {
				t.Fatalf("bank %q has no answer key for %q", b.Name, id)
			}
			if !e.Validate(id, sub) {
				t.Errorf("bank %q: answer key for %q rejected", b.Name, id)
			}
		}
	}
}

func TestValidate_SingleSelect(t *testing.T) {
	e := NewSeeded(Concepts(), 1)

	sub := NewSubmission()
	sub.Choose("q1", "b").Choose("q2", "c").Choose("q3", "c")
	if !e.Validate(catalog.Spock, sub) {
		t.Error("all-correct submission rejected")
	}

	sub.Choose("q2", "a")
	if e.Validate(catalog.Spock, sub) {
		t.Error("submission with one wrong answer accepted")
	}

	delete(sub.Choices, "q2")
	if e.Validate(catalog.Spock, sub) {
		t.Error("submission with a missing answer accepted")
	}
}

func TestValidate_MultiSelect(t *testing.T) {
	b := NewBank("test", 10, 0, ModuleQuiz{
		ModuleID:  "m",
		Questions: []Question{multi("hooks", "Pick", "*x", "*y", "*z", "w")},
	})
	e := NewSeeded(b, 1)

	tests := []struct {
		name string
		sets []string
		want bool
	}{
		{"exact set in order", []string{"a", "b", "c"}, true},
		{"exact set reversed", []string{"c", "b", "a"}, true},
		{"duplicates ignored", []string{"a", "b", "b", "c"}, true},
		{"subset rejected", []string{"a", "b"}, false},
		{"superset rejected", []string{"a", "b", "c", "d"}, false},
		{"empty rejected", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := Submission{Sets: map[string][]string{"hooks": tt.sets}}
			if got := e.Validate("m", sub); got != tt.want {
				t.Errorf("Validate(%v) = %v, want %v", tt.sets, got, tt.want)
			}
		})
	}
}

func TestValidate_FreeText(t *testing.T) {
	e := NewSeeded(Classic(), 1)

	sub := NewSubmission()
	sub.Fill("register", "id", "users_db").Fill("register", "type", "postgresql").Fill("register", "domain", "users")
	if !e.Validate(catalog.XFiles, sub) {
		t.Error("filled form rejected")
	}

	sub.Fill("register", "domain", "   ")
	if e.Validate(catalog.XFiles, sub) {
		t.Error("blank field accepted")
	}

	if e.Validate(catalog.XFiles, NewSubmission()) {
		t.Error("empty form accepted")
	}
}

func TestValidate_ClassicJohnny5(t *testing.T) {
	e := NewSeeded(Classic(), 1)

	sub := NewSubmission()
	sub.Toggle("hooks", "c").Toggle("hooks", "a").Toggle("hooks", "b").Choose("id", "a")
	if !e.Validate(catalog.Johnny5, sub) {
		t.Error("correct hook set rejected")
	}

	sub.Toggle("hooks", "d")
	if e.Validate(catalog.Johnny5, sub) {
		t.Error("hook set with finalize_output accepted")
	}

	sub.Toggle("hooks", "d")
	if !e.Validate(catalog.Johnny5, sub) {
		t.Error("toggling an option twice should remove it")
	}
}

func TestValidate_UnknownModule(t *testing.T) {
	e := NewSeeded(Concepts(), 1)
	if e.Validate("hal9000", NewSubmission()) {
		t.Error("unknown module accepted")
	}
}

func TestMismatches(t *testing.T) {
	e := NewSeeded(Concepts(), 1)
	sub := NewSubmission()
	sub.Choose("q1", "b").Choose("q3", "a")
	got := e.Mismatches(catalog.Spock, sub)
	if !slices.Equal(got, []string{"q2", "q3"}) {
		t.Errorf("Mismatches = %v, want [q2 q3]", got)
	}
}

func TestInstantiate_Unknown(t *testing.T) {
	if _, err := New(Concepts()).Instantiate("hal9000"); err == nil {
		t.Fatal("expected error for unknown module, got nil")
	}
}

func TestInstantiate_SeededIsDeterministic(t *testing.T) {
	a := NewSeeded(Concepts(), 42)
	b := NewSeeded(Concepts(), 42)
	for range 5 {
		ia, _ := a.Instantiate(catalog.Morpheus)
		ib, _ := b.Instantiate(catalog.Morpheus)
		for i := range ia.Questions {
			if !slices.Equal(optionIDs(ia.Questions[i]), optionIDs(ib.Questions[i])) {
				t.Fatalf("seeded engines diverged on question %d", i)
			}
		}
	}
}

func TestInstantiate_DoesNotMutateBank(t *testing.T) {
	bank := Concepts()
	e := NewSeeded(bank, 7)
	before, _ := bank.Quiz(catalog.Spock)
	want := optionIDs(before.Questions[0])
	for range 20 {
		if _, err := e.Instantiate(catalog.Spock); err != nil {
			t.Fatal(err)
		}
	}
	after, _ := bank.Quiz(catalog.Spock)
	if got := optionIDs(after.Questions[0]); !slices.Equal(got, want) {
		t.Errorf("bank options reordered: got %v, want %v", got, want)
	}
}

func TestInstantiate_ProducesEveryPermutation(t *testing.T) {
	e := NewSeeded(Concepts(), 3)
	seen := make(map[string]bool)
	for range 600 {
		inst, err := e.Instantiate(catalog.Spock)
		if err != nil {
			t.Fatal(err)
		}
		seen[strings.Join(optionIDs(inst.Questions[0]), "")] = true
	}
	// Three options have 3! orderings; a uniform shuffle hits all of them.
	if len(seen) != 6 {
		t.Errorf("saw %d distinct orderings, want 6", len(seen))
	}
}

func TestInstantiate_PermutationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		id := rapid.SampledFrom(catalog.Default().AllIDs()).Draw(rt, "module")
		bank := rapid.SampledFrom([]*Bank{Concepts(), Classic()}).Draw(rt, "bank")

		inst, err := NewSeeded(bank, seed).Instantiate(id)
		if err != nil {
			rt.Fatal(err)
		}
		orig, _ := bank.Quiz(id)
		for i, q := range inst.Questions {
			got := optionIDs(q)
			want := optionIDs(orig.Questions[i])
			slices.Sort(got)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				rt.Errorf("question %q: shuffled options %v are not a permutation of %v", q.ID, got, want)
			}
		}
	})
}

func TestValidate_IsIndependentOfDisplayOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		e := NewSeeded(Classic(), seed)
		if _, err := e.Instantiate(catalog.Johnny5); err != nil {
			rt.Fatal(err)
		}
		hooks := rapid.Permutation([]string{"a", "b", "c"}).Draw(rt, "hooks")
		sub := Submission{
			Choices: map[string]string{"id": "a"},
			Sets:    map[string][]string{"hooks": hooks},
		}
		if !e.Validate(catalog.Johnny5, sub) {
			rt.Errorf("correct hooks in order %v rejected", hooks)
		}
	})
}

func TestBankValidate_ReportsProblems(t *testing.T) {
	b := NewBank("broken", 0, -1,
		ModuleQuiz{ModuleID: catalog.Spock, Questions: []Question{
			single("q1", "Pick", "a", "b"),
			single("q1", "Pick", "*a", "*b"),
		}},
		ModuleQuiz{ModuleID: "ghost", Questions: []Question{
			{ID: "t", Prompt: "Fill", Kind: KindText},
		}},
	)
	err := b.Validate(catalog.Default())
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{"budget", "mistake limit", "morpheus", "ghost", "exactly one correct", "duplicate question", "no fields"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestHintFor(t *testing.T) {
	if got := Concepts().HintFor(catalog.Spock); got != DefaultFailureHint {
		t.Errorf("concepts hint = %q, want default", got)
	}
	if got := Classic().HintFor(catalog.XFiles); got != "Fill in repository id + meta before registering." {
		t.Errorf("classic xfiles hint = %q", got)
	}
}

func TestSubmissionSelected(t *testing.T) {
	var sub Submission
	sub.Choose("q1", "a").Toggle("q2", "b")
	if !sub.Selected("q1", "a") || !sub.Selected("q2", "b") {
		t.Error("Selected should report chosen and toggled options")
	}
	if sub.Selected("q1", "b") || sub.Selected("q3", "") {
		t.Error("Selected reported an option that was not chosen")
	}
}

func optionIDs(q Question) []string {
	ids := make([]string, len(q.Options))
	for i, o := range q.Options {
		ids[i] = o.ID
	}
	return ids
}
