package catalog

import (
	"slices"
	"testing"
)

func TestDefault_AllIDsOrder(t *testing.T) {
	got := Default().AllIDs()
	want := []string{"spock", "morpheus", "johnny5", "optimus", "xfiles"}
	if !slices.Equal(got, want) {
		t.Errorf("AllIDs() = %v, want %v", got, want)
	}
}

func TestDefault_AllIDsStable(t *testing.T) {
	c := Default()
	first := c.AllIDs()
	for range 10 {
		if got := c.AllIDs(); !slices.Equal(got, first) {
			t.Fatalf("AllIDs() changed between calls: %v vs %v", got, first)
		}
	}
}

func TestDefault_Prerequisites(t *testing.T) {
	c := Default()
	tests := []struct {
		id   string
		want []string
	}{
		{Spock, nil},
		{Morpheus, []string{Spock}},
		{Johnny5, []string{Morpheus}},
		{Optimus, []string{Morpheus}},
		{XFiles, []string{Optimus, Johnny5}},
	}
	for _, tt := range tests {
		got := c.PrerequisitesOf(tt.id)
		if !slices.Equal(got, tt.want) {
			t.Errorf("PrerequisitesOf(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestDefault_Terminal(t *testing.T) {
	if got := Default().Terminal(); got != XFiles {
		t.Errorf("Terminal() = %q, want %q", got, XFiles)
	}
}

func TestDefault_Roots(t *testing.T) {
	roots := Default().Roots()
	if !slices.Equal(roots, []string{Spock}) {
		t.Errorf("Roots() = %v, want [spock]", roots)
	}
}

func TestGet(t *testing.T) {
	m, err := Default().Get(Optimus)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Title != "OptimusPrime" {
		t.Errorf("got title %q, want %q", m.Title, "OptimusPrime")
	}
	if m.Role != "Embedder registry." {
		t.Errorf("got role %q", m.Role)
	}
}

func TestGet_NotFound(t *testing.T) {
	if _, err := Default().Get("hal9000"); err == nil {
		t.Fatal("expected error for unknown module, got nil")
	}
}

func TestPrerequisitesOf_Unknown(t *testing.T) {
	if got := Default().PrerequisitesOf("hal9000"); got != nil {
		t.Errorf("PrerequisitesOf(unknown) = %v, want nil", got)
	}
}

func TestPrerequisitesOf_ReturnsCopy(t *testing.T) {
	c := Default()
	got := c.PrerequisitesOf(XFiles)
	got[0] = "mutated"
	if c.PrerequisitesOf(XFiles)[0] != Optimus {
		t.Error("PrerequisitesOf leaked internal slice")
	}
}

func TestDependents(t *testing.T) {
	got := Default().Dependents(Morpheus)
	want := []string{Johnny5, Optimus}
	if !slices.Equal(got, want) {
		t.Errorf("Dependents(morpheus) = %v, want %v", got, want)
	}
	if deps := Default().Dependents(XFiles); len(deps) != 0 {
		t.Errorf("Dependents(xfiles) = %v, want none", deps)
	}
}

func TestTopologicalOrder_RespectsPrerequisites(t *testing.T) {
	c := Default()
	order := c.TopologicalOrder()
	if len(order) != c.Len() {
		t.Fatalf("got %d modules in topo order, want %d", len(order), c.Len())
	}
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, m := range c.Modules() {
		for _, prereq := range m.Prerequisites {
			if pos[prereq] >= pos[m.ID] {
				t.Errorf("%q (pos %d) should come before %q (pos %d)", prereq, pos[prereq], m.ID, pos[m.ID])
			}
		}
	}
}

func TestIsUnlocked(t *testing.T) {
	c := Default()
	tests := []struct {
		name      string
		id        string
		completed map[string]bool
		want      bool
	}{
		{"root always unlocked", Spock, nil, true},
		{"missing single prereq", Morpheus, nil, false},
		{"single prereq met", Morpheus, map[string]bool{Spock: true}, true},
		{"one of two prereqs met", XFiles, map[string]bool{Spock: true, Morpheus: true, Optimus: true}, false},
		{"both prereqs met", XFiles, map[string]bool{Optimus: true, Johnny5: true}, true},
		{"unknown module", "hal9000", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsUnlocked(tt.id, tt.completed); got != tt.want {
				t.Errorf("IsUnlocked(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestMissingPrerequisites(t *testing.T) {
	c := Default()
	got := c.MissingPrerequisites(XFiles, map[string]bool{Johnny5: true})
	if !slices.Equal(got, []string{Optimus}) {
		t.Errorf("MissingPrerequisites = %v, want [optimus]", got)
	}
	got = c.MissingPrerequisites(XFiles, nil)
	if !slices.Equal(got, []string{Optimus, Johnny5}) {
		t.Errorf("MissingPrerequisites = %v, want [optimus johnny5]", got)
	}
}

func TestStateOf(t *testing.T) {
	c := Default()
	completed := map[string]bool{Spock: true}
	tests := []struct {
		id   string
		want State
	}{
		{Spock, StateCompleted},
		{Morpheus, StateAvailable},
		{Johnny5, StateLocked},
		{XFiles, StateLocked},
	}
	for _, tt := range tests {
		if got := c.StateOf(tt.id, completed); got != tt.want {
			t.Errorf("StateOf(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestTitles(t *testing.T) {
	got := Default().Titles([]string{Optimus, "hal9000", Spock})
	want := []string{"OptimusPrime", "hal9000", "Spock"}
	if !slices.Equal(got, want) {
		t.Errorf("Titles = %v, want %v", got, want)
	}
}

func TestDefault_RecapAndLessonPopulated(t *testing.T) {
	for _, m := range Default().Modules() {
		if m.Recap == "" {
			t.Errorf("module %q has no recap line", m.ID)
		}
		if m.Lesson == "" {
			t.Errorf("module %q has no lesson", m.ID)
		}
		if m.Snippet == "" || m.Path == "" {
			t.Errorf("module %q is missing path or snippet", m.ID)
		}
	}
}

func TestModuleSummary(t *testing.T) {
	m := Module{Role: "Embedder registry.", Description: "Blocks overrides."}
	if got := m.Summary(); got != "Embedder registry. Blocks overrides." {
		t.Errorf("Summary() = %q", got)
	}
	if got := (Module{Role: "Role only."}).Summary(); got != "Role only." {
		t.Errorf("Summary() = %q", got)
	}
}

func TestStateLabels(t *testing.T) {
	if StateCompleted.Label() != "Online" {
		t.Errorf("StateCompleted.Label() = %q", StateCompleted.Label())
	}
	if StateLocked.Icon() != "🔒" {
		t.Errorf("StateLocked.Icon() = %q", StateLocked.Icon())
	}
}
