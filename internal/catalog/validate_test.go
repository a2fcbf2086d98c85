package catalog

import (
	"strings"
	"testing"
)

func TestValidate_SeedCatalogPasses(t *testing.T) {
	if err := validateModules(seedModules()); err != nil {
		t.Fatalf("seed catalog validation failed: %v", err)
	}
}

func TestValidateModules_DetectsCycle(t *testing.T) {
	modules := []Module{
		{ID: "root", Title: "Root"},
		{ID: "a", Title: "A", Prerequisites: []string{"root", "b"}},
		{ID: "b", Title: "B", Prerequisites: []string{"a"}},
	}
	err := validateModules(modules)
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error should mention cycle, got: %v", err)
	}
}

func TestValidateModules_DetectsDanglingPrereq(t *testing.T) {
	modules := []Module{
		{ID: "a", Title: "A"},
		{ID: "b", Title: "B", Prerequisites: []string{"nonexistent"}},
	}
	err := validateModules(modules)
	if err == nil {
		t.Fatal("expected error for dangling prerequisite, got nil")
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error should mention the missing ID, got: %v", err)
	}
}

func TestValidateModules_DetectsDuplicateID(t *testing.T) {
	modules := []Module{
		{ID: "a", Title: "A"},
		{ID: "a", Title: "Again"},
	}
	err := validateModules(modules)
	if err == nil {
		t.Fatal("expected error for duplicate ID, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error should mention duplicate, got: %v", err)
	}
}

func TestValidateModules_RequiresEntryModule(t *testing.T) {
	modules := []Module{
		{ID: "a", Title: "A", Prerequisites: []string{"b"}},
		{ID: "b", Title: "B", Prerequisites: []string{"a"}},
	}
	err := validateModules(modules)
	if err == nil {
		t.Fatal("expected error for no entry module, got nil")
	}
	if !strings.Contains(err.Error(), "entry module") {
		t.Errorf("error should mention entry module, got: %v", err)
	}
}

func TestValidateModules_RequiresSingleTerminal(t *testing.T) {
	modules := []Module{
		{ID: "root", Title: "Root"},
		{ID: "left", Title: "Left", Prerequisites: []string{"root"}},
		{ID: "right", Title: "Right", Prerequisites: []string{"root"}},
	}
	err := validateModules(modules)
	if err == nil {
		t.Fatal("expected error for missing terminal, got nil")
	}
	if !strings.Contains(err.Error(), "terminal") {
		t.Errorf("error should mention terminal, got: %v", err)
	}
}

func TestValidateModules_SingleModuleIsTerminal(t *testing.T) {
	c, err := New([]Module{{ID: "only", Title: "Only"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Terminal() != "only" {
		t.Errorf("Terminal() = %q, want %q", c.Terminal(), "only")
	}
}

func TestValidateModules_Empty(t *testing.T) {
	if err := validateModules(nil); err == nil {
		t.Fatal("expected error for empty catalog, got nil")
	}
}

func TestValidateModules_BlankIDAndSelfPrereq(t *testing.T) {
	modules := []Module{
		{ID: "", Title: "Nameless"},
		{ID: "a", Title: "A", Prerequisites: []string{"a"}},
	}
	err := validateModules(modules)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "blank ID") {
		t.Errorf("error should mention blank ID, got: %v", msg)
	}
	if !strings.Contains(msg, "itself") {
		t.Errorf("error should mention self prerequisite, got: %v", msg)
	}
}

func TestValidateModules_ReportsAllProblems(t *testing.T) {
	modules := []Module{
		{ID: "a", Title: "A"},
		{ID: "a", Title: "A2"},
		{ID: "b", Title: "B", Prerequisites: []string{"ghost"}},
	}
	err := validateModules(modules)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate") || !strings.Contains(msg, "ghost") {
		t.Errorf("error should report every problem, got: %v", msg)
	}
}
