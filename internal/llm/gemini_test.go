package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	schema := geminiSchema(nudgeSchema.Definition)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(schema.Properties))
	}
	hint := schema.Properties["hint"]
	if hint.Type != genai.TypeString || hint.MaxLength == nil || *hint.MaxLength != 40 {
		t.Fatalf("unexpected hint schema: %+v", hint)
	}
	if len(schema.Properties["tone"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %v", schema.Properties["tone"].Enum)
	}
	concepts := schema.Properties["concepts"]
	if concepts.Type != genai.TypeArray || concepts.Items.Type != genai.TypeString {
		t.Fatalf("unexpected concepts schema: %+v", concepts)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "hint" {
		t.Fatalf("unexpected required: %v", schema.Required)
	}
}

func TestGeminiSchema_UnknownTypeFallsBackToString(t *testing.T) {
	schema := geminiSchema(map[string]any{"type": "null", "required": []string{"a"}})
	if schema.Type != genai.TypeString {
		t.Fatalf("expected STRING fallback, got %s", schema.Type)
	}
	if len(schema.Required) != 1 {
		t.Fatalf("[]string required not accepted: %v", schema.Required)
	}
}

func TestGeminiContents(t *testing.T) {
	contents := geminiContents([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if contents[0].Role != genai.RoleUser || contents[1].Role != genai.RoleModel {
		t.Fatalf("unexpected roles %q %q", contents[0].Role, contents[1].Role)
	}
	if contents[1].Parts[0].Text != "hello" {
		t.Fatalf("unexpected text %q", contents[1].Parts[0].Text)
	}
}

func TestGeminiStopReason(t *testing.T) {
	cut := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonMaxTokens}},
	}
	if got := geminiStopReason(cut); got != StopMaxTokens {
		t.Fatalf("expected %q, got %q", StopMaxTokens, got)
	}
	if got := geminiStopReason(&genai.GenerateContentResponse{}); got != StopEnd {
		t.Fatalf("expected %q, got %q", StopEnd, got)
	}
}
