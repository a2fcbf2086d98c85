package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

// nudgeSchema mirrors the shape the coach asks for.
var nudgeSchema = &Schema{
	Name:        "test-nudge",
	Description: "A short boot hint",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint":     map[string]any{"type": "string", "maxLength": 40},
			"tone":     map[string]any{"type": "string", "enum": []any{"calm", "urgent"}},
			"concepts": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"hint":"Route first.","tone":"calm"}`, false},
		{"optional fields omitted", `{"hint":"Route first."}`, false},
		{"array items", `{"hint":"x","concepts":["embedder","retriever"]}`, false},
		{"missing required", `{"tone":"calm"}`, true},
		{"wrong type", `{"hint":42}`, true},
		{"bad enum", `{"hint":"x","tone":"sleepy"}`, true},
		{"too long", `{"hint":"this hint is far too long to fit on the status line"}`, true},
		{"unknown property", `{"hint":"x","extra":true}`, true},
		{"bad array item", `{"hint":"x","concepts":[1,2]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(nudgeSchema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var inv *ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
			if string(inv.Content) != tt.raw {
				t.Fatalf("content not carried: %q", inv.Content)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_BadSchemaDefinition(t *testing.T) {
	broken := &Schema{
		Name:       "test-broken",
		Definition: map[string]any{"type": 12},
	}
	var inv *ErrInvalidResponse
	if err := validateResponse(broken, json.RawMessage(`{}`)); !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}

func TestCheckOutput(t *testing.T) {
	valid := json.RawMessage(`{"hint":"ok"}`)
	cut := json.RawMessage(`{"hint":"o`)

	if err := checkOutput(Request{}, cut, StopMaxTokens); err != nil {
		t.Fatalf("schema-less output is never checked, got: %v", err)
	}
	if err := checkOutput(Request{Schema: nudgeSchema}, valid, StopEnd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var maxTok *ErrMaxTokensExceeded
	if err := checkOutput(Request{Schema: nudgeSchema}, cut, StopMaxTokens); !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
	var inv *ErrInvalidResponse
	if err := checkOutput(Request{Schema: nudgeSchema}, cut, StopEnd); !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
}
