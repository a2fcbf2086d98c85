package coach

import "github.com/abhisek/bootseq/internal/llm"

// maxHintLen keeps a nudge on one status line.
const maxHintLen = 160

// NudgeSchema defines the JSON schema for a boot nudge.
var NudgeSchema = &llm.Schema{
	Name:        "boot-nudge",
	Description: "A one-sentence hint that steers a learner back toward a module's responsibility",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "One sentence, no more than 25 words, that never states an answer outright",
				"maxLength":   maxHintLen,
			},
			"concept": map[string]any{
				"type":        "string",
				"description": "The concept to revisit, 1-4 words",
			},
		},
		"required":             []any{"hint", "concept"},
		"additionalProperties": false,
	},
}
