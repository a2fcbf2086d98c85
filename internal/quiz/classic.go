package quiz

import (
	"fmt"

	"github.com/abhisek/bootseq/internal/catalog"
)

// Classic is the original fact-recall bank: a budget of 12, no mistake
// limit, a multi-select hook question for Johnny5 and a free-text
// repository form for XFiles.
func Classic() *Bank {
	return NewBank("classic", 12, 0,
		ModuleQuiz{
			ModuleID:    catalog.Spock,
			Title:       "Spock boot quiz",
			SubmitLabel: "Activate Spock",
			FailureHint: "Spock quiz failed. Check default shape and ENV pattern.",
			Questions: []Question{
				single("shape", "Default config shape:",
					`*{"rag2f": {}, "plugins": {}}`,
					`{"core": {}, "hooks": {}}`,
					`{"rag2f": [], "plugins": []}`),
				single("env", "ENV prefix + separator:",
					"*RAG2F / __",
					"RAG2F / --",
					"RAG / ::"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.Morpheus,
			Title:       "Morpheus discovery quiz",
			SubmitLabel: "Activate Morpheus",
			FailureHint: "Morpheus expects entry points + filesystem, entry points first.",
			Questions: []Question{
				single("discovery", "Plugin discovery model:",
					"Entry points only",
					"Filesystem only",
					"*Both; entry points win"),
				single("group", "Entry point group name:",
					"*rag2f.plugins",
					"rag2f.extensions",
					"rag2f.hooks"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.Johnny5,
			Title:       "Johnny5 hook routing",
			SubmitLabel: "Activate Johnny5",
			FailureHint: "Johnny5 hook routing mismatch. Try again.",
			Questions: []Question{
				multi("hooks", "Select the hooks used in handle_text_foreground:",
					"*get_id_input_text",
					"*check_duplicated_input_text",
					"*handle_text_foreground",
					"finalize_output"),
				single("id", "When no id is returned, Johnny5 uses:",
					"*uuid.uuid4().hex",
					"time.time()",
					"incrementing counter"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.Optimus,
			Title:       "OptimusPrime registry policy",
			SubmitLabel: "Activate OptimusPrime",
			FailureHint: "OptimusPrime blocks overrides but allows same-instance re-registers.",
			Questions: []Question{
				single("override", "Registering a different instance under the same key:",
					"Allowed",
					"*Raises ValueError",
					"Silently replaces"),
				single("idem", "Registering the exact same instance again:",
					"*Allowed (warn + skip)",
					"Raises TypeError",
					"Re-registers with no log"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.XFiles,
			Title:       "Register a repository",
			SubmitLabel: "Activate XFiles",
			FailureHint: "Fill in repository id + meta before registering.",
			Questions: []Question{
				{
					ID:     "register",
					Prompt: "Register a repository with XFiles:",
					Kind:   KindText,
					Fields: []Field{
						{ID: "id", Label: "Repository id", Placeholder: "users_db"},
						{ID: "type", Label: "Meta: type", Placeholder: "postgresql"},
						{ID: "domain", Label: "Meta: domain", Placeholder: "users"},
					},
				},
			},
		},
	)
}

// Variants returns the names of the built-in banks.
func Variants() []string {
	return []string{"concepts", "classic"}
}

// Builtin returns a built-in bank by variant name.
func Builtin(name string) (*Bank, error) {
	switch name {
	case "", "concepts":
		return Concepts(), nil
	case "classic":
		return Classic(), nil
	default:
		return nil, &UnknownVariantError{Name: name}
	}
}

// UnknownVariantError is returned when a variant name matches no built-in
// bank.
type UnknownVariantError struct {
	Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown quiz variant %q (want concepts or classic)", e.Name)
}
