package quiz

import "github.com/abhisek/bootseq/internal/catalog"

// Concepts is the default bank: three conceptual single-select questions
// per module, a budget of 20 and a forced reset after five mistakes.
func Concepts() *Bank {
	b := NewBank("concepts", 20, 5,
		ModuleQuiz{
			ModuleID:    catalog.Spock,
			Title:       "Spock boot quiz",
			SubmitLabel: "Activate Spock",
			Questions: []Question{
				single("q1", "What is Spock's main responsibility?",
					"Run retrieval and ranking stages for answers",
					"*Centralize config by merging env, files, and defaults",
					"Store embeddings and vectors for search"),
				single("q2", "Why does rag2f namespace configuration per plugin?",
					"To speed up embedding by shortening config lookups",
					"To force a fixed pipeline for every plugin",
					"*To isolate plugin settings and avoid collisions"),
				single("q3", "Why is configuration instance-scoped?",
					"To prevent plugins from sharing any state",
					"To keep env vars global across processes",
					"*To allow separate configs per instance (tests, tenants, apps)"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.Morpheus,
			Title:       "Morpheus discovery quiz",
			SubmitLabel: "Activate Morpheus",
			Questions: []Question{
				single("q1", "What does Morpheus manage?",
					"Run vector similarity queries over embeddings",
					"Tokenize text and assemble prompts",
					"*Discover, load, and orchestrate plugins and hooks"),
				single("q2", "Why are entry-point plugins resolved before filesystem plugins?",
					"Entry points load faster at runtime",
					"*Deterministic resolution that avoids ambiguous duplicates",
					"Filesystem plugins cannot define hooks"),
				single("q3", "What is a hook in rag2f?",
					"A database trigger that runs on writes",
					"*An extension point where plugins can alter behavior",
					"A mandatory pipeline step enforced by core"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.Johnny5,
			Title:       "Johnny5 hook routing",
			SubmitLabel: "Activate Johnny5",
			Questions: []Question{
				single("q1", "What is Johnny5 responsible for?",
					"Selecting repositories for storage and search",
					"*Accepting input and routing it through hooks/pipelines",
					"Registering embedders into OptimusPrime"),
				single("q2", "Why does Johnny5 rely on hooks?",
					"To encrypt inputs before storage",
					"To enforce a single global input format",
					"*To let apps define handling without changing core"),
				single("q3", "Why use a track ID for input?",
					"To compress payloads for transport",
					"*To enable traceability, idempotency, and duplicate detection",
					"To select which embedder to use"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.Optimus,
			Title:       "OptimusPrime registry policy",
			SubmitLabel: "Activate OptimusPrime",
			Questions: []Question{
				single("q1", "What does OptimusPrime manage?",
					"Curate prompt templates for generation",
					"*Registry of embedders keyed by name or ID",
					"Store repositories and their metadata"),
				single("q2", "Why use an embedder registry?",
					"To force a single embedding model everywhere",
					"To guarantee deterministic vectors across vendors",
					"*To decouple embedder choice from vendor implementation"),
				single("q3", "What does \"default embedder\" mean?",
					"The newest embedder in the registry",
					"*The configured preferred embedder (or the only one)",
					"Always OpenAI regardless of config"),
			},
		},
		ModuleQuiz{
			ModuleID:    catalog.XFiles,
			Title:       "Register a repository",
			SubmitLabel: "Activate XFiles",
			Questions: []Question{
				single("q1", "What does XFiles manage?",
					"Only filesystem storage for documents",
					"*Discover and look up repositories and capabilities",
					"Cache prompts and responses for reuse"),
				single("q2", "What are repository \"capabilities\"?",
					"Maximum storage size limits for the backend",
					"Embedding vector dimension for stored data",
					"*Declared supported ops (vector search, graph traversal, etc.)"),
				single("q3", "Why keep repositories in plugins instead of core?",
					"Hooks require plugins to exist at all",
					"*Backends change fast; plugins keep core stable",
					"Core cannot import any database drivers"),
			},
		},
	)
	b.Lessons = true
	return b
}

// single builds a single-select question. Options are labelled a, b, c...
// in authoring order; a leading '*' marks the correct one.
func single(id, prompt string, labels ...string) Question {
	return Question{ID: id, Prompt: prompt, Kind: KindSingle, Options: options(labels)}
}

// multi builds a multi-select question with the same option notation as
// single.
func multi(id, prompt string, labels ...string) Question {
	return Question{ID: id, Prompt: prompt, Kind: KindMulti, Options: options(labels)}
}

func options(labels []string) []Option {
	opts := make([]Option, len(labels))
	for i, label := range labels {
		correct := len(label) > 0 && label[0] == '*'
		if correct {
			label = label[1:]
		}
		opts[i] = Option{ID: string(rune('a' + i)), Label: label, Correct: correct}
	}
	return opts
}
