package catalog

import "sync"

// Module IDs of the built-in RAG2F catalog.
const (
	Spock    = "spock"
	Morpheus = "morpheus"
	Johnny5  = "johnny5"
	Optimus  = "optimus"
	XFiles   = "xfiles"
)

// Default returns the built-in RAG2F catalog. It panics if the built-in
// module set fails validation, which only a broken build can cause.
func Default() *Catalog {
	return defaultCatalog()
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := New(seedModules())
	if err != nil {
		panic(err)
	}
	return c
})

func seedModules() []Module {
	return []Module{
		{
			ID:          Spock,
			Title:       "Spock",
			Role:        "Configuration manager for core + plugins.",
			Description: "Loads JSON + ENV config with a default shape and deterministic overrides.",
			Path:        "src/rag2f/core/spock/spock.py",
			Snippet: `ENV_PREFIX = "RAG2F"
ENV_SEPARATOR = "__"

@staticmethod
def default_config() -> dict[str, Any]:
    return {"rag2f": {}, "plugins": {}}`,
			Recap: `Spock loads {"rag2f": {}, "plugins": {}} and honors RAG2F__ env overrides.`,
			Lesson: "Spock centralizes configuration.\n" +
				"Plugins get isolated settings.\n" +
				"Each RAG2F instance is independent.",
		},
		{
			ID:          Morpheus,
			Title:       "Morpheus",
			Role:        "Plugin and hook manager.",
			Description: "Discovers plugins from entry points and filesystem, then prioritizes entry points.",
			Path:        "src/rag2f/core/morpheus/morpheus.py",
			Snippet: `try:
    discovered = entry_points(group="rag2f.plugins")
except TypeError:
    discovered = entry_points().get("rag2f.plugins", [])

# Entry points take precedence over filesystem plugins.`,
			Recap: "Morpheus discovers entry points (rag2f.plugins) and filesystem plugins.",
			Lesson: "Morpheus discovers and loads plugins.\n" +
				"Hooks let plugins extend behavior.\n" +
				"Resolution stays deterministic.",
			Prerequisites: []string{Spock},
		},
		{
			ID:          Johnny5,
			Title:       "Johnny5",
			Role:        "Input manager for foreground text.",
			Description: "Pipes inputs through Morpheus hooks and generates UUIDs when needed.",
			Path:        "src/rag2f/core/johnny5/johnny5.py",
			Snippet: `id = self.rag2f.morpheus.execute_hook(
    "get_id_input_text", id, text, rag2f=self.rag2f
)
if id is None:
    id = uuid.uuid4().hex

done = self.rag2f.morpheus.execute_hook(
    "handle_text_foreground", done, id, text, rag2f=self.rag2f
)`,
			Recap: "Johnny5 routes text via get_id_input_text → check_duplicated_input_text → handle_text_foreground.",
			Lesson: "Johnny5 accepts input and routes it.\n" +
				"Hooks define app-specific handling.\n" +
				"Track IDs enable traceability.",
			Prerequisites: []string{Morpheus},
		},
		{
			ID:          Optimus,
			Title:       "OptimusPrime",
			Role:        "Embedder registry.",
			Description: "Validates Embedder protocol compliance and blocks unsafe overrides.",
			Path:        "src/rag2f/core/optimus_prime/optimus_prime.py",
			Snippet: `if key in self._embedder_registry:
    if self._embedder_registry[key] is embedder:
        logger.warning(
            "Embedder '%s' already registered with the same instance; ...",
            key,
        )
        return
    raise ValueError(f"Override not allowed for already registered embedder: {key!r}")`,
			Recap: "OptimusPrime blocks unsafe overrides but allows idempotent re-registers.",
			Lesson: "OptimusPrime catalogs embedders.\n" +
				"Selection stays vendor-agnostic.\n" +
				"Defaults come from configuration.",
			Prerequisites: []string{Morpheus},
		},
		{
			ID:          XFiles,
			Title:       "XFiles",
			Role:        "Repository registry.",
			Description: "Stores repository IDs with metadata. The truth is out there.",
			Path:        "src/rag2f/core/xfiles/xfiles.py",
			Snippet: `@dataclass(slots=True)
class RepositoryEntry:
    id: str
    repository: BaseRepository
    meta: dict[str, Any] = field(default_factory=dict)

# "The truth is out there."`,
			Recap: "XFiles stores repository IDs with metadata. The truth is out there.",
			Lesson: "XFiles tracks repositories and capabilities.\n" +
				"Plugins keep storage flexible.\n" +
				"Core stays stable as backends evolve.",
			Prerequisites: []string{Optimus, Johnny5},
		},
	}
}
