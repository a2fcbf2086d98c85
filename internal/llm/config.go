package llm

import (
	"fmt"
	"os"
	"time"
)

// ProviderOff disables the coach; callers fall back to static hints.
const ProviderOff = "off"

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock", "off"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries. Default: 20s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Used by tests and proxies.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the coach switched off and sensible
// defaults for every provider.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderOff,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// env maps BOOTSEQ_* variables onto config fields.
var env = []struct {
	name string
	set  func(*Config, string)
}{
	{"BOOTSEQ_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},
	{"BOOTSEQ_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"BOOTSEQ_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},
	{"BOOTSEQ_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"BOOTSEQ_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"BOOTSEQ_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},
	{"BOOTSEQ_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"BOOTSEQ_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},
	{"BOOTSEQ_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"BOOTSEQ_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},
	{"BOOTSEQ_LLM_TIMEOUT", func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}},
}

// ConfigFromEnv builds a Config from BOOTSEQ_* environment variables. When
// BOOTSEQ_LLM_PROVIDER is unset it falls back to DiscoverConfig, and to a
// disabled coach when no key is found either.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if os.Getenv("BOOTSEQ_LLM_PROVIDER") == "" {
		if discovered, ok := DiscoverConfig(); ok {
			cfg = discovered
		}
	}
	for _, e := range env {
		if v := os.Getenv(e.name); v != "" {
			e.set(&cfg, v)
		}
	}
	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Anthropic → OpenAI → Gemini → OpenRouter) and returns a Config for the
// first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	switch {
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Enabled reports whether a provider is selected at all.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderOff
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	missing := func(v string) error {
		return fmt.Errorf("%s is required for the %s provider", v, c.Provider)
	}
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return missing("BOOTSEQ_ANTHROPIC_API_KEY")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return missing("BOOTSEQ_OPENAI_API_KEY")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return missing("BOOTSEQ_GEMINI_API_KEY")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return missing("BOOTSEQ_OPENROUTER_API_KEY")
		}
	case "mock", "", ProviderOff:
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
