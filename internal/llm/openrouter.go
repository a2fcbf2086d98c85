package llm

import (
	"fmt"
	"net/http"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterAttribution identifies the app on OpenRouter's usage pages.
var openRouterAttribution = http.Header{
	"Http-Referer": {"https://github.com/abhisek/bootseq"},
	"X-Title":      {"bootseq"},
}

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Model IDs
// are vendor-prefixed (e.g. "anthropic/claude-3-haiku") and sent verbatim.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}

	inner, err := newOpenAICompatible(OpenAIConfig(cfg), nil, openRouterAttribution)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// headerTransport adds fixed headers to each request it forwards.
type headerTransport struct {
	base  http.RoundTripper
	extra http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, vs := range t.extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
