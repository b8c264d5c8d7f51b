package llm

import (
	"fmt"

	"github.com/sant0-9/promptpilot/internal/config"
)

// NewProvider builds the configured provider for a key and model. An empty
// model selects the provider default.
func NewProvider(cfg *config.Config, apiKey, model string) (Provider, error) {
	id := cfg.Provider
	switch id {
	case "", "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai requires an API key")
		}
		p := NewOpenAIProvider(apiKey, model)
		if cfg.BaseURL != "" {
			p.baseURL = trimBase(cfg.BaseURL)
		}
		return p, nil

	case "custom":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("custom provider requires base_url")
		}
		return NewCustomProvider(cfg.BaseURL, apiKey, model), nil
	}

	info := config.GetProvider(id)
	if info == nil {
		return nil, fmt.Errorf("unknown provider: %s", id)
	}
	if info.NeedsAPIKey && apiKey == "" {
		return nil, fmt.Errorf("%s requires an API key", id)
	}
	return newCompatible(*info, apiKey, model), nil
}
