package llm

import "github.com/sant0-9/promptpilot/internal/config"

// CompatibleProvider is the OpenAI wire protocol under another name and
// base URL
type CompatibleProvider struct {
	*OpenAIProvider
	name string
}

func (c *CompatibleProvider) Name() string {
	return c.name
}

func newCompatible(info config.ProviderInfo, apiKey, model string) *CompatibleProvider {
	if model == "" {
		model = info.DefaultModel
	}
	return &CompatibleProvider{
		OpenAIProvider: newOpenAICompatible(apiKey, model, info.BaseURL),
		name:           info.ID,
	}
}

// NewCustomProvider talks to any OpenAI-compatible endpoint, such as a
// local server. The key is optional.
func NewCustomProvider(baseURL, apiKey, model string) *CompatibleProvider {
	return newCompatible(config.ProviderInfo{ID: "custom", BaseURL: baseURL}, apiKey, model)
}
