package config

// ProviderInfo describes a selectable chat backend. Every provider speaks
// the OpenAI chat completions protocol; only the base URL and key differ.
type ProviderInfo struct {
	ID           string
	Name         string
	Description  string
	BaseURL      string // empty for custom, which reads base_url from the config
	NeedsAPIKey  bool
	SignupURL    string
	Models       []string
	DefaultModel string
}

var Providers = []ProviderInfo{
	{
		ID:           "openai",
		Name:         "OpenAI",
		Description:  "GPT-4o family",
		BaseURL:      "https://api.openai.com/v1",
		NeedsAPIKey:  true,
		SignupURL:    "https://platform.openai.com/api-keys",
		Models:       []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini", "gpt-4.1"},
		DefaultModel: "gpt-4o-mini",
	},
	{
		ID:           "openrouter",
		Name:         "OpenRouter",
		Description:  "One key, many vendors",
		BaseURL:      "https://openrouter.ai/api/v1",
		NeedsAPIKey:  true,
		SignupURL:    "https://openrouter.ai/keys",
		Models:       []string{"openai/gpt-4o-mini", "anthropic/claude-3.5-sonnet", "meta-llama/llama-3.1-70b-instruct"},
		DefaultModel: "openai/gpt-4o-mini",
	},
	{
		ID:           "groq",
		Name:         "Groq",
		Description:  "Low latency Llama models",
		BaseURL:      "https://api.groq.com/openai/v1",
		NeedsAPIKey:  true,
		SignupURL:    "https://console.groq.com/keys",
		Models:       []string{"llama-3.1-8b-instant", "llama-3.3-70b-versatile"},
		DefaultModel: "llama-3.1-8b-instant",
	},
	{
		ID:          "custom",
		Name:        "Custom",
		Description: "Local server or any compatible endpoint",
	},
}

// GetProvider returns a copy of the registry entry, nil when unknown
func GetProvider(id string) *ProviderInfo {
	for _, p := range Providers {
		if p.ID == id {
			return &p
		}
	}
	return nil
}
