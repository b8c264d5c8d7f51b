package tui

import "strings"

// estimateTokens returns approximate token count (~4 chars per token)
func estimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// contextLimit returns the context window of the chosen model
func contextLimit(model string) int {
	model = strings.ToLower(model)

	switch {
	case strings.Contains(model, "gpt-4.1"):
		return 1000000
	case strings.Contains(model, "gpt-4o"), strings.Contains(model, "gpt-4-turbo"):
		return 128000
	case strings.Contains(model, "claude"):
		return 200000
	case strings.Contains(model, "llama-3"), strings.Contains(model, "llama3"):
		return 128000
	}

	return 8000
}
