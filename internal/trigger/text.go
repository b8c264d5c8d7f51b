package trigger

import "strings"

// DefaultPhrase marks the start of the text to improve
const DefaultPhrase = "improve:"

// Extract returns the trimmed text after the last occurrence of phrase.
// ok is false when the phrase does not occur.
func Extract(text, phrase string) (string, bool) {
	if phrase == "" {
		return strings.TrimSpace(text), false
	}
	idx := strings.LastIndex(text, phrase)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(text[idx+len(phrase):]), true
}

// Reconstruct replaces the last occurrence of phrase and everything after
// it with result. Without the phrase the whole text is replaced.
func Reconstruct(text, phrase, result string) string {
	if phrase == "" {
		return result
	}
	idx := strings.LastIndex(text, phrase)
	if idx < 0 {
		return result
	}
	return text[:idx] + result
}

// Contains reports whether text holds the trigger phrase
func Contains(text, phrase string) bool {
	return phrase != "" && strings.Contains(text, phrase)
}
