package prompts

import (
	_ "embed"
	"strings"

	"github.com/sant0-9/promptpilot/internal/intent"
)

//go:embed preamble.md
var preamble string

// Preamble is the fixed persona text every system prompt starts with
var Preamble = strings.TrimSpace(preamble)

// Delimiter separates user content from instructions in the user message
const Delimiter = `"""`

const customConstraints = "Follow the instruction above precisely. Do NOT converse or add commentary."

// BuildSystemPrompt constructs the system prompt for an intent and structure.
// A non-empty customInstruction replaces the intent's action and constraints.
func BuildSystemPrompt(in intent.Intent, structure intent.Structure, customInstruction string) string {
	var action, constraints string

	if custom := strings.TrimSpace(customInstruction); custom != "" {
		action = custom
		constraints = customConstraints
	} else {
		c := intentClauses[in]
		action = c.action
		constraints = c.constraints
	}

	format := structureClauses[structure]

	var b strings.Builder
	b.WriteString(Preamble)
	b.WriteString("\n\n")
	b.WriteString(action)
	b.WriteString("\n")
	b.WriteString(constraints)
	b.WriteString("\n")
	b.WriteString(format)
	return b.String()
}

// WrapUserContent wraps text in delimiters before it is sent as the user message
func WrapUserContent(text string) string {
	return Delimiter + "\n" + text + "\n" + Delimiter
}

// StripDelimiters removes a leading and trailing delimiter echoed by the model
func StripDelimiters(text string) string {
	text = strings.TrimPrefix(text, Delimiter)
	text = strings.TrimSuffix(text, Delimiter)
	return strings.TrimSpace(text)
}

// ActionClause returns the action text for an intent, empty if unmapped
func ActionClause(in intent.Intent) string {
	return intentClauses[in].action
}

// FormatClause returns the format text for a structure, empty if unmapped
func FormatClause(s intent.Structure) string {
	return structureClauses[s]
}
