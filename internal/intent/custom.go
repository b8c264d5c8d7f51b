package intent

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const customPrefix = "custom_"

// CustomIntent is a user-authored instruction added at runtime
type CustomIntent struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Instruction string `json:"instruction"`
}

// NewCustom creates a custom intent with a time-ordered unique id
func NewCustom(label, instruction string) (CustomIntent, error) {
	label = strings.TrimSpace(label)
	instruction = strings.TrimSpace(instruction)
	if label == "" {
		return CustomIntent{}, fmt.Errorf("custom intent label is required")
	}
	if instruction == "" {
		return CustomIntent{}, fmt.Errorf("custom intent instruction is required")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return CustomIntent{}, fmt.Errorf("generate custom intent id: %w", err)
	}

	return CustomIntent{
		ID:          customPrefix + id.String(),
		Label:       label,
		Instruction: instruction,
	}, nil
}

// IsCustomID reports whether value identifies a custom intent
func IsCustomID(value string) bool {
	return strings.HasPrefix(value, customPrefix)
}

// IntentOptions returns the selection list: free intents, then custom
// intents, then pro intents
func IntentOptions(custom []CustomIntent) []Option {
	out := FreeIntents()
	for _, c := range custom {
		out = append(out, Option{Value: c.ID, Label: c.Label})
	}
	return append(out, ProIntents()...)
}

// FindCustom looks up a custom intent by id
func FindCustom(custom []CustomIntent, id string) (CustomIntent, bool) {
	for _, c := range custom {
		if c.ID == id {
			return c, true
		}
	}
	return CustomIntent{}, false
}

// RemoveCustom returns a new list without the given id
func RemoveCustom(custom []CustomIntent, id string) ([]CustomIntent, bool) {
	out := make([]CustomIntent, 0, len(custom))
	found := false
	for _, c := range custom {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	return out, found
}
