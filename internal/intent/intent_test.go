package intent

import (
	"testing"
)

func TestIsProFeature(t *testing.T) {
	for _, o := range ProIntents() {
		if !IsProFeature(o.Value) {
			t.Errorf("IsProFeature(%q) = false, want true", o.Value)
		}
	}
	for _, o := range ProStructures() {
		if !IsProFeature(o.Value) {
			t.Errorf("IsProFeature(%q) = false, want true", o.Value)
		}
	}
	for _, o := range FreeIntents() {
		if IsProFeature(o.Value) {
			t.Errorf("IsProFeature(%q) = true, want false", o.Value)
		}
	}
	for _, o := range FreeStructures() {
		if IsProFeature(o.Value) {
			t.Errorf("IsProFeature(%q) = true, want false", o.Value)
		}
	}
}

func TestCustomIntentsAreNeverPro(t *testing.T) {
	c, err := NewCustom("Pirate", "Rewrite like a pirate")
	if err != nil {
		t.Fatalf("NewCustom() error = %v", err)
	}
	if IsProFeature(c.ID) {
		t.Errorf("IsProFeature(custom) = true, want false")
	}
	if GroupOf(c.ID) != GroupCustom {
		t.Errorf("GroupOf(custom) = %v, want %v", GroupOf(c.ID), GroupCustom)
	}

	opts := IntentOptions([]CustomIntent{c})
	var found *Option
	for i := range opts {
		if opts[i].Value == c.ID {
			found = &opts[i]
		}
	}
	if found == nil {
		t.Fatalf("IntentOptions() missing custom intent %q", c.ID)
	}
	if found.Pro {
		t.Errorf("custom option marked pro")
	}
}

func TestIntentOptionsOrder(t *testing.T) {
	c := CustomIntent{ID: "custom_1", Label: "Mine", Instruction: "x"}
	opts := IntentOptions([]CustomIntent{c})

	free := len(FreeIntents())
	if got := opts[free].Value; got != c.ID {
		t.Errorf("option after free intents = %q, want %q", got, c.ID)
	}
	if got, want := len(opts), free+1+len(ProIntents()); got != want {
		t.Errorf("len(IntentOptions()) = %d, want %d", got, want)
	}
}

func TestNewCustomUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c, err := NewCustom("label", "instruction")
		if err != nil {
			t.Fatalf("NewCustom() error = %v", err)
		}
		if seen[c.ID] {
			t.Fatalf("duplicate id %q", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestNewCustomValidation(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		instruction string
	}{
		{"missing label", "  ", "do it"},
		{"missing instruction", "Label", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCustom(tt.label, tt.instruction); err == nil {
				t.Errorf("NewCustom(%q, %q) expected error", tt.label, tt.instruction)
			}
		})
	}
}

func TestRemoveCustom(t *testing.T) {
	list := []CustomIntent{{ID: "custom_a"}, {ID: "custom_b"}}

	out, ok := RemoveCustom(list, "custom_a")
	if !ok || len(out) != 1 || out[0].ID != "custom_b" {
		t.Errorf("RemoveCustom() = %v, %v", out, ok)
	}
	if len(list) != 2 {
		t.Errorf("RemoveCustom() mutated input")
	}
	if _, ok := RemoveCustom(list, "custom_z"); ok {
		t.Errorf("RemoveCustom(unknown) reported found")
	}
}

func TestStaticListsAreCopies(t *testing.T) {
	a := FreeIntents()
	a[0].Label = "changed"
	if FreeIntents()[0].Label == "changed" {
		t.Errorf("FreeIntents() exposes the static list")
	}
}

func TestGroupOf(t *testing.T) {
	tests := []struct {
		value string
		want  Group
	}{
		{"general_polish", GroupRefinement},
		{"cot", GroupPromptEngineering},
		{"screenplay", GroupDomain},
		{"custom_123", GroupCustom},
	}
	for _, tt := range tests {
		if got := GroupOf(tt.value); got != tt.want {
			t.Errorf("GroupOf(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
