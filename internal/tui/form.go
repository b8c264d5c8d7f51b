package tui

import (
	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/intent"
)

type tab int

const (
	tabRefinement tab = iota
	tabAdvanced
)

func (t tab) String() string {
	if t == tabAdvanced {
		return "Advanced (Pro)"
	}
	return "Refinement"
}

const (
	focusIntent = iota
	focusStructure
)

// form is the overlay's intent and structure picker
type form struct {
	tab       tab
	focus     int
	intents   [2][]intent.Option
	structs   [2][]intent.Option
	intentIdx int
	structIdx int
	custom    []intent.CustomIntent
}

func newForm(custom []intent.CustomIntent) form {
	var refinement []intent.Option
	for _, o := range intent.IntentOptions(custom) {
		if !o.Pro {
			refinement = append(refinement, o)
		}
	}

	f := form{
		intents: [2][]intent.Option{refinement, intent.ProIntents()},
		structs: [2][]intent.Option{intent.FreeStructures(), intent.ProStructures()},
		custom:  custom,
	}
	f.setTab(tabRefinement)
	return f
}

// setTab switches section and resets the selection to its defaults
func (f *form) setTab(t tab) {
	f.tab = t
	in, st := intent.RefinementDefaults()
	if t == tabAdvanced {
		in, st = intent.AdvancedDefaults()
	}
	f.intentIdx = indexOf(f.intents[t], string(in))
	f.structIdx = indexOf(f.structs[t], string(st))
}

func (f *form) toggleFocus() {
	if f.focus == focusIntent {
		f.focus = focusStructure
	} else {
		f.focus = focusIntent
	}
}

func (f *form) move(delta int) {
	if f.focus == focusIntent {
		f.intentIdx = clamp(f.intentIdx+delta, len(f.intents[f.tab]))
	} else {
		f.structIdx = clamp(f.structIdx+delta, len(f.structs[f.tab]))
	}
}

// selection returns the chosen intent and structure, plus the instruction
// when the intent is a custom one
func (f form) selection() (intent.Intent, intent.Structure, string) {
	in := f.intents[f.tab][f.intentIdx].Value
	st := intent.Structure(f.structs[f.tab][f.structIdx].Value)
	if c, ok := intent.FindCustom(f.custom, in); ok {
		return intent.Intent(c.ID), st, c.Instruction
	}
	return intent.Intent(in), st, ""
}

// locked reports whether the selection needs a plan the user lacks
func (f form) locked(plan entitlement.Plan) bool {
	if plan.CanUsePro {
		return false
	}
	in, st, _ := f.selection()
	return intent.IsProFeature(string(in)) || intent.IsProFeature(string(st))
}

func indexOf(opts []intent.Option, value string) int {
	for i, o := range opts {
		if o.Value == value {
			return i
		}
	}
	return 0
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
