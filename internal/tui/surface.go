package tui

import (
	"github.com/charmbracelet/bubbles/textarea"

	"github.com/sant0-9/promptpilot/internal/trigger"
)

const (
	fieldWidth  = 70
	fieldHeight = 5

	// rows above the first field: title and hint
	composeHeader = 4
)

// field is an editable text area watched for the trigger phrase
type field struct {
	index int
	area  textarea.Model
}

func newField(index int, placeholder string) *field {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(fieldWidth)
	ta.SetHeight(fieldHeight)
	return &field{index: index, area: ta}
}

func (f *field) Text() string {
	return f.area.Value()
}

func (f *field) SetText(text string) {
	f.area.SetValue(text)
}

func (f *field) Focus() {
	f.area.Focus()
}

func (f *field) Bounds() trigger.Rect {
	// each field renders inside a bordered box, two rows taller than the area
	return trigger.Rect{
		X:      0,
		Y:      composeHeader + f.index*(fieldHeight+2),
		Width:  fieldWidth + 2,
		Height: fieldHeight + 2,
	}
}

// marker implements the trigger affordance for the compose view
type marker struct {
	on *field
	at trigger.Rect
}

func (m *marker) Show(s trigger.Surface, at trigger.Rect) {
	f, _ := s.(*field)
	m.on = f
	m.at = at
}

func (m *marker) Hide() {
	m.on = nil
}
