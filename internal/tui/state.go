package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/sant0-9/promptpilot/internal/config"
	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/improve"
	"github.com/sant0-9/promptpilot/internal/intent"
	"github.com/sant0-9/promptpilot/internal/trigger"
)

type state struct {
	config *config.Config
	loaded bool

	// Compose
	fields  []*field
	focused int
	marker  *marker
	status  string

	// Overlay
	request trigger.OpenRequest
	form    form
	result  improve.State
	runID   int
	session *improve.Session
	spin    spinner.Model

	// Stored settings
	apiKey string
	model  string
	custom []intent.CustomIntent
	plan   entitlement.Plan
	usage  entitlement.Report

	// Settings view
	settingsMode     string
	settingsSelected int
	apiKeyInput      textinput.Model
	pingErr          error
	pinging          bool
	pingOK           bool

	// Custom intents view
	intentSelected   int
	adding           bool
	addFocus         int
	labelInput       textinput.Model
	instructionInput textinput.Model
	intentErr        error

	// Setup wizard
	setupStep        int
	selectedProvider int
}

func newState(cfg *config.Config) *state {
	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API key here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	label := textinput.New()
	label.Placeholder = "Label, e.g. Pirate speak"
	label.CharLimit = 60
	label.Width = 50

	instruction := textinput.New()
	instruction.Placeholder = "Instruction, e.g. Rewrite the text like a pirate"
	instruction.CharLimit = 500
	instruction.Width = 50

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styleSelected

	first := newField(0, "Type here. Write "+cfg.Trigger+" before the text you want improved.")
	first.Focus()

	return &state{
		config:           cfg,
		fields:           []*field{first},
		marker:           &marker{},
		spin:             spin,
		plan:             entitlement.FreePlan,
		apiKeyInput:      apiKey,
		labelInput:       label,
		instructionInput: instruction,
	}
}

func (s *state) focusedField() *field {
	return s.fields[s.focused]
}
