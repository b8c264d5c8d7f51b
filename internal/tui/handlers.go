package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sant0-9/promptpilot/internal/config"
)

func (a *App) handleSetupKey(msg tea.KeyMsg) tea.Cmd {
	switch a.state.setupStep {
	case 0: // Provider selection
		switch {
		case key.Matches(msg, keys.Back):
			a.view = viewCompose
		case key.Matches(msg, keys.Up):
			if a.state.selectedProvider > 0 {
				a.state.selectedProvider--
			}
		case key.Matches(msg, keys.Down):
			if a.state.selectedProvider < len(config.Providers)-1 {
				a.state.selectedProvider++
			}
		case key.Matches(msg, keys.Enter):
			provider := config.Providers[a.state.selectedProvider]
			a.state.config.Provider = provider.ID

			if provider.NeedsAPIKey {
				a.state.setupStep = 1
				a.state.apiKeyInput.Focus()
				return textinput.Blink
			}
			return a.finishSetup("", "")
		}

	case 1: // API key entry
		switch {
		case key.Matches(msg, keys.Back):
			a.state.setupStep = 0
			a.state.apiKeyInput.Reset()
			return nil
		case key.Matches(msg, keys.Enter):
			provider := config.GetProvider(a.state.config.Provider)
			model := ""
			if provider != nil {
				model = provider.DefaultModel
			}
			return a.finishSetup(a.state.apiKeyInput.Value(), model)
		}
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		return cmd
	}

	return nil
}

func (a *App) finishSetup(apiKey, model string) tea.Cmd {
	cfg, settings := a.state.config, a.opts.Settings
	a.state.apiKeyInput.Reset()
	return func() tea.Msg {
		ctx := context.Background()
		if err := cfg.Save(); err != nil {
			return errMsg{err}
		}
		if strings.TrimSpace(apiKey) != "" {
			if err := settings.SetAPIKey(ctx, apiKey); err != nil {
				return errMsg{err}
			}
		}
		if model != "" {
			if err := settings.SetModel(ctx, model); err != nil {
				return errMsg{err}
			}
		}
		return setupCompleteMsg{}
	}
}

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	switch a.state.settingsMode {
	case "model":
		provider := config.GetProvider(a.state.config.Provider)
		var models []string
		if provider != nil {
			models = provider.Models
		}
		switch {
		case key.Matches(msg, keys.Back):
			a.state.settingsMode = ""
		case key.Matches(msg, keys.Up):
			if a.state.settingsSelected > 0 {
				a.state.settingsSelected--
			}
		case key.Matches(msg, keys.Down):
			if a.state.settingsSelected < len(models)-1 {
				a.state.settingsSelected++
			}
		case key.Matches(msg, keys.Enter):
			if len(models) == 0 {
				return nil
			}
			a.state.settingsMode = ""
			return a.saveModel(models[a.state.settingsSelected])
		}
		return nil

	case "apikey":
		switch {
		case key.Matches(msg, keys.Back):
			a.state.settingsMode = ""
			a.state.apiKeyInput.Reset()
			return nil
		case key.Matches(msg, keys.Enter):
			value := a.state.apiKeyInput.Value()
			a.state.apiKeyInput.Reset()
			a.state.settingsMode = ""
			return a.saveAPIKey(value)
		}
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "esc":
		a.view = viewCompose
	case "m":
		a.state.settingsMode = "model"
		a.state.settingsSelected = 0
	case "k":
		a.state.settingsMode = "apikey"
		a.state.apiKeyInput.Focus()
		return textinput.Blink
	case "i":
		a.view = viewIntents
		a.state.intentSelected = 0
		a.state.adding = false
	case "t":
		a.state.pinging = true
		a.state.pingErr = nil
		a.state.pingOK = false
		return a.testProvider()
	case "p":
		a.view = viewSetup
		a.state.setupStep = 0
	}
	return nil
}

func (a *App) saveModel(model string) tea.Cmd {
	settings := a.opts.Settings
	return tea.Sequence(func() tea.Msg {
		if err := settings.SetModel(context.Background(), model); err != nil {
			return errMsg{err}
		}
		return statusMsg("Model set to " + model)
	}, a.loadSettings())
}

func (a *App) saveAPIKey(value string) tea.Cmd {
	settings := a.opts.Settings
	return tea.Sequence(func() tea.Msg {
		if err := settings.SetAPIKey(context.Background(), value); err != nil {
			return errMsg{err}
		}
		return statusMsg("API key saved")
	}, a.loadSettings())
}

// testProvider checks the key against the provider's model list
func (a *App) testProvider() tea.Cmd {
	key := a.opts.APIKey
	if key == "" {
		key = a.state.apiKey
	}
	model, connect := a.state.model, a.opts.Connect
	return func() tea.Msg {
		provider, err := connect(key, model)
		if err != nil {
			return pingMsg{err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return pingMsg{provider.Ping(ctx)}
	}
}

func (a *App) handleIntentsKey(msg tea.KeyMsg) tea.Cmd {
	if a.state.adding {
		switch {
		case key.Matches(msg, keys.Back):
			a.state.adding = false
			a.state.intentErr = nil
			return nil
		case key.Matches(msg, keys.Tab):
			a.toggleAddFocus()
			return textinput.Blink
		case key.Matches(msg, keys.Enter):
			if a.state.addFocus == 0 {
				a.toggleAddFocus()
				return textinput.Blink
			}
			return a.addCustomIntent()
		}

		var cmd tea.Cmd
		if a.state.addFocus == 0 {
			a.state.labelInput, cmd = a.state.labelInput.Update(msg)
		} else {
			a.state.instructionInput, cmd = a.state.instructionInput.Update(msg)
		}
		return cmd
	}

	switch {
	case key.Matches(msg, keys.Back):
		a.view = viewSettings
	case key.Matches(msg, keys.Up):
		if a.state.intentSelected > 0 {
			a.state.intentSelected--
		}
	case key.Matches(msg, keys.Down):
		if a.state.intentSelected < len(a.state.custom)-1 {
			a.state.intentSelected++
		}
	case msg.String() == "a":
		a.state.adding = true
		a.state.addFocus = 0
		a.state.intentErr = nil
		a.state.labelInput.Reset()
		a.state.instructionInput.Reset()
		a.state.labelInput.Focus()
		a.state.instructionInput.Blur()
		return textinput.Blink
	case msg.String() == "d":
		if len(a.state.custom) == 0 {
			return nil
		}
		id := a.state.custom[a.state.intentSelected].ID
		if a.state.intentSelected > 0 {
			a.state.intentSelected--
		}
		return a.deleteCustomIntent(id)
	}
	return nil
}

func (a *App) toggleAddFocus() {
	if a.state.addFocus == 0 {
		a.state.addFocus = 1
		a.state.labelInput.Blur()
		a.state.instructionInput.Focus()
	} else {
		a.state.addFocus = 0
		a.state.instructionInput.Blur()
		a.state.labelInput.Focus()
	}
}

type intentSavedMsg struct{ err error }

func (a *App) addCustomIntent() tea.Cmd {
	settings := a.opts.Settings
	label, instruction := a.state.labelInput.Value(), a.state.instructionInput.Value()
	return func() tea.Msg {
		_, err := settings.AddCustomIntent(context.Background(), label, instruction)
		return intentSavedMsg{err}
	}
}

func (a *App) deleteCustomIntent(id string) tea.Cmd {
	settings := a.opts.Settings
	return func() tea.Msg {
		return intentSavedMsg{settings.DeleteCustomIntent(context.Background(), id)}
	}
}
