package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/promptpilot/internal/config"
	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/improve"
	"github.com/sant0-9/promptpilot/internal/llm"
	"github.com/sant0-9/promptpilot/internal/store"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	settings := store.NewSettings(store.NewMemory())
	a := NewApp(Options{
		Config:   config.DefaultConfig(),
		Settings: settings,
		Gate:     entitlement.NewGate(settings),
		Log:      zerolog.Nop(),
		Connect: func(string, string) (llm.Provider, error) {
			return nil, errors.New("offline")
		},
		Domain: "test",
	})
	t.Cleanup(a.Shutdown)
	a.width, a.height = 120, 40
	return a
}

func typeText(a *App, text string) {
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestAppTriggerOpensOverlay(t *testing.T) {
	a := newTestApp(t)

	typeText(a, "draft improve: fix this")
	require.NotNil(t, a.state.marker.on, "marker follows the field holding the phrase")
	assert.Contains(t, a.View(), "⚡")

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, viewOverlay, a.view)
	assert.Equal(t, "fix this", a.state.request.Text)
	assert.Equal(t, "test", a.state.request.Domain)
	assert.Contains(t, a.View(), "fix this")

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewCompose, a.view)
	assert.False(t, a.ctrl.Open())
	assert.Nil(t, a.state.marker.on)
}

func TestAppActivateWithoutPhrase(t *testing.T) {
	a := newTestApp(t)

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, viewCompose, a.view)
	assert.Contains(t, a.state.status, "improve:")

	typeText(a, "  whole text  ")
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.Equal(t, viewOverlay, a.view)
	assert.Equal(t, "whole text", a.state.request.Text)
}

func TestAppReplace(t *testing.T) {
	a := newTestApp(t)
	typeText(a, "Dear team, improve: pls fix")
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.Equal(t, viewOverlay, a.view)

	// replace is ignored until a result exists
	typeText(a, "r")
	assert.Equal(t, viewOverlay, a.view)

	a.state.result = improve.State{Phase: improve.Done, ResultText: "Please fix this."}
	typeText(a, "r")
	assert.Equal(t, viewCompose, a.view)
	assert.Equal(t, "Dear team, Please fix this.", a.state.fields[0].Text())
	assert.Nil(t, a.state.marker.on, "phrase is gone after replacing")
}

func TestAppLockedSelection(t *testing.T) {
	a := newTestApp(t)
	typeText(a, "improve: hello")
	a.Update(tea.KeyMsg{Type: tea.KeyCtrlO})

	a.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabAdvanced, a.state.form.tab)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, improve.Errored, a.state.result.Phase)
	assert.Equal(t, improve.MsgUpgrade, a.state.result.Error)
	assert.Contains(t, a.View(), "profile set --tier pro")
}

func TestAppSettingsLoaded(t *testing.T) {
	a := newTestApp(t)

	msg := a.loadSettings()()
	a.Update(msg)
	assert.True(t, a.state.loaded)
	assert.Equal(t, "gpt-4o-mini", a.state.model, "openai default when nothing is stored")
	assert.Equal(t, viewSetup, a.view, "no key stored sends the user to setup")

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, viewCompose, a.view)
}

func TestAppSettingsProviderDefaultModel(t *testing.T) {
	a := newTestApp(t)
	a.state.config.Provider = "groq"

	a.Update(a.loadSettings()())
	assert.Equal(t, "llama-3.1-8b-instant", a.state.model)
}

func TestWaitStreamOrder(t *testing.T) {
	updates := make(chan improve.State, 3)
	result := make(chan error, 1)
	updates <- improve.State{Phase: improve.Requesting, IsLoading: true}
	updates <- improve.State{Phase: improve.Streaming, ResultText: "Hel"}
	updates <- improve.State{Phase: improve.Done, ResultText: "Hello"}
	close(updates)
	result <- nil

	var phases []improve.Phase
	cmd := waitStream(7, updates, result)
	for {
		msg := cmd()
		if done, ok := msg.(streamDoneMsg); ok {
			assert.Equal(t, 7, done.id)
			assert.NoError(t, done.err)
			break
		}
		sm := msg.(streamMsg)
		assert.Equal(t, 7, sm.id)
		phases = append(phases, sm.state.Phase)
		cmd = sm.next
	}
	assert.Equal(t, []improve.Phase{improve.Requesting, improve.Streaming, improve.Done}, phases)
}

func TestAppIgnoresStaleStream(t *testing.T) {
	a := newTestApp(t)
	a.state.runID = 2

	a.Update(streamMsg{id: 1, state: improve.State{Phase: improve.Done, ResultText: "old"}})
	assert.Empty(t, a.state.result.ResultText)

	a.Update(streamMsg{id: 2, state: improve.State{Phase: improve.Streaming, ResultText: "new"}})
	assert.Equal(t, "new", a.state.result.ResultText)
}

func TestErrorHint(t *testing.T) {
	assert.Contains(t, errorHint(improve.MsgMissingAPIKey), "OPENAI_API_KEY")
	assert.Contains(t, errorHint(improve.MsgDailyLimit), "--tier pro")
	assert.Contains(t, errorHint("Rate limit reached for requests"), "try again")
	assert.Empty(t, errorHint("something odd"))
}
