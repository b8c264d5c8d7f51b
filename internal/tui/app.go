package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sant0-9/promptpilot/internal/config"
	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/eventlog"
	"github.com/sant0-9/promptpilot/internal/improve"
	"github.com/sant0-9/promptpilot/internal/intent"
	"github.com/sant0-9/promptpilot/internal/store"
	"github.com/sant0-9/promptpilot/internal/trigger"
)

type view int

const (
	viewCompose view = iota
	viewOverlay
	viewSetup
	viewSettings
	viewIntents
	viewHelp
)

// Options wires the app to storage and the provider
type Options struct {
	Config   *config.Config
	Settings *store.Settings
	Gate     *entitlement.Gate
	Events   eventlog.Logger
	Log      zerolog.Logger
	Connect  improve.Connector
	APIKey   string // overrides the stored key when set
	Domain   string
}

type App struct {
	width    int
	height   int
	view     view
	state    *state
	opts     Options
	ctrl     *trigger.Controller
	added    chan trigger.Surface
	ctx      context.Context
	cancel   context.CancelFunc
	quitting bool
}

func NewApp(opts Options) *App {
	cfg := opts.Config.WithDefaults()
	opts.Config = cfg
	if opts.Events == nil {
		opts.Events = eventlog.Nop{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		view:   viewCompose,
		state:  newState(cfg),
		opts:   opts,
		added:  make(chan trigger.Surface, 8),
		ctx:    ctx,
		cancel: cancel,
	}
	a.ctrl = trigger.NewController(opts.Domain, a.state.marker, a,
		trigger.WithPhrase(cfg.Trigger),
		trigger.WithEvents(opts.Events),
	)
	a.ctrl.Attach(a.state.fields[0])
	return a
}

func (a *App) Init() tea.Cmd {
	go a.ctrl.Observe(a.ctx, a.added)

	return tea.Batch(
		tea.WindowSize(),
		textarea.Blink,
		a.loadSettings(),
	)
}

// Shutdown releases the trigger session and any in-flight request
func (a *App) Shutdown() {
	if a.state.session != nil {
		a.state.session.Cancel()
	}
	a.ctrl.Dispose()
	a.cancel()
}

// Open is the overlay hook called by the trigger controller
func (a *App) Open(req trigger.OpenRequest) {
	a.state.request = req
	a.state.form = newForm(a.state.custom)
	a.state.result = improve.State{}
	a.state.status = ""
	a.view = viewOverlay
}

// Close is the overlay teardown hook called by the trigger controller
func (a *App) Close() {
	if a.state.session != nil {
		a.state.session.Cancel()
		a.state.session = nil
	}
	a.state.runID++
	a.view = viewCompose
}

type settingsMsg struct {
	apiKey string
	model  string
	custom []intent.CustomIntent
	plan   entitlement.Plan
	usage  entitlement.Report
	err    error
}

type streamMsg struct {
	id    int
	state improve.State
	next  tea.Cmd
}

type streamDoneMsg struct {
	id  int
	err error
}

type pingMsg struct{ err error }
type statusMsg string
type errMsg struct{ error }
type setupCompleteMsg struct{}

func (a *App) loadSettings() tea.Cmd {
	s, gate := a.opts.Settings, a.opts.Gate
	return func() tea.Msg {
		ctx := context.Background()
		var msg settingsMsg
		if msg.apiKey, msg.err = s.APIKey(ctx); msg.err != nil {
			return msg
		}
		if msg.model, msg.err = s.Model(ctx); msg.err != nil {
			return msg
		}
		if msg.custom, msg.err = s.CustomIntents(ctx); msg.err != nil {
			return msg
		}
		profile, err := s.Profile(ctx)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.plan = entitlement.PlanFromProfile(profile, time.Now())
		msg.usage, msg.err = gate.Usage(ctx)
		return msg
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.quitting = true
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case settingsMsg:
		if msg.err != nil {
			a.opts.Log.Error().Err(msg.err).Msg("load settings")
			a.state.status = "Could not load settings: " + msg.err.Error()
			return a, nil
		}
		a.state.apiKey = msg.apiKey
		a.state.model = msg.model
		if a.state.model == "" {
			a.state.model = a.state.config.DefaultModel()
		}
		a.state.custom = msg.custom
		a.state.plan = msg.plan
		a.state.usage = msg.usage
		if !a.state.loaded {
			a.state.loaded = true
			if a.needsSetup() {
				a.view = viewSetup
				return a, textinput.Blink
			}
		}
		return a, nil

	case streamMsg:
		if msg.id == a.state.runID {
			a.state.result = msg.state
		}
		return a, msg.next

	case streamDoneMsg:
		if msg.id != a.state.runID {
			return a, nil
		}
		a.state.session = nil
		var e *improve.Error
		if errors.As(msg.err, &e) {
			a.state.result = improve.State{Phase: improve.Errored, Error: e.Message}
		}
		return a, a.loadSettings()

	case spinner.TickMsg:
		if !a.state.result.IsLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.state.spin, cmd = a.state.spin.Update(msg)
		return a, cmd

	case pingMsg:
		a.state.pinging = false
		a.state.pingErr = msg.err
		a.state.pingOK = msg.err == nil
		return a, nil

	case statusMsg:
		a.state.status = string(msg)
		return a, nil

	case errMsg:
		a.opts.Log.Warn().Err(msg.error).Msg("tui action failed")
		a.state.status = msg.Error()
		return a, nil

	case intentSavedMsg:
		if msg.err != nil {
			a.state.intentErr = msg.err
			return a, nil
		}
		a.state.adding = false
		a.state.intentErr = nil
		return a, a.loadSettings()

	case setupCompleteMsg:
		a.view = viewCompose
		return a, a.loadSettings()
	}

	return a, a.updateInputs(msg)
}

// updateInputs forwards non-key messages such as cursor blinks
func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i, f := range a.state.fields {
		var cmd tea.Cmd
		a.state.fields[i].area, cmd = f.area.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) needsSetup() bool {
	if a.opts.APIKey != "" || a.state.apiKey != "" {
		return false
	}
	p := config.GetProvider(a.state.config.Provider)
	return p == nil || p.NeedsAPIKey
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch a.view {
	case viewCompose:
		return a.handleComposeKey(msg)
	case viewOverlay:
		return a.handleOverlayKey(msg)
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewIntents:
		return a.handleIntentsKey(msg)
	case viewHelp:
		if key.Matches(msg, keys.Back, keys.Help) {
			a.view = viewCompose
		}
	}
	return nil
}

func (a *App) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, keys.Help):
		a.view = viewHelp
		return nil

	case key.Matches(msg, keys.Settings):
		a.view = viewSettings
		a.state.settingsMode = ""
		return a.loadSettings()

	case key.Matches(msg, keys.Activate):
		if err := a.ctrl.Activate(); err != nil {
			a.state.status = fmt.Sprintf("Type %q in a field first", a.ctrl.Phrase())
		}
		return nil

	case key.Matches(msg, keys.Command):
		if err := a.ctrl.ActivateCommand(a.state.focusedField()); err != nil {
			a.state.status = err.Error()
		}
		return nil

	case key.Matches(msg, keys.NewField):
		return a.addField()

	case key.Matches(msg, keys.NextFld):
		a.focusField((a.state.focused + 1) % len(a.state.fields))
		return textarea.Blink
	}

	f := a.state.focusedField()
	before := f.Text()
	var cmd tea.Cmd
	f.area, cmd = f.area.Update(msg)
	if f.Text() != before {
		a.state.status = ""
		a.ctrl.HandleInput(a.ctx, f)
	}
	return cmd
}

// addField inserts a new surface; the controller picks it up from the
// observed channel like any late-added field
func (a *App) addField() tea.Cmd {
	if len(a.state.fields) >= 4 {
		a.state.status = "At most four fields"
		return nil
	}
	f := newField(len(a.state.fields), "Another field")
	a.state.fields = append(a.state.fields, f)
	select {
	case a.added <- f:
	default:
		a.ctrl.Attach(f)
	}
	a.focusField(f.index)
	return textarea.Blink
}

func (a *App) focusField(i int) {
	for _, f := range a.state.fields {
		f.area.Blur()
	}
	a.state.focused = i
	a.state.fields[i].Focus()
}

func (a *App) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		if err := a.ctrl.Handle(a.ctx, trigger.Message{Type: trigger.MessageClose}); err != nil {
			a.Close()
		}
		return nil

	case key.Matches(msg, keys.Replace):
		if a.state.result.Phase != improve.Done {
			return nil
		}
		if err := a.ctrl.Handle(a.ctx, trigger.Message{Type: trigger.MessageReplace, Payload: a.state.result.ResultText}); err != nil {
			return func() tea.Msg { return errMsg{err} }
		}
		a.focusField(a.replacedField())
		a.ctrl.HandleInput(a.ctx, a.state.focusedField())
		return nil

	case key.Matches(msg, keys.Copy):
		if a.state.result.Phase != improve.Done {
			return nil
		}
		return a.copyResult(a.state.result.ResultText)
	}

	if a.state.result.IsLoading || a.state.result.Phase == improve.Streaming {
		return nil
	}

	switch {
	case key.Matches(msg, keys.Left):
		a.state.form.setTab(tabRefinement)
	case key.Matches(msg, keys.Right):
		a.state.form.setTab(tabAdvanced)
	case key.Matches(msg, keys.Tab):
		a.state.form.toggleFocus()
	case key.Matches(msg, keys.Up):
		a.state.form.move(-1)
	case key.Matches(msg, keys.Down):
		a.state.form.move(1)
	case key.Matches(msg, keys.Enter):
		return a.startImprove()
	}
	return nil
}

// replacedField finds the field the controller re-focused after a replace
func (a *App) replacedField() int {
	for i, f := range a.state.fields {
		if i != a.state.focused && f.area.Focused() {
			return i
		}
	}
	return a.state.focused
}

func (a *App) copyResult(text string) tea.Cmd {
	events, domain := a.opts.Events, a.state.request.Domain
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return errMsg{fmt.Errorf("copy to clipboard: %w", err)}
		}
		events.Log(context.Background(), eventlog.ResultCopied, eventlog.Payload{"domain": domain})
		return statusMsg("Copied to clipboard")
	}
}

func (a *App) startImprove() tea.Cmd {
	if a.state.form.locked(a.state.plan) {
		a.state.result = improve.State{Phase: improve.Errored, Error: improve.MsgUpgrade}
		return nil
	}

	in, st, instruction := a.state.form.selection()
	req := improve.Request{
		OriginalText:      a.state.request.Text,
		Intent:            in,
		Structure:         st,
		CustomInstruction: instruction,
		Domain:            a.state.request.Domain,
	}

	mode := improve.ModeStream
	if !a.state.config.Streaming() {
		mode = improve.ModeComplete
	}

	updates := make(chan improve.State)
	result := make(chan error, 1)
	sess := improve.New(a.opts.Settings, a.opts.Gate, a.opts.Connect,
		improve.WithMode(mode),
		improve.WithEvents(a.opts.Events),
		improve.WithLogger(a.opts.Log),
		improve.WithAPIKey(a.opts.APIKey),
		improve.OnUpdate(func(s improve.State) { updates <- s }),
	)

	a.state.runID++
	a.state.session = sess
	a.state.result = improve.State{Phase: improve.Requesting, IsLoading: true}

	go func() {
		result <- sess.Submit(a.ctx, req)
		close(updates)
	}()

	return tea.Batch(waitStream(a.state.runID, updates, result), a.state.spin.Tick)
}

// waitStream delivers session updates to the program one at a time, in order
func waitStream(id int, updates <-chan improve.State, result <-chan error) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return streamDoneMsg{id: id, err: <-result}
		}
		return streamMsg{id: id, state: s, next: waitStream(id, updates, result)}
	}
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewOverlay:
		return a.renderOverlay()
	case viewSetup:
		return a.renderSetup()
	case viewSettings:
		return a.renderSettings()
	case viewIntents:
		return a.renderIntents()
	case viewHelp:
		return a.renderHelp()
	default:
		return a.renderCompose()
	}
}
