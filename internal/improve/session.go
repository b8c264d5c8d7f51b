// Package improve runs one improvement request at a time: precondition
// checks, the entitlement gate, the provider call and the result state the
// overlay renders.
package improve

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/eventlog"
	"github.com/sant0-9/promptpilot/internal/intent"
	"github.com/sant0-9/promptpilot/internal/llm"
	"github.com/sant0-9/promptpilot/internal/prompts"
)

type Phase int

const (
	Idle Phase = iota
	Requesting
	Streaming
	Done
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Requesting:
		return "requesting"
	case Streaming:
		return "streaming"
	case Done:
		return "done"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

type Mode int

const (
	ModeStream Mode = iota
	ModeComplete
)

type Request struct {
	OriginalText      string
	Intent            intent.Intent
	Structure         intent.Structure
	CustomInstruction string
	Domain            string
}

// State is what the overlay renders
type State struct {
	Phase      Phase
	IsLoading  bool
	Error      string
	ResultText string
}

// Settings is the subset of stored settings a session reads
type Settings interface {
	APIKey(ctx context.Context) (string, error)
	Model(ctx context.Context) (string, error)
	Profile(ctx context.Context) (*entitlement.Profile, error)
}

// Connector builds a provider for the given key and model
type Connector func(apiKey, model string) (llm.Provider, error)

type Session struct {
	settings Settings
	gate     *entitlement.Gate
	connect  Connector
	events   eventlog.Logger
	log      zerolog.Logger
	mode     Mode
	apiKey   string
	now      func() time.Time
	onUpdate func(State)

	mu       sync.Mutex
	state    State
	running  bool
	gen      uint64
	cancel   context.CancelFunc
	canceled bool
}

type Option func(*Session)

func WithMode(m Mode) Option {
	return func(s *Session) { s.mode = m }
}

func WithEvents(l eventlog.Logger) Option {
	return func(s *Session) { s.events = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithAPIKey overrides the stored key, e.g. from OPENAI_API_KEY
func WithAPIKey(key string) Option {
	return func(s *Session) { s.apiKey = strings.TrimSpace(key) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// OnUpdate registers a callback invoked with every state change, in order
func OnUpdate(fn func(State)) Option {
	return func(s *Session) { s.onUpdate = fn }
}

func New(settings Settings, gate *entitlement.Gate, connect Connector, opts ...Option) *Session {
	s := &Session{
		settings: settings,
		gate:     gate,
		connect:  connect,
		events:   eventlog.Nop{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancel abandons the in-flight request. No error is surfaced and no
// further updates are delivered for it.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.canceled = true
	s.cancel()
	s.state = State{Phase: Idle}
}

// Reset returns an idle session to its initial state
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		s.state = State{Phase: Idle}
	}
}

// Submit runs one request to completion. It blocks until the response is
// done, fails, or the session or ctx is canceled. The returned error is an
// *Error, or nil on success and on cancellation.
func (s *Session) Submit(ctx context.Context, req Request) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return &Error{Kind: KindInput, Message: MsgInProgress}
	}
	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.canceled = false
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	err := s.run(ctx, gen, req)
	if err == nil {
		return nil
	}
	// canceled by the caller's context or by Cancel
	if s.abandoned(gen) || ctx.Err() != nil {
		return nil
	}

	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: KindUpstream, Message: MsgFetchFailed, Err: err}
	}
	s.log.Warn().Err(e.Err).Str("kind", e.Kind.String()).Msg(e.Message)
	s.set(gen, State{Phase: Errored, Error: e.Message})
	return e
}

func (s *Session) abandoned(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canceled || s.gen != gen
}

func (s *Session) set(gen uint64, st State) {
	s.mu.Lock()
	if s.canceled || s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.state = st
	fn := s.onUpdate
	s.mu.Unlock()

	if fn != nil {
		fn(st)
	}
}

func (s *Session) run(ctx context.Context, gen uint64, req Request) error {
	key := s.apiKey
	if key == "" {
		stored, err := s.settings.APIKey(ctx)
		if err != nil {
			return &Error{Kind: KindConfig, Message: MsgMissingAPIKey, Err: err}
		}
		key = stored
	}
	if key == "" {
		return &Error{Kind: KindConfig, Message: MsgMissingAPIKey}
	}

	if strings.TrimSpace(req.OriginalText) == "" {
		return &Error{Kind: KindInput, Message: MsgNoText}
	}

	profile, err := s.settings.Profile(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("read profile, assuming free plan")
		profile = nil
	}
	plan := entitlement.PlanFromProfile(profile, s.now())

	decision, err := s.gate.CanProceed(ctx, plan, string(req.Intent), string(req.Structure))
	if err != nil {
		return &Error{Kind: KindConfig, Message: "check usage: " + err.Error(), Err: err}
	}
	if !decision.Allowed {
		return &Error{Kind: KindEntitlement, Message: gateMessage(decision.Reason)}
	}

	s.events.Log(ctx, eventlog.ImproveClicked, eventlog.Payload{
		"domain":    req.Domain,
		"intent":    string(req.Intent),
		"structure": string(req.Structure),
	})

	s.set(gen, State{Phase: Requesting, IsLoading: true})

	model, err := s.settings.Model(ctx)
	if err != nil {
		return &Error{Kind: KindConfig, Message: err.Error(), Err: err}
	}
	provider, err := s.connect(key, model)
	if err != nil {
		return &Error{Kind: KindConfig, Message: err.Error(), Err: err}
	}
	if model == "" {
		model = provider.Model()
	}

	creq := llm.NewRequest(model,
		prompts.BuildSystemPrompt(req.Intent, req.Structure, req.CustomInstruction),
		prompts.WrapUserContent(req.OriginalText))

	s.log.Debug().
		Str("provider", provider.Name()).
		Str("model", model).
		Str("intent", string(req.Intent)).
		Str("structure", string(req.Structure)).
		Msg("improve request")

	if s.mode == ModeComplete {
		return s.complete(ctx, gen, plan, provider, creq)
	}
	return s.stream(ctx, gen, plan, provider, creq)
}

func (s *Session) stream(ctx context.Context, gen uint64, plan entitlement.Plan, p llm.Provider, req *llm.CompletionRequest) error {
	events, err := p.Stream(ctx, req)
	if err != nil {
		return upstreamError(err)
	}

	var (
		acc     strings.Builder
		counted bool
	)
	for ev := range events {
		if ev.Error != nil {
			return upstreamError(ev.Error)
		}
		if ev.Done {
			break
		}
		if ev.Chunk == "" {
			continue
		}
		if !counted {
			counted = true
			s.record(ctx, plan)
		}
		acc.WriteString(ev.Chunk)
		s.set(gen, State{Phase: Streaming, ResultText: acc.String()})
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	result := prompts.StripDelimiters(acc.String())
	if result == "" {
		return &Error{Kind: KindProtocol, Message: MsgEmptyResponse}
	}
	s.set(gen, State{Phase: Done, ResultText: result})
	return nil
}

func (s *Session) complete(ctx context.Context, gen uint64, plan entitlement.Plan, p llm.Provider, req *llm.CompletionRequest) error {
	resp, err := p.Complete(ctx, req)
	if err != nil {
		return upstreamError(err)
	}

	result := prompts.StripDelimiters(resp.Content)
	if result == "" {
		return &Error{Kind: KindProtocol, Message: MsgEmptyResponse}
	}
	s.record(ctx, plan)
	s.set(gen, State{Phase: Done, ResultText: result})
	return nil
}

// record counts a successful request; a failed write never fails the result
func (s *Session) record(ctx context.Context, plan entitlement.Plan) {
	if err := s.gate.RecordSuccess(context.WithoutCancel(ctx), plan); err != nil {
		s.log.Warn().Err(err).Msg("record usage")
	}
}

func upstreamError(err error) error {
	if errors.Is(err, llm.ErrStreamingUnsupported) {
		return &Error{Kind: KindProtocol, Message: MsgStreamingAbsent, Err: err}
	}
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &Error{Kind: KindUpstream, Message: apiErr.Message, Err: err}
	}
	return &Error{Kind: KindUpstream, Message: MsgFetchFailed, Err: err}
}
