// Package trigger watches editable surfaces for the trigger phrase and
// connects them to the improvement overlay.
package trigger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/sant0-9/promptpilot/internal/eventlog"
)

var (
	ErrDisposed  = errors.New("trigger controller disposed")
	ErrNoTrigger = errors.New("no surface holds the trigger phrase")
)

type Rect struct {
	X, Y, Width, Height int
}

// Surface is an editable text field
type Surface interface {
	Text() string
	SetText(text string)
	Focus()
	Bounds() Rect
}

// Affordance is the activation marker shown next to a surface
type Affordance interface {
	Show(s Surface, at Rect)
	Hide()
}

// Overlay opens and tears down the improvement overlay
type Overlay interface {
	Open(req OpenRequest)
	Close()
}

// OpenRequest is what the overlay starts with
type OpenRequest struct {
	Text   string
	Domain string
}

type MessageType string

const (
	MessageClose   MessageType = "close"
	MessageReplace MessageType = "replace"
)

// Message is sent from the overlay back to the controller
type Message struct {
	Type    MessageType
	Payload string
}

type lifecycle int

const (
	created lifecycle = iota
	active
	disposed
)

// Controller owns one page's trigger session. Hooks are called with the
// controller locked and must not call back into it.
type Controller struct {
	phrase     string
	domain     string
	affordance Affordance
	overlay    Overlay
	events     eventlog.Logger

	mu       sync.Mutex
	state    lifecycle
	surfaces []Surface
	shown    Surface
	target   Surface
	open     bool
}

type Option func(*Controller)

func WithEvents(l eventlog.Logger) Option {
	return func(c *Controller) { c.events = l }
}

func WithPhrase(phrase string) Option {
	return func(c *Controller) {
		if phrase != "" {
			c.phrase = phrase
		}
	}
}

func NewController(domain string, aff Affordance, overlay Overlay, opts ...Option) *Controller {
	c := &Controller{
		phrase:     DefaultPhrase,
		domain:     domain,
		affordance: aff,
		overlay:    overlay,
		events:     eventlog.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Phrase() string {
	return c.phrase
}

// Attach starts watching a surface. Attaching twice is a no-op.
func (c *Controller) Attach(s Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == disposed {
		return ErrDisposed
	}
	c.state = active
	if !slices.Contains(c.surfaces, s) {
		c.surfaces = append(c.surfaces, s)
	}
	return nil
}

// Observe attaches surfaces as they appear until ctx ends, the channel
// closes, or the controller is disposed.
func (c *Controller) Observe(ctx context.Context, added <-chan Surface) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-added:
			if !ok {
				return
			}
			if err := c.Attach(s); err != nil {
				return
			}
		}
	}
}

// HandleInput reacts to an edit of s: the affordance follows the surface
// while its text contains the phrase and is hidden otherwise.
func (c *Controller) HandleInput(ctx context.Context, s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != active || !slices.Contains(c.surfaces, s) {
		return
	}

	if Contains(s.Text(), c.phrase) {
		if c.shown != s {
			c.events.Log(ctx, eventlog.TriggerDetected, eventlog.Payload{"domain": c.domain})
		}
		c.shown = s
		c.affordance.Show(s, s.Bounds())
		return
	}

	if c.shown != nil {
		c.shown = nil
		c.affordance.Hide()
	}
}

// Activate opens the overlay for the surface showing the affordance
func (c *Controller) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == disposed {
		return ErrDisposed
	}
	if c.shown == nil {
		return ErrNoTrigger
	}
	text, _ := Extract(c.shown.Text(), c.phrase)
	c.openFor(c.shown, text)
	return nil
}

// ActivateCommand opens the overlay for s from a keyboard command. The text
// after the phrase is used when present, otherwise the whole text.
func (c *Controller) ActivateCommand(s Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == disposed {
		return ErrDisposed
	}
	text, ok := Extract(s.Text(), c.phrase)
	if !ok {
		text = strings.TrimSpace(s.Text())
	}
	c.openFor(s, text)
	return nil
}

func (c *Controller) openFor(s Surface, text string) {
	if c.open {
		return
	}
	c.open = true
	c.target = s
	c.overlay.Open(OpenRequest{Text: text, Domain: c.domain})
}

// Open reports whether the overlay is showing
func (c *Controller) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Handle processes a message from the overlay
func (c *Controller) Handle(ctx context.Context, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == disposed {
		return ErrDisposed
	}

	switch msg.Type {
	case MessageClose:
		if c.open {
			c.events.Log(ctx, eventlog.OverlayClosed, eventlog.Payload{"domain": c.domain})
		}
		c.teardown()
		return nil

	case MessageReplace:
		if c.target != nil {
			c.target.SetText(Reconstruct(c.target.Text(), c.phrase, msg.Payload))
			c.target.Focus()
			c.events.Log(ctx, eventlog.ResultReplaced, eventlog.Payload{"domain": c.domain})
		}
		c.teardown()
		return nil

	default:
		return errors.New("unknown overlay message: " + string(msg.Type))
	}
}

func (c *Controller) teardown() {
	if c.open {
		c.overlay.Close()
	}
	c.open = false
	c.target = nil
	if c.shown != nil {
		c.shown = nil
		c.affordance.Hide()
	}
}

// Dispose tears everything down and detaches all surfaces
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == disposed {
		return
	}
	c.teardown()
	c.surfaces = nil
	c.state = disposed
}
