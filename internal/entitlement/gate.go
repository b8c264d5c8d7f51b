package entitlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sant0-9/promptpilot/internal/intent"
)

const (
	DailyLimit  = 10
	UsageWindow = 24 * time.Hour
)

const (
	ReasonUpgradeRequired   = "upgrade required"
	ReasonDailyLimitReached = "daily limit reached"
)

// UsageStore persists the daily usage counter
type UsageStore interface {
	// LoadUsage returns ok=false when no counter has been stored yet
	LoadUsage(ctx context.Context) (usage DailyUsage, ok bool, err error)
	SaveUsage(ctx context.Context, usage DailyUsage) error
	ClearUsage(ctx context.Context) error
}

// Decision is the outcome of a gate check
type Decision struct {
	Allowed bool
	Reason  string
}

// Report summarizes the counter for display
type Report struct {
	Count    int
	Limit    int
	ResetsAt time.Time
}

func (r Report) Remaining() int {
	if r.Count >= r.Limit {
		return 0
	}
	return r.Limit - r.Count
}

// Gate decides whether a request may proceed and records completed ones.
// The counter read-modify-write is serialized within one process only.
type Gate struct {
	store  UsageStore
	now    func() time.Time
	limit  int
	window time.Duration
	mu     sync.Mutex
}

type GateOption func(*Gate)

// WithClock overrides the time source
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		g.now = now
	}
}

func NewGate(store UsageStore, opts ...GateOption) *Gate {
	g := &Gate{
		store:  store,
		now:    time.Now,
		limit:  DailyLimit,
		window: UsageWindow,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanProceed checks pro gating first, then the free tier daily counter
func (g *Gate) CanProceed(ctx context.Context, plan Plan, selections ...string) (Decision, error) {
	for _, s := range selections {
		if intent.IsProFeature(s) && !plan.CanUsePro {
			return Decision{Reason: ReasonUpgradeRequired}, nil
		}
	}

	if !plan.Metered() {
		return Decision{Allowed: true}, nil
	}

	usage, err := g.current(ctx)
	if err != nil {
		return Decision{}, err
	}
	if usage.Count >= g.limit {
		return Decision{Reason: ReasonDailyLimitReached}, nil
	}
	return Decision{Allowed: true}, nil
}

// RecordSuccess increments the counter once for a completed request,
// resetting it first when the window has elapsed
func (g *Gate) RecordSuccess(ctx context.Context, plan Plan) error {
	if !plan.Metered() {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	usage, err := g.current(ctx)
	if err != nil {
		return err
	}
	usage.Count++
	if err := g.store.SaveUsage(ctx, usage); err != nil {
		return fmt.Errorf("save daily usage: %w", err)
	}
	return nil
}

// Usage reports the current counter, treating a stale one as empty
func (g *Gate) Usage(ctx context.Context) (Report, error) {
	usage, err := g.current(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Count:    usage.Count,
		Limit:    g.limit,
		ResetsAt: usage.LastReset.Add(g.window),
	}, nil
}

// Reset clears the stored counter
func (g *Gate) Reset(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.store.ClearUsage(ctx)
}

func (g *Gate) current(ctx context.Context) (DailyUsage, error) {
	now := g.now()
	usage, ok, err := g.store.LoadUsage(ctx)
	if err != nil {
		return DailyUsage{}, fmt.Errorf("load daily usage: %w", err)
	}
	if !ok || usage.Stale(now, g.window) {
		return DailyUsage{Count: 0, LastReset: now}, nil
	}
	return usage, nil
}
