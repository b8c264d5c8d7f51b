package entitlement

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsage struct {
	usage *DailyUsage
	saves int
}

func (m *memUsage) LoadUsage(context.Context) (DailyUsage, bool, error) {
	if m.usage == nil {
		return DailyUsage{}, false, nil
	}
	return *m.usage, true, nil
}

func (m *memUsage) SaveUsage(_ context.Context, u DailyUsage) error {
	m.saves++
	m.usage = &u
	return nil
}

func (m *memUsage) ClearUsage(context.Context) error {
	m.usage = nil
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestGate(u *DailyUsage) (*Gate, *memUsage) {
	store := &memUsage{usage: u}
	return NewGate(store, WithClock(func() time.Time { return fixedNow })), store
}

func TestFreeTierAtLimitDeniedForAnySelection(t *testing.T) {
	g, _ := newTestGate(&DailyUsage{Count: 10, LastReset: fixedNow})
	plan := Plan{Tier: TierFree, CanUsePro: false}

	for _, sel := range [][]string{
		{"general_polish", "para"},
		{"fix_grammar", "bullets"},
		{"custom_abc", "steps"},
	} {
		d, err := g.CanProceed(context.Background(), plan, sel...)
		require.NoError(t, err)
		assert.False(t, d.Allowed, "selection %v", sel)
		assert.Equal(t, ReasonDailyLimitReached, d.Reason)
	}

	// pro features fail on gating before the counter is consulted
	d, err := g.CanProceed(context.Background(), plan, "cot", "json")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUpgradeRequired, d.Reason)
}

func TestStaleUsageAllowsAndResetsToOne(t *testing.T) {
	g, store := newTestGate(&DailyUsage{Count: 9, LastReset: fixedNow.Add(-25 * time.Hour)})
	plan := Plan{Tier: TierFree}

	d, err := g.CanProceed(context.Background(), plan, "general_polish", "para")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	require.NoError(t, g.RecordSuccess(context.Background(), plan))
	require.NotNil(t, store.usage)
	assert.Equal(t, 1, store.usage.Count)
	assert.True(t, store.usage.LastReset.Equal(fixedNow))
}

func TestStaleAtLimitIsAllowed(t *testing.T) {
	g, _ := newTestGate(&DailyUsage{Count: 10, LastReset: fixedNow.Add(-24*time.Hour - time.Second)})
	d, err := g.CanProceed(context.Background(), Plan{Tier: TierFree}, "general_polish", "para")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestProAllowedRegardlessOfUsage(t *testing.T) {
	g, store := newTestGate(&DailyUsage{Count: 500, LastReset: fixedNow})
	plan := Plan{Tier: TierPro, CanUsePro: true}

	d, err := g.CanProceed(context.Background(), plan, "cot", "json")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	require.NoError(t, g.RecordSuccess(context.Background(), plan))
	assert.Equal(t, 0, store.saves, "pro requests are not metered")
}

func TestProFeatureRequiresUpgrade(t *testing.T) {
	g, _ := newTestGate(nil)
	d, err := g.CanProceed(context.Background(), Plan{Tier: TierFree}, "general_polish", "mermaid")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonUpgradeRequired, d.Reason)
}

func TestTrialUnlocksProAndSkipsCounter(t *testing.T) {
	ends := fixedNow.Add(48 * time.Hour)
	plan := PlanFromProfile(&Profile{Tier: TierFree, TrialEndsAt: &ends}, fixedNow)
	require.True(t, plan.CanUsePro)

	g, _ := newTestGate(&DailyUsage{Count: 10, LastReset: fixedNow})
	d, err := g.CanProceed(context.Background(), plan, "cot", "json")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRecordSuccessIncrementsOnce(t *testing.T) {
	g, store := newTestGate(nil)
	plan := Plan{Tier: TierFree}

	for i := 1; i <= 3; i++ {
		require.NoError(t, g.RecordSuccess(context.Background(), plan))
		assert.Equal(t, i, store.usage.Count)
	}

	r, err := g.Usage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, r.Count)
	assert.Equal(t, 7, r.Remaining())
	assert.True(t, r.ResetsAt.Equal(fixedNow.Add(UsageWindow)))

	require.NoError(t, g.Reset(context.Background()))
	assert.Nil(t, store.usage)
}

func TestPlanFromProfile(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)

	tests := []struct {
		name    string
		profile *Profile
		want    Plan
	}{
		{"nil profile", nil, Plan{Tier: TierFree}},
		{"pro", &Profile{Tier: TierPro}, Plan{Tier: TierPro, CanUsePro: true}},
		{"expired trial", &Profile{Tier: TierFree, TrialEndsAt: &past}, Plan{Tier: TierFree}},
		{"active trial", &Profile{Tier: TierFree, TrialEndsAt: &future}, Plan{Tier: TierFree, CanUsePro: true}},
		{"unknown tier", &Profile{Tier: "enterprise"}, Plan{Tier: TierFree}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlanFromProfile(tt.profile, fixedNow))
		})
	}
}

func TestDailyUsageJSON(t *testing.T) {
	u := DailyUsage{Count: 4, LastReset: time.UnixMilli(1700000000123)}
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":4,"lastReset":1700000000123}`, string(data))

	var back DailyUsage
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 4, back.Count)
	assert.True(t, back.LastReset.Equal(u.LastReset))
}
