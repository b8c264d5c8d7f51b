package entitlement

import (
	"encoding/json"
	"time"
)

const (
	TierFree = "free"
	TierPro  = "pro"
)

// Profile is the subscription profile supplied by the identity provider
type Profile struct {
	Tier               string     `json:"tier"`
	TrialEndsAt        *time.Time `json:"trial_ends_at"`
	SubscriptionStatus string     `json:"subscription_status,omitempty"`
}

// Plan is the capability flag derived from a profile
type Plan struct {
	Tier      string
	CanUsePro bool
}

// FreePlan is used when no profile is available
var FreePlan = Plan{Tier: TierFree}

// PlanFromProfile derives the user plan. A nil profile yields the free plan.
func PlanFromProfile(p *Profile, now time.Time) Plan {
	if p == nil {
		return FreePlan
	}
	tier := p.Tier
	if tier != TierPro {
		tier = TierFree
	}
	trialActive := p.TrialEndsAt != nil && p.TrialEndsAt.After(now)
	return Plan{
		Tier:      tier,
		CanUsePro: tier == TierPro || trialActive,
	}
}

// Metered reports whether the daily counter applies to this plan
func (p Plan) Metered() bool {
	return p.Tier == TierFree && !p.CanUsePro
}

// DailyUsage is the rolling request counter for the free tier
type DailyUsage struct {
	Count     int
	LastReset time.Time
}

type dailyUsageJSON struct {
	Count     int   `json:"count"`
	LastReset int64 `json:"lastReset"`
}

// MarshalJSON stores LastReset as unix milliseconds
func (u DailyUsage) MarshalJSON() ([]byte, error) {
	return json.Marshal(dailyUsageJSON{
		Count:     u.Count,
		LastReset: u.LastReset.UnixMilli(),
	})
}

func (u *DailyUsage) UnmarshalJSON(data []byte) error {
	var raw dailyUsageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Count < 0 {
		raw.Count = 0
	}
	u.Count = raw.Count
	u.LastReset = time.UnixMilli(raw.LastReset)
	return nil
}

// Stale reports whether the usage window has elapsed
func (u DailyUsage) Stale(now time.Time, window time.Duration) bool {
	return now.Sub(u.LastReset) > window
}
