package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sant0-9/promptpilot/internal/entitlement"
	"github.com/sant0-9/promptpilot/internal/intent"
)

// Settings gives typed access to the persisted keys
type Settings struct {
	kv KV
}

func NewSettings(kv KV) *Settings {
	return &Settings{kv: kv}
}

func (s *Settings) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Settings) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// APIKey returns the stored key, empty when unset
func (s *Settings) APIKey(ctx context.Context) (string, error) {
	var key string
	if _, err := s.getJSON(ctx, KeyAPIKey, &key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Settings) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key must not be empty")
	}
	return s.setJSON(ctx, KeyAPIKey, key)
}

// Model returns the chosen model, or "" so the provider picks its default
func (s *Settings) Model(ctx context.Context) (string, error) {
	var model string
	ok, err := s.getJSON(ctx, KeyModel, &model)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return model, nil
}

func (s *Settings) SetModel(ctx context.Context, model string) error {
	return s.setJSON(ctx, KeyModel, strings.TrimSpace(model))
}

func (s *Settings) CustomIntents(ctx context.Context) ([]intent.CustomIntent, error) {
	var list []intent.CustomIntent
	if _, err := s.getJSON(ctx, KeyCustomIntents, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveCustomIntents replaces the stored list
func (s *Settings) SaveCustomIntents(ctx context.Context, list []intent.CustomIntent) error {
	if list == nil {
		list = []intent.CustomIntent{}
	}
	return s.setJSON(ctx, KeyCustomIntents, list)
}

// AddCustomIntent creates and stores a new custom intent
func (s *Settings) AddCustomIntent(ctx context.Context, label, instruction string) (intent.CustomIntent, error) {
	c, err := intent.NewCustom(label, instruction)
	if err != nil {
		return intent.CustomIntent{}, err
	}
	list, err := s.CustomIntents(ctx)
	if err != nil {
		return intent.CustomIntent{}, err
	}
	if err := s.SaveCustomIntents(ctx, append(list, c)); err != nil {
		return intent.CustomIntent{}, err
	}
	return c, nil
}

// DeleteCustomIntent removes a custom intent by id
func (s *Settings) DeleteCustomIntent(ctx context.Context, id string) error {
	list, err := s.CustomIntents(ctx)
	if err != nil {
		return err
	}
	out, found := intent.RemoveCustom(list, id)
	if !found {
		return fmt.Errorf("custom intent %q: %w", id, ErrNotFound)
	}
	return s.SaveCustomIntents(ctx, out)
}

// Profile returns the stored profile, nil when signed out
func (s *Settings) Profile(ctx context.Context) (*entitlement.Profile, error) {
	var p *entitlement.Profile
	if _, err := s.getJSON(ctx, KeyUserProfile, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Settings) SetProfile(ctx context.Context, p entitlement.Profile) error {
	return s.setJSON(ctx, KeyUserProfile, p)
}

// ClearProfile signs out, which also clears the daily usage counter
func (s *Settings) ClearProfile(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyUserProfile, KeyDailyUsage)
}

func (s *Settings) LoadUsage(ctx context.Context) (entitlement.DailyUsage, bool, error) {
	var u entitlement.DailyUsage
	ok, err := s.getJSON(ctx, KeyDailyUsage, &u)
	return u, ok, err
}

func (s *Settings) SaveUsage(ctx context.Context, u entitlement.DailyUsage) error {
	return s.setJSON(ctx, KeyDailyUsage, u)
}

func (s *Settings) ClearUsage(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyDailyUsage)
}
