// Package store holds the persisted settings, custom intents, profile and
// usage counter as opaque JSON values keyed by name.
package store

import (
	"context"
	"errors"
	"sync"
)

// Keys owned by the host key-value store
const (
	KeyAPIKey        = "openai_api_key"
	KeyModel         = "openai_model"
	KeyCustomIntents = "custom_intents"
	KeyDailyUsage    = "daily_usage"
	KeyUserProfile   = "user_profile"
)

var ErrNotFound = errors.New("key not found")

// KV is an asynchronous get/set store of raw values
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Memory is an in-process KV
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
