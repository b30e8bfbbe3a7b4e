package blacklist

import (
	"context"
	"sync"
	"time"
)

// Store tracks revoked tokens so logout takes effect before natural expiry.
// Revoke is idempotent; a revoke finished before a check must be visible to it.
type Store interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Memory is the in-process implementation, used in tests and in single-node
// runs without redis. Entries carry their own deadline so the set does not
// grow for longer than the tokens it holds.
type Memory struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{revoked: make(map[string]time.Time)}
}

func (m *Memory) Revoke(_ context.Context, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[token] = time.Now().Add(ttl)
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	deadline, ok := m.revoked[token]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		m.mu.Lock()
		delete(m.revoked, token)
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}
