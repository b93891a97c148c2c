package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore is the in-process fallback revocation store. Entries are
// dropped lazily once expired.
type MemoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{revoked: make(map[string]time.Time)}
}

func (m *MemoryTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = time.Now().Add(ttl)
	m.cleanupLocked()
	return nil
}

func (m *MemoryTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.revoked[jti]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(m.revoked, jti)
		return false, nil
	}
	return true, nil
}

func (m *MemoryTokenStore) cleanupLocked() {
	now := time.Now()
	for jti, expiry := range m.revoked {
		if now.After(expiry) {
			delete(m.revoked, jti)
		}
	}
}
