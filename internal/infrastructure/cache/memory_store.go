package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/posprint/internal/domain/shared"
)

// sweepEvery is how many claims pass between sweeps of expired keys
const sweepEvery = 256

var _ shared.IdempotencyStore = (*MemoryStore)(nil)

// MemoryStore keeps idempotency keys in process. It serves single
// instance deployments and tests.
type MemoryStore struct {
	mu      sync.Mutex
	expiry  map[string]time.Time
	claims  int
	nowFunc func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{expiry: make(map[string]time.Time), nowFunc: time.Now}
}

// MarkProcessed claims key for ttl. It reports false while an earlier
// claim on key is still live.
func (s *MemoryStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if until, ok := s.expiry[key]; ok && now.Before(until) {
		return false, nil
	}
	s.expiry[key] = now.Add(ttl)

	s.claims++
	if s.claims%sweepEvery == 0 {
		s.sweep(now)
	}
	return true, nil
}

// IsProcessed reports whether key holds a live claim
func (s *MemoryStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.expiry[key]
	return ok && s.nowFunc().Before(until), nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of keys held, expired ones included until the
// next sweep
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

// sweep drops expired keys; s.mu must be held
func (s *MemoryStore) sweep(now time.Time) {
	for key, until := range s.expiry {
		if !now.Before(until) {
			delete(s.expiry, key)
		}
	}
}
