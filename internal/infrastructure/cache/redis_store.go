package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/posprint/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces idempotency keys in Redis
const DefaultKeyPrefix = "print:idempotency:"

var _ shared.IdempotencyStore = (*RedisStore)(nil)

// RedisStore shares idempotency keys between every service instance.
// Keys expire through Redis TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore uses client, owning it from now on
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// MarkProcessed claims key for ttl with SET NX. It reports false when the
// key was already claimed.
func (s *RedisStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	claimed, err := s.client.SetNX(ctx, s.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim idempotency key: %w", err)
	}
	return claimed, nil
}

// IsProcessed reports whether key is claimed
func (s *RedisStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("check idempotency key: %w", err)
	}
	return n == 1, nil
}

// Close closes the client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
