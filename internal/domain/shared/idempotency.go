package shared

import (
	"context"
	"time"
)

// IdempotencyStore claims request keys so a retried submission is handled
// once. Keys expire after the TTL they were claimed with.
type IdempotencyStore interface {
	// MarkProcessed claims key. It reports false when the key was already
	// claimed and has not expired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
