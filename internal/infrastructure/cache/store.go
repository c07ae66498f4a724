// Package cache holds the idempotency stores that keep a print submission
// from printing twice.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/posprint/internal/domain/shared"
	"github.com/erp/posprint/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dialTimeout = 5 * time.Second

// NewIdempotencyStore builds the store cfg.Backend names. An unreachable
// Redis falls back to memory when cfg.AllowInMemoryFallback is set.
func NewIdempotencyStore(ctx context.Context, redisCfg config.RedisConfig, cfg config.IdempotencyConfig, log *zap.Logger) (shared.IdempotencyStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Backend == "memory" {
		log.Info("Using in-memory idempotency store")
		return NewMemoryStore(), nil
	}

	client, err := DialRedis(ctx, redisCfg)
	if err == nil {
		log.Info("Using Redis idempotency store", zap.String("addr", redisCfg.Addr()))
		return NewRedisStore(client, cfg.KeyPrefix), nil
	}
	if !cfg.AllowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	// Memory is per instance, so a retry landing on another instance prints again
	log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
	return NewMemoryStore(), nil
}

// DialRedis connects to Redis and pings it once
func DialRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
