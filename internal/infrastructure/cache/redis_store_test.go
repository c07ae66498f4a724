package cache

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/erp/posprint/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newMiniRedisStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func redisConfigFor(t *testing.T, addr string) config.RedisConfig {
	t.Helper()
	host, portStr, ok := strings.Cut(addr, ":")
	require.True(t, ok)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: port}
}

func TestRedisStore_Claims(t *testing.T) {
	s, mr := newMiniRedisStore(t, "")
	ctx := context.Background()
	key := DefaultKeyPrefix + "t1:abc"

	claimed, err := s.MarkProcessed(ctx, "t1:abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	claimed, err = s.MarkProcessed(ctx, "t1:abc", time.Hour)
	require.NoError(t, err)
	assert.False(t, claimed)

	seen, err := s.IsProcessed(ctx, "t1:abc")
	require.NoError(t, err)
	assert.True(t, seen)

	mr.FastForward(2 * time.Hour)
	seen, err = s.IsProcessed(ctx, "t1:abc")
	require.NoError(t, err)
	assert.False(t, seen)

	claimed, err = s.MarkProcessed(ctx, "t1:abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestRedisStore_Prefix(t *testing.T) {
	s, mr := newMiniRedisStore(t, "custom:")

	_, err := s.MarkProcessed(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("custom:k"))
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := newMiniRedisStore(t, "")
	mr.Close()

	_, err := s.MarkProcessed(context.Background(), "k", time.Minute)
	assert.Error(t, err)
	_, err = s.IsProcessed(context.Background(), "k")
	assert.Error(t, err)
}

func TestNewIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		s, err := NewIdempotencyStore(ctx, config.RedisConfig{}, config.IdempotencyConfig{Backend: "memory"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("redis backend", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, err := NewIdempotencyStore(ctx, redisConfigFor(t, mr.Addr()),
			config.IdempotencyConfig{Backend: "redis", KeyPrefix: "p:"}, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer s.Close()
		require.IsType(t, &RedisStore{}, s)

		_, err = s.MarkProcessed(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.True(t, mr.Exists("p:k"))
	})

	t.Run("falls back to memory when redis is down", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := redisConfigFor(t, mr.Addr())
		mr.Close()

		s, err := NewIdempotencyStore(ctx, cfg,
			config.IdempotencyConfig{Backend: "redis", AllowInMemoryFallback: true}, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("fails when fallback is not allowed", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := redisConfigFor(t, mr.Addr())
		mr.Close()

		_, err := NewIdempotencyStore(ctx, cfg, config.IdempotencyConfig{Backend: "redis"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Redis required")
	})
}
