package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

func newTestCache(t *testing.T, ttl time.Duration) (*StatsCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStatsCache(client, ttl), server
}

func TestStatsCache(t *testing.T) {
	ctx := context.Background()
	lastPlayed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	stats := &entities.UserStats{
		UserID:       42,
		QuizzesTaken: 3,
		AverageScore: 67,
		BestScore:    90,
		LastPlayedAt: &lastPlayed,
	}

	t.Run("miss", func(t *testing.T) {
		cache, _ := newTestCache(t, time.Minute)

		got, err := cache.Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set and get", func(t *testing.T) {
		cache, server := newTestCache(t, time.Minute)

		require.NoError(t, cache.Set(ctx, stats))
		assert.Equal(t, time.Minute, server.TTL("quiz:stats:42"))

		got, err := cache.Get(ctx, 42)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 67, got.AverageScore)
		assert.Equal(t, 3, got.QuizzesTaken)
		require.NotNil(t, got.LastPlayedAt)
		assert.True(t, lastPlayed.Equal(*got.LastPlayedAt))
	})

	t.Run("expires", func(t *testing.T) {
		cache, server := newTestCache(t, time.Minute)

		require.NoError(t, cache.Set(ctx, stats))
		server.FastForward(2 * time.Minute)

		got, err := cache.Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalidate", func(t *testing.T) {
		cache, server := newTestCache(t, time.Minute)

		require.NoError(t, cache.Set(ctx, stats))
		require.NoError(t, cache.Invalidate(ctx, 42))

		assert.False(t, server.Exists("quiz:stats:42"))
		got, err := cache.Get(ctx, 42)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("default ttl", func(t *testing.T) {
		cache, server := newTestCache(t, 0)

		require.NoError(t, cache.Set(ctx, stats))
		assert.Equal(t, defaultStatsTTL, server.TTL("quiz:stats:42"))
	})

	t.Run("corrupted value", func(t *testing.T) {
		cache, server := newTestCache(t, time.Minute)

		require.NoError(t, server.Set("quiz:stats:42", "{not json"))

		_, err := cache.Get(ctx, 42)
		assert.Error(t, err)
	})
}
