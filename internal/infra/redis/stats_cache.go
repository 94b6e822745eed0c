package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/insaafai/ipc-quiz-bot/internal/domain/entities"
)

const (
	statsKeyPrefix  = "quiz:stats:"
	defaultStatsTTL = 10 * time.Minute
)

// StatsCache caches user quiz stats in Redis.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = defaultStatsTTL
	}
	return &StatsCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached stats, or (nil, nil) if not found.
func (c *StatsCache) Get(ctx context.Context, userID int64) (*entities.UserStats, error) {
	data, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats entities.UserStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Set stores the stats with the cache TTL.
func (c *StatsCache) Set(ctx context.Context, stats *entities.UserStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(stats.UserID), data, c.ttl).Err()
}

// Invalidate drops the cached stats of the user.
func (c *StatsCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, statsKey(userID)).Err()
}

func statsKey(userID int64) string {
	return statsKeyPrefix + strconv.FormatInt(userID, 10)
}
