// Package cache provides an optional Redis-backed cache for computed
// daily statistics. The log store stays the source of truth: a cache
// miss or outage only costs a recompute.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/mfeller/questlog/internal/tracking/application/services"
)

// DefaultTTL bounds how long a cached day can live without invalidation.
const DefaultTTL = 15 * time.Minute

// RedisStatsCache stores daily stats in Redis behind a circuit breaker,
// so a struggling Redis degrades to recomputation instead of adding
// latency to every query.
type RedisStatsCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	ttl     time.Duration
}

// NewRedisStatsCache creates a cache around the given client.
func NewRedisStatsCache(client *redis.Client, logger *slog.Logger) *RedisStatsCache {
	settings := gobreaker.Settings{
		Name:    "stats-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("stats cache breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &RedisStatsCache{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		ttl:     DefaultTTL,
	}
}

func statsKey(userID uuid.UUID, day string) string {
	return fmt.Sprintf("questlog:stats:%s:%s", userID, day)
}

// GetDailyStats returns the cached stats for a day, or nil on a miss.
func (c *RedisStatsCache) GetDailyStats(ctx context.Context, userID uuid.UUID, day string) (*services.DailyStats, error) {
	payload, err := c.breaker.Execute(func() ([]byte, error) {
		data, err := c.client.Get(ctx, statsKey(userID, day)).Bytes()
		if err == redis.Nil {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	var stats services.DailyStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		// treat a corrupt entry as a miss
		return nil, nil
	}
	return &stats, nil
}

// SetDailyStats stores the stats for the day they describe.
func (c *RedisStatsCache) SetDailyStats(ctx context.Context, userID uuid.UUID, stats services.DailyStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, statsKey(userID, stats.Date), payload, c.ttl).Err()
	})
	return err
}

// InvalidateDay drops the cached stats for one user day. Called after a
// completion is recorded so reads never see stale totals.
func (c *RedisStatsCache) InvalidateDay(ctx context.Context, userID uuid.UUID, day string) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Del(ctx, statsKey(userID, day)).Err()
	})
	return err
}
