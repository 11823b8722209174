package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
)

const keyPrefix = "stats:restaurant:"

// DefaultTTL is how long a cached rating summary stays valid. Mutations
// invalidate the key eagerly, so the TTL only bounds staleness from writes
// that bypass this process.
const DefaultTTL = 10 * time.Minute

// StatsCache implements repository.StatsCache using Redis.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a Redis-backed rating summary cache.
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StatsCache{client: client, ttl: ttl}
}

func key(restaurantID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, restaurantID)
}

// Get returns the cached summary for a restaurant, or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, restaurantID int64) (*domain.RatingSummary, error) {
	data, err := c.client.Get(ctx, key(restaurantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached stats: %w", err)
	}

	var summary domain.RatingSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal cached stats: %w", err)
	}

	return &summary, nil
}

// Set stores the summary for a restaurant with the configured TTL.
func (c *StatsCache) Set(ctx context.Context, restaurantID int64, summary *domain.RatingSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}

	if err := c.client.Set(ctx, key(restaurantID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached stats: %w", err)
	}

	return nil
}

// Invalidate drops the cached summary for a restaurant.
func (c *StatsCache) Invalidate(ctx context.Context, restaurantID int64) error {
	if err := c.client.Del(ctx, key(restaurantID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached stats: %w", err)
	}
	return nil
}
