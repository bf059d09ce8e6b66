package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache keeps per-day resource occupancy grids in Redis so
// the booking screen does not hit the database for every poll. Entries
// are invalidated whenever a reservation for that day is created or
// cancelled; the TTL is only a backstop.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(redisURL, password string, ttl time.Duration) (*AvailabilityCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &AvailabilityCache{client: rdb, ttl: ttl}, nil
}

func dayKey(date time.Time) string {
	return fmt.Sprintf("occupancy:day:%s", date.Format("2006-01-02"))
}

// GetDay returns the cached grid for a date, or a miss. Cache failures
// are treated as misses; the database remains the source of truth.
func (c *AvailabilityCache) GetDay(ctx context.Context, date time.Time) (map[int64][]int, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, dayKey(date)).Bytes()
	if err != nil {
		return nil, false
	}
	var grid map[int64][]int
	if err := json.Unmarshal(payload, &grid); err != nil {
		return nil, false
	}
	return grid, true
}

// SetDay stores the grid for a date. Errors are ignored; a failed write
// only costs a future cache miss.
func (c *AvailabilityCache) SetDay(ctx context.Context, date time.Time, grid map[int64][]int) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(grid)
	if err != nil {
		return
	}
	c.client.Set(ctx, dayKey(date), payload, c.ttl)
}

// InvalidateDay drops the cached grid for a date.
func (c *AvailabilityCache) InvalidateDay(ctx context.Context, date time.Time) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, dayKey(date))
}

// Close releases the underlying Redis connection.
func (c *AvailabilityCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
