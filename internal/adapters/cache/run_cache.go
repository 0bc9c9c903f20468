package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pickup-route-service/internal/ports"
)

const (
	defaultRunHistoryKey = "runs:history"
	defaultRunHistoryTTL = 5 * time.Minute
)

// RedisRunCache stores the most recent run history listing as a single JSON
// value. A miss and an expired entry are indistinguishable to callers.
type RedisRunCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

var _ ports.RunCache = (*RedisRunCache)(nil)

func NewRedisRunCache(client *redis.Client) *RedisRunCache {
	return &RedisRunCache{
		client: client,
		key:    defaultRunHistoryKey,
		ttl:    defaultRunHistoryTTL,
	}
}

func (c *RedisRunCache) Get(ctx context.Context) ([]ports.RunSummary, bool, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("run cache get: %w", err)
	}

	var runs []ports.RunSummary
	if err := json.Unmarshal(payload, &runs); err != nil {
		return nil, false, fmt.Errorf("run cache decode: %w", err)
	}

	return runs, true, nil
}

func (c *RedisRunCache) Put(ctx context.Context, runs []ports.RunSummary) error {
	payload, err := json.Marshal(runs)
	if err != nil {
		return fmt.Errorf("run cache encode: %w", err)
	}

	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("run cache put: %w", err)
	}

	return nil
}

func (c *RedisRunCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("run cache invalidate: %w", err)
	}
	return nil
}
