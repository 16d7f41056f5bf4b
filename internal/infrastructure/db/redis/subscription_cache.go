package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubscriptionCache stores resolved billing subscription statuses with a TTL
// so session restores skip the provider call while the entry is fresh.
// Key format: subscription:<email>
type SubscriptionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubscriptionCache creates a SubscriptionCache wrapping the given client.
func NewSubscriptionCache(client *redis.Client, ttl time.Duration) *SubscriptionCache {
	return &SubscriptionCache{client: client, ttl: ttl}
}

func (c *SubscriptionCache) Get(ctx context.Context, email string) (string, bool, error) {
	status, err := c.client.Get(ctx, c.key(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("subscription cache get: %w", err)
	}
	return status, true, nil
}

func (c *SubscriptionCache) Set(ctx context.Context, email, status string) error {
	return c.client.Set(ctx, c.key(email), status, c.ttl).Err()
}

// Invalidate drops the cached entry so the next restore hits the provider.
func (c *SubscriptionCache) Invalidate(ctx context.Context, email string) error {
	return c.client.Del(ctx, c.key(email)).Err()
}

func (c *SubscriptionCache) key(email string) string {
	return "subscription:" + email
}
