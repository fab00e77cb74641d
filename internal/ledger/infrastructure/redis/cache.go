// Package redis adapts a Redis client to the ledger application's
// cache port. Losing the cache never loses data; every entry can be
// recomputed from the payment ledger.
package redis

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores vehicle status projections in Redis with TTL.
type Cache struct {
	client *redis.Client
	logger *log.Logger
}

// NewCache constructs a cache over an already-connected client.
func NewCache(client *redis.Client, logger *log.Logger) (*Cache, error) {
	if client == nil {
		return nil, errors.New("redis cache: nil client")
	}
	if logger == nil {
		return nil, errors.New("redis cache: nil logger")
	}
	return &Cache{client: client, logger: logger}, nil
}

// Get returns the cached value and whether it was present. Transport
// errors are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.logger.Printf("redis cache: get %s: %v", key, err)
		return "", false
	}
	return value, true
}

// Set stores a value with a TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Printf("redis cache: set %s: %v", key, err)
		return err
	}
	return nil
}

// Delete removes a key. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Printf("redis cache: delete %s: %v", key, err)
		return err
	}
	return nil
}
