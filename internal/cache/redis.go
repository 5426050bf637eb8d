// Package cache provides the Redis-backed session store.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session lookups sit on every authenticated request, so a slow Redis must
// fail the request quickly rather than hold it.
const (
	dialTimeout  = 2 * time.Second
	ioTimeout    = 500 * time.Millisecond
	startupPings = 3
)

// Cache holds the Redis client that stores sessions.
type Cache struct {
	client *redis.Client
}

// New parses redisURL and waits until Redis answers a ping, trying
// startupPings times one second apart.
func New(ctx context.Context, redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.DialTimeout = dialTimeout
	opt.ReadTimeout = ioTimeout
	opt.WriteTimeout = ioTimeout
	opt.PoolSize = 20
	opt.MinIdleConns = 2

	client := redis.NewClient(opt)

	for attempt := 1; ; attempt++ {
		err = client.Ping(ctx).Err()
		if err == nil {
			return &Cache{client: client}, nil
		}
		if attempt == startupPings {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to ping Redis after %d attempts: %w", startupPings, err)
}

// Ping reports whether Redis answers; used by the readiness check.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Client exposes the raw client to integration tests.
func (c *Cache) Client() *redis.Client {
	return c.client
}
