package cache

import (
	"context"
	"time"

	"bizadmin/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Redis keeps entries under prefix:key. Errors degrade to cache misses.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (c *Redis) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *Redis) Get(ctx context.Context, k string) ([]byte, bool) {
	b, err := c.client.Get(ctx, c.key(k)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.From(ctx).Warn("cache get failed", logger.Component("cache"), logger.Err(err))
		}
		return nil, false
	}
	return b, true
}

func (c *Redis) Set(ctx context.Context, k string, v []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.key(k), v, ttl).Err(); err != nil {
		logger.From(ctx).Warn("cache set failed", logger.Component("cache"), logger.Err(err))
	}
}

func (c *Redis) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		logger.From(ctx).Warn("cache delete failed", logger.Component("cache"), logger.Err(err))
	}
}

func (c *Redis) Ping(ctx context.Context) error { return c.client.Ping(ctx).Err() }

// Close is a no-op; the shared client is closed by its owner.
func (c *Redis) Close() error { return nil }
