// Package cache stores serialized lookup lists so the /all endpoints skip the database.
package cache

import (
	"context"
	"fmt"
	"time"

	"bizadmin/internal/config"

	"github.com/redis/go-redis/v9"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, v []byte, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	Ping(ctx context.Context) error
	Close() error
}

// New builds the backend named by cfg.Driver. The redis client is shared with
// the rate limiter, so callers pass it in (nil for the memory driver).
func New(cfg config.CacheConfig, rdb *redis.Client) (Cache, error) {
	switch cfg.Driver {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("cache: redis driver without client")
		}
		return NewRedis(rdb, cfg.Prefix), nil
	case "memory", "":
		return NewMemory(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

// NewRedisClient connects and pings the configured redis server.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}
	return rdb, nil
}
