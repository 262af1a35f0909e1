// Package ratelimit throttles requests per key (client IP on the auth routes).
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Memory keeps one token bucket per key in process.
type Memory struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rate     rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type entry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

func NewMemory(rps float64, burst int) *Memory {
	return &Memory{
		limiters: map[string]*entry{},
		rate:     rate.Limit(rps),
		burst:    burst,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()
	m.mu.Lock()
	e, ok := m.limiters[key]
	if !ok {
		e = &entry{l: rate.NewLimiter(m.rate, m.burst)}
		m.limiters[key] = e
	}
	e.lastSeen = now
	m.mu.Unlock()

	r := e.l.ReserveN(now, 1)
	if !r.OK() {
		return Result{Allowed: false, RetryAfter: time.Second}, nil
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return Result{Allowed: false, RetryAfter: d}, nil
	}
	return Result{Allowed: true, Remaining: int64(math.Max(0, math.Floor(e.l.TokensAt(now))))}, nil
}

// Cleanup drops buckets idle longer than the idle window.
func (m *Memory) Cleanup() {
	cutoff := m.now().Add(-m.idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(m.limiters, k)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (m *Memory) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.Cleanup()
			}
		}
	}()
}

// Redis is a fixed window counter (INCR + EXPIRE) shared across instances.
type Redis struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
}

func NewRedis(client *redis.Client, prefix string, max int, window time.Duration) *Redis {
	if prefix == "" {
		prefix = "rl"
	}
	return &Redis{client: client, prefix: prefix, max: int64(max), window: window}
}

func (l *Redis) Allow(ctx context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("ratelimit: %w", err)
	}

	hits := incr.Val()
	res := Result{Allowed: hits <= l.max, Remaining: max(l.max-hits, 0)}
	if !res.Allowed {
		res.RetryAfter = ttl.Val()
		if res.RetryAfter <= 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}
