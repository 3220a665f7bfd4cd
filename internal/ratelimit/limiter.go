// Package ratelimit throttles submissions per client IP. A fixed window is
// enough here: the endpoint is anonymous, low-volume, and the limiter exists
// to blunt scripted spam, not to meter an API product.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result reports the outcome of one limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter checks whether a key may proceed within the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

// MemoryLimiter is a process-local fixed-window limiter. Used when Redis is
// not configured; counts reset on restart, which is acceptable for a spam
// brake.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	clock  Clock

	mu      sync.Mutex
	windows map[string]*windowState
}

type windowState struct {
	start time.Time
	count int
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		clock:   time.Now,
		windows: make(map[string]*windowState),
	}
}

// WithClock overrides the limiter's clock. Test hook.
func (l *MemoryLimiter) WithClock(clock Clock) *MemoryLimiter {
	if clock != nil {
		l.clock = clock
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &windowState{start: now}
		l.windows[key] = w
	}

	if w.count >= l.limit {
		return Result{
			Allowed:    false,
			RetryAfter: l.window - now.Sub(w.start),
		}, nil
	}

	w.count++
	return Result{Allowed: true, Remaining: l.limit - w.count}, nil
}

// RedisLimiter is a fixed-window limiter shared across instances, using one
// INCR-with-expiry counter per key per window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	clock  Clock
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		clock:  time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.clock()
	bucket := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:submit:%s:%d", key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("redis rate limit check: %w", err)
	}

	count := int(incr.Val())
	if count > l.limit {
		windowStart := time.Unix(0, bucket*int64(l.window))
		return Result{
			Allowed:    false,
			RetryAfter: l.window - now.Sub(windowStart),
		}, nil
	}
	return Result{Allowed: true, Remaining: l.limit - count}, nil
}
