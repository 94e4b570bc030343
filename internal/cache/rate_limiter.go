package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window request counter keyed by client.
type RateLimiter struct {
	client *redisv9.Client
	limit  int
	window time.Duration
	prefix string
}

type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

func NewRateLimiter(client *redisv9.Client, limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 120
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "nextbase:ratelimit:",
	}
}

// Allow counts one request for key in the current window. The window starts at the
// first request; a counter found without an expiry gets one.
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + key
	open := Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return open, fmt.Errorf("redis rate limit failed: %w", err)
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		if err := l.client.PExpire(ctx, redisKey, l.window).Err(); err != nil {
			return open, fmt.Errorf("redis rate limit expire failed: %w", err)
		}
		resetIn = l.window
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
