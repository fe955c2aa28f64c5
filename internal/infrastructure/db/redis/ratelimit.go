package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultResendLimit  = 3
	defaultResendWindow = time.Hour
)

// ResendLimiter throttles verification re-issue requests per identifier
// using a fixed-window counter in Redis.
// Key format: resend:<identifier>
type ResendLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewResendLimiter creates a ResendLimiter wrapping the given Redis client.
// Non-positive limit or window fall back to the defaults.
func NewResendLimiter(client *redis.Client, limit int64, window time.Duration) *ResendLimiter {
	if limit <= 0 {
		limit = defaultResendLimit
	}
	if window <= 0 {
		window = defaultResendWindow
	}
	return &ResendLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether another resend is permitted for identifier within
// the current window. The first request of a window starts its expiry.
func (l *ResendLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	key := fmt.Sprintf("resend:%s", identifier)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("resend counter: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("resend window: %w", err)
		}
	}
	return n <= l.limit, nil
}
