package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proteccion-civil/incident-system/internal/core/ports"
)

var _ ports.LoginLimiter = (*LoginLimiter)(nil)

// LoginLimiter counts failed logins per email within a fixed window.
// Key format: login:fail:<email>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter returns a limiter that blocks after maxAttempts failures
// until window has elapsed since the first one.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

func (l *LoginLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, failKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// Fail increments the counter; the first failure starts the window.
func (l *LoginLimiter) Fail(ctx context.Context, key string) error {
	k := failKey(key)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, failKey(key)).Err()
}

func failKey(key string) string {
	return "login:fail:" + strings.ToLower(strings.TrimSpace(key))
}
