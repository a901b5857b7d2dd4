package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mediccare/platform/internal/domain"
)

const loginFailurePrefix = "login:fail:"

// attemptCounter stores failed-login counters with a sliding expiry.
type attemptCounter interface {
	Count(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
	Clear(ctx context.Context, key string) error
}

type redisCounter struct {
	client *redis.Client
}

func (r redisCounter) Count(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Increment starts the window on the first failure; later failures do not extend it.
func (r redisCounter) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (r redisCounter) Clear(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// LoginThrottle blocks a username after too many failed logins inside a window.
// A nil throttle, or one built without a Redis client, allows everything.
type LoginThrottle struct {
	counter     attemptCounter
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginThrottle builds a Redis-backed throttle. client may be nil.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	t := &LoginThrottle{maxAttempts: maxAttempts, window: window, logger: logger}
	if client != nil {
		t.counter = redisCounter{client: client}
	}
	return t
}

func (t *LoginThrottle) enabled() bool {
	return t != nil && t.counter != nil && t.maxAttempts > 0 && t.window > 0
}

// Check fails with ErrTooManyAttempts once the limit is reached. Counter
// errors fail open.
func (t *LoginThrottle) Check(ctx context.Context, username string) error {
	if !t.enabled() {
		return nil
	}
	n, err := t.counter.Count(ctx, loginFailurePrefix+username)
	if err != nil {
		t.logger.Warn("login throttle unavailable", zap.String("username", username), zap.Error(err))
		return nil
	}
	if n >= int64(t.maxAttempts) {
		return domain.ErrTooManyAttempts.WithDetails(map[string]any{
			"retry_within_minutes": int(t.window.Minutes()),
		})
	}
	return nil
}

// RecordFailure counts a failed attempt.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if !t.enabled() {
		return
	}
	if _, err := t.counter.Increment(ctx, loginFailurePrefix+username, t.window); err != nil {
		t.logger.Warn("login throttle increment failed", zap.String("username", username), zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if !t.enabled() {
		return
	}
	if err := t.counter.Clear(ctx, loginFailurePrefix+username); err != nil {
		t.logger.Warn("login throttle reset failed", zap.String("username", username), zap.Error(err))
	}
}
