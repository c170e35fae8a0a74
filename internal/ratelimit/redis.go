package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridlight-solar/site-api/pkg/logging"
)

// RedisLimiter enforces the per-identity window across instances. SET NX PX
// is a single atomic operation, so two near-simultaneous requests for the
// same key cannot both reserve the slot.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	window time.Duration
	logger *logging.Logger
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client *redis.Client, prefix string, window time.Duration, logger *logging.Logger) *RedisLimiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		window: window,
		logger: logger,
	}
}

// Reserve attempts to take the key's slot for the current window.
// If Redis is unreachable the limiter fails open.
func (l *RedisLimiter) Reserve(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("%s:%s", l.prefix, key)

	set, err := l.client.SetNX(ctx, redisKey, 1, l.window).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, failing open", "error", err, "key", redisKey)
		return Decision{Allowed: true}, nil
	}
	if set {
		return Decision{Allowed: true}, nil
	}

	ttl, err := l.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return Decision{Allowed: false, RetryAfter: ttl}, nil
}

// Reset clears the key's slot (admin/test use).
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, fmt.Sprintf("%s:%s", l.prefix, key)).Err()
}

var _ Limiter = (*RedisLimiter)(nil)
var _ Limiter = (*MemoryLimiter)(nil)
