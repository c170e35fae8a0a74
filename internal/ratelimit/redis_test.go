package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func TestRedisLimiterReserve(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLimiter(client, "intake", 60*time.Second, nil)
	ctx := context.Background()

	d, err := l.Reserve(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Reserve(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, 60*time.Second)

	// A different identity is unaffected.
	d, err = l.Reserve(ctx, "203.0.113.10")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	mr.FastForward(61 * time.Second)
	d, err = l.Reserve(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiterConcurrentSameKey(t *testing.T) {
	client, _ := setupTestRedis(t)
	l := NewRedisLimiter(client, "intake", 60*time.Second, nil)
	ctx := context.Background()

	const callers = 10
	allowed := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		go func() {
			d, err := l.Reserve(ctx, "shared")
			require.NoError(t, err)
			allowed <- d.Allowed
		}()
	}

	count := 0
	for i := 0; i < callers; i++ {
		if <-allowed {
			count++
		}
	}
	assert.Equal(t, 1, count, "SET NX must admit exactly one caller per window")
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLimiter(client, "intake", 60*time.Second, nil)
	mr.Close()

	d, err := l.Reserve(context.Background(), "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "limiter outage must not block submissions")
}

func TestRedisLimiterReset(t *testing.T) {
	client, _ := setupTestRedis(t)
	l := NewRedisLimiter(client, "intake", 60*time.Second, nil)
	ctx := context.Background()

	d, err := l.Reserve(ctx, "203.0.113.9")
	require.NoError(t, err)
	require.True(t, d.Allowed)

	require.NoError(t, l.Reset(ctx, "203.0.113.9"))

	d, err = l.Reserve(ctx, "203.0.113.9")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
