// Package ratelimit provides the keyed submission limiter enforced by the
// intake endpoint. State is injected, never package-level, so the backing
// store can be swapped when the endpoint is scaled out.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of a reservation attempt.
type Decision struct {
	Allowed bool
	// RetryAfter is how long the caller must wait when denied.
	RetryAfter time.Duration
}

// Limiter reserves one submission slot per key per window. Reserve must be
// atomic: two concurrent calls for the same key within a window may not
// both be allowed.
type Limiter interface {
	Reserve(ctx context.Context, key string) (Decision, error)
}

// MemoryLimiter is a process-local Limiter for development and single
// instance deployments.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]time.Time
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter with the given window.
func NewMemoryLimiter(window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]time.Time),
		window:  window,
		now:     time.Now,
	}
	go l.cleanup()
	return l
}

// Reserve takes the key's slot if the window has elapsed since the last
// reservation.
func (l *MemoryLimiter) Reserve(ctx context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	last, ok := l.entries[key]
	if ok {
		if elapsed := now.Sub(last); elapsed < l.window {
			return Decision{Allowed: false, RetryAfter: l.window - elapsed}, nil
		}
	}
	l.entries[key] = now
	return Decision{Allowed: true}, nil
}

// Periodically evict expired entries to prevent memory growth.
func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := l.now().Add(-l.window)
		for key, last := range l.entries {
			if last.Before(cutoff) {
				delete(l.entries, key)
			}
		}
		l.mu.Unlock()
	}
}
