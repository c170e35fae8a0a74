// Package gateway is the client-side submission path used by the site's
// form frontends: a local cooldown plus a wrapper around the intake
// endpoint that reports every outcome as a value.
package gateway

import (
	"sync"
	"time"
)

// DefaultCooldownWindow is how long a client waits after a successful
// submission before the next one is allowed.
const DefaultCooldownWindow = 60 * time.Second

// Cooldown is the per-session guard against rapid repeat submissions. It
// tracks a single last-success timestamp and is lost when the process
// goes away. Not a security control; the intake endpoint enforces its
// own limit.
type Cooldown struct {
	mu          sync.Mutex
	lastSuccess time.Time
	window      time.Duration
	now         func() time.Time
}

// NewCooldown creates a cooldown with the given window.
func NewCooldown(window time.Duration) *Cooldown {
	if window <= 0 {
		window = DefaultCooldownWindow
	}
	return &Cooldown{window: window, now: time.Now}
}

// Allow reports whether a submission may proceed and, when denied, how
// many whole seconds remain until the next allowed attempt.
func (c *Cooldown) Allow() (bool, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastSuccess.IsZero() {
		return true, 0
	}
	elapsed := c.now().Sub(c.lastSuccess)
	if elapsed >= c.window {
		return true, 0
	}
	remaining := c.window - elapsed
	seconds := int((remaining + time.Second - 1) / time.Second)
	return false, seconds
}

// MarkSuccess starts the window. Only successful submissions count;
// failed or rejected attempts leave the cooldown untouched.
func (c *Cooldown) MarkSuccess() {
	c.mu.Lock()
	c.lastSuccess = c.now()
	c.mu.Unlock()
}
