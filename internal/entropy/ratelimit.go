package entropy

import (
	"sync"
	"time"
)

// Refill budget for the random.org pool. A Monte Carlo run draws thousands
// of values, so a failing endpoint must not be retried on every draw.
const (
	DefaultRefillRate   = 5
	DefaultRefillWindow = time.Minute
)

// rateLimiter is a fixed-window token bucket.
type rateLimiter struct {
	mu        sync.Mutex
	maxRate   int           // max refills per window
	window    time.Duration // time window
	tokens    int
	lastReset time.Time
	now       func() time.Time
}

func newRateLimiter(maxRate int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		maxRate: maxRate,
		window:  window,
		tokens:  maxRate,
		now:     time.Now,
	}
}

// Allow reports whether another refill may be attempted in this window.
func (rl *rateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if rl.lastReset.IsZero() || now.Sub(rl.lastReset) >= rl.window {
		rl.tokens = rl.maxRate
		rl.lastReset = now
	}

	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// RetryAfter returns the time left until the window resets.
func (rl *rateLimiter) RetryAfter() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.lastReset.IsZero() {
		return 0
	}
	remaining := rl.window - rl.now().Sub(rl.lastReset)
	if remaining < 0 {
		return 0
	}
	return remaining
}
