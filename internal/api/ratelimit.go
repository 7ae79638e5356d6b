// File path: internal/api/ratelimit.go
package api

import (
	"sync"
	"time"
)

// rateLimiter applies a fixed window per caller key. A zero limit disables
// limiting.
type rateLimiter struct {
	mu     sync.Mutex
	perKey map[string]*windowState
	limit  int
	window time.Duration
	now    func() time.Time
}

type windowState struct {
	count       int
	windowStart time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{
		perKey: map[string]*windowState{},
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// allow reports whether the key may proceed, and the wait until the window
// resets when it may not.
func (r *rateLimiter) allow(key string) (bool, time.Duration) {
	if r == nil || r.limit == 0 {
		return true, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	state, ok := r.perKey[key]
	if !ok {
		state = &windowState{windowStart: now}
		r.perKey[key] = state
	}
	if now.Sub(state.windowStart) >= r.window {
		state.windowStart = now
		state.count = 0
	}
	if state.count >= r.limit {
		return false, state.windowStart.Add(r.window).Sub(now)
	}
	state.count++
	return true, 0
}
