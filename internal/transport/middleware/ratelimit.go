package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every request of one client.
// Unlike a server-side limiter it never rejects: callers wait for a token
// or for their context to end.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	now        func() time.Time
}

// NewRateLimiter allows maxPerMinute requests per minute with a burst of
// the same size.
func NewRateLimiter(maxPerMinute int) *RateLimiter {
	maxTokens := float64(maxPerMinute)
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: maxTokens / 60.0,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Limit returns middleware that holds requests until a token is free.
// A nil limiter passes requests through.
func (rl *RateLimiter) Limit() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if rl == nil || rl.maxTokens <= 0 {
			return next
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			for {
				wait := rl.reserve()
				if wait == 0 {
					break
				}
				timer := time.NewTimer(wait)
				select {
				case <-r.Context().Done():
					timer.Stop()
					return nil, r.Context().Err()
				case <-timer.C:
				}
			}
			return next.RoundTrip(r)
		})
	}
}

// reserve takes a token and returns 0, or returns how long until one is
// available.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return 0
	}
	missing := 1 - rl.tokens
	return time.Duration(missing / rl.refillRate * float64(time.Second))
}
