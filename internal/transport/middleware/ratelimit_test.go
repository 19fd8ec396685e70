package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	base := &okTransport{}
	rt := NewRateLimiter(10).Limit()(base)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "http://api.test/graphql", nil)
		_, err := rt.RoundTrip(req)
		require.NoError(t, err, "request %d should pass", i)
	}
	assert.Equal(t, 10, base.calls)
}

func TestRateLimiter_WaitsHonorsContext(t *testing.T) {
	base := &okTransport{}
	rl := NewRateLimiter(1)
	rt := rl.Limit()(base)

	first := httptest.NewRequest(http.MethodPost, "http://api.test/graphql", nil)
	_, err := rt.RoundTrip(first)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	second := httptest.NewRequest(http.MethodPost, "http://api.test/graphql", nil).WithContext(ctx)

	_, err = rt.RoundTrip(second)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Equal(t, 1, base.calls)
}

func TestRateLimiter_Refill(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(60)
	rl.now = func() time.Time { return now }
	rl.lastRefill = now

	for i := 0; i < 60; i++ {
		require.Zero(t, rl.reserve())
	}
	wait := rl.reserve()
	assert.InDelta(t, float64(time.Second), float64(wait), float64(time.Millisecond))

	now = now.Add(time.Second)
	assert.Zero(t, rl.reserve())
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	base := &okTransport{}
	var rl *RateLimiter

	rt := rl.Limit()(base)
	assert.Same(t, http.RoundTripper(base), rt)

	rt = NewRateLimiter(0).Limit()(base)
	assert.Same(t, http.RoundTripper(base), rt)
}
