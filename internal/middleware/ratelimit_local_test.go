// AngelaMos | 2026
// ratelimit_local_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBucketsDenyPastBurst(t *testing.T) {
	l := newLocalBuckets()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limit := PerMinute(60, 2)

	for range 2 {
		res, err := l.take("k", limit, now)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Allowed)
	}

	res, err := l.take("k", limit, now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Allowed)
	assert.Equal(t, time.Second, res.RetryAfter)

	res, err = l.take("k", limit, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)
}

func TestLocalBucketsSweepIdleKeys(t *testing.T) {
	l := newLocalBuckets()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limit := PerMinute(10, 1)

	_, _ = l.take("old", limit, start)
	_, _ = l.take("fresh", limit, start.Add(bucketIdleTTL))
	assert.Equal(t, 2, l.size())

	_, _ = l.take("fresh", limit, start.Add(bucketIdleTTL+sweepEvery+time.Second))
	assert.Equal(t, 1, l.size())
}

func TestRateLimiterFallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	rl := NewRateLimiter(client, RateLimitConfig{Limit: PerMinute(1, 1)})
	h := rl.Handler(http.HandlerFunc(okHandler))

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		req.RemoteAddr = "10.0.0.7:999"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
