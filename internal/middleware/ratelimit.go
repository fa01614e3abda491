// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type RateLimitConfig struct {
	Limit redis_rate.Limit
	// KeyFunc defaults to KeyByIP.
	KeyFunc func(*http.Request) string
	// FailOpen lets requests through when neither Redis nor the local
	// fallback can answer.
	FailOpen   bool
	BypassFunc func(*http.Request) bool
	Logger     *slog.Logger
}

// RateLimiter is a GCRA limiter shared through Redis. When Redis is
// unreachable each instance falls back to an in-process token bucket.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	local    *localBuckets
	cfg      RateLimitConfig
	logger   *slog.Logger
	clockNow func() time.Time
}

func NewRateLimiter(rdb redis.UniversalClient, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RateLimiter{
		redis:    redis_rate.NewLimiter(rdb),
		local:    newLocalBuckets(),
		cfg:      cfg,
		logger:   logger,
		clockNow: time.Now,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.BypassFunc != nil && rl.cfg.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.KeyFunc(r)
		res, err := rl.take(r.Context(), key)
		switch {
		case err != nil && rl.cfg.FailOpen:
			rl.logger.Warn("rate limiter unavailable, allowing request", "key", key, "error", err)
			next.ServeHTTP(w, r)
			return
		case err != nil:
			core.JSONError(w, core.NewAppError(
				err, "Service temporarily unavailable",
				http.StatusServiceUnavailable, core.CodeUnavailable,
			))
			return
		}

		rl.writeHeaders(w, res)

		if res.Allowed == 0 {
			rejectOverBudget(w, res)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(ctx context.Context, key string) (*redis_rate.Result, error) {
	res, err := rl.redis.Allow(ctx, key, rl.cfg.Limit)
	if err == nil {
		return res, nil
	}
	rl.logger.Debug("redis rate limit failed, using local bucket", "error", err)
	return rl.local.take(key, rl.cfg.Limit, rl.clockNow())
}

func (rl *RateLimiter) writeHeaders(w http.ResponseWriter, res *redis_rate.Result) {
	h := w.Header()
	limit := rl.cfg.Limit
	reset := rl.clockNow().Add(res.ResetAfter)

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))
}

func rejectOverBudget(w http.ResponseWriter, res *redis_rate.Result) {
	wait := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(wait))
	core.JSONError(w, core.NewAppError(
		nil,
		fmt.Sprintf("Too many requests. Retry after %d seconds.", wait),
		http.StatusTooManyRequests,
		core.CodeRateLimited,
	))
}

// KeyByIP uses the last X-Forwarded-For hop, which is the one appended
// by the closest trusted proxy.
func KeyByIP(r *http.Request) string {
	return "ratelimit:ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return strings.TrimSpace(hops[len(hops)-1])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func KeyByUser(r *http.Request) string {
	if userID := GetUserID(r.Context()); userID != 0 {
		return "ratelimit:user:" + strconv.FormatInt(userID, 10)
	}
	return KeyByIP(r)
}

// KeyByIPAndEndpoint scopes a client to one route, for the credential
// endpoints that get a tighter budget than the global limiter.
func KeyByIPAndEndpoint(r *http.Request) string {
	return KeyByIP(r) + ":endpoint:" + routeShape(r.URL.Path)
}

// routeShape collapses numeric ids so /orders/7 and /orders/8 share a key.
func routeShape(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if _, err := strconv.ParseUint(seg, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return PerWindow(rate, burst, time.Minute)
}

// PerWindow builds a limit over an arbitrary configured window.
func PerWindow(rate, burst int, window time.Duration) redis_rate.Limit {
	if window <= 0 {
		window = time.Minute
	}
	return redis_rate.Limit{Rate: rate, Burst: burst, Period: window}
}
