package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/raygaledev/kiasu/internal/errors"
	"github.com/raygaledev/kiasu/internal/ratelimit"
)

const msgTooManyRequests = "Too many requests. Please try again later."

// RateLimiter is the keyed token bucket shared by the API middlewares.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a new rate limiter.
// rate: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	return ratelimit.PerInterval(ratePerInterval, interval, burst)
}

// limitByIP rejects an operation with 429 once the client IP exhausts its budget.
func (s *Server) limitByIP(limiter *RateLimiter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if limiter == nil {
			next(ctx)
			return
		}
		key := clientIP(ctx)
		if !limiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", ctx.URL().Path,
			)
			_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, msgTooManyRequests,
				domainerrors.RateLimited(msgTooManyRequests))
			return
		}
		next(ctx)
	}
}

// limitByUser rejects an operation with 429 once the caller exhausts their
// budget. Anonymous calls pass through; the handler answers 401.
func (s *Server) limitByUser(limiter *RateLimiter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		userID, err := GetUserID(ctx.Context())
		if limiter == nil || err != nil {
			next(ctx)
			return
		}
		if !limiter.Allow(userID) {
			s.logger.Warn("Rate limit exceeded",
				"user_id", userID,
				"path", ctx.URL().Path,
			)
			_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, msgTooManyRequests,
				domainerrors.RateLimited(msgTooManyRequests))
			return
		}
		next(ctx)
	}
}

// clientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
