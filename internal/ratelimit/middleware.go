package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"hireline/internal/platform/middleware"
)

// Middleware applies a Limiter to submission routes, keyed on client IP.
// Limiter errors fail open: a broken Redis must not take the intake form
// down with it.
type Middleware struct {
	limiter  Limiter
	logger   *slog.Logger
	disabled bool
}

// Option configures the middleware.
type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (tests, local dev).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func NewMiddleware(limiter Limiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("submission rate limiting disabled")
	}
	return m
}

// Limit is the http middleware.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := middleware.GetClientIP(ctx)
		if ip == "" {
			ip = middleware.ClientIPFromRequest(r)
		}

		result, err := m.limiter.Allow(ctx, ip)
		if err != nil {
			m.logger.ErrorContext(ctx, "rate limit check failed, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if !result.Allowed {
			retryAfter := int(math.Ceil(result.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok":false,"error":"RateLimited","message":"Too many submissions, please try again later."}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
