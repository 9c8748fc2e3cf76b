package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/scentkart/scentkart-backend/api/responses"
	pkgerrors "github.com/scentkart/scentkart-backend/pkg/errors"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

const (
	defaultRateLimit  = 120
	defaultRateWindow = time.Minute
)

// RateLimit applies a fixed-window limit per authenticated user, falling back
// to the client IP for anonymous traffic. A missing store disables the limit
// rather than blocking requests.
func RateLimit(store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			scope := UserIDFromContext(r.Context())
			if scope == "" {
				scope = clientIP(r)
			}
			if scope == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := store.FixedWindowAllow(r.Context(), scope, defaultRateLimit, defaultRateWindow)
			if err != nil {
				// The limiter is advisory; a broken Redis should not take
				// the API down with it.
				if logg != nil {
					logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "rate limiter unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(defaultRateWindow.Seconds())))
				if logg != nil {
					ctx := logg.WithFields(r.Context(), map[string]any{"scope": scope, "count": count})
					logg.Warn(ctx, "request rate limited")
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
