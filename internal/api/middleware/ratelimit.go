package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Trade-Journal-Backend/internal/api/response"
	"github.com/ndewijer/Trade-Journal-Backend/internal/logging"
)

const (
	limiterTTL     = 10 * time.Minute
	limiterCleanup = 20 * time.Minute
)

// RateLimit allows each client address rps requests per second with the given burst.
// Idle clients are forgotten after ten minutes.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiters := cache.New(limiterTTL, limiterCleanup)

	limiterFor := func(key string) *rate.Limiter {
		if l, ok := limiters.Get(key); ok {
			limiters.SetDefault(key, l)
			return l.(*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		if err := limiters.Add(key, l, cache.DefaultExpiration); err != nil {
			// Lost the race to another request from the same client.
			if existing, ok := limiters.Get(key); ok {
				return existing.(*rate.Limiter)
			}
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiterFor(key).Allow() {
				logging.FromContext(r.Context()).Warn("rate limit exceeded", "client", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				response.RespondError(w, http.StatusTooManyRequests, "too many requests", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
