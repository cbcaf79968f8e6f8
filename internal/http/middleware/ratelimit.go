// Package middleware holds the HTTP middleware shared by the API
// routes: per-client rate limiting and response security headers.
package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter applies a per-client token bucket. Clients are keyed by
// IP, taking the first X-Forwarded-For hop when present.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*rate.Limiter
	perMin   int
	burst    int
	skipPath map[string]bool
}

// NewRateLimiter allows perMinute requests per client IP with the
// given burst. Health endpoints are exempt.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rate.Limiter),
		perMin:  perMinute,
		burst:   burst,
		skipPath: map[string]bool{
			"/healthz":      true,
			"/health/ready": true,
		},
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.clients[ip]
	if !ok {
		l = rate.NewLimiter(rate.Limit(float64(rl.perMin)/60.0), rl.burst)
		rl.clients[ip] = l
	}
	return l
}

// Handler is the chi-compatible middleware.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.skipPath[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		l := rl.limiter(ip)

		if !l.Allow() {
			wait := 1
			if res := l.Reserve(); res.OK() {
				wait = int(res.Delay().Seconds()) + 1
				res.Cancel()
			}
			w.Header().Set("Retry-After", strconv.Itoa(wait))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":       "Rate limit exceeded",
				"detail":      fmt.Sprintf("Too many requests. Please wait %d seconds.", wait),
				"status_code": http.StatusTooManyRequests,
			})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.perMin))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(l.Tokens())))
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
