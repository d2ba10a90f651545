package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RealIP returns the client address, preferring the first hop of
// X-Forwarded-For and then X-Real-IP when a proxy sits in front of the API.
func RealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// window counts attempts for one key until resetAt.
type window struct {
	attempts int
	resetAt  time.Time
}

// RateLimiter counts attempts per key in fixed windows. Keys are built by
// RateLimit from a scope and the client address.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow records an attempt for key. When the key is over limit it returns
// false and the time left until its window resets.
func (rl *RateLimiter) Allow(key string, limit int, period time.Duration) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[key]
	if !ok || !now.Before(w.resetAt) {
		rl.windows[key] = &window{attempts: 1, resetAt: now.Add(period)}
		return true, 0
	}
	if w.attempts >= limit {
		return false, w.resetAt.Sub(now)
	}
	w.attempts++
	return true, 0
}

// Cleanup drops expired windows and reports how many were removed.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, key)
			removed++
		}
	}
	return removed
}

// Limit is a per-client budget for one endpoint.
type Limit struct {
	// Scope separates the counters of different endpoints, e.g. "login".
	Scope    string
	Requests int
	Period   time.Duration
}

// RateLimit rejects a client's requests beyond l.Requests per l.Period with
// 429 and a Retry-After header holding the whole seconds until the window
// resets.
func RateLimit(limiter *RateLimiter, l Limit) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := limiter.Allow(l.Scope+"|"+RealIP(r), l.Requests, l.Period)
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
				writeMessage(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func retryAfterSeconds(d time.Duration) int {
	return max(1, int(math.Ceil(d.Seconds())))
}
