package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"docmint/pkg/platform/httputil"
)

// RateLimiter is a fixed-window per-IP request limiter. It protects the
// public verification endpoint, which is reachable without a token and backed
// by a blockchain read. State is in-process; each replica enforces its own
// window.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
	}
}

type rateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// Limit wraps a handler with the per-IP check. Every response carries
// X-RateLimit headers; a rejected request gets 429 with Retry-After.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, resetAt, allowed := l.take(clientIP(r), time.Now())

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.WriteJSON(w, http.StatusTooManyRequests, rateLimitExceededResponse{
				Error:      "rate_limit_exceeded",
				Message:    "Too many requests from this IP address. Please try again later.",
				RetryAfter: retryAfter,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) take(ip string, now time.Time) (remaining int, resetAt time.Time, allowed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.windows[ip]
	if !ok || now.After(win.resetAt) {
		win = &window{resetAt: now.Add(l.period)}
		l.windows[ip] = win
		l.evictExpired(now)
	}

	if win.count >= l.limit {
		return 0, win.resetAt, false
	}
	win.count++
	return l.limit - win.count, win.resetAt, true
}

// evictExpired drops stale windows so the map does not grow with every IP
// ever seen. Called under the lock, only when a new window is created.
func (l *RateLimiter) evictExpired(now time.Time) {
	for ip, win := range l.windows {
		if now.After(win.resetAt) {
			delete(l.windows, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
