package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"workportal/internal/transport/http/api"
)

// KeyFunc buckets requests for a limiter. An empty key falls back to the client IP.
type KeyFunc func(r *http.Request) string

type RateLimitOption func(*limiter)

func WithKeyFunc(fn KeyFunc) RateLimitOption {
	return func(l *limiter) {
		if fn != nil {
			l.key = fn
		}
	}
}

// RateLimit applies a fixed window of limit requests per key to every request.
// Requests are keyed by the authenticated user, or by client IP when anonymous.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	l := newLimiter("global", limit, window, userOrIP)
	for _, opt := range opts {
		opt(l)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// SensitiveMutationRateLimit adds tighter limits to credential endpoints
// (a quarter of base, per IP and per submitted email) and to report edits and
// deletes (half of base, per user). Other requests pass through.
func SensitiveMutationRateLimit(base int, window time.Duration) func(http.Handler) http.Handler {
	credentials := max(base/4, 1)
	reviews := max(base/2, 1)
	limiters := map[routeClass][]*limiter{
		classCredentials: {
			newLimiter("credentials_ip", credentials, window, clientIP),
			newLimiter("credentials_email", credentials, window, bodyEmail),
		},
		classReview: {
			newLimiter("review", reviews, window, userOrIP),
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, l := range limiters[classify(r)] {
				if !l.admit(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

type routeClass int

const (
	classOpen routeClass = iota
	classCredentials
	classReview
)

func classify(r *http.Request) routeClass {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch r.Method {
	case http.MethodPost:
		if path == "/auth/login" || path == "/auth/signup" {
			return classCredentials
		}
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		if strings.HasPrefix(path, "/work-reports/") {
			return classReview
		}
	}
	return classOpen
}

type bucket struct {
	used    int
	resetAt time.Time
}

type limiter struct {
	name   string
	limit  int
	window time.Duration
	key    KeyFunc

	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

func newLimiter(name string, limit int, window time.Duration, key KeyFunc) *limiter {
	return &limiter{name: name, limit: limit, window: window, key: key, buckets: map[string]*bucket{}}
}

type verdict struct {
	allowed   bool
	remaining int
	resetIn   time.Duration
}

func (l *limiter) take(key string, now time.Time) verdict {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		for k, b := range l.buckets {
			if now.After(b.resetAt) {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(l.window)
	}

	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}
	b.used++
	return verdict{
		allowed:   b.used <= l.limit,
		remaining: max(l.limit-b.used, 0),
		resetIn:   b.resetAt.Sub(now),
	}
}

// admit records the request and writes a 429 when the key is over its limit.
func (l *limiter) admit(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}
	key := l.key(r)
	if key == "" {
		key = clientIP(r)
	}
	v := l.take(key, time.Now())

	resetSecs := ceilSeconds(v.resetIn)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(v.remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSecs))
	if v.allowed {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(max(resetSecs, 1)))
	slog.Warn("rate limited",
		"limiter", l.name,
		"key", key,
		"method", r.Method,
		"path", r.URL.Path,
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, please slow down", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func userOrIP(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIP(r)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// bodyEmail peeks at a JSON body's "email" field and restores the body.
func bodyEmail(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &payload) != nil {
		return ""
	}
	if email := strings.ToLower(strings.TrimSpace(payload.Email)); email != "" {
		return "email:" + email
	}
	return ""
}
