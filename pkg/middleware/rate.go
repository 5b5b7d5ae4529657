// Package middleware provides HTTP middleware for the sweetshop API.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// window is one client's fixed-window counter.
type window struct {
	count int
	until time.Time
}

// limiter tracks per-client request counts under a single lock. The map is
// swept on each tick of the janitor so it stays bounded.
type limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	max     int
	span    time.Duration
}

func newLimiter(max int, span time.Duration) *limiter {
	l := &limiter{clients: map[string]*window{}, max: max, span: span}
	go l.sweep()
	return l
}

func (l *limiter) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.clients[key]
	if w == nil || now.After(w.until) {
		w = &window{until: now.Add(l.span)}
		l.clients[key] = w
	}
	w.count++
	return w.count <= l.max
}

func (l *limiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for now := range ticker.C {
		l.mu.Lock()
		for key, w := range l.clients {
			if now.After(w.until) {
				delete(l.clients, key)
			}
		}
		l.mu.Unlock()
	}
}

// clientKey prefers the first X-Forwarded-For hop, then the remote address
// without its port.
func clientKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit caps each client at max requests per window, answering 429 past
// the cap. Example: middleware.RateLimit(200, time.Minute)
func RateLimit(max int, span time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(max, span)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientKey(r), time.Now()) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"detail":"Too Many Requests"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
