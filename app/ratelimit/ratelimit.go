// Package ratelimit provides token buckets keyed by an arbitrary identifier
// such as a user ID or client IP.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter holds one limiter per key and prunes stale entries inline.
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	r       rate.Limit
	b       int
	now     func() time.Time
}

// New creates a KeyedLimiter allowing r events per second with burst b.
func New(r rate.Limit, b int) *KeyedLimiter {
	if b < 1 {
		b = 1
	}
	return &KeyedLimiter{
		entries: make(map[string]*entry),
		r:       r,
		b:       b,
		now:     time.Now,
	}
}

// PerMinute converts an events-per-minute setting into a rate.Limit.
// Zero or negative values disable limiting.
func PerMinute(n float64) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Limit(n / 60)
}

// Limiter returns the limiter for key, pruning idle entries when the map
// exceeds cleanupThreshold.
func (l *KeyedLimiter) Limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.entries) > cleanupThreshold {
		cutoff := now.Add(-maxIdleAge)
		for k, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, k)
			}
		}
	}

	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

// Allow reports whether an event for key may happen now.
func (l *KeyedLimiter) Allow(key string) bool {
	return l.Limiter(key).AllowN(l.now(), 1)
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Middleware rate limits HTTP requests by client IP.
func Middleware(limiter *KeyedLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.Allow(ip) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
