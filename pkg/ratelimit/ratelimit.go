// Package ratelimit provides request throttling as an injected capability.
// Callers construct a Limiter (Redis-backed in production, in-memory in
// development and tests) and pass it to the middleware; nothing in here
// reaches for process-global state.
package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderdesk/backoffice/pkg/metrics"
	"github.com/orderdesk/backoffice/pkg/response"
)

// Limiter decides whether one more request under key may proceed right now.
type Limiter interface {
	TryAcquire(key string) bool
}

// ------------------- In-memory limiter -------------------

type window struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window limiter held in process memory. Counts
// are per instance, so behind a load balancer the effective limit is
// max times the replica count; use the Redis limiter when that matters.
type MemoryLimiter struct {
	max     int
	per     time.Duration
	mu      sync.Mutex
	windows map[string]*window
	stop    chan struct{}
}

// NewMemory creates a limiter allowing max requests per window duration.
func NewMemory(max int, per time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		max:     max,
		per:     per,
		windows: map[string]*window{},
		stop:    make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

func (l *MemoryLimiter) TryAcquire(key string) bool {
	l.mu.Lock()
	w, ok := l.windows[key]
	if !ok {
		w = &window{resetAt: time.Now().Add(l.per)}
		l.windows[key] = w
	}
	l.mu.Unlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(l.per)
	}

	w.count++
	return w.count <= l.max
}

// Close stops the background eviction goroutine.
func (l *MemoryLimiter) Close() { close(l.stop) }

// evictLoop drops expired windows so idle keys do not accumulate forever.
func (l *MemoryLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for key, w := range l.windows {
				w.mu.Lock()
				expired := now.After(w.resetAt)
				w.mu.Unlock()
				if expired {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ------------------- Redis limiter -------------------

// RedisLimiter is a fixed-window limiter shared across instances. The
// window is an INCR-ed counter with an expiry set on first increment.
type RedisLimiter struct {
	rdb *redis.Client
	max int
	per time.Duration
}

// NewRedis creates a Redis-backed limiter.
func NewRedis(rdb *redis.Client, max int, per time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, max: max, per: per}
}

func (l *RedisLimiter) TryAcquire(key string) bool {
	ctx := context.Background()
	full := "backoffice:ratelimit:" + key

	count, err := l.rdb.Incr(ctx, full).Result()
	if err != nil {
		// Fail open: a Redis outage must not take down the API.
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, full, l.per)
	}
	return count <= int64(l.max)
}

// ------------------- Middleware -------------------

// KeyFunc derives the throttle key for a request.
type KeyFunc func(r *http.Request) string

// ByIP keys on the client address, honouring X-Forwarded-For.
func ByIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

// Middleware returns an HTTP middleware throttling with l. A nil keyFn
// defaults to per-IP keys. Rejections are 429s and counted in metrics.
func Middleware(l Limiter, keyFn KeyFunc) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = ByIP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.TryAcquire(keyFn(r)) {
				metrics.RateLimited.Inc()
				response.Error(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
