package middleware

import (
	"container/list"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	dErrors "civreg/pkg/domain-errors"
	"civreg/pkg/platform/httputil"
	"civreg/pkg/requestcontext"
)

const (
	limiterIdleTTL      = 10 * time.Minute
	limiterSweepEvery   = 5 * time.Minute
	evictionLogInterval = 30 * time.Second
)

type ipLimiter struct {
	ip       string
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP with LRU eviction once
// maxIPs buckets are tracked.
type RateLimiter struct {
	rps    rate.Limit
	burst  int
	maxIPs int
	logger *slog.Logger
	now    func() time.Time

	mu           sync.Mutex
	items        map[string]*list.Element
	order        *list.List
	lastEvictLog time.Time
	evictCount   int
}

// NewRateLimiter builds a limiter. A non-positive rps disables limiting.
func NewRateLimiter(rps float64, burst, maxIPs int, logger *slog.Logger) *RateLimiter {
	if maxIPs <= 0 {
		maxIPs = 10000
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:    rate.Limit(rps),
		burst:  burst,
		maxIPs: maxIPs,
		logger: logger,
		now:    time.Now,
		items:  make(map[string]*list.Element),
		order:  list.New(),
	}
}

// Allow consumes a token for ip.
func (l *RateLimiter) Allow(ip string) bool {
	if l.rps <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	elem, ok := l.items[ip]
	if ok {
		l.order.MoveToFront(elem)
		elem.Value.(*ipLimiter).lastSeen = now
	} else {
		if l.order.Len() >= l.maxIPs {
			l.evictOldest(now)
		}
		elem = l.order.PushFront(&ipLimiter{
			ip:       ip,
			limiter:  rate.NewLimiter(l.rps, l.burst),
			lastSeen: now,
		})
		l.items[ip] = elem
	}
	return elem.Value.(*ipLimiter).limiter.AllowN(now, 1)
}

func (l *RateLimiter) evictOldest(now time.Time) {
	back := l.order.Back()
	if back == nil {
		return
	}
	evicted := back.Value.(*ipLimiter)
	l.order.Remove(back)
	delete(l.items, evicted.ip)
	l.evictCount++
	if now.Sub(l.lastEvictLog) >= evictionLogInterval {
		l.logger.Warn("rate limiter evicted least recent clients", "count", l.evictCount, "capacity", l.maxIPs)
		l.lastEvictLog = now
		l.evictCount = 0
	}
}

// Tracked returns the number of buckets currently held.
func (l *RateLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// Sweep drops buckets idle for longer than the idle TTL. LRU order tracks
// recency of access, so every entry is checked.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	removed := 0
	for e := l.order.Back(); e != nil; {
		prev := e.Prev()
		lim := e.Value.(*ipLimiter)
		if now.Sub(lim.lastSeen) > limiterIdleTTL {
			l.order.Remove(e)
			delete(l.items, lim.ip)
			removed++
		}
		e = prev
	}
	return removed
}

// Run sweeps idle buckets until ctx is cancelled.
func (l *RateLimiter) Run(ctx context.Context) error {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				l.logger.Debug("rate limiter swept idle clients", "removed", n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Middleware rejects requests over the limit with 429. Safe methods pass
// through untouched.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ip := requestcontext.ClientIP(r.Context())
		if !l.Allow(ip) {
			w.Header().Set("Retry-After", "1")
			httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Trop de requêtes, veuillez réessayer"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
