package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/easylaunch/internal/metrics"
	"github.com/MrSnakeDoc/easylaunch/internal/utils"
)

// RateLimitConfig configures a per-client token bucket.
type RateLimitConfig struct {
	Burst             int           // bucket capacity
	RefillPerIPPerMin int           // tokens regained per minute
	MaxEntries        int           // forces a sweep when this many clients are tracked
	SweepInterval     time.Duration // how often idle buckets are dropped
	IdleTTL           time.Duration // a bucket untouched this long is dropped
	TrustProxy        bool          // resolve the client from proxy headers
	Clock             clockwork.Clock
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return c
}

type bucket struct {
	tokens float64
	last   time.Time // last refill, also last use
}

// buckets tracks one token bucket per client.
type buckets struct {
	cfg       RateLimitConfig
	perSecond float64

	mu        sync.Mutex
	byClient  map[string]*bucket
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		cfg:       cfg,
		perSecond: float64(cfg.RefillPerIPPerMin) / 60,
		byClient:  make(map[string]*bucket),
		lastSweep: cfg.Clock.Now(),
	}
}

// take consumes one token of client. When none is left it reports how long
// until the next one.
func (b *buckets) take(client string) (remaining int, wait time.Duration, ok bool) {
	now := b.cfg.Clock.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) >= b.cfg.SweepInterval ||
		(b.cfg.MaxEntries > 0 && len(b.byClient) >= b.cfg.MaxEntries) {
		b.sweep(now)
	}

	capacity := float64(b.cfg.Burst)
	bk, found := b.byClient[client]
	if !found {
		bk = &bucket{tokens: capacity, last: now}
		b.byClient[client] = bk
	}

	if elapsed := now.Sub(bk.last).Seconds(); elapsed > 0 {
		bk.tokens = math.Min(capacity, bk.tokens+elapsed*b.perSecond)
		bk.last = now
	}

	if bk.tokens < 1 {
		secs := math.Ceil((1 - bk.tokens) / b.perSecond)
		return 0, time.Duration(max(secs, 1)) * time.Second, false
	}
	bk.tokens--
	return int(bk.tokens), 0, true
}

func (b *buckets) sweep(now time.Time) {
	for client, bk := range b.byClient {
		if now.Sub(bk.last) > b.cfg.IdleTTL {
			delete(b.byClient, client)
		}
	}
	b.lastSweep = now
}

// RateLimit rejects clients that exhausted their bucket with 429 and a
// Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()
	limiter := newBuckets(cfg)
	limit := strconv.Itoa(cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, wait, ok := limiter.take(utils.ClientIP(r, cfg.TrustProxy))

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				metrics.RateLimitedTotal.Inc()
				h.Set("Retry-After", strconv.Itoa(int(wait/time.Second)))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many requests"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
