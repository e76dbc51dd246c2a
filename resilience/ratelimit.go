package resilience

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimitConfig is one provider's (or the global) token-bucket
// configuration: MaxRequests per WindowSecs, with an optional Burst size
// (MaxRequests when zero or negative). The refill rate is always
// MaxRequests/WindowSecs; there is no separate refill-rate setting.
type RateLimitConfig struct {
	MaxRequests int
	WindowSecs  float64
	Burst       int
}

// limit converts the window-based configuration into rate.Limit (events per
// second), the unit golang.org/x/time/rate operates in.
func (c RateLimitConfig) limit() rate.Limit {
	if c.WindowSecs <= 0 {
		return rate.Inf
	}

	return rate.Limit(float64(c.MaxRequests) / c.WindowSecs)
}

// RateLimiter admits calls under a per-provider token bucket, falling back
// to a global bucket for providers without an override. Permits
// are issued in arrival order per bucket (x/time/rate.Wait queues FIFO
// internally).
type RateLimiter struct {
	global RateLimitConfig

	mu        sync.Mutex
	buckets   map[string]*rate.Limiter
	overrides map[string]RateLimitConfig
}

// NewRateLimiter builds a RateLimiter with global as the default bucket
// configuration for any provider without a registered override.
func NewRateLimiter(global RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		global:    global,
		buckets:   make(map[string]*rate.Limiter),
		overrides: make(map[string]RateLimitConfig),
	}
}

// SetOverride registers a per-provider bucket configuration, replacing the
// global default for that provider.
func (r *RateLimiter) SetOverride(providerID string, cfg RateLimitConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.overrides[providerID] = cfg
	delete(r.buckets, providerID) // force rebuild with the new config
}

func (r *RateLimiter) bucketFor(providerID string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.buckets[providerID]; ok {
		return b
	}

	cfg, ok := r.overrides[providerID]
	if !ok {
		cfg = r.global
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.MaxRequests
	}

	b := rate.NewLimiter(cfg.limit(), burst)
	r.buckets[providerID] = b

	return b
}

// WaitForPermit blocks until a token is available for providerID, or until
// ctx is cancelled. rate.Limiter.Wait reserves a token up front and cancels
// that reservation (returning it to the bucket) the instant ctx is done, so
// a cancelled wait never leaks a held permit. Permits are not returned on a
// call that fails after being granted — a retried call consumes a fresh
// one.
func (r *RateLimiter) WaitForPermit(ctx context.Context, providerID string) error {
	return r.bucketFor(providerID).Wait(ctx)
}
