// Package resilience implements the outer execution policy wrapped around
// one provider HTTP call: retry with backoff, a token-bucket rate limiter,
// a per-endpoint circuit breaker, and channel/base-URL fallback.
package resilience

import (
	"sync"
	"time"
)

// State is the circuit breaker's state machine: Closed -> Open ->
// HalfOpen → Closed.
type State string

const (
	StateClosed   State = "Closed"
	StateOpen     State = "Open"
	StateHalfOpen State = "HalfOpen"
)

// CircuitBreakerConfig configures one breaker instance.
type CircuitBreakerConfig struct {
	FailureThreshold int
	FailureWindow    time.Duration
	RecoveryTimeout  time.Duration
	SuccessThreshold int
	PerEndpoint      bool
	MinRequestRate   float64 // requests/minute required before a breaker can open
}

// DefaultCircuitBreakerConfig is a conservative default: five failures
// within thirty minutes opens the breaker, three consecutive successes
// after a five-minute cooldown closes it again.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		FailureWindow:    30 * time.Minute,
		RecoveryTimeout:  5 * time.Minute,
		SuccessThreshold: 3,
		PerEndpoint:      true,
		MinRequestRate:   0,
	}
}

type breakerStats struct {
	mu sync.Mutex

	state State

	failureCount   int
	windowStart    time.Time
	requestCount   int
	successesInRow int

	nextProbeAt time.Time
}

// CircuitBreaker tracks per-(provider,endpoint) breaker state, process-wide,
// mutation is serialised under a short
// critical section and no lock is held across suspension.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu    sync.Mutex
	stats map[string]*breakerStats
}

// NewCircuitBreaker builds a CircuitBreaker with cfg.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg, stats: make(map[string]*breakerStats)}
}

// Key builds the breaker key for a (providerID, endpointPath) pair,
// collapsing to just providerID when PerEndpoint is false.
func (b *CircuitBreaker) Key(providerID, endpointPath string) string {
	if !b.cfg.PerEndpoint {
		return providerID
	}

	return providerID + "|" + endpointPath
}

func (b *CircuitBreaker) statsFor(key string) *breakerStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.stats[key]
	if !ok {
		s = &breakerStats{state: StateClosed, windowStart: time.Now()}
		b.stats[key] = s
	}

	return s
}

// ErrOpen is returned by Allow when the breaker rejects a call outright.
type ErrOpen struct{ Key string }

func (e *ErrOpen) Error() string { return "resilience: circuit breaker open for " + e.Key }

// Allow checks whether a call against key may proceed, transitioning
// Open→HalfOpen once RecoveryTimeout has elapsed. It returns *ErrOpen when
// the call must be rejected without ever reaching the network.
func (b *CircuitBreaker) Allow(key string) error {
	s := b.statsFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	switch s.state {
	case StateOpen:
		if now.Before(s.nextProbeAt) {
			return &ErrOpen{Key: key}
		}

		s.state = StateHalfOpen
		s.successesInRow = 0

		return nil

	default:
		return nil
	}
}

// RecordSuccess reports a successful call against key.
func (b *CircuitBreaker) RecordSuccess(key string) {
	s := b.statsFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateHalfOpen:
		s.successesInRow++
		if s.successesInRow >= b.cfg.SuccessThreshold {
			s.state = StateClosed
			s.failureCount = 0
			s.windowStart = time.Now()
		}

	case StateClosed:
		s.requestCount++
	}
}

// RecordFailure reports a failed call against key, possibly tripping the
// breaker open.
func (b *CircuitBreaker) RecordFailure(key string) {
	s := b.statsFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	if s.state == StateHalfOpen {
		s.state = StateOpen
		s.nextProbeAt = now.Add(b.cfg.RecoveryTimeout)
		s.failureCount = 0
		s.windowStart = now

		return
	}

	if now.Sub(s.windowStart) > b.cfg.FailureWindow {
		s.failureCount = 0
		s.requestCount = 0
		s.windowStart = now
	}

	s.failureCount++
	s.requestCount++

	rate := requestRatePerMinute(s.requestCount, now.Sub(s.windowStart))

	if s.failureCount >= b.cfg.FailureThreshold && rate >= b.cfg.MinRequestRate {
		s.state = StateOpen
		s.nextProbeAt = now.Add(b.cfg.RecoveryTimeout)
	}
}

// StateOf returns the current state of the breaker for key, mostly useful
// for tests and diagnostics.
func (b *CircuitBreaker) StateOf(key string) State {
	s := b.statsFor(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func requestRatePerMinute(count int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return float64(count)
	}

	return float64(count) / elapsed.Minutes()
}
