package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig configures the retry handler. Retries of one logical request
// run strictly sequentially, never in parallel.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	Jitter      bool
}

// DefaultRetryConfig is a conservative default: three attempts, 1s base
// delay doubling up to 30s, with jitter enabled.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2,
		Jitter:      true,
	}
}

// Classifier reports whether an error is retryable and, if so, what delay to
// prefer before the next attempt (e.g. a provider's Retry-After hint). A
// zero preferred delay means "defer to the exponential backoff schedule".
type Classifier func(err error) (retryable bool, preferredDelay time.Duration)

// Retry runs op up to cfg.MaxAttempts times (inclusive of the first call).
// A non-retryable error (per classify) short-circuits immediately via
// backoff.Permanent: the retry handler must never
// grind on a deterministic failure. ctx cancellation also short-circuits.
func Retry[T any](ctx context.Context, cfg RetryConfig, classify Classifier, op func(ctx context.Context) (T, error)) (T, error) {
	boff := backoff.NewExponentialBackOff()
	boff.InitialInterval = cfg.BaseDelay
	boff.MaxInterval = cfg.MaxDelay
	boff.Multiplier = cfg.Multiplier
	boff.RandomizationFactor = 0 // jitter applied separately so preferred delays aren't re-jittered

	delayOverride := &overrideBackOff{inner: boff, jitter: cfg.Jitter}

	return backoff.Retry(ctx, func() (T, error) {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		retryable, preferred := classify(err)
		if !retryable {
			return result, backoff.Permanent(err)
		}

		delayOverride.setPreferred(preferred)

		return result, err
	},
		backoff.WithBackOff(delayOverride),
		backoff.WithMaxTries(uint(cfg.MaxAttempts)),
	)
}

// overrideBackOff wraps an exponential backoff.BackOff, letting the most
// recent call site substitute a preferred delay (e.g. a provider's
// Retry-After value) ahead of the computed exponential schedule.
type overrideBackOff struct {
	inner     backoff.BackOff
	jitter    bool
	preferred time.Duration
}

func (o *overrideBackOff) setPreferred(d time.Duration) { o.preferred = d }

func (o *overrideBackOff) Reset() {
	o.inner.Reset()
	o.preferred = 0
}

func (o *overrideBackOff) NextBackOff() time.Duration {
	if o.preferred > 0 {
		d := o.preferred
		o.preferred = 0

		return d
	}

	delay := o.inner.NextBackOff()
	if o.jitter {
		delay = addJitter(delay)
	}

	return delay
}

func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}

	//nolint:gosec // jitter does not need a CSPRNG
	return d + time.Duration(rand.Int63n(int64(d)/4+1))
}
