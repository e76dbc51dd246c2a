package resilience

import (
	"context"
	"time"
)

// TimeoutConfig is the timeout policy Executor.Run applies around one
// logical request. RequestTimeout bounds the whole operation, including
// every retry and fallback attempt; AttemptTimeout, when set, additionally
// bounds each individual attempt so one slow retry can't spend the entire
// request budget.
type TimeoutConfig struct {
	RequestTimeout time.Duration
	AttemptTimeout time.Duration
}

// DefaultTimeoutConfig is a conservative default: thirty seconds for the
// whole request, no per-attempt override.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{RequestTimeout: 30 * time.Second}
}

// WithRequest bounds ctx by RequestTimeout. The returned cancel func must
// run once the request — including every retry — has finished.
func (c TimeoutConfig) WithRequest(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.RequestTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.RequestTimeout)
}

// WithAttempt additionally bounds ctx by AttemptTimeout for a single
// attempt, when configured. A zero AttemptTimeout leaves ctx governed only
// by the request-level deadline from WithRequest.
func (c TimeoutConfig) WithAttempt(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.AttemptTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.AttemptTimeout)
}
