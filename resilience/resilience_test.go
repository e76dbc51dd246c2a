package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 2,
		FailureWindow:    time.Minute,
		RecoveryTimeout:  10 * time.Millisecond,
		SuccessThreshold: 1,
		PerEndpoint:      true,
	})

	key := cb.Key("acme", "/chat")

	require.NoError(t, cb.Allow(key))
	cb.RecordFailure(key)
	require.NoError(t, cb.Allow(key))
	cb.RecordFailure(key)

	assert.Equal(t, StateOpen, cb.StateOf(key))

	err := cb.Allow(key)
	require.Error(t, err)

	var openErr *ErrOpen
	require.ErrorAs(t, err, &openErr)
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		FailureWindow:    time.Minute,
		RecoveryTimeout:  5 * time.Millisecond,
		SuccessThreshold: 1,
		PerEndpoint:      true,
	})

	key := cb.Key("acme", "/chat")
	cb.RecordFailure(key)
	assert.Equal(t, StateOpen, cb.StateOf(key))

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, cb.Allow(key))
	assert.Equal(t, StateHalfOpen, cb.StateOf(key))

	cb.RecordSuccess(key)
	assert.Equal(t, StateClosed, cb.StateOf(key))
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	attempts := 0

	classify := func(err error) (bool, time.Duration) { return false, 0 }

	_, err := Retry(context.Background(), DefaultRetryConfig(), classify, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetry_RetriesUpToMaxAttempts(t *testing.T) {
	attempts := 0

	classify := func(err error) (bool, time.Duration) { return true, time.Millisecond }

	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 3
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond

	_, err := Retry(context.Background(), cfg, classify, func(ctx context.Context) (int, error) {
		attempts++
		return 0, errors.New("transient")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRateLimiter_WaitForPermit(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxRequests: 1000, WindowSecs: 1, Burst: 1000})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, rl.WaitForPermit(ctx, "acme"))
	}
}

func TestDegradationLevel_HalveMaxTokens(t *testing.T) {
	req := map[string]any{"max_tokens": 100.0}
	changed := DegradationHalveMaxTokens.Apply(req)
	assert.True(t, changed)
	assert.Equal(t, 50.0, req["max_tokens"])
}

func TestPlan_Steps(t *testing.T) {
	p := Plan{
		BaseURLs:          []string{"https://a", "https://b"},
		DegradationLevels: []DegradationLevel{DegradationHalveMaxTokens, DegradationDisableStreaming},
		MaxAttempts:       3,
	}

	steps := p.Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "https://a", steps[0].BaseURL)
	assert.Equal(t, "https://b", steps[1].BaseURL)
	assert.Equal(t, DegradationHalveMaxTokens, steps[2].Level)
}
