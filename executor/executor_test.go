package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightloom/promptbridge/httpclient"
	"github.com/brightloom/promptbridge/normalize"
	"github.com/brightloom/promptbridge/resilience"
	"github.com/brightloom/promptbridge/spec"
)

func TestExecutor_Run_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	t.Setenv("PROMPTBRIDGE_TEST_KEY", "abc")

	exec := New(
		httpclient.New(httpclient.DefaultConfig()),
		resilience.NewRateLimiter(resilience.RateLimitConfig{MaxRequests: 100, WindowSecs: 1, Burst: 100}),
		resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
		resilience.DefaultRetryConfig(),
		resilience.DefaultTimeoutConfig(),
	)

	plan := Plan{
		ProviderID: "acme",
		Provider:   spec.ProviderInfo{Name: "acme", BaseURL: server.URL},
		Endpoint:   spec.Endpoint{Method: "POST", Path: "/v1/chat"},
		Auth:       httpclient.AuthConfig{Mode: httpclient.AuthBearer, APIKeyEnv: "PROMPTBRIDGE_TEST_KEY"},
		ModelID:    "gpt-x",
		Normalization: spec.SyncNormalization{
			ContentPath:      "$.choices[0].message.content",
			FinishReasonPath: "$.choices[0].finish_reason",
			FinishReasonMap:  map[string]string{"stop": "stop"},
		},
	}

	resp, err := exec.Run(context.Background(), plan, map[string]any{"model": "gpt-x"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, spec.FinishReasonStop, resp.FinishReason)
}

func TestExecutor_Run_CancelledContextYieldsCancelledKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("PROMPTBRIDGE_TEST_KEY", "abc")

	exec := New(
		httpclient.New(httpclient.DefaultConfig()),
		nil,
		nil,
		resilience.DefaultRetryConfig(),
		resilience.DefaultTimeoutConfig(),
	)

	plan := Plan{
		ProviderID: "acme",
		Provider:   spec.ProviderInfo{Name: "acme", BaseURL: server.URL},
		Endpoint:   spec.Endpoint{Method: "POST", Path: "/v1/chat"},
		Auth:       httpclient.AuthConfig{Mode: httpclient.AuthBearer, APIKeyEnv: "PROMPTBRIDGE_TEST_KEY"},
		ModelID:    "gpt-x",
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exec.Run(ctx, plan, map[string]any{})
	require.Error(t, err)

	var serr *spec.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, spec.KindCancelled, serr.Kind)
}

func TestExecutor_Run_AttemptTimeoutYieldsTimeoutKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("PROMPTBRIDGE_TEST_KEY", "abc")

	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = 1

	exec := New(
		httpclient.New(httpclient.DefaultConfig()),
		nil,
		nil,
		cfg,
		resilience.TimeoutConfig{RequestTimeout: time.Second, AttemptTimeout: 5 * time.Millisecond},
	)

	plan := Plan{
		ProviderID: "acme",
		Provider:   spec.ProviderInfo{Name: "acme", BaseURL: server.URL},
		Endpoint:   spec.Endpoint{Method: "POST", Path: "/v1/chat"},
		Auth:       httpclient.AuthConfig{Mode: httpclient.AuthBearer, APIKeyEnv: "PROMPTBRIDGE_TEST_KEY"},
		ModelID:    "gpt-x",
	}

	_, err := exec.Run(context.Background(), plan, map[string]any{})
	require.Error(t, err)

	var serr *spec.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, spec.KindTimeout, serr.Kind)
}

func TestExecutor_Run_ServerErrorSurfacesClassifiedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer server.Close()

	t.Setenv("PROMPTBRIDGE_TEST_KEY", "abc")

	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = 1

	exec := New(
		httpclient.New(httpclient.DefaultConfig()),
		nil,
		nil,
		cfg,
		resilience.DefaultTimeoutConfig(),
	)

	plan := Plan{
		ProviderID: "acme",
		Provider:   spec.ProviderInfo{Name: "acme", BaseURL: server.URL},
		Endpoint:   spec.Endpoint{Method: "POST", Path: "/v1/chat"},
		Auth:       httpclient.AuthConfig{Mode: httpclient.AuthBearer, APIKeyEnv: "PROMPTBRIDGE_TEST_KEY"},
		ModelID:    "gpt-x",
	}

	_, err := exec.Run(context.Background(), plan, map[string]any{})
	require.Error(t, err)

	var serr *spec.Error
	require.ErrorAs(t, err, &serr)

	var cerr *normalize.ClassifiedError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, normalize.ClassServer, cerr.Classification)
}
