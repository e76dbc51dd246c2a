// Package executor wires the resilience policies (rate limiter, circuit
// breaker, retry, fallback) around a single httpclient.Client call and
// normalises the result into a spec.UniformResponse, implementing the
// forward execution path: rate-limit admission, circuit-breaker gating,
// the HTTP call with retry, and response normalisation.
package executor

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/brightloom/promptbridge/httpclient"
	"github.com/brightloom/promptbridge/internal/log"
	"github.com/brightloom/promptbridge/normalize"
	"github.com/brightloom/promptbridge/resilience"
	"github.com/brightloom/promptbridge/spec"
)

// Executor composes one httpclient.Client with process-wide resilience
// state. A single Executor should be shared across all translations against
// the same set of providers, since the rate limiter and circuit breaker are
// keyed per provider/endpoint and must be process-wide to be meaningful.
type Executor struct {
	client      *httpclient.Client
	rateLimiter *resilience.RateLimiter
	breaker     *resilience.CircuitBreaker
	retryCfg    resilience.RetryConfig
	timeoutCfg  resilience.TimeoutConfig

	// probes collapses concurrent HalfOpen trial calls against the same
	// breaker key into a single in-flight attempt: only one goroutine
	// actually probes the provider while the rest share its outcome,
	// instead of every waiting caller spending its own half-open trial.
	probes singleflight.Group
}

// New builds an Executor from its collaborators. Pass nil for rateLimiter or
// breaker to disable that policy. timeoutCfg governs the deadline Run
// applies around the whole operation (and, optionally, each attempt within
// it); pass resilience.DefaultTimeoutConfig() for the conservative default.
func New(client *httpclient.Client, rateLimiter *resilience.RateLimiter, breaker *resilience.CircuitBreaker, retryCfg resilience.RetryConfig, timeoutCfg resilience.TimeoutConfig) *Executor {
	return &Executor{client: client, rateLimiter: rateLimiter, breaker: breaker, retryCfg: retryCfg, timeoutCfg: timeoutCfg}
}

// Plan is everything Run needs beyond the translated body: which provider
// and endpoint to call, how to authenticate, and how to interpret the
// response.
type Plan struct {
	ProviderID    string
	Provider      spec.ProviderInfo
	Endpoint      spec.Endpoint
	Auth          httpclient.AuthConfig
	ModelID       string
	Normalization spec.SyncNormalization
	Fallback      *resilience.Plan
}

// Run executes one translated request end to end: rate-limit admission,
// circuit-breaker gating, the HTTP call with retry, and response
// normalisation. ctx governs the entire operation including every attempt
// and any retry sleeps; e.timeoutCfg additionally bounds the whole call
// (and, if configured, each individual attempt) regardless of what
// deadline ctx itself already carries.
func (e *Executor) Run(ctx context.Context, plan Plan, body map[string]any) (*spec.UniformResponse, error) {
	ctx, cancel := e.timeoutCfg.WithRequest(ctx)
	defer cancel()

	steps := fallbackSteps(plan.Fallback)

	var lastErr error

	for _, step := range steps {
		attemptBody := cloneDoc(body)
		if step.Level != resilience.DegradationNone {
			step.Level.Apply(attemptBody)
		}

		endpoint := plan.Endpoint
		if step.BaseURL != "" {
			provider := plan.Provider
			provider.BaseURL = step.BaseURL

			resp, err := e.callOnce(ctx, provider, endpoint, plan, attemptBody)
			if err == nil {
				return resp, nil
			}

			lastErr = err

			continue
		}

		resp, err := e.callOnce(ctx, plan.Provider, endpoint, plan, attemptBody)
		if err == nil {
			return resp, nil
		}

		lastErr = err
	}

	return nil, lastErr
}

func fallbackSteps(plan *resilience.Plan) []struct {
	BaseURL string
	Level   resilience.DegradationLevel
} {
	if plan == nil {
		return []struct {
			BaseURL string
			Level   resilience.DegradationLevel
		}{{}}
	}

	return plan.Steps()
}

func cloneDoc(doc map[string]any) map[string]any {
	clone := make(map[string]any, len(doc))
	for k, v := range doc {
		clone[k] = v
	}

	return clone
}

func (e *Executor) callOnce(ctx context.Context, provider spec.ProviderInfo, endpoint spec.Endpoint, plan Plan, body map[string]any) (*spec.UniformResponse, error) {
	breakerKey := ""
	if e.breaker != nil {
		breakerKey = e.breaker.Key(plan.ProviderID, endpoint.Path)

		if err := e.breaker.Allow(breakerKey); err != nil {
			return nil, spec.NewError(spec.KindCircuitBreakerOpen, "%v", err).WithStage("execute")
		}

		if e.breaker.StateOf(breakerKey) == resilience.StateHalfOpen {
			return e.probeOnce(ctx, breakerKey, provider, endpoint, plan, body)
		}
	}

	return e.doCall(ctx, breakerKey, provider, endpoint, plan, body)
}

// probeOnce collapses every concurrent HalfOpen caller for key into a
// single real attempt via singleflight, so a burst of concurrent requests
// arriving right as the breaker starts probing doesn't spend its whole
// half-open trial budget on duplicate calls.
func (e *Executor) probeOnce(ctx context.Context, breakerKey string, provider spec.ProviderInfo, endpoint spec.Endpoint, plan Plan, body map[string]any) (*spec.UniformResponse, error) {
	result, err, _ := e.probes.Do(breakerKey, func() (any, error) {
		return e.doCall(ctx, breakerKey, provider, endpoint, plan, body)
	})

	if err != nil {
		return nil, err
	}

	return result.(*spec.UniformResponse), nil
}

func (e *Executor) doCall(ctx context.Context, breakerKey string, provider spec.ProviderInfo, endpoint spec.Endpoint, plan Plan, body map[string]any) (*spec.UniformResponse, error) {
	resp, err := resilience.Retry(ctx, e.retryCfg, e.classify, func(ctx context.Context) (*httpclient.Response, error) {
		ctx, cancel := e.timeoutCfg.WithAttempt(ctx)
		defer cancel()

		if e.rateLimiter != nil {
			if err := e.rateLimiter.WaitForPermit(ctx, plan.ProviderID); err != nil {
				return nil, err
			}
		}

		req, err := httpclient.Build(provider, endpoint, plan.Auth, body)
		if err != nil {
			return nil, err
		}

		start := time.Now()

		raw, err := e.client.Do(ctx, req)

		log.Debug(ctx, "provider call completed", log.String("provider", plan.ProviderID), log.Duration("elapsed", time.Since(start)))

		if err != nil {
			return nil, err
		}

		if raw.StatusCode >= 400 {
			return raw, normalize.ClassifyHTTP(raw)
		}

		return raw, nil
	})

	if e.breaker != nil {
		if err != nil {
			e.breaker.RecordFailure(breakerKey)
		} else {
			e.breaker.RecordSuccess(breakerKey)
		}
	}

	if err != nil {
		return nil, toSpecError(err)
	}

	return normalize.Response(resp.Body, plan.ModelID, plan.Normalization)
}

func (e *Executor) classify(err error) (bool, time.Duration) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false, 0
	}

	if cerr, ok := err.(*normalize.ClassifiedError); ok {
		return cerr.Classification.Retryable(), time.Duration(cerr.RetryDelaySeconds()) * time.Second
	}

	if _, ok := err.(*httpclient.TLSError); ok {
		return false, 0
	}

	if _, ok := err.(*httpclient.NetworkError); ok {
		return true, 0
	}

	return false, 0
}

func toSpecError(err error) error {
	if errors.Is(err, context.Canceled) {
		return spec.NewError(spec.KindCancelled, "translation was cancelled").WithStage("execute").WithCause(err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return spec.NewError(spec.KindTimeout, "request exceeded its timeout").WithStage("execute").WithCause(err)
	}

	if cerr, ok := err.(*normalize.ClassifiedError); ok {
		return cerr.ToSpecError().WithCause(cerr)
	}

	if terr, ok := err.(*httpclient.TLSError); ok {
		return spec.NewError(spec.KindTLS, "tls handshake failed: %v", terr).WithStage("execute").WithCause(terr)
	}

	if nerr, ok := err.(*httpclient.NetworkError); ok {
		return spec.NewError(spec.KindHTTP, "network error: %v", nerr).WithStage("execute").WithCause(nerr)
	}

	if serr, ok := err.(*spec.Error); ok {
		return serr
	}

	return spec.NewError(spec.KindInternal, "%v", err).WithStage("execute").WithCause(err)
}
