// Package normalize classifies provider-side HTTP failures into the uniform
// error taxonomy and extracts a spec.UniformResponse from a successful
// provider response body.
package normalize

import (
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/brightloom/promptbridge/httpclient"
	"github.com/brightloom/promptbridge/spec"
)

// Classification is the closed set of provider-failure categories.
type Classification string

const (
	ClassClient         Classification = "ClientError"
	ClassServer         Classification = "ServerError"
	ClassNetwork        Classification = "NetworkError"
	ClassRateLimit      Classification = "RateLimitError"
	ClassAuthentication Classification = "AuthenticationError"
	ClassUnknown        Classification = "Unknown"
)

// Retryable reports whether errors of this classification should be retried
// ServerError, NetworkError, and RateLimitError are retryable.
func (c Classification) Retryable() bool {
	switch c {
	case ClassServer, ClassNetwork, ClassRateLimit:
		return true
	default:
		return false
	}
}

// baseRetryDelaySeconds returns the classification's hinted base delay,
// combined by the retry handler with its own exponential backoff.
func (c Classification) baseRetryDelaySeconds() int64 {
	switch c {
	case ClassRateLimit:
		return 60
	case ClassServer:
		return 5
	case ClassNetwork:
		return 2
	default:
		return 0
	}
}

// ClassifiedError is the result of classifying a failed HTTP response.
type ClassifiedError struct {
	Classification    Classification
	StatusCode        int
	ProviderCode      string
	ProviderMessage   string
	RawBody           []byte
	RetryAfterSeconds int64
}

func (e *ClassifiedError) Error() string {
	if e.ProviderMessage != "" {
		return e.ProviderMessage
	}

	return string(e.RawBody)
}

// RetryDelaySeconds resolves the delay to use before the next attempt:
// Retry-After wins when present, otherwise the classification's hint.
func (e *ClassifiedError) RetryDelaySeconds() int64 {
	if e.RetryAfterSeconds > 0 {
		return e.RetryAfterSeconds
	}

	return e.Classification.baseRetryDelaySeconds()
}

// ClassifyHTTP classifies a completed HTTP response per the status-code
// table, parsing the body for provider code/message when possible.
func ClassifyHTTP(resp *httpclient.Response) *ClassifiedError {
	classification := classifyStatus(resp.StatusCode)

	code, message := extractProviderError(resp.Body)

	return &ClassifiedError{
		Classification:    classification,
		StatusCode:        resp.StatusCode,
		ProviderCode:      code,
		ProviderMessage:   message,
		RawBody:           resp.Body,
		RetryAfterSeconds: parseRetryAfter(resp.Headers.Get("Retry-After")),
	}
}

// ClassifyNetwork classifies a transport-level failure that never produced
// a status code.
func ClassifyNetwork(cause error) *ClassifiedError {
	return &ClassifiedError{
		Classification:  ClassNetwork,
		ProviderMessage: cause.Error(),
	}
}

func classifyStatus(status int) Classification {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ClassAuthentication
	case status == http.StatusTooManyRequests:
		return ClassRateLimit
	case status >= 400 && status < 500:
		return ClassClient
	case status >= 500:
		return ClassServer
	default:
		return ClassUnknown
	}
}

// extractProviderError tries two well-known error body shapes: nested
// error.code/error.message, or top-level type/message. It falls back to the
// raw body text when neither shape matches.
func extractProviderError(body []byte) (code, message string) {
	if !gjson.ValidBytes(body) {
		return "", string(body)
	}

	parsed := gjson.ParseBytes(body)

	if nested := parsed.Get("error"); nested.Exists() {
		return nested.Get("code").String(), nested.Get("message").String()
	}

	if msg := parsed.Get("message"); msg.Exists() {
		return parsed.Get("type").String(), msg.String()
	}

	return "", string(body)
}

func parseRetryAfter(header string) int64 {
	if header == "" {
		return 0
	}

	seconds, err := strconv.ParseInt(header, 10, 64)
	if err != nil {
		return 0
	}

	return seconds
}

// ToSpecError converts a ClassifiedError into the uniform spec.Error
// taxonomy.
func (e *ClassifiedError) ToSpecError() *spec.Error {
	kind := spec.KindHTTP

	switch e.Classification {
	case ClassAuthentication:
		kind = spec.KindHTTP
	case ClassRateLimit:
		kind = spec.KindRateLimit
	}

	serr := spec.NewError(kind, "%s", e.Error()).WithStage("execute")
	if e.Classification == ClassRateLimit {
		serr.RetryAfterSeconds = e.RetryDelaySeconds()
	}

	return serr
}
