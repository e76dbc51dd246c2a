package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/brightloom/promptbridge/internal/log"
)

// Client executes Requests over a configured *http.Client. It carries
// timeout and TLS policy via the underlying transport.
type Client struct {
	client *http.Client
}

// Config configures the transport-level policy of a Client. DialTimeout,
// ResponseHeaderTimeout and RequestTimeout correspond to one HTTP call's
// connect/read/whole-round-trip bounds; the request-spanning-all-retries
// deadline lives one layer up, in resilience.TimeoutConfig.
type Config struct {
	DialTimeout           time.Duration
	ResponseHeaderTimeout time.Duration
	RequestTimeout        time.Duration
	TLSHandshakeTimeout   time.Duration
	IdleConnTimeout       time.Duration
	MaxIdleConns          int
	InsecureSkipVerify    bool
}

// DefaultConfig mirrors a conservative production transport: bounded dial,
// read and whole-request timeouts, HTTP/2 attempted opportunistically,
// connection reuse across calls to the same provider.
func DefaultConfig() Config {
	return Config{
		DialTimeout:           10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		RequestTimeout:        30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
	}
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxIdleConns,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec // explicit opt-in via Config.InsecureSkipVerify
	}

	return &Client{client: &http.Client{Transport: transport, Timeout: cfg.RequestTimeout}}
}

// Do executes req, returning the fully-read Response. ctx governs the
// per-attempt deadline; the retry handler in package resilience wraps
// repeated calls to Do with its own policy.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if log.DebugEnabled(ctx) {
		log.Debug(ctx, "executing http request",
			log.String("method", req.Method),
			log.String("url", req.URL),
			log.Any("headers", MaskSensitiveHeaders(req.Headers)),
			log.Any("body", string(RedactBody(req.Body))))
	}

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	rawReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: building request: %w", err)
	}

	rawReq.Header = req.Headers.Clone()
	if rawReq.Header.Get("Accept") == "" {
		rawReq.Header.Set("Accept", "application/json")
	}

	rawResp, err := c.client.Do(rawReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	defer func() {
		if cerr := rawResp.Body.Close(); cerr != nil {
			log.Warn(ctx, "failed to close response body", log.Cause(cerr))
		}
	}()

	body, err := io.ReadAll(rawResp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: reading response body: %w", err)
	}

	if log.DebugEnabled(ctx) {
		log.Debug(ctx, "http request completed",
			log.String("method", req.Method),
			log.Int("status_code", rawResp.StatusCode))
	}

	return &Response{
		StatusCode: rawResp.StatusCode,
		Headers:    rawResp.Header,
		Body:       body,
	}, nil
}

// NetworkError wraps a transport-level failure (connection refused,
// timeout, DNS failure) that never produced an HTTP status, distinguishing
// it from a server's own error response for the retry classifier and error
// mapping in package executor.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("httpclient: network error: %v", e.Cause) }
func (e *NetworkError) Unwrap() error { return e.Cause }

// TLSError wraps a certificate or handshake failure, distinguishing it from
// a generic NetworkError so the executor can surface it as spec.KindTLS
// instead of retrying a connection that will never succeed.
type TLSError struct {
	Cause error
}

func (e *TLSError) Error() string { return fmt.Sprintf("httpclient: tls error: %v", e.Cause) }
func (e *TLSError) Unwrap() error { return e.Cause }

// classifyTransportError distinguishes a TLS handshake/certificate failure
// from a generic network error among the errors http.Client.Do can return.
func classifyTransportError(err error) error {
	var (
		unknownAuth  x509.UnknownAuthorityError
		hostErr      x509.HostnameError
		certInvalid  x509.CertificateInvalidError
		recordHeader tls.RecordHeaderError
		certVerify   *tls.CertificateVerificationError
	)

	if errors.As(err, &unknownAuth) || errors.As(err, &hostErr) || errors.As(err, &certInvalid) ||
		errors.As(err, &recordHeader) || errors.As(err, &certVerify) {
		return &TLSError{Cause: err}
	}

	return &NetworkError{Cause: err}
}
