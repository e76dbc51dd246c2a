// Package httpclient builds and executes the outbound provider HTTP request
// from a ProviderSpec's provider block, a ModelSpec endpoint, and a
// translated body.
package httpclient

import "net/http"

// Request is the generic outbound request the builder produces, independent
// of auth and header-expansion concerns, before it is turned into an
// *http.Request.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// Response is the generic inbound response, read fully into memory — the
// translation pipeline works on small JSON bodies, not large payloads, so
// streaming the body is left to the thin SSE collaborator declared in the
// ProviderSpec's stream block.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}
