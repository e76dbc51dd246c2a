package httpclient

import (
	"encoding/json"
	"net/http"

	"github.com/brightloom/promptbridge/spec"
)

// Build assembles the outbound Request from the provider block, the chosen
// endpoint, the translated body, and the auth configuration.
func Build(provider spec.ProviderInfo, endpoint spec.Endpoint, auth AuthConfig, body map[string]any) (*Request, error) {
	providerHeaders, err := ExpandHeaders(provider.Headers)
	if err != nil {
		return nil, err
	}

	endpointHeaders, err := ExpandHeaders(endpoint.Headers)
	if err != nil {
		return nil, err
	}

	rawURL, err := JoinURL(provider.BaseURL, endpoint.Path, endpoint.Query)
	if err != nil {
		return nil, spec.NewError(spec.KindConfiguration, "invalid base URL %q: %v", provider.BaseURL, err)
	}

	req := &Request{
		Method:  endpoint.Method,
		URL:     rawURL,
		Headers: http.Header{},
	}

	for k, v := range providerHeaders {
		req.Headers.Set(k, v)
	}

	for k, v := range endpointHeaders {
		req.Headers.Set(k, v)
	}

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, spec.NewError(spec.KindInternal, "encoding request body: %v", err)
		}

		req.Body = encoded
		req.Headers.Set("Content-Type", "application/json")
	}

	if err := auth.Apply(req); err != nil {
		return nil, err
	}

	return req, nil
}
