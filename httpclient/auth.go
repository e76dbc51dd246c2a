package httpclient

import (
	"fmt"
	"os"
	"regexp"

	"github.com/brightloom/promptbridge/spec"
)

var envRefPattern = regexp.MustCompile(`\$\{ENV:([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandHeaders replaces every ${ENV:VAR} reference in headers' values with
// the current process environment variable VAR. Substitution is
// non-recursive: an expanded value is never itself re-scanned. An unset
// variable fails the whole expansion with a Configuration error.
func ExpandHeaders(headers map[string]string) (map[string]string, error) {
	expanded := make(map[string]string, len(headers))

	for key, value := range headers {
		result, err := expandOne(value)
		if err != nil {
			return nil, err
		}

		expanded[key] = result
	}

	return expanded, nil
}

func expandOne(value string) (string, error) {
	var outerErr error

	result := envRefPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := envRefPattern.FindStringSubmatch(match)[1]

		v, ok := os.LookupEnv(name)
		if !ok {
			outerErr = spec.NewError(spec.KindConfiguration, "environment variable %q referenced in header template is not set", name)
			return match
		}

		return v
	})

	if outerErr != nil {
		return "", outerErr
	}

	return result, nil
}

// AuthMode is the closed set of auth strategies an AuthConfig may select.
// Neither ModelSpec nor ProviderSpec declares one; callers supply it.
type AuthMode string

const (
	AuthBearer  AuthMode = "bearer"
	AuthHeader  AuthMode = "header"
	AuthGeneric AuthMode = "generic"
)

// AuthConfig describes how to authenticate an outbound request.
type AuthConfig struct {
	Mode AuthMode

	// Bearer
	APIKeyEnv string

	// Header
	HeaderName        string
	VersionHeaderName string
	VersionValue      string

	// Generic
	Headers map[string]string
}

// Apply mutates req's headers in place to add the configured authentication.
func (a AuthConfig) Apply(req *Request) error {
	switch a.Mode {
	case AuthBearer:
		key, ok := os.LookupEnv(a.APIKeyEnv)
		if !ok {
			return spec.NewError(spec.KindConfiguration, "environment variable %q for bearer auth is not set", a.APIKeyEnv)
		}

		req.Headers.Set("Authorization", fmt.Sprintf("Bearer %s", key))

		return nil

	case AuthHeader:
		key, ok := os.LookupEnv(a.APIKeyEnv)
		if !ok {
			return spec.NewError(spec.KindConfiguration, "environment variable %q for header auth is not set", a.APIKeyEnv)
		}

		req.Headers.Set(a.HeaderName, key)

		if a.VersionHeaderName != "" {
			req.Headers.Set(a.VersionHeaderName, a.VersionValue)
		}

		return nil

	case AuthGeneric:
		expanded, err := ExpandHeaders(a.Headers)
		if err != nil {
			return err
		}

		for k, v := range expanded {
			req.Headers.Set(k, v)
		}

		return nil

	default:
		return spec.NewError(spec.KindConfiguration, "unknown auth mode %q", a.Mode)
	}
}
