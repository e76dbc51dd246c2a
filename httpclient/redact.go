package httpclient

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// sensitiveHeaderNames is the closed set of header names masked before a
// Request is logged, case-insensitively.
var sensitiveHeaderNames = []string{
	"authorization",
	"x-api-key",
	"api-key",
	"x-goog-api-key",
}

// MaskSensitiveHeaders returns a copy of headers with known credential
// headers replaced by a fixed placeholder, safe to pass to a debug log.
func MaskSensitiveHeaders(headers http.Header) http.Header {
	masked := headers.Clone()

	for name := range masked {
		if lo.Contains(sensitiveHeaderNames, lowerHeaderName(name)) {
			masked.Set(name, "***")
		}
	}

	return masked
}

func lowerHeaderName(name string) string {
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}

	return string(b)
}

// sensitiveBodyPaths is the closed set of sjson paths masked before a
// request body is logged.
var sensitiveBodyPaths = []string{"api_key", "authorization"}

// RedactBody returns body with any sensitive top-level field masked, for
// safe inclusion in a debug log line. Malformed JSON is returned unchanged.
func RedactBody(body []byte) []byte {
	redacted := body

	for _, path := range sensitiveBodyPaths {
		if !gjson.GetBytes(redacted, path).Exists() {
			continue
		}

		updated, err := sjson.SetBytes(redacted, path, "***")
		if err != nil {
			return body
		}

		redacted = updated
	}

	return redacted
}
