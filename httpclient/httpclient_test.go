package httpclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightloom/promptbridge/spec"
)

func TestJoinURL_PreservesTrailingSlashSemantics(t *testing.T) {
	got, err := JoinURL("https://api.acme.test/v1/", "chat/completions", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.acme.test/v1/chat/completions", got)
}

func TestJoinURL_AbsolutePathReplacesBasePath(t *testing.T) {
	got, err := JoinURL("https://api.acme.test/v1/", "/v2/chat", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://api.acme.test/v2/chat", got)
}

func TestJoinURL_AppendsQuery(t *testing.T) {
	got, err := JoinURL("https://api.acme.test?existing=1", "chat", map[string]string{"api-version": "2024"})
	require.NoError(t, err)
	assert.Contains(t, got, "existing=1")
	assert.Contains(t, got, "api-version=2024")
}

func TestExpandHeaders_MissingVarFails(t *testing.T) {
	_, err := ExpandHeaders(map[string]string{"Authorization": "Bearer ${ENV:DOES_NOT_EXIST_XYZ}"})
	require.Error(t, err)

	var serr *spec.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, spec.KindConfiguration, serr.Kind)
}

func TestExpandHeaders_SubstitutesSetVar(t *testing.T) {
	t.Setenv("PROMPTBRIDGE_TEST_VAR", "secret-value")

	got, err := ExpandHeaders(map[string]string{"X-Key": "${ENV:PROMPTBRIDGE_TEST_VAR}"})
	require.NoError(t, err)
	assert.Equal(t, "secret-value", got["X-Key"])
}

func TestAuthConfig_Bearer(t *testing.T) {
	t.Setenv("PROMPTBRIDGE_TEST_KEY", "abc123")

	req := &Request{Headers: map[string][]string{}}
	auth := AuthConfig{Mode: AuthBearer, APIKeyEnv: "PROMPTBRIDGE_TEST_KEY"}

	require.NoError(t, auth.Apply(req))
	assert.Equal(t, "Bearer abc123", req.Headers.Get("Authorization"))
}

func TestMaskSensitiveHeaders_MasksAuthorization(t *testing.T) {
	headers := map[string][]string{"Authorization": {"Bearer abc123"}, "X-Request-Id": {"r1"}}

	masked := MaskSensitiveHeaders(headers)
	assert.Equal(t, "***", masked.Get("Authorization"))
	assert.Equal(t, "r1", masked.Get("X-Request-Id"))
}

func TestRedactBody_MasksAPIKeyField(t *testing.T) {
	body := []byte(`{"model":"gpt-x","api_key":"sk-secret"}`)

	redacted := RedactBody(body)
	assert.Contains(t, string(redacted), `"api_key":"***"`)
	assert.Contains(t, string(redacted), `"model":"gpt-x"`)
}

func TestBuild_SetsContentTypeWhenBodyPresent(t *testing.T) {
	t.Setenv("PROMPTBRIDGE_TEST_KEY", "abc123")

	provider := spec.ProviderInfo{Name: "acme", BaseURL: "https://api.acme.test"}
	endpoint := spec.Endpoint{Method: "POST", Path: "chat/completions"}
	auth := AuthConfig{Mode: AuthBearer, APIKeyEnv: "PROMPTBRIDGE_TEST_KEY"}

	req, err := Build(provider, endpoint, auth, map[string]any{"model": "gpt-x"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))
	assert.Equal(t, "Bearer abc123", req.Headers.Get("Authorization"))
	assert.Equal(t, "https://api.acme.test/chat/completions", req.URL)
}
