package normalize

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightloom/promptbridge/httpclient"
	"github.com/brightloom/promptbridge/spec"
)

func TestClassifyHTTP_StatusTable(t *testing.T) {
	cases := []struct {
		status int
		want   Classification
	}{
		{401, ClassAuthentication},
		{403, ClassAuthentication},
		{429, ClassRateLimit},
		{404, ClassClient},
		{500, ClassServer},
		{200, ClassUnknown},
	}

	for _, c := range cases {
		resp := &httpclient.Response{StatusCode: c.status, Headers: http.Header{}, Body: []byte(`{}`)}
		got := ClassifyHTTP(resp)
		assert.Equal(t, c.want, got.Classification, "status %d", c.status)
	}
}

func TestClassifyHTTP_RetryAfterWins(t *testing.T) {
	headers := http.Header{}
	headers.Set("Retry-After", "3")

	resp := &httpclient.Response{StatusCode: 429, Headers: headers, Body: []byte(`{"error":{"message":"slow down"}}`)}
	got := ClassifyHTTP(resp)

	assert.Equal(t, int64(3), got.RetryDelaySeconds())
	assert.Equal(t, "slow down", got.ProviderMessage)
}

func TestClassifyHTTP_Retryability(t *testing.T) {
	assert.True(t, ClassServer.Retryable())
	assert.True(t, ClassNetwork.Retryable())
	assert.True(t, ClassRateLimit.Retryable())
	assert.False(t, ClassClient.Retryable())
	assert.False(t, ClassAuthentication.Retryable())
}

func TestResponse_ExtractsContentAndFinishReason(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"content":"hello"},"finish_reason":"length"}]}`)

	norm := spec.SyncNormalization{
		ContentPath:      "$.choices[0].message.content",
		FinishReasonPath: "$.choices[0].finish_reason",
		FinishReasonMap:  map[string]string{"length": "length"},
	}

	resp, err := Response(body, "gpt-x", norm)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, spec.FinishReasonLength, resp.FinishReason)
}

func TestResponse_UnknownFinishReasonMapsToOther(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"content":"hi"},"finish_reason":"weird"}]}`)

	norm := spec.SyncNormalization{
		ContentPath:      "$.choices[0].message.content",
		FinishReasonPath: "$.choices[0].finish_reason",
		FinishReasonMap:  map[string]string{"stop": "stop"},
	}

	resp, err := Response(body, "gpt-x", norm)
	require.NoError(t, err)
	assert.Equal(t, spec.FinishReasonOther, resp.FinishReason)
}
