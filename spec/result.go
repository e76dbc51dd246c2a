package spec

import (
	"time"

	"github.com/brightloom/promptbridge/lossiness"
)

// Metadata carries the optional provenance fields attached to a
// TranslationResult.
type Metadata struct {
	CorrelationID string     `json:"correlation_id"`
	Provider      string     `json:"provider"`
	Model         string     `json:"model"`
	Timestamp     time.Time  `json:"timestamp"`
	DurationMS    int64      `json:"duration_ms"`
	StrictMode    StrictMode `json:"strict_mode"`
	AppliedRules  []string   `json:"applied_rules,omitempty"`
}

// TranslationResult is the output of a successful translation.
type TranslationResult struct {
	ProviderRequestJSON map[string]any    `json:"provider_request_json"`
	Lossiness           *lossiness.Report `json:"lossiness"`
	Metadata            *Metadata         `json:"metadata,omitempty"`
}

// HasErrors reports whether the embedded lossiness report reached Error
// severity or above.
func (r *TranslationResult) HasErrors() bool {
	return r.Lossiness != nil && r.Lossiness.HasErrors()
}

// HasWarnings reports whether the embedded lossiness report reached Warning
// severity or above.
func (r *TranslationResult) HasWarnings() bool {
	return r.Lossiness != nil && r.Lossiness.HasWarnings()
}

// ProviderName returns the provider name recorded in Metadata, or "" when
// Metadata is absent.
func (r *TranslationResult) ProviderName() string {
	if r.Metadata == nil {
		return ""
	}

	return r.Metadata.Provider
}

// ModelName returns the model id recorded in Metadata, or "" when Metadata
// is absent.
func (r *TranslationResult) ModelName() string {
	if r.Metadata == nil {
		return ""
	}

	return r.Metadata.Model
}

// DurationMS returns the recorded translation duration, or 0 when Metadata
// is absent.
func (r *TranslationResult) DurationMS() int64 {
	if r.Metadata == nil {
		return 0
	}

	return r.Metadata.DurationMS
}

// FinishReason is the uniform closed set a provider's raw finish reason
// normalises into.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
	FinishReasonOther         FinishReason = "other"
)

// ToolCall is one function-call a model requested in its response.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// UniformResponse is the provider-agnostic shape of a successful model call.
type UniformResponse struct {
	Model        string       `json:"model"`
	Content      string       `json:"content"`
	FinishReason FinishReason `json:"finish_reason"`
	ToolCalls    []ToolCall   `json:"tool_calls,omitempty"`
	RawMetadata  any          `json:"raw_metadata,omitempty"`
}
