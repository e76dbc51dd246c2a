// Package spec defines the shared data contracts translated between: the
// provider-agnostic PromptSpec and ProviderSpec inputs, and the
// TranslationResult/UniformResponse outputs. These types are read-only
// inputs to a translation — the pipeline never mutates them; every rewrite
// produces a new provider-request document.
package spec

import "github.com/brightloom/promptbridge/lossiness"

// ModelClass is the closed set of prompt shapes a PromptSpec can describe.
type ModelClass string

const (
	ModelClassChat           ModelClass = "Chat"
	ModelClassReasoningChat  ModelClass = "ReasoningChat"
	ModelClassVisionChat     ModelClass = "VisionChat"
	ModelClassAudioChat      ModelClass = "AudioChat"
	ModelClassMultimodalChat ModelClass = "MultimodalChat"
)

// Role is the closed set of message roles a PromptSpec message may carry.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// StrictMode governs whether a non-identity translation effect (see
// lossiness.Kind) is surfaced as an error, a warning, or silently absorbed
// as informational. It is an alias of lossiness.StrictMode so PromptSpec can
// declare it without lossiness importing the spec package back.
type StrictMode = lossiness.StrictMode

const (
	StrictModeStrict = lossiness.StrictModeStrict
	StrictModeWarn   = lossiness.StrictModeWarn
	StrictModeCoerce = lossiness.StrictModeCoerce
)

// Message is one entry of PromptSpec.Messages.
type Message struct {
	Role     Role           `json:"role" yaml:"role"`
	Content  string         `json:"content" yaml:"content"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Tool describes one callable tool a model may invoke.
type Tool struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  map[string]any `json:"parameters" yaml:"parameters"` // JSON Schema for tool arguments
}

// ToolChoiceMode is the closed set of tool-selection strategies.
type ToolChoiceMode string

const (
	ToolChoiceAuto     ToolChoiceMode = "auto"
	ToolChoiceNone     ToolChoiceMode = "none"
	ToolChoiceRequired ToolChoiceMode = "required"
	ToolChoiceSpecific ToolChoiceMode = "specific"
)

// ToolChoice selects whether/which tool a model must use.
type ToolChoice struct {
	Mode ToolChoiceMode `json:"mode" yaml:"mode"`
	// Name names the required tool when Mode == ToolChoiceSpecific.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// ResponseFormatType is the closed set of response-shape requests.
type ResponseFormatType string

const (
	ResponseFormatText       ResponseFormatType = "text"
	ResponseFormatJSONObject ResponseFormatType = "json_object"
	ResponseFormatJSONSchema ResponseFormatType = "json_schema"
)

// ResponseFormat requests a particular output shape from the model.
type ResponseFormat struct {
	Type   ResponseFormatType `json:"type" yaml:"type"`
	Schema map[string]any     `json:"schema,omitempty" yaml:"schema,omitempty"` // required when Type == ResponseFormatJSONSchema
}

// Sampling carries the optional sampling knobs a PromptSpec may set.
type Sampling struct {
	Temperature      *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	TopK             *int64   `json:"top_k,omitempty" yaml:"top_k,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" yaml:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" yaml:"presence_penalty,omitempty"`
}

// Limits carries the optional token/length limits a PromptSpec may set.
type Limits struct {
	MaxOutputTokens *int64 `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty"`
	ReasoningTokens *int64 `json:"reasoning_tokens,omitempty" yaml:"reasoning_tokens,omitempty"`
	MaxPromptTokens *int64 `json:"max_prompt_tokens,omitempty" yaml:"max_prompt_tokens,omitempty"`
}

// Media carries optional multimodal input/output declarations.
type Media struct {
	InputImages []string `json:"input_images,omitempty" yaml:"input_images,omitempty"`
	InputAudio  []string `json:"input_audio,omitempty" yaml:"input_audio,omitempty"`
	OutputAudio bool     `json:"output_audio,omitempty" yaml:"output_audio,omitempty"`
}

// ReasoningEffort is the closed set of reasoning-effort hints.
type ReasoningEffort string

const (
	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"
)

// Advanced carries the optional reasoning/verbosity/determinism knobs.
type Advanced struct {
	Thinking          bool            `json:"thinking,omitempty" yaml:"thinking,omitempty"`
	MinThinkingTokens *int64          `json:"min_thinking_tokens,omitempty" yaml:"min_thinking_tokens,omitempty"`
	ReasoningEffort   ReasoningEffort `json:"reasoning_effort,omitempty" yaml:"reasoning_effort,omitempty"`
	ReasoningMode     string          `json:"reasoning_mode,omitempty" yaml:"reasoning_mode,omitempty"`
	ThinkingBudget    *int64          `json:"thinking_budget,omitempty" yaml:"thinking_budget,omitempty"`
	Seed              *int64          `json:"seed,omitempty" yaml:"seed,omitempty"`
	Verbosity         string          `json:"verbosity,omitempty" yaml:"verbosity,omitempty"`
}

// PromptSpec is the provider-agnostic description of a single LLM call.
type PromptSpec struct {
	ModelClass     ModelClass      `json:"model_class" yaml:"model_class"`
	Messages       []Message       `json:"messages" yaml:"messages"`
	Tools          []Tool          `json:"tools,omitempty" yaml:"tools,omitempty"`
	ToolChoice     *ToolChoice     `json:"tool_choice,omitempty" yaml:"tool_choice,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty" yaml:"response_format,omitempty"`
	Sampling       *Sampling       `json:"sampling,omitempty" yaml:"sampling,omitempty"`
	Limits         *Limits         `json:"limits,omitempty" yaml:"limits,omitempty"`
	Media          *Media          `json:"media,omitempty" yaml:"media,omitempty"`
	Advanced       *Advanced       `json:"advanced,omitempty" yaml:"advanced,omitempty"`
	StrictMode     StrictMode      `json:"strict_mode" yaml:"strict_mode"`

	// Unknown top-level fields present in the decoded document, preserved
	// so ForbidUnknownTopLevelFields can be enforced without a second pass
	// over the raw bytes.
	UnknownFields []string `json:"-" yaml:"-"`
}

// AsDocument renders the PromptSpec as a generic JSON-like tree
// (map[string]any/[]any) for consumption by the jsonpath engine and the
// transformation pipeline. The pipeline treats PromptSpec as read-only:
// AsDocument always produces a fresh tree.
func (p *PromptSpec) AsDocument() (map[string]any, error) {
	return structToDocument(p)
}
