package spec

// ProviderSpec is the declarative description of one provider's HTTP API:
// its base connection info and the set of models it exposes.
type ProviderSpec struct {
	SpecVersion string       `json:"spec_version" yaml:"spec_version"`
	Provider    ProviderInfo `json:"provider" yaml:"provider"`
	Models      []ModelSpec  `json:"models" yaml:"models"`
}

// ModelByID returns the ModelSpec whose Id or Aliases match id.
func (p *ProviderSpec) ModelByID(id string) (*ModelSpec, bool) {
	for i := range p.Models {
		m := &p.Models[i]
		if m.ID == id {
			return m, true
		}

		for _, alias := range m.Aliases {
			if alias == id {
				return m, true
			}
		}
	}

	return nil, false
}

// ProviderInfo is the provider-level connection block.
type ProviderInfo struct {
	Name    string            `json:"name" yaml:"name"`
	BaseURL string            `json:"base_url" yaml:"base_url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Endpoint describes one HTTP operation exposed by a model.
type Endpoint struct {
	Method   string            `json:"method" yaml:"method"`
	Path     string            `json:"path" yaml:"path"`
	Protocol string            `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Query    map[string]string `json:"query,omitempty" yaml:"query,omitempty"`
	Headers  map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Endpoints groups the two HTTP operations a ModelSpec may declare.
type Endpoints struct {
	ChatCompletion          *Endpoint `json:"chat_completion,omitempty" yaml:"chat_completion,omitempty"`
	StreamingChatCompletion *Endpoint `json:"streaming_chat_completion,omitempty" yaml:"streaming_chat_completion,omitempty"`
}

// InputModes declares which prompt shapes a model accepts.
type InputModes struct {
	Messages   bool `json:"messages" yaml:"messages"`
	SingleText bool `json:"single_text" yaml:"single_text"`
	Images     bool `json:"images" yaml:"images"`
}

// Tooling declares a model's function/tool-calling support.
type Tooling struct {
	ToolsSupported              bool   `json:"tools_supported" yaml:"tools_supported"`
	ParallelToolCallsDefault    bool   `json:"parallel_tool_calls_default" yaml:"parallel_tool_calls_default"`
	CanDisableParallelToolCalls bool   `json:"can_disable_parallel_tool_calls" yaml:"can_disable_parallel_tool_calls"`
	DisableSwitch               string `json:"disable_switch,omitempty" yaml:"disable_switch,omitempty"`
}

// JSONOutput declares how a model supports structured JSON responses.
type JSONOutput struct {
	NativeParam string `json:"native_param,omitempty" yaml:"native_param,omitempty"`
	Strategy    string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// ModelLimits bounds request sizes the provider accepts.
type ModelLimits struct {
	MaxToolSchemaBytes   int64 `json:"max_tool_schema_bytes,omitempty" yaml:"max_tool_schema_bytes,omitempty"`
	MaxSystemPromptBytes int64 `json:"max_system_prompt_bytes,omitempty" yaml:"max_system_prompt_bytes,omitempty"`
}

// SystemPromptLocation is the closed set of places a system prompt may go.
type SystemPromptLocation string

const (
	SystemPromptFirst         SystemPromptLocation = "first"
	SystemPromptSeparateField SystemPromptLocation = "separate_field"
	SystemPromptAnywhere      SystemPromptLocation = "anywhere"
)

// Constraints bounds the shape of a translated request for one model.
type Constraints struct {
	SystemPromptLocation        SystemPromptLocation `json:"system_prompt_location" yaml:"system_prompt_location"`
	ForbidUnknownTopLevelFields bool                 `json:"forbid_unknown_top_level_fields" yaml:"forbid_unknown_top_level_fields"`
	MutuallyExclusive           [][]string           `json:"mutually_exclusive,omitempty" yaml:"mutually_exclusive,omitempty"`
	ResolutionPreferences       []string             `json:"resolution_preferences,omitempty" yaml:"resolution_preferences,omitempty"`
	Limits                      ModelLimits          `json:"limits,omitempty" yaml:"limits,omitempty"`
}

// MappingPath is one source→target JSONPath pair in a ModelSpec's mapping
// table, resolved against the PromptSpec document and written into the
// emerging provider request document.
type MappingPath struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Mappings is the ModelSpec's field-mapping table plus feature toggles.
type Mappings struct {
	Paths []MappingPath   `json:"paths" yaml:"paths"`
	Flags map[string]bool `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// SyncNormalization declares how to extract a UniformResponse from a
// synchronous (non-streaming) provider response body.
type SyncNormalization struct {
	ContentPath      string            `json:"content_path" yaml:"content_path"`
	FinishReasonPath string            `json:"finish_reason_path" yaml:"finish_reason_path"`
	FinishReasonMap  map[string]string `json:"finish_reason_map,omitempty" yaml:"finish_reason_map,omitempty"`
	ToolCallsPath    string            `json:"tool_calls_path,omitempty" yaml:"tool_calls_path,omitempty"`
}

// StreamNormalization declares the structural hooks needed to demultiplex a
// provider's streaming response; the SSE framing parser itself is a thin
// external collaborator, not part of this package.
type StreamNormalization struct {
	Protocol      string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	EventSelector string `json:"event_selector,omitempty" yaml:"event_selector,omitempty"`
}

// ResponseNormalization is the ModelSpec's declarative response-parsing
// configuration.
type ResponseNormalization struct {
	Sync   SyncNormalization    `json:"sync" yaml:"sync"`
	Stream *StreamNormalization `json:"stream,omitempty" yaml:"stream,omitempty"`
}

// ModelSpec is one model exposed by a ProviderSpec.
type ModelSpec struct {
	ID                    string                `json:"id" yaml:"id"`
	Aliases               []string              `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Family                string                `json:"family,omitempty" yaml:"family,omitempty"`
	Endpoints             Endpoints             `json:"endpoints" yaml:"endpoints"`
	InputModes            InputModes            `json:"input_modes" yaml:"input_modes"`
	Tooling               Tooling               `json:"tooling" yaml:"tooling"`
	JSONOutput            JSONOutput            `json:"json_output" yaml:"json_output"`
	Capabilities          map[string]any        `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Parameters            map[string]any        `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Constraints           Constraints           `json:"constraints" yaml:"constraints"`
	Mappings              Mappings              `json:"mappings" yaml:"mappings"`
	ResponseNormalization ResponseNormalization `json:"response_normalization" yaml:"response_normalization"`
}

// SupportsImages reports whether the model accepts image input.
func (m *ModelSpec) SupportsImages() bool { return m.InputModes.Images }

// SupportsTools reports whether the model accepts tool/function definitions.
func (m *ModelSpec) SupportsTools() bool { return m.Tooling.ToolsSupported }
