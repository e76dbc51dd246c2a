package normalize

import (
	"encoding/json"

	"github.com/brightloom/promptbridge/jsonpath"
	"github.com/brightloom/promptbridge/spec"
)

// Response extracts a spec.UniformResponse from a successful provider
// response body, using the ModelSpec's declared sync-normalization paths.
func Response(body []byte, modelID string, norm spec.SyncNormalization) (*spec.UniformResponse, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, spec.NewError(spec.KindProvider, "response body is not valid JSON: %v", err).WithStage("normalize")
	}

	content := firstString(doc, norm.ContentPath)
	rawFinish := firstString(doc, norm.FinishReasonPath)

	finish := spec.FinishReasonOther
	if mapped, ok := norm.FinishReasonMap[rawFinish]; ok {
		finish = spec.FinishReason(mapped)
	}

	var toolCalls []spec.ToolCall
	if norm.ToolCallsPath != "" {
		toolCalls = extractToolCalls(doc, norm.ToolCallsPath)
	}

	return &spec.UniformResponse{
		Model:        modelID,
		Content:      content,
		FinishReason: finish,
		ToolCalls:    toolCalls,
		RawMetadata:  doc,
	}, nil
}

func firstString(doc any, path string) string {
	if path == "" {
		return ""
	}

	expr, err := jsonpath.Compile(path)
	if err != nil {
		return ""
	}

	matches := jsonpath.Execute(expr, doc)
	if len(matches) == 0 {
		return ""
	}

	s, _ := matches[0].(string)

	return s
}

// extractToolCalls expects the convention documented per provider: the path
// selects an array of objects each shaped {"name": ..., "arguments": {...}}
// (or a JSON-encoded arguments string, which is decoded when possible).
func extractToolCalls(doc any, path string) []spec.ToolCall {
	expr, err := jsonpath.Compile(path)
	if err != nil {
		return nil
	}

	matches := jsonpath.Execute(expr, doc)

	var calls []spec.ToolCall

	for _, m := range matches {
		entries, ok := m.([]any)
		if !ok {
			entries = []any{m}
		}

		for _, entry := range entries {
			obj, ok := entry.(map[string]any)
			if !ok {
				continue
			}

			name, _ := obj["name"].(string)

			var args map[string]any

			switch a := obj["arguments"].(type) {
			case map[string]any:
				args = a
			case string:
				_ = json.Unmarshal([]byte(a), &args)
			}

			calls = append(calls, spec.ToolCall{Name: name, Arguments: args})
		}
	}

	return calls
}
