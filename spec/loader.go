package spec

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var knownPromptSpecFields = map[string]bool{
	"model_class":     true,
	"messages":        true,
	"tools":           true,
	"tool_choice":     true,
	"response_format": true,
	"sampling":        true,
	"limits":          true,
	"media":           true,
	"advanced":        true,
	"strict_mode":     true,
}

// LoadPromptSpec reads a PromptSpec document from path, decoding as YAML
// when the extension is .yaml/.yml and as JSON otherwise.
// format-by-extension rule. UnknownFields is populated from a second,
// untyped decode so ForbidUnknownTopLevelFields can be enforced later.
func LoadPromptSpec(path string) (*PromptSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(KindConfiguration, "reading prompt spec %q: %v", path, err).WithStage("load")
	}

	var prompt PromptSpec
	if err := decodeByExtension(path, raw, &prompt); err != nil {
		return nil, NewError(KindSchemaValidation, "decoding prompt spec %q: %v", path, err).WithStage("load")
	}

	var generic map[string]any
	if err := decodeByExtension(path, raw, &generic); err != nil {
		return nil, NewError(KindSchemaValidation, "decoding prompt spec %q: %v", path, err).WithStage("load")
	}

	prompt.UnknownFields = unknownTopLevelFields(generic, knownPromptSpecFields)

	return &prompt, nil
}

// LoadProviderSpec reads a ProviderSpec document from path, decoding by the
// same extension rule as LoadPromptSpec.
func LoadProviderSpec(path string) (*ProviderSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError(KindConfiguration, "reading provider spec %q: %v", path, err).WithStage("load")
	}

	var provider ProviderSpec
	if err := decodeByExtension(path, raw, &provider); err != nil {
		return nil, NewError(KindSchemaValidation, "decoding provider spec %q: %v", path, err).WithStage("load")
	}

	return &provider, nil
}

func decodeByExtension(path string, raw []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(raw, v)
	default:
		return json.Unmarshal(raw, v)
	}
}

func unknownTopLevelFields(doc map[string]any, known map[string]bool) []string {
	var unknown []string

	for key := range doc {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}

	sort.Strings(unknown)

	return unknown
}
