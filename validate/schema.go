package validate

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/brightloom/promptbridge/spec"
)

// checkSchemas verifies every tool's parameter schema and a json_schema
// response format's schema round-trip through jsonschema.Schema, catching
// malformed JSON Schema documents before translation attempts to read
// fields out of them.
func checkSchemas(prompt *spec.PromptSpec) error {
	for _, tool := range prompt.Tools {
		if tool.Parameters == nil {
			continue
		}

		if err := wellFormed(tool.Parameters); err != nil {
			return spec.NewError(spec.KindSchemaValidation, "tool %q parameters: %v", tool.Name, err).
				WithField(fmt.Sprintf("tools[%s].parameters", tool.Name)).WithStage("pre-validate")
		}
	}

	if prompt.ResponseFormat != nil && prompt.ResponseFormat.Type == spec.ResponseFormatJSONSchema {
		if prompt.ResponseFormat.Schema == nil {
			return spec.NewError(spec.KindSchemaValidation, "response_format.schema is required when type is json_schema").
				WithField("response_format.schema").WithStage("pre-validate")
		}

		if err := wellFormed(prompt.ResponseFormat.Schema); err != nil {
			return spec.NewError(spec.KindSchemaValidation, "response_format.schema: %v", err).
				WithField("response_format.schema").WithStage("pre-validate")
		}
	}

	return nil
}

func wellFormed(raw map[string]any) error {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return err
	}

	var schema jsonschema.Schema

	return json.Unmarshal(encoded, &schema)
}
