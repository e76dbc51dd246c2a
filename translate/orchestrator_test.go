package translate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
)

func gptXProvider() *spec.ProviderSpec {
	return &spec.ProviderSpec{
		SpecVersion: "1.0.0",
		Provider:    spec.ProviderInfo{Name: "acme", BaseURL: "https://api.acme.test"},
		Models: []spec.ModelSpec{
			{
				ID:         "gpt-x",
				Tooling:    spec.Tooling{ToolsSupported: true},
				InputModes: spec.InputModes{Messages: true},
				Mappings: spec.Mappings{
					Paths: []spec.MappingPath{
						{Source: "$.messages", Target: "$.messages"},
						{Source: "$.sampling.temperature", Target: "$.temperature"},
					},
				},
				Parameters: map[string]any{
					"temperature": map[string]any{"type": "number", "min": 0.0, "max": 2.0},
				},
			},
		},
	}
}

func TestTranslate_CopiesMessagesVerbatim(t *testing.T) {
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		StrictMode: lossiness.StrictModeWarn,
	}

	result, err := Translate(prompt, gptXProvider(), "gpt-x", lossiness.StrictModeWarn)
	require.NoError(t, err)

	assert.Equal(t, "gpt-x", result.ProviderRequestJSON["model"])
	assert.Zero(t, result.Lossiness.Summary.Total)
}

func TestTranslate_ClampsOverRangeTemperatureInWarn(t *testing.T) {
	temp := 2.5
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		Sampling:   &spec.Sampling{Temperature: &temp},
		StrictMode: lossiness.StrictModeWarn,
	}

	result, err := Translate(prompt, gptXProvider(), "gpt-x", lossiness.StrictModeWarn)
	require.NoError(t, err)

	assert.Equal(t, 2.0, result.ProviderRequestJSON["temperature"])
	require.Equal(t, 1, result.Lossiness.Summary.Total)
	assert.Equal(t, lossiness.KindClamp, result.Lossiness.Items[0].Kind)
	assert.Equal(t, "$.sampling.temperature", result.Lossiness.Items[0].Path,
		"clamp item must anchor on the PromptSpec source path, not the translated target field")
}

func TestTranslate_ClampsOverRangeTemperatureFailsInStrict(t *testing.T) {
	temp := 2.5
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		Sampling:   &spec.Sampling{Temperature: &temp},
		StrictMode: lossiness.StrictModeStrict,
	}

	_, err := Translate(prompt, gptXProvider(), "gpt-x", lossiness.StrictModeStrict)
	require.Error(t, err)
}

func TestTranslate_UnsupportedToolsFailsStrictSucceedsWarn(t *testing.T) {
	provider := gptXProvider()
	provider.Models[0].Tooling.ToolsSupported = false

	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		Tools:      []spec.Tool{{Name: "t1"}},
	}

	_, err := Translate(prompt, provider, "gpt-x", lossiness.StrictModeStrict)
	require.Error(t, err)

	result, err := Translate(prompt, provider, "gpt-x", lossiness.StrictModeWarn)
	require.NoError(t, err)
	assert.True(t, result.HasWarnings())
}

func TestTranslate_ProviderRequestMatchesExpectedShape(t *testing.T) {
	temp := 0.9
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		Sampling:   &spec.Sampling{Temperature: &temp},
		StrictMode: lossiness.StrictModeWarn,
	}

	result, err := Translate(prompt, gptXProvider(), "gpt-x", lossiness.StrictModeWarn)
	require.NoError(t, err)

	want := map[string]any{
		"model":       "gpt-x",
		"temperature": 0.9,
		"messages": []any{
			map[string]any{"role": "user", "content": "hi"},
		},
	}

	if diff := cmp.Diff(want, result.ProviderRequestJSON); diff != "" {
		t.Fatalf("provider request does not match expected shape (-want +got):\n%s", diff)
	}
}

func TestTranslate_UnknownModelIsUnsupportedError(t *testing.T) {
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
	}

	_, err := Translate(prompt, gptXProvider(), "nonexistent", lossiness.StrictModeWarn)
	require.Error(t, err)

	var serr *spec.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, spec.KindUnsupported, serr.Kind)
}
