package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
)

func chatModel() *spec.ModelSpec {
	return &spec.ModelSpec{ID: "gpt-x", Tooling: spec.Tooling{ToolsSupported: false}}
}

func TestRun_EmptyMessagesFails(t *testing.T) {
	tracker := lossiness.NewTracker(lossiness.StrictModeWarn)
	prompt := &spec.PromptSpec{ModelClass: spec.ModelClassChat}

	err := Run(tracker, prompt, chatModel(), lossiness.StrictModeWarn)
	require.Error(t, err)

	var serr *spec.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, spec.KindValidation, serr.Kind)
}

func TestRun_ToolsUnsupported_WarnRecordsAndSucceeds(t *testing.T) {
	tracker := lossiness.NewTracker(lossiness.StrictModeWarn)
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		Tools:      []spec.Tool{{Name: "t1"}},
	}

	err := Run(tracker, prompt, chatModel(), lossiness.StrictModeWarn)
	require.NoError(t, err)

	report := tracker.Consume()
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, lossiness.SeverityCritical, report.MaxSeverity)
}

func TestRun_ToolsUnsupported_StrictFails(t *testing.T) {
	tracker := lossiness.NewTracker(lossiness.StrictModeStrict)
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		Tools:      []spec.Tool{{Name: "t1"}},
	}

	err := Run(tracker, prompt, chatModel(), lossiness.StrictModeStrict)
	require.Error(t, err)
}

func TestRun_MalformedToolSchemaFails(t *testing.T) {
	tracker := lossiness.NewTracker(lossiness.StrictModeWarn)
	model := chatModel()
	model.Tooling.ToolsSupported = true
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
		Tools: []spec.Tool{{
			Name:       "t1",
			Parameters: map[string]any{"type": 123},
		}},
	}

	err := Run(tracker, prompt, model, lossiness.StrictModeWarn)
	require.Error(t, err)

	var serr *spec.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, spec.KindSchemaValidation, serr.Kind)
}

func TestRun_ReasoningChatRequiresEffort(t *testing.T) {
	tracker := lossiness.NewTracker(lossiness.StrictModeWarn)
	prompt := &spec.PromptSpec{
		ModelClass: spec.ModelClassReasoningChat,
		Messages:   []spec.Message{{Role: spec.RoleUser, Content: "hi"}},
	}

	err := Run(tracker, prompt, chatModel(), lossiness.StrictModeWarn)
	require.Error(t, err)
}
