package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightloom/promptbridge/lossiness"
)

func run(t *testing.T, rules []Rule, source map[string]any, mode lossiness.StrictMode) (map[string]any, *lossiness.Report) {
	t.Helper()

	tracker := lossiness.NewTracker(mode)
	target, err := New(rules).Run(tracker, source, mode)
	require.NoError(t, err)

	return target, tracker.Consume()
}

func TestFieldRename(t *testing.T) {
	rules := []Rule{
		{ID: "r1", SourcePath: "$.messages", TargetPath: "$.input", Transformation: Transformation{Kind: KindFieldRename}},
	}

	target, report := run(t, rules, map[string]any{"messages": []any{"hi"}}, lossiness.StrictModeWarn)

	assert.Equal(t, []any{"hi"}, target["input"])
	assert.Zero(t, report.Summary.Total)
}

func TestTypeConversionIdentityEmitsNoLossiness(t *testing.T) {
	rules := []Rule{
		{ID: "r1", SourcePath: "$.n", Transformation: Transformation{
			Kind: KindTypeConversion, TypeConversionFrom: ScalarNumber, TypeConversionTo: ScalarNumber,
		}},
	}

	_, report := run(t, rules, map[string]any{"n": 1.0}, lossiness.StrictModeWarn)
	assert.Zero(t, report.Summary.Total)
}

func TestTypeConversionCoercesStringToNumber(t *testing.T) {
	rules := []Rule{
		{ID: "r1", SourcePath: "$.n", Transformation: Transformation{
			Kind: KindTypeConversion, TypeConversionFrom: ScalarString, TypeConversionTo: ScalarNumber,
		}},
	}

	target, report := run(t, rules, map[string]any{"n": "3.5"}, lossiness.StrictModeWarn)
	assert.Equal(t, 3.5, target["n"])
	assert.Equal(t, 1, report.Summary.Total)
}

func TestEnumMappingUnknownUsesDefault(t *testing.T) {
	def := "other"
	rules := []Rule{
		{ID: "r1", SourcePath: "$.role", Transformation: Transformation{
			Kind:         KindEnumMapping,
			EnumMappings: map[string]string{"user": "human"},
			EnumDefault:  &def,
		}},
	}

	target, report := run(t, rules, map[string]any{"role": "moderator"}, lossiness.StrictModeWarn)
	assert.Equal(t, "other", target["role"])
	require.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, lossiness.KindMapFallback, report.Items[0].Kind)
}

func TestDefaultValueWrittenWhenAbsent(t *testing.T) {
	rules := []Rule{
		{ID: "r1", SourcePath: "$.ignored", TargetPath: "$.stream", Transformation: Transformation{
			Kind: KindDefaultValue, DefaultValue: false,
		}},
	}

	target, report := run(t, rules, map[string]any{}, lossiness.StrictModeWarn)
	assert.Equal(t, false, target["stream"])
	assert.Zero(t, report.Summary.Total)
}

func TestPriorityOrdering(t *testing.T) {
	rules := []Rule{
		{ID: "low", SourcePath: "$.a", TargetPath: "$.out", Priority: 0, Transformation: Transformation{
			Kind: KindDefaultValue, DefaultValue: "low",
		}},
		{ID: "high", SourcePath: "$.a", TargetPath: "$.out", Priority: 10, Transformation: Transformation{
			Kind: KindDefaultValue, DefaultValue: "high",
		}},
	}

	// Both are DefaultValue rules writing the same target; the high
	// priority rule runs first and claims the field, so the low priority
	// rule becomes a no-op (target already present).
	target, _ := run(t, rules, map[string]any{}, lossiness.StrictModeWarn)
	assert.Equal(t, "high", target["out"])
}

func TestConditional(t *testing.T) {
	rules := []Rule{
		{ID: "r1", SourcePath: "$.stream", TargetPath: "$.stream", Transformation: Transformation{
			Kind: KindFieldRename,
		}},
		{ID: "r2", SourcePath: "$.tools", TargetPath: "$.tools", Transformation: Transformation{
			Kind: KindConditional,
			ConditionalCond: Condition{
				Kind: ConditionEquals, Path: "$.stream", Value: true,
			},
			ConditionalIfTrue: nil,
			ConditionalIfFalse: &Rule{
				ID: "copy-tools", SourcePath: "$.tools", TargetPath: "$.tools",
				Transformation: Transformation{Kind: KindFieldRename},
			},
		}},
	}

	target, _ := run(t, rules, map[string]any{"stream": false, "tools": []any{"a"}}, lossiness.StrictModeWarn)
	assert.Equal(t, []any{"a"}, target["tools"])
}

func TestWriteAtExtendsArrayWithNulls(t *testing.T) {
	doc := map[string]any{}
	require.NoError(t, writeAt(doc, "$.items[2]", "x"))
	assert.Equal(t, []any{nil, nil, "x"}, doc["items"])
}

func TestWriteAtCreatesIntermediateObjects(t *testing.T) {
	doc := map[string]any{}
	require.NoError(t, writeAt(doc, "$.a.b.c", 1.0))
	assert.Equal(t, 1.0, doc["a"].(map[string]any)["b"].(map[string]any)["c"])
}
