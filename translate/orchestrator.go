package translate

import (
	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
	"github.com/brightloom/promptbridge/transform"
	"github.com/brightloom/promptbridge/validate"
)

// Translate composes pre-validation, the transformation pipeline, and
// result building into a single total operation. The returned
// error is always a *spec.Error carrying the stage name that produced it.
func Translate(prompt *spec.PromptSpec, provider *spec.ProviderSpec, modelID string, mode lossiness.StrictMode) (*spec.TranslationResult, error) {
	model, ok := provider.ModelByID(modelID)
	if !ok {
		return nil, spec.NewError(spec.KindUnsupported, "no model %q in provider %q", modelID, provider.Provider.Name).
			WithStage("orchestrate")
	}

	ctx := NewContext(prompt, provider, model, mode)
	builder := NewBuilder()
	builder.WithProvenance(provider.Provider.Name, model.ID, mode)

	if err := validate.Run(ctx.Tracker, prompt, model, mode); err != nil {
		return nil, tagStage(err, "pre-validate")
	}

	doc, err := prompt.AsDocument()
	if err != nil {
		return nil, spec.NewError(spec.KindInternal, "encoding prompt spec: %v", err).WithStage("translate")
	}

	pipeline := transform.New(rulesFromMappings(model))

	request, err := pipeline.Run(ctx.Tracker, doc, mode)
	if err != nil {
		return nil, tagStage(err, "transform")
	}

	builder.WithAppliedRules(pipeline.RuleIDs())

	request["model"] = model.ID

	if err := clampParameters(ctx.Tracker, model, request, mode); err != nil {
		return nil, tagStage(err, "transform")
	}

	checkMutuallyExclusiveOutput(ctx.Tracker, model, request, mode)

	report := ctx.Tracker.Consume()

	if gateErr := report.Gate(mode); gateErr != nil {
		return nil, spec.NewError(spec.KindStrictnessViolation, "%v", gateErr).WithStage("translate")
	}

	builder.WithRequest(request)
	builder.WithLossiness(report)

	return builder.Build()
}

func tagStage(err error, stage string) error {
	if serr, ok := err.(*spec.Error); ok {
		return serr.WithStage(stage)
	}

	return spec.NewError(spec.KindTranslation, "%v", err).WithStage(stage)
}

func rulesFromMappings(model *spec.ModelSpec) []transform.Rule {
	rules := make([]transform.Rule, 0, len(model.Mappings.Paths))

	for i, mp := range model.Mappings.Paths {
		rules = append(rules, transform.Rule{
			ID:         mp.Source,
			SourcePath: mp.Source,
			TargetPath: mp.Target,
			Priority:   len(model.Mappings.Paths) - i,
			Optional:   true,
			Transformation: transform.Transformation{
				Kind: transform.KindFieldRename,
			},
		})
	}

	return rules
}

// clampParameters enforces any numeric min/max declared in the model's
// free-form Parameters block against the values actually written to
// request. Strict mode refuses to silently clamp at all — an
// out-of-range value fails the translation outright rather than being
// recorded as a Clamp item. The recorded path anchors on the PromptSpec
// source path (e.g. "$.sampling.temperature"), not the translated target
// field, so a caller can trace the lossiness item back to what they wrote.
func clampParameters(tracker *lossiness.Tracker, model *spec.ModelSpec, request map[string]any, mode lossiness.StrictMode) error {
	for name, rawRange := range model.Parameters {
		rangeMap, ok := rawRange.(map[string]any)
		if !ok {
			continue
		}

		value, ok := request[name]
		if !ok {
			continue
		}

		num, ok := value.(float64)
		if !ok {
			continue
		}

		clamped := num
		clampedFlag := false

		if maxV, ok := numericField(rangeMap, "max"); ok && num > maxV {
			clamped = maxV
			clampedFlag = true
		}

		if minV, ok := numericField(rangeMap, "min"); ok && clamped < minV {
			clamped = minV
			clampedFlag = true
		}

		if !clampedFlag {
			continue
		}

		sourcePath := sourcePathForTarget(model, name)

		if mode == lossiness.StrictModeStrict {
			return spec.NewError(spec.KindStrictnessViolation, "parameter %q value %v exceeds the allowed range under strict mode", name, num).
				WithPath(sourcePath)
		}

		request[name] = clamped
		tracker.Record(lossiness.KindClamp, sourcePath,
			"value clamped to allowed range", num, clamped)
	}

	return nil
}

// sourcePathForTarget resolves the PromptSpec source JSONPath that maps
// onto the provider request's target field name, so lossiness items
// anchor on what the caller wrote rather than on the provider's own
// field naming. Falls back to the target path itself when name wasn't
// reached through a mapping (e.g. a field the orchestrator sets
// directly, like "model").
func sourcePathForTarget(model *spec.ModelSpec, name string) string {
	target := "$." + name

	for _, mp := range model.Mappings.Paths {
		if mp.Target == target {
			return mp.Source
		}
	}

	return target
}

func numericField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}

	f, ok := v.(float64)

	return f, ok
}

func checkMutuallyExclusiveOutput(tracker *lossiness.Tracker, model *spec.ModelSpec, request map[string]any, mode lossiness.StrictMode) {
	for _, set := range model.Constraints.MutuallyExclusive {
		count := 0

		for _, name := range set {
			if _, ok := request[name]; ok {
				count++
			}
		}

		if count <= 1 {
			continue
		}

		tracker.Record(lossiness.KindConflict, "$", "mutually exclusive fields present in translated request", set, nil)
	}
}
