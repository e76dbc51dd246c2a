// Package validate implements the pre-validator: checks that reject a
// translation before any transformation work begins.
package validate

import (
	"fmt"

	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
)

var knownModelClasses = map[spec.ModelClass]bool{
	spec.ModelClassChat:           true,
	spec.ModelClassReasoningChat:  true,
	spec.ModelClassVisionChat:     true,
	spec.ModelClassAudioChat:      true,
	spec.ModelClassMultimodalChat: true,
}

// Run executes every pre-validation check against prompt+model. Each
// violation is either returned immediately as a *spec.Error (Strict mode,
// or any unconditionally-fatal check) or written to tracker as a lossiness
// item.
func Run(tracker *lossiness.Tracker, prompt *spec.PromptSpec, model *spec.ModelSpec, mode lossiness.StrictMode) error {
	if len(prompt.Messages) == 0 {
		return spec.NewError(spec.KindValidation, "messages must not be empty").WithField("messages").WithStage("pre-validate")
	}

	if !knownModelClasses[prompt.ModelClass] {
		return spec.NewError(spec.KindValidation, "unknown model_class %q", prompt.ModelClass).
			WithField("model_class").WithStage("pre-validate")
	}

	if prompt.Limits != nil && prompt.Limits.MaxOutputTokens != nil && *prompt.Limits.MaxOutputTokens <= 0 {
		return spec.NewError(spec.KindValidation, "limits.max_output_tokens must be positive").
			WithField("limits.max_output_tokens").WithStage("pre-validate")
	}

	if len(prompt.Tools) > 0 && !model.SupportsTools() {
		if err := violate(tracker, mode, "$.tools", "model %q does not support tools", model.ID); err != nil {
			return err
		}
	}

	if prompt.Media != nil && len(prompt.Media.InputImages) > 0 && !model.SupportsImages() {
		if err := violate(tracker, mode, "$.media.input_images", "model %q does not support image input", model.ID); err != nil {
			return err
		}
	}

	if err := checkSchemas(prompt); err != nil {
		return err
	}

	if err := checkMutuallyExclusive(tracker, prompt, model, mode); err != nil {
		return err
	}

	if err := checkModelClassRequirements(prompt); err != nil {
		return err
	}

	if model.Constraints.ForbidUnknownTopLevelFields {
		if err := checkUnknownFields(tracker, prompt, mode); err != nil {
			return err
		}
	}

	return nil
}

// violate records a Strict-fatal or Warn/Coerce-tolerated pre-validation
// failure, per "Each violation is either returned as an error or written to
// the lossiness tracker depending on mode."
func violate(tracker *lossiness.Tracker, mode lossiness.StrictMode, path, format string, args ...any) error {
	message := fmt.Sprintf(format, args...)

	if mode == lossiness.StrictModeStrict {
		return spec.NewError(spec.KindValidation, "%s", message).WithPath(path).WithStage("pre-validate")
	}

	tracker.Record(lossiness.KindUnsupported, path, message, nil, nil)

	return nil
}

func checkMutuallyExclusive(tracker *lossiness.Tracker, prompt *spec.PromptSpec, model *spec.ModelSpec, mode lossiness.StrictMode) error {
	doc, err := prompt.AsDocument()
	if err != nil {
		return spec.NewError(spec.KindInternal, "encoding prompt for mutual-exclusion check: %v", err).WithStage("pre-validate")
	}

	for _, set := range model.Constraints.MutuallyExclusive {
		present := presentFields(doc, set)
		if len(present) <= 1 {
			continue
		}

		message := fmt.Sprintf("mutually exclusive fields set together: %v", present)

		if mode == lossiness.StrictModeStrict {
			return spec.NewError(spec.KindValidation, "%s", message).WithStage("pre-validate")
		}

		tracker.Record(lossiness.KindConflict, "$", message, present, nil)
	}

	return nil
}

func presentFields(doc map[string]any, fieldNames []string) []string {
	var present []string

	for _, name := range fieldNames {
		if _, ok := doc[name]; ok {
			present = append(present, name)
		}
	}

	return present
}

func checkModelClassRequirements(prompt *spec.PromptSpec) error {
	if prompt.ModelClass != spec.ModelClassReasoningChat {
		return nil
	}

	if prompt.Advanced == nil || prompt.Advanced.ReasoningEffort == "" {
		return spec.NewError(spec.KindValidation, "ReasoningChat requires advanced.reasoning_effort").
			WithField("advanced.reasoning_effort").WithStage("pre-validate")
	}

	return nil
}

func checkUnknownFields(tracker *lossiness.Tracker, prompt *spec.PromptSpec, mode lossiness.StrictMode) error {
	if len(prompt.UnknownFields) == 0 {
		return nil
	}

	message := fmt.Sprintf("unknown top-level fields: %v", prompt.UnknownFields)

	if mode == lossiness.StrictModeStrict {
		return spec.NewError(spec.KindValidation, "%s", message).WithStage("pre-validate")
	}

	// Advisory outside Strict mode.
	tracker.Record(lossiness.KindPerformanceImpact, "$", message, prompt.UnknownFields, nil)

	return nil
}
