// Package translate composes pre-validation, the transformation pipeline,
// and result-building into the single orchestrating operation:
// (PromptSpec, ProviderSpec, model_id, strictness) -> (provider_request,
// lossiness_report, metadata).
package translate

import (
	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
)

// Context owns references to both translation inputs plus the mutable
// LossinessTracker for the duration of one translation, per the data
// model's lifecycle rules. It is not safe to share across goroutines or
// reuse across translations.
type Context struct {
	Prompt   *spec.PromptSpec
	Provider *spec.ProviderSpec
	Model    *spec.ModelSpec
	Mode     lossiness.StrictMode

	Tracker *lossiness.Tracker
}

// NewContext constructs a Context with a fresh Tracker.
func NewContext(prompt *spec.PromptSpec, provider *spec.ProviderSpec, model *spec.ModelSpec, mode lossiness.StrictMode) *Context {
	return &Context{
		Prompt:   prompt,
		Provider: provider,
		Model:    model,
		Mode:     mode,
		Tracker:  lossiness.NewTracker(mode),
	}
}
