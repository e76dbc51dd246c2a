package translate

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
)

// State is the result builder's lifecycle: Incomplete (no
// provider request yet) → Ready (all required fields set) → Built
// (consumed). Mutation after Built is forbidden.
type State int

const (
	StateIncomplete State = iota
	StateReady
	StateBuilt
)

// Builder assembles a spec.TranslationResult incrementally. It is not
// goroutine-safe; one Builder belongs to one in-flight translation.
type Builder struct {
	state State

	providerRequest map[string]any
	report          *lossiness.Report
	metadata        *spec.Metadata

	startedAt time.Time
}

// NewBuilder creates a Builder recording its own start time, used to
// compute Metadata.DurationMS on Build.
func NewBuilder() *Builder {
	return &Builder{startedAt: time.Now(), state: StateIncomplete}
}

// WithRequest sets the provider request document.
func (b *Builder) WithRequest(req map[string]any) *Builder {
	b.mustMutable()
	b.providerRequest = req
	b.advance()

	return b
}

// WithAppliedRules records the transformation rule identifiers a
// translation visited, in application order, surfaced to callers (the
// CLI's preview command) that want to trace which mapping produced a
// given field without re-running the pipeline themselves.
func (b *Builder) WithAppliedRules(ids []string) *Builder {
	b.mustMutable()

	if b.metadata == nil {
		b.metadata = &spec.Metadata{CorrelationID: uuid.NewString()}
	}

	b.metadata.AppliedRules = ids

	return b
}

// WithLossiness sets the consumed lossiness report.
func (b *Builder) WithLossiness(report *lossiness.Report) *Builder {
	b.mustMutable()
	b.report = report
	b.advance()

	return b
}

// WithProvenance fills in the provider/model/strict-mode metadata fields,
// leaving Timestamp/DurationMS to Build.
func (b *Builder) WithProvenance(provider, model string, mode lossiness.StrictMode) *Builder {
	b.mustMutable()

	if b.metadata == nil {
		b.metadata = &spec.Metadata{CorrelationID: uuid.NewString()}
	}

	b.metadata.Provider = provider
	b.metadata.Model = model
	b.metadata.StrictMode = mode
	b.advance()

	return b
}

func (b *Builder) mustMutable() {
	if b.state == StateBuilt {
		panic("translate: mutation of a Built Builder")
	}
}

func (b *Builder) advance() {
	if b.state == StateIncomplete && b.providerRequest != nil && b.report != nil {
		b.state = StateReady
	}
}

// Build finalises the Builder into a TranslationResult. It returns an error
// if the Builder has not reached Ready or was already Built, and otherwise
// transitions to Built so any further mutation panics.
func (b *Builder) Build() (*spec.TranslationResult, error) {
	if b.state == StateBuilt {
		return nil, fmt.Errorf("translate: Build called twice on the same Builder")
	}

	if b.state != StateReady {
		return nil, fmt.Errorf("translate: Build called before the result was Ready (missing request or lossiness report)")
	}

	if b.metadata != nil {
		b.metadata.Timestamp = time.Now()
		b.metadata.DurationMS = time.Since(b.startedAt).Milliseconds()
	}

	b.state = StateBuilt

	return &spec.TranslationResult{
		ProviderRequestJSON: b.providerRequest,
		Lossiness:           b.report,
		Metadata:            b.metadata,
	}, nil
}

// Merge combines b with other, right-biased for overridable scalars (other
// wins on conflicting provider-request keys and metadata), union-ed for
// lossiness items, and earliest-start-wins for timing. Both builders must
// be pre-Built; Merge does not mutate either argument.
func Merge(b, other *Builder) (*Builder, error) {
	if b.state == StateBuilt || other.state == StateBuilt {
		return nil, fmt.Errorf("translate: cannot merge a Built Builder")
	}

	merged := NewBuilder()
	if b.startedAt.Before(other.startedAt) {
		merged.startedAt = b.startedAt
	} else {
		merged.startedAt = other.startedAt
	}

	request := map[string]any{}
	for k, v := range b.providerRequest {
		request[k] = v
	}

	for k, v := range other.providerRequest {
		request[k] = v // right-biased
	}

	if len(request) > 0 {
		merged.providerRequest = request
	}

	merged.report = lossiness.Merge(b.report, other.report)

	switch {
	case other.metadata != nil:
		m := *other.metadata
		merged.metadata = &m
	case b.metadata != nil:
		m := *b.metadata
		merged.metadata = &m
	}

	merged.advance()

	return merged, nil
}
