package lossiness

import (
	"fmt"
	"sync"
)

// Tracker accumulates Items for the duration of a single translation. It is
// single-owner: one TranslationContext creates it, hands it to the pipeline
// by reference, and consumes it exactly once via Consume to produce the
// final Report. Record is safe to call concurrently even though a typical
// translation is single-threaded, since some pipeline rules may fan out.
type Tracker struct {
	mode StrictMode

	mu       sync.Mutex
	items    []Item
	consumed bool
}

// NewTracker creates a Tracker gated by mode. mode must already be validated
// by the caller (spec.PromptSpec.StrictMode.Valid()); an invalid mode
// degrades every severity lookup to Critical via SeverityFor's unknown-mode
// fallback.
func NewTracker(mode StrictMode) *Tracker {
	return &Tracker{mode: mode}
}

// Mode returns the strictness mode the tracker was created with.
func (t *Tracker) Mode() StrictMode { return t.mode }

// Record appends one lossiness item, deriving its severity from kind and the
// tracker's strict mode. Record panics if called after Consume — mutation
// after a Report has been produced is a programming error, not a runtime
// condition callers should have to handle.
func (t *Tracker) Record(kind Kind, path, message string, before, after any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.consumed {
		panic("lossiness: Record called on a consumed Tracker")
	}

	t.items = append(t.items, Item{
		Kind:     kind,
		Path:     path,
		Message:  message,
		Severity: SeverityFor(kind, t.mode),
		Before:   before,
		After:    after,
	})
}

// Recordf is Record with a formatted message.
func (t *Tracker) Recordf(kind Kind, path, format string, before, after any, args ...any) {
	t.Record(kind, path, fmt.Sprintf(format, args...), before, after)
}

// Len reports the number of items recorded so far without consuming the
// tracker, useful for mid-pipeline decisions (e.g. Coerce-mode fallbacks
// that want to know whether a given rule already emitted something).
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.items)
}

// Consume finalises the tracker into a Report and marks it consumed. Calling
// Consume twice panics: the tracker is exactly-once-consumed per the data
// model's lifecycle rules.
func (t *Tracker) Consume() *Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.consumed {
		panic("lossiness: Consume called twice on the same Tracker")
	}

	t.consumed = true

	items := make([]Item, len(t.items))
	copy(items, t.items)

	return buildReport(items)
}
