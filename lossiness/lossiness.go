// Package lossiness records every non-identity effect a translation
// introduces — a dropped field, a clamped value, an emulated capability — and
// aggregates those effects into a report gated by a configured strictness
// mode. Tracking is monotonic accumulation; strict-mode gating is a
// deliberately separate final pass over the accumulated items (see
// Report.Gate), so that Coerce mode never has to special-case an item that
// was already rejected mid-pipeline.
package lossiness

// StrictMode governs whether a non-identity translation effect is surfaced
// as an error, a warning, or silently absorbed as informational.
type StrictMode string

const (
	StrictModeStrict StrictMode = "Strict"
	StrictModeWarn   StrictMode = "Warn"
	StrictModeCoerce StrictMode = "Coerce"
)

// Valid reports whether m is one of the StrictMode constants.
func (m StrictMode) Valid() bool {
	switch m {
	case StrictModeStrict, StrictModeWarn, StrictModeCoerce:
		return true
	default:
		return false
	}
}

// Kind is the closed set of lossiness event kinds.
type Kind string

const (
	KindClamp             Kind = "Clamp"
	KindDrop              Kind = "Drop"
	KindEmulate           Kind = "Emulate"
	KindConflict          Kind = "Conflict"
	KindRelocate          Kind = "Relocate"
	KindUnsupported       Kind = "Unsupported"
	KindMapFallback       Kind = "MapFallback"
	KindPerformanceImpact Kind = "PerformanceImpact"
)

// Severity is a total order Info < Warning < Error < Critical.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// severityTable is the canonical severity-assignment table of a (kind,
// strict_mode) pair. This is the one source of truth the design notes call
// out explicitly: implementations must not let Clamp or any other kind
// diverge between strict modes beyond what this table says.
var severityTable = map[Kind]map[StrictMode]Severity{
	KindUnsupported: {
		StrictModeStrict: SeverityCritical,
		StrictModeWarn:   SeverityCritical,
		StrictModeCoerce: SeverityCritical,
	},
	KindDrop: {
		StrictModeStrict: SeverityError,
		StrictModeWarn:   SeverityWarning,
		StrictModeCoerce: SeverityWarning,
	},
	KindConflict: {
		StrictModeStrict: SeverityError,
		StrictModeWarn:   SeverityWarning,
		StrictModeCoerce: SeverityWarning,
	},
	KindClamp: {
		StrictModeStrict: SeverityWarning,
		StrictModeWarn:   SeverityInfo,
		StrictModeCoerce: SeverityInfo,
	},
	KindEmulate: {
		StrictModeStrict: SeverityWarning,
		StrictModeWarn:   SeverityWarning,
		StrictModeCoerce: SeverityWarning,
	},
	KindRelocate: {
		StrictModeStrict: SeverityInfo,
		StrictModeWarn:   SeverityInfo,
		StrictModeCoerce: SeverityInfo,
	},
	KindMapFallback: {
		StrictModeStrict: SeverityWarning,
		StrictModeWarn:   SeverityWarning,
		StrictModeCoerce: SeverityWarning,
	},
	KindPerformanceImpact: {
		StrictModeStrict: SeverityWarning,
		StrictModeWarn:   SeverityWarning,
		StrictModeCoerce: SeverityWarning,
	},
}

// SeverityFor resolves the canonical severity of kind under mode. An unknown
// kind or mode resolves to SeverityCritical, treating the omission as the
// most conservative possible outcome rather than silently under-reporting.
func SeverityFor(kind Kind, mode StrictMode) Severity {
	byMode, ok := severityTable[kind]
	if !ok {
		return SeverityCritical
	}

	sev, ok := byMode[mode]
	if !ok {
		return SeverityCritical
	}

	return sev
}
