// Package transform applies an ordered set of rules that read from source
// JSONPaths in a document and write to target JSONPaths in an emerging
// document, recording every non-identity effect into a lossiness.Tracker.
package transform

import "github.com/brightloom/promptbridge/lossiness"

// Direction declares which way a Rule participates in a translation. The
// pipeline as built only ever runs Forward; Reverse/Bidirectional are
// carried through the type so a future response-side rewrite can reuse the
// same Rule declarations without a parallel type.
type Direction string

const (
	DirectionForward       Direction = "Forward"
	DirectionReverse       Direction = "Reverse"
	DirectionBidirectional Direction = "Bidirectional"
)

// Kind is the closed set of transformation kinds a Rule may apply.
type Kind string

const (
	KindTypeConversion Kind = "TypeConversion"
	KindEnumMapping    Kind = "EnumMapping"
	KindUnitConversion Kind = "UnitConversion"
	KindFieldRename    Kind = "FieldRename"
	KindDefaultValue   Kind = "DefaultValue"
	KindConditional    Kind = "Conditional"
	KindCustom         Kind = "Custom"
)

// ScalarType is the closed set of scalar types TypeConversion converts
// between.
type ScalarType string

const (
	ScalarString  ScalarType = "string"
	ScalarNumber  ScalarType = "number"
	ScalarBoolean ScalarType = "boolean"
)

// UnitFormula is the closed set of numeric rescale strategies
// UnitConversion supports.
type UnitFormula struct {
	// Kind is either "Linear" (Scale/Offset apply) or "Custom" (Name
	// identifies a registered CustomUnitFunc).
	Kind   string
	Scale  float64
	Offset float64
	Name   string
}

// CustomFunc is the signature of the Custom transformation kind's opaque
// transformer function. It receives the in-flight provider-request document
// and the already-resolved source value, and returns the value to write (or
// ok=false to signal the custom transform declined to produce output, which
// the pipeline treats the same as a rule returning no value). The function
// owns its own lossiness semantics — it receives the tracker directly to
// record whatever it deems appropriate.
type CustomFunc func(tracker *lossiness.Tracker, doc map[string]any, sourceValue any) (value any, ok bool, err error)

// Transformation is the closed-set discriminated union a Rule carries. Only
// the field matching Kind is read by the pipeline; FieldRename writes to the
// rule's Target() and does not read FieldRenameTo.
type Transformation struct {
	Kind Kind

	TypeConversionFrom, TypeConversionTo ScalarType

	EnumMappings map[string]string
	EnumDefault  *string

	UnitFrom, UnitTo string
	UnitFormula      UnitFormula

	FieldRenameTo string

	DefaultValue any

	ConditionalCond    Condition
	ConditionalIfTrue  *Rule
	ConditionalIfFalse *Rule

	CustomName string
	CustomFunc CustomFunc
}

// Rule is one entry of a Pipeline: a source JSONPath to read, an optional
// target JSONPath to write (defaulting to Source), the transformation to
// apply, and its ordering/optionality.
type Rule struct {
	ID             string
	SourcePath     string
	TargetPath     string // defaults to SourcePath when empty
	Transformation Transformation
	Direction      Direction
	Priority       int
	Optional       bool
}

// Target returns the rule's effective write target, defaulting to its
// source path.
func (r *Rule) Target() string {
	if r.TargetPath == "" {
		return r.SourcePath
	}

	return r.TargetPath
}
