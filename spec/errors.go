package spec

import "fmt"

// Kind is the closed set of error categories a translation or execution can
// surface. Names are abstract classifications, not exported identifiers of
// any particular failure cause.
type Kind string

const (
	KindSchemaValidation    Kind = "SchemaValidation"
	KindTranslation         Kind = "Translation"
	KindProvider            Kind = "Provider"
	KindStrictnessViolation Kind = "StrictnessViolation"
	KindHTTP                Kind = "Http"
	KindConfiguration       Kind = "Configuration"
	KindValidation          Kind = "Validation"
	KindLossiness           Kind = "Lossiness"
	KindUnsupported         Kind = "Unsupported"
	KindTimeout             Kind = "Timeout"
	KindRateLimit           Kind = "RateLimit"
	KindCircuitBreakerOpen  Kind = "CircuitBreakerOpen"
	KindTLS                 Kind = "Tls"
	KindInternal            Kind = "Internal"
	KindCancelled           Kind = "Cancelled"
)

// Error is the uniform error shape surfaced to callers across the
// translation and execution paths. Every surfaced error carries a Kind, a
// message, and optionally a field name and/or a JSONPath pinpointing the
// offending location.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Stage   string `json:"stage,omitempty"`

	// RetryAfterSeconds is set when Kind == KindRateLimit and the provider
	// sent a Retry-After header.
	RetryAfterSeconds int64 `json:"retry_after_seconds,omitempty"`

	cause error
}

// NewError constructs an Error of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPath returns a copy of e with Path set, for chaining at error sites.
func (e *Error) WithPath(path string) *Error {
	c := *e
	c.Path = path

	return &c
}

// WithField returns a copy of e with Field set.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field

	return &c
}

// WithStage returns a copy of e tagged with the orchestrator stage that
// produced it, per the propagation policy of wrapping per-stage errors with
// the stage name.
func (e *Error) WithStage(stage string) *Error {
	c := *e
	c.Stage = stage

	return &c
}

// WithCause attaches an underlying error for Unwrap, without altering Kind
// or Message.
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.cause = cause

	return &c
}

func (e *Error) Error() string {
	if e.Stage != "" {
		if e.Path != "" {
			return fmt.Sprintf("%s: %s (%s) [%s]", e.Stage, e.Message, e.Path, e.Kind)
		}

		return fmt.Sprintf("%s: %s [%s]", e.Stage, e.Message, e.Kind)
	}

	if e.Path != "" {
		return fmt.Sprintf("%s (%s) [%s]", e.Message, e.Path, e.Kind)
	}

	return fmt.Sprintf("%s [%s]", e.Message, e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports equality by Kind, allowing errors.Is(err, &Error{Kind: ...}) to
// classify an error without caring about its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.Kind == t.Kind
}
