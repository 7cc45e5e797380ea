// Package invoke is the invocation pipeline: it wraps registered tool
// executors with type coercion, fault normalization, execution logging,
// and optional fan-out over a batch of argument maps. Every call that
// enters the pipeline leaves it as a well-formed Envelope; no tool
// error, panic or log-store failure ever escapes raw to the caller.
package invoke

import "fmt"

// Kind is the normalized failure taxonomy surfaced inside Envelope.
type Kind string

const (
	KindUnknownTool       Kind = "UnknownTool"
	KindMissingArgument   Kind = "MissingArgument"
	KindUnknownArgument   Kind = "UnknownArgument"
	KindInvalidArgument   Kind = "InvalidArgument"
	KindExecutionFault    Kind = "ExecutionFault"
	KindInvalidBatchInput Kind = "InvalidBatchInput"
	KindNotBatchCapable   Kind = "NotBatchCapable"
	KindCancelled         Kind = "Cancelled"
)

// Fault describes one normalized failure. Detail carries diagnostics
// (e.g. a stack trace for recovered panics) and may be empty.
type Fault struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Error implements the error interface so faults can travel through
// error-shaped plumbing when needed.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Envelope is the tagged outcome of one invocation: either a value or a
// fault, never both. This is the only shape returned to callers.
type Envelope struct {
	Value any    `json:"value,omitempty"`
	Fault *Fault `json:"fault,omitempty"`
}

// OK reports whether the envelope carries a success value.
func (e Envelope) OK() bool { return e.Fault == nil }

// Ok wraps a success value.
func Ok(v any) Envelope {
	return Envelope{Value: v}
}

// Err wraps a failure of the given kind.
func Err(kind Kind, message string) Envelope {
	return Envelope{Fault: &Fault{Kind: kind, Message: message}}
}

// Errf wraps a formatted failure of the given kind.
func Errf(kind Kind, format string, args ...any) Envelope {
	return Err(kind, fmt.Sprintf(format, args...))
}

// errDetail wraps a failure carrying extra diagnostic detail.
func errDetail(kind Kind, message, detail string) Envelope {
	return Envelope{Fault: &Fault{Kind: kind, Message: message, Detail: detail}}
}

// BatchResult is the index-aligned outcome sequence of a fan-out call:
// len(BatchResult) always equals the length of the input sequence.
type BatchResult []Envelope
