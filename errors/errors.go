package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which subsystem reported the error
type Phase string

const (
	PhasePool     Phase = "pool"     // handle object pool
	PhaseKeyval   Phase = "keyval"   // keyval creation and release
	PhaseAttr     Phase = "attr"     // attribute list duplication/teardown
	PhaseDatatype Phase = "datatype" // datatype objects
	PhaseTyperep  Phase = "typerep"  // representation engine bridge
	PhaseRuntime  Phase = "runtime"  // process context
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindOutOfMemory     Kind = "out_of_memory"
	KindInternal        Kind = "internal"
	KindInvalidHandle   Kind = "invalid_handle"
	KindNotFound        Kind = "not_found"
	KindUnsupported     Kind = "unsupported"
	KindCallback        Kind = "callback"
)

// Sentinels for errors.Is. An empty Phase matches any phase.
var (
	ErrArgument      = &Error{Kind: KindInvalidArgument}
	ErrOutOfMemory   = &Error{Kind: KindOutOfMemory}
	ErrInternal      = &Error{Kind: KindInternal}
	ErrInvalidHandle = &Error{Kind: KindInvalidHandle}
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Arg    string
	Handle string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Arg != "" {
		b.WriteString(" argument ")
		b.WriteString(e.Arg)
	}
	if e.Handle != "" {
		b.WriteString(" handle ")
		b.WriteString(e.Handle)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Arg sets the offending argument name
func (b *Builder) Arg(name string) *Builder {
	b.err.Arg = name
	return b
}

// Handle sets the offending handle
func (b *Builder) Handle(h fmt.Stringer) *Builder {
	b.err.Handle = h.String()
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NullArgument creates an error for a missing output location
func NullArgument(phase Phase, arg string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Arg:    arg,
		Detail: "null argument",
	}
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(phase Phase, arg string, value any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Arg:    arg,
		Value:  value,
		Detail: detail,
	}
}

// OutOfMemory creates an allocation failure error
func OutOfMemory(phase Phase, what string, capacity int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("no free %s slot (capacity %d)", what, capacity),
		Value:  capacity,
	}
}

// Internal creates an internal consistency error
func Internal(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInternal,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidHandle creates an error for a handle that names no live object of the expected kind
func InvalidHandle(phase Phase, h fmt.Stringer, expected string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Handle: h.String(),
		Detail: fmt.Sprintf("expected %s", expected),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Callback wraps an error returned by a user callback
func Callback(phase Phase, h fmt.Stringer, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindCallback,
		Handle: h.String(),
		Detail: "user callback failed",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
