package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConvert Phase = "convert" // host value to native primitive
	PhaseFormat  Phase = "format"  // message fragment building
	PhaseLower   Phase = "lower"   // primitive into linear memory
	PhaseHost    Phase = "host"    // host protocol calls
	PhaseParse   Phase = "parse"   // argument binding and call files
	PhaseRuntime Phase = "runtime" // native runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch   Kind = "type_mismatch"
	KindInvalidValue   Kind = "invalid_value"
	KindOverflow       Kind = "overflow"
	KindEmbeddedNul    Kind = "embedded_nul"
	KindInvalidUTF8    Kind = "invalid_utf8"
	KindUnencodable    Kind = "unencodable"
	KindAttribute      Kind = "attribute"
	KindAllocation     Kind = "allocation"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindArgument       Kind = "argument"
	KindNotInitialized Kind = "not_initialized"
)

// Exception returns the host exception class raised for this kind.
func (k Kind) Exception() string {
	switch k {
	case KindTypeMismatch, KindEmbeddedNul, KindArgument:
		return "TypeError"
	case KindInvalidValue, KindOverflow:
		return "ValueError"
	case KindInvalidUTF8, KindUnencodable:
		return "UnicodeError"
	case KindAttribute:
		return "AttributeError"
	case KindAllocation:
		return "MemoryError"
	case KindOutOfBounds:
		return "IndexError"
	default:
		return "RuntimeError"
	}
}

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	GoType   string
	HostType string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.HostType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.HostType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", host type ")
			b.WriteString(e.HostType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("host type ")
			b.WriteString(e.HostType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.HostType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Exception returns the host exception class for this error.
func (e *Error) Exception() string {
	return e.Kind.Exception()
}

// Message is the text the host shows next to the exception class.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return string(e.Kind)
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

// Path sets the argument path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// HostType sets the host type name
func (b *Builder) HostType(t string) *Builder {
	b.err.HostType = t
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

// Exception resolves the host exception class of any error. Errors that do
// not carry a kind surface as RuntimeError.
func Exception(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Exception()
	}
	if x, ok := err.(interface{ Exception() string }); ok {
		return x.Exception()
	}
	return "RuntimeError"
}

// Message returns the host-visible message of any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error with a host-facing message
func TypeMismatch(phase Phase, hostType string, format string, args ...any) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		HostType: hostType,
		Detail:   fmt.Sprintf(format, args...),
	}
}

// InvalidValue creates a value-out-of-domain error
func InvalidValue(phase Phase, value any, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidValue,
		Detail: fmt.Sprintf(format, args...),
		Value:  value,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: detail,
		Value:  value,
	}
}

// EmbeddedNul creates the error raised for paths containing a NUL byte
func EmbeddedNul(phase Phase, data []byte) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEmbeddedNul,
		Detail: "path has embedded nul character",
		Value:  string(data),
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Unencodable creates an error for text the target encoding cannot represent
func Unencodable(phase Phase, encoding string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnencodable,
		Detail: fmt.Sprintf("'%s' codec can't encode path", encoding),
		Cause:  cause,
	}
}

// AttributeMissing creates a missing attribute error
func AttributeMissing(hostType, name string) *Error {
	return &Error{
		Phase:    PhaseHost,
		Kind:     KindAttribute,
		HostType: hostType,
		Detail:   fmt.Sprintf("'%s' object has no attribute '%s'", hostType, name),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access at offset %d length %d out of bounds", offset, length),
		Value:  offset,
	}
}

// Argument creates an argument binding error for a named function
func Argument(fn string, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindArgument,
		Path:   []string{fn},
		Detail: fn + "() " + fmt.Sprintf(format, args...),
	}
}

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
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
