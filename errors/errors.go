package errors

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/wippyai/reql/ql2"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // native value to Term
	PhaseDecode   Phase = "decode"   // Datum to native value
	PhaseResponse Phase = "response" // server reported failure
)

// Kind is the error variant surfaced to callers
type Kind string

const (
	KindRuntime Kind = "runtime"
	KindCompile Kind = "compile"
	KindDriver  Kind = "driver"
)

// Sentinels for errors.Is matching on kind alone.
var (
	ErrRuntime = &Error{Kind: KindRuntime}
	ErrCompile = &Error{Kind: KindCompile}
	ErrDriver  = &Error{Kind: KindDriver}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value any
	Cause error
	// Term is the annotated copy of the originating expression, set when the
	// message was extended with a rendered backtrace.
	Term    *ql2.Term
	Phase   Phase
	Kind    Kind
	GoType  string
	Message string
	Path    []string
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

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
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

// Is reports whether target matches this error. An empty target phase
// matches any phase.
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

// Augment returns a copy of e whose message is extended with a rendered
// backtrace. The kind, phase and cause are preserved; e is left untouched.
func (e *Error) Augment(rendered string, annotated *ql2.Term) *Error {
	c := *e
	c.Message = e.Message + "\nBacktrace:\n" + rendered
	c.Term = annotated
	return &c
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

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
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

// Detail sets the human-readable message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Message = fmt.Sprintf(msg, args...)
	} else {
		b.err.Message = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// TypeName returns the printable Go type of v.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

// Runtime creates a runtime error with the given message
func Runtime(phase Phase, msg string) *Error {
	return &Error{Phase: phase, Kind: KindRuntime, Message: msg}
}

// Compile creates a compile error with the given message
func Compile(phase Phase, msg string) *Error {
	return &Error{Phase: phase, Kind: KindCompile, Message: msg}
}

// Driver creates a driver error with the given message
func Driver(phase Phase, msg string) *Error {
	return &Error{Phase: phase, Kind: KindDriver, Message: msg}
}

// Unreachable marks a scalar conversion reached with a non-scalar value.
func Unreachable(v any) *Error {
	return &Error{
		Phase:   PhaseEncode,
		Kind:    KindRuntime,
		GoType:  TypeName(v),
		Value:   v,
		Message: "unreachable",
	}
}

// Unimplemented marks a wire tag the codec does not know.
func Unimplemented(tag fmt.Stringer) *Error {
	return &Error{
		Phase:   PhaseDecode,
		Kind:    KindRuntime,
		Value:   tag,
		Message: "Unimplemented: " + tag.String(),
	}
}

// UnsupportedValue reports a native value the encoder cannot classify.
func UnsupportedValue(v any) *Error {
	return &Error{
		Phase:   PhaseEncode,
		Kind:    KindDriver,
		GoType:  TypeName(v),
		Value:   v,
		Message: fmt.Sprintf("r.expr can't handle %#v of type %s", v, TypeName(v)),
	}
}

// InvalidKey reports an object key that is neither a string nor a symbol.
func InvalidKey(k any) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindDriver,
		GoType: TypeName(k),
		Value:  k,
		Message: fmt.Sprintf("Object keys must be strings or symbols.  (Got object `%#v` of type `%s`.)",
			k, TypeName(k)),
	}
}

// InvalidUTF8 reports a string that is not valid UTF-8.
func InvalidUTF8(s string) *Error {
	return &Error{
		Phase:   PhaseEncode,
		Kind:    KindDriver,
		GoType:  "string",
		Value:   s,
		Message: fmt.Sprintf("string %q is not valid UTF-8", s),
	}
}

// AlreadyBound reports reuse of an encoder that already produced a term.
func AlreadyBound() *Error {
	return &Error{
		Phase:   PhaseEncode,
		Kind:    KindDriver,
		Message: "expression already bound: encoder cannot be reused",
	}
}

// TooDeep reports a literal nested beyond the configured cap.
func TooDeep(limit int) *Error {
	return &Error{
		Phase:   PhaseEncode,
		Kind:    KindDriver,
		Value:   limit,
		Message: fmt.Sprintf("nesting of %d is too deep", limit+1),
	}
}

// UnexpectedResponse reports an envelope with an unknown type tag.
func UnexpectedResponse(r *ql2.Response) *Error {
	return &Error{
		Phase:   PhaseResponse,
		Kind:    KindRuntime,
		Value:   r.Type,
		Message: "Unexpected response: " + r.String(),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindRuntime,
		Path:    path,
		Message: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    kind,
		Message: detail,
		Cause:   cause,
	}
}
