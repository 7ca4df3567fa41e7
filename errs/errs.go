// Package errs defines the closed set of error kinds raised while compiling
// layouts and filling rows.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the error classes a writer can raise.
type Kind int

const (
	KindSchema Kind = iota + 1
	KindDataType
	KindDataBuffer
	KindUnknownField
	KindWriter
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindDataType:
		return "data type"
	case KindDataBuffer:
		return "data buffer"
	case KindUnknownField:
		return "unknown field"
	case KindWriter:
		return "writer"
	case KindNotImplemented:
		return "not implemented"
	default:
		return "unknown"
	}
}

// Sentinels usable with errors.Is.
var (
	ErrSchema         = &Error{Kind: KindSchema}
	ErrDataType       = &Error{Kind: KindDataType}
	ErrDataBuffer     = &Error{Kind: KindDataBuffer}
	ErrUnknownField   = &Error{Kind: KindUnknownField}
	ErrWriter         = &Error{Kind: KindWriter}
	ErrNotImplemented = &Error{Kind: KindNotImplemented}
)

// Error is the single error type returned by the layout compiler and the
// writer. Path, Expected and Actual are optional.
type Error struct {
	Kind     Kind
	Path     string
	Expected string
	Actual   string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(" error")
	if e.Path != "" {
		sb.WriteString(` on field "`)
		sb.WriteString(e.Path)
		sb.WriteString(`"`)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&sb, " (expected %s, got %s)", e.Expected, e.Actual)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel of the same kind. Unknown fields and
// unimplemented features are writer errors as well.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Path != "" || t.Msg != "" {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindWriter && (e.Kind == KindUnknownField || e.Kind == KindNotImplemented)
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func Schemaf(path, format string, args ...any) error {
	return &Error{Kind: KindSchema, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func DataType(path, expected, actual string) error {
	return &Error{Kind: KindDataType, Path: path, Msg: "value type mismatch", Expected: expected, Actual: actual}
}

func DataBuffer(path, format string, args ...any) error {
	return &Error{Kind: KindDataBuffer, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func UnknownField(path string) error {
	return &Error{Kind: KindUnknownField, Path: path, Msg: "field not present in layout"}
}

func Writerf(path, format string, args ...any) error {
	return &Error{Kind: KindWriter, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func NotImplemented(format string, args ...any) error {
	return &Error{Kind: KindNotImplemented, Msg: fmt.Sprintf(format, args...)}
}

// Poisoned wraps the error that left a writer unusable.
func Poisoned(cause error) error {
	return &Error{Kind: KindWriter, Msg: "writer is unusable after a previous error", Err: cause}
}
