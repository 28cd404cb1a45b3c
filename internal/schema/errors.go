package schema

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes a schema compilation failure.
type ErrorKind string

const (
	KindDuplicateIdentifier         ErrorKind = "duplicate_identifier"
	KindInvalidDimension            ErrorKind = "invalid_dimension"
	KindEmptySchema                 ErrorKind = "empty_schema"
	KindHeterogeneousArrayOfStructs ErrorKind = "heterogeneous_array_of_structs"
	KindInvalidName                 ErrorKind = "invalid_name"
	KindEmptyStruct                 ErrorKind = "empty_struct"
	KindCapacityExceeded            ErrorKind = "capacity_exceeded"
	KindUnsupportedType             ErrorKind = "unsupported_type"
)

// Sentinels for errors.Is. Matching compares Kind only.
var (
	ErrDuplicateIdentifier         = &Error{Kind: KindDuplicateIdentifier}
	ErrInvalidDimension            = &Error{Kind: KindInvalidDimension}
	ErrEmptySchema                 = &Error{Kind: KindEmptySchema}
	ErrHeterogeneousArrayOfStructs = &Error{Kind: KindHeterogeneousArrayOfStructs}
	ErrInvalidName                 = &Error{Kind: KindInvalidName}
	ErrEmptyStruct                 = &Error{Kind: KindEmptyStruct}
	ErrCapacityExceeded            = &Error{Kind: KindCapacityExceeded}
	ErrUnsupportedType             = &Error{Kind: KindUnsupportedType}
)

// Error is the structured error returned by validation, flattening and layout.
type Error struct {
	Cause  error
	Kind   ErrorKind
	Schema string   // record name, empty if unknown
	Path   []string // schema path of the offending node
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder

	if e.Schema != "" {
		b.WriteString(e.Schema)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
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

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// ErrorBuilder assembles an *Error.
type ErrorBuilder struct {
	err Error
}

// NewError starts an error of the given kind.
func NewError(kind ErrorKind) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Kind: kind}}
}

func (b *ErrorBuilder) Schema(name string) *ErrorBuilder {
	b.err.Schema = name
	return b
}

// Path sets the schema path. The slice is copied.
func (b *ErrorBuilder) Path(path ...string) *ErrorBuilder {
	b.err.Path = append([]string(nil), path...)
	return b
}

func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

func (b *ErrorBuilder) Detail(msg string, args ...any) *ErrorBuilder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

func (b *ErrorBuilder) Build() *Error {
	e := b.err
	return &e
}

// WithSchema returns err with its Schema set to name when err is an *Error
// that does not name one yet. Other errors are returned unchanged.
func WithSchema(err error, name string) error {
	e, ok := err.(*Error)
	if !ok || e.Schema != "" {
		return err
	}
	c := *e
	c.Schema = name
	return &c
}
