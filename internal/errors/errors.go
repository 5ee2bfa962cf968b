// Package errors implements the error taxonomy described in spec §7:
// ParseError, CompilationError, SpecificationError, SqlNotSupported,
// Internal, External and Cancelled, each carrying a context stack that
// callers grow as the error propagates up through the task graph.
package errors

import (
	"fmt"
	"strings"

	juju "github.com/juju/errors"
	pcerrors "github.com/pingcap/errors"
	"github.com/pkg/errors"
)

// Kind identifies which branch of the taxonomy an Error belongs to.
type Kind int

const (
	// KindParse covers lexer/parser failures on the expression sublanguage.
	KindParse Kind = iota
	// KindCompilation covers expression-to-logical-expression lowering failures.
	KindCompilation
	// KindSpecification covers malformed transform/task-graph specs (e.g.
	// mismatched collect field/order lengths).
	KindSpecification
	// KindSQLNotSupported marks a transform or expression the backend dialect
	// cannot express; the planner falls back to client-side execution.
	KindSQLNotSupported
	// KindInternal is an unexpected engine-side failure, fatal to the
	// request but not to the process.
	KindInternal
	// KindExternal covers I/O and network failures (loaders, connections).
	KindExternal
	// KindCancelled marks a request torn down by deadline or client cancel.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindCompilation:
		return "CompilationError"
	case KindSpecification:
		return "SpecificationError"
	case KindSQLNotSupported:
		return "SqlNotSupported"
	case KindInternal:
		return "Internal"
	case KindExternal:
		return "External"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by every package in this
// module. Context is pushed onto contexts in the order callers add it,
// mirroring the Rust original's ErrorContext stack.
type Error struct {
	kind     Kind
	msg      string
	contexts []string
	cause    error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.kind, e.msg)
	for i, c := range e.contexts {
		fmt.Fprintf(&b, "\n    Context[%d]: %s", i, c)
	}
	return b.String()
}

// Kind returns the taxonomy branch of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Cause returns the wrapped external error, if any, unwound with
// pkg/errors' Cause() semantics at the External-I/O boundary.
func (e *Error) Cause() error {
	if e.cause != nil {
		return errors.Cause(e.cause)
	}
	return nil
}

// Unwrap supports errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithContext appends a context line and returns the same error,
// matching the teacher's heavy use of juju/errors.Annotate for
// context-chaining and the Rust original's with_context combinator.
func (e *Error) WithContext(format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	e.contexts = append(e.contexts, msg)
	return e
}

func newErr(kind Kind, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Parse builds a KindParse error.
func Parse(format string, args ...interface{}) *Error {
	return newErr(KindParse, format, args...)
}

// Compilation builds a KindCompilation error.
func Compilation(format string, args ...interface{}) *Error {
	return newErr(KindCompilation, format, args...)
}

// Specification builds a KindSpecification error.
func Specification(format string, args ...interface{}) *Error {
	return newErr(KindSpecification, format, args...)
}

// SQLNotSupported builds a KindSQLNotSupported error. This is not a
// request failure: the planner catches it and marks the owning task
// unsupported for client-side fallback (spec §7 policy).
func SQLNotSupported(format string, args ...interface{}) *Error {
	return newErr(KindSQLNotSupported, format, args...)
}

// Internal builds a KindInternal error, annotated with a captured stack
// trace via pingcap/errors so operators can see where an unexpected
// engine-side failure originated.
func Internal(format string, args ...interface{}) *Error {
	e := newErr(KindInternal, format, args...)
	e.cause = pcerrors.New(e.msg)
	return e
}

// External wraps an I/O/network error (loader or connection failure) at
// the boundary, preserving Cause() via pkg/errors.
func External(cause error, format string, args ...interface{}) *Error {
	e := newErr(KindExternal, format, args...)
	e.cause = errors.Wrap(cause, e.msg)
	return e
}

// Cancelled builds a KindCancelled error. Per spec §7 these are never
// logged as errors by callers.
func Cancelled(format string, args ...interface{}) *Error {
	return newErr(KindCancelled, format, args...)
}

// Annotate pushes a context string onto any error produced by this
// package, leaving non-*Error values untouched beyond juju-style
// wrapping so callers always get a readable chain.
func Annotate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if ve, ok := err.(*Error); ok {
		return ve.WithContext(msg)
	}
	return juju.Annotate(err, msg)
}

// IsCancelled reports whether err is (or wraps) a KindCancelled error.
func IsCancelled(err error) bool {
	var ve *Error
	return errors.As(err, &ve) && ve.kind == KindCancelled
}

// IsSQLNotSupported reports whether err is (or wraps) a
// KindSQLNotSupported error.
func IsSQLNotSupported(err error) bool {
	var ve *Error
	return errors.As(err, &ve) && ve.kind == KindSQLNotSupported
}
