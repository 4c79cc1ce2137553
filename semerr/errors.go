// Package semerr defines the failure taxonomy of the semantic test runner.
//
// Every error produced while loading, encoding, decoding or running a fixture
// maps to exactly one Class. Parse-time classes are fatal for the fixture,
// ResultMismatch is recorded and reported, the internal classes indicate a
// defect in the runner itself.
package semerr

import (
	"errors"
	"fmt"
)

// Class is a stable failure category.
type Class string

const (
	FixtureUnreadable Class = "FIXTURE_UNREADABLE"
	MalformedFixture  Class = "MALFORMED_FIXTURE"
	MalformedLiteral  Class = "MALFORMED_LITERAL"
	InvalidSource     Class = "INVALID_SOURCE"
	ResultMismatch    Class = "RESULT_MISMATCH"
	ExecutionFailed   Class = "EXECUTION_FAILED"
	RoundTrip         Class = "ROUND_TRIP_VIOLATION"
)

// Internal reports whether the class signals a defect rather than bad input.
func (c Class) Internal() bool {
	return c == RoundTrip
}

// ExitCode returns the process exit code for this failure class.
func (c Class) ExitCode() int {
	switch c {
	case ResultMismatch:
		return 1
	case RoundTrip, ExecutionFailed:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all runner failures. Line is the
// 1-based fixture line (0 when unknown), Offset the byte offset inside the
// literal list or line (-1 when unknown).
type Error struct {
	Class   Class
	Line    int
	Offset  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	switch {
	case e.Line > 0 && e.Offset >= 0:
		return fmt.Sprintf("semerr: %s at line %d, byte %d: %s", e.Class, e.Line, e.Offset, msg)
	case e.Line > 0:
		return fmt.Sprintf("semerr: %s at line %d: %s", e.Class, e.Line, msg)
	case e.Offset >= 0:
		return fmt.Sprintf("semerr: %s at byte %d: %s", e.Class, e.Offset, msg)
	}
	return fmt.Sprintf("semerr: %s: %s", e.Class, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class Class, offset int, message string) *Error {
	return &Error{Class: class, Offset: offset, Message: message}
}

// Newf is New with a format string.
func Newf(class Class, offset int, format string, args ...any) *Error {
	return New(class, offset, fmt.Sprintf(format, args...))
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class Class, offset int, message string, cause error) *Error {
	return &Error{Class: class, Offset: offset, Message: message, Cause: cause}
}

// AtLine attaches a fixture line number to err. Errors that are not *Error
// are wrapped as the given fallback class.
func AtLine(err error, line int, fallback Class) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		cp := *se
		cp.Line = line
		return &cp
	}
	return &Error{Class: fallback, Line: line, Offset: -1, Message: "invalid input", Cause: err}
}

// ClassOf returns the class of the first *Error in err's chain.
func ClassOf(err error) (Class, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Class, true
	}
	return "", false
}

// Is reports whether err carries the given class.
func Is(err error, class Class) bool {
	c, ok := ClassOf(err)
	return ok && c == class
}
