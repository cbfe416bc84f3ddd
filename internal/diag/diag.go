// Package diag implements the engine's structured error reporting: the
// four fatal error kinds from the error-handling design (parse,
// closedness, preflight, invariant violation) plus a terminal Reporter
// adapted from the teacher compiler's caret-style ErrorReporter.
package diag

import (
	"fmt"

	"github.com/pkg/errors"
)

// Position is a 1-based line/column location in some source text. The
// zero value means "no position available."
type Position struct {
	Line   int
	Column int
}

// Kind distinguishes the four fatal error categories the engine raises.
type Kind string

const (
	KindParse       Kind = "parse error"
	KindClosedness  Kind = "closedness error"
	KindPreflight   Kind = "preflight error"
	KindInvariant   Kind = "invariant violation"
)

// Error is a structured, code-tagged diagnostic. It wraps an optional
// underlying cause with github.com/pkg/errors so InvariantViolations in
// particular carry a stack trace back to the DP code that tripped them.
type Error struct {
	Kind     Kind
	Code     string
	Message  string
	Position Position
	cause    error
}

func (e *Error) Error() string {
	if e.Position.Line > 0 {
		return fmt.Sprintf("%s[%s] at %d:%d: %s", e.Kind, e.Code, e.Position.Line, e.Position.Column, e.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// NewParseError builds a fatal parse diagnostic at the given position.
func NewParseError(code, message string, pos Position) *Error {
	return &Error{Kind: KindParse, Code: code, Message: message, Position: pos}
}

// NewClosednessError reports a top-level program with free Vars or IVars.
func NewClosednessError(code, message string) *Error {
	return &Error{Kind: KindClosedness, Code: code, Message: message}
}

// NewPreflightError reports an immediately-applied lambda `(app (lam ...))`
// found before compression starts.
func NewPreflightError(message string) *Error {
	return &Error{Kind: KindPreflight, Code: CodePreflightAppliedLam, Message: message}
}

// NewInvariantViolation builds a bug report whose cause is a
// github.com/pkg/errors error created from message, so it carries a stack
// trace: the DP or extractor produced a result that breaks one of the
// engine's own invariants. This always indicates a defect in the engine,
// never bad input.
func NewInvariantViolation(code, message string) *Error {
	return &Error{
		Kind:    KindInvariant,
		Code:    code,
		Message: message,
		cause:   errors.New(message),
	}
}
