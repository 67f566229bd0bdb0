// Package diagnostics defines the error representation shared by the
// scanner, parser and replacer: an ErrorCode/Phase pair plus the source
// location the failure was raised at.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/esdown/internal/scanner"
)

// Phase identifies which pipeline stage raised an Error.
type Phase string

const (
	PhaseScanner  Phase = "scanner"
	PhaseParser   Phase = "parser"
	PhaseReplacer Phase = "replacer"
)

// Code is the closed set of error kinds this module ever raises.
type Code string

const (
	ErrIllegalToken                Code = "ILLEGAL_TOKEN"
	ErrUnexpectedToken              Code = "UNEXPECTED_TOKEN"
	ErrInvalidPattern                Code = "INVALID_PATTERN"
	ErrStrictViolation               Code = "STRICT_VIOLATION"
	ErrDuplicateName                 Code = "DUPLICATE_NAME"
	ErrLabelUndefined                Code = "LABEL_UNDEFINED"
	ErrInvalidReturn                 Code = "INVALID_RETURN"
	ErrInvalidBreak                  Code = "INVALID_BREAK"
	ErrInvalidContinue               Code = "INVALID_CONTINUE"
	ErrInvalidSuper                  Code = "INVALID_SUPER"
	ErrConstMissingInit              Code = "CONST_MISSING_INIT"
	ErrInvalidDestructuringInitFor   Code = "INVALID_DESTRUCTURING_INIT_FOR"
)

var descriptions = map[Code]string{
	ErrIllegalToken:              "illegal token",
	ErrUnexpectedToken:           "unexpected token",
	ErrInvalidPattern:            "invalid destructuring pattern",
	ErrStrictViolation:           "strict mode violation",
	ErrDuplicateName:             "duplicate name",
	ErrLabelUndefined:            "undefined label",
	ErrInvalidReturn:             "return outside a function",
	ErrInvalidBreak:              "break outside a loop or switch",
	ErrInvalidContinue:           "continue outside a loop",
	ErrInvalidSuper:              "invalid use of super",
	ErrConstMissingInit:          "const declaration without an initializer",
	ErrInvalidDestructuringInitFor: "invalid destructuring initializer in for-in/for-of",
}

// Error is the error type every fallible operation in this module returns,
// carrying a message plus the line, column, lineOffset, startOffset and
// endOffset fields a caller needs to point at the offending source span.
type Error struct {
	Code     Code
	Phase    Phase
	Message  string
	Position scanner.Position
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = descriptions[e.Code]
	}
	return fmt.Sprintf("[%s] %d:%d: %s (%s)", e.Phase, e.Position.Line, e.Position.Column, msg, e.Code)
}

// Line reports the 1-based line the error occurred on, part of the
// error-contract fields.
func (e *Error) Line() int { return e.Position.Line }

// Column reports the 1-based column the error occurred on.
func (e *Error) Column() int { return e.Position.Column }

// LineOffset reports the byte offset of the start of Line.
func (e *Error) LineOffset() int { return e.Position.LineOffset }

// StartOffset reports the byte offset the error span starts at.
func (e *Error) StartOffset() int { return e.Position.StartOffset }

// EndOffset reports the byte offset the error span ends at.
func (e *Error) EndOffset() int { return e.Position.EndOffset }

// New builds an Error with an explicit message, falling back to Code's
// canonical description when message is empty.
func New(phase Phase, code Code, pos scanner.Position, message string) *Error {
	return &Error{Phase: phase, Code: code, Message: message, Position: pos}
}

// Newf builds an Error with a formatted message.
func Newf(phase Phase, code Code, pos scanner.Position, format string, args ...interface{}) *Error {
	return New(phase, code, pos, fmt.Sprintf(format, args...))
}

// InternalError reports a "should never happen" invariant violation.
func InternalError(phase Phase, pos scanner.Position, message string) *Error {
	return New(phase, ErrUnexpectedToken, pos, "internal error: "+message)
}
