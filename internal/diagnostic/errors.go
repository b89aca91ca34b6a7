package diagnostic

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal lexical or syntactic error
type Kind int

const (
	// Lexical
	UnterminatedLiteral Kind = iota + 1
	UnexpectedCharacter

	// Syntactic
	ExpectedExpression
	UnbalancedDelimiter
	UnexpectedToken
)

// Sentinel errors matched with errors.Is against an *Error of the same kind.
var (
	ErrUnterminatedLiteral = errors.New("unterminated literal")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrExpectedExpression  = errors.New("expected expression")
	ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")
	ErrUnexpectedToken     = errors.New("unexpected token")
)

// String returns the name of the error kind
func (k Kind) String() string {
	switch k {
	case UnterminatedLiteral:
		return "UnterminatedLiteral"
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case ExpectedExpression:
		return "ExpectedExpression"
	case UnbalancedDelimiter:
		return "UnbalancedDelimiter"
	case UnexpectedToken:
		return "UnexpectedToken"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Lexical reports whether the kind is raised by the lexer
func (k Kind) Lexical() bool {
	return k == UnterminatedLiteral || k == UnexpectedCharacter
}

func (k Kind) sentinel() error {
	switch k {
	case UnterminatedLiteral:
		return ErrUnterminatedLiteral
	case UnexpectedCharacter:
		return ErrUnexpectedCharacter
	case ExpectedExpression:
		return ErrExpectedExpression
	case UnbalancedDelimiter:
		return ErrUnbalancedDelimiter
	case UnexpectedToken:
		return ErrUnexpectedToken
	}
	return nil
}

// Error is the single terminating error of a lex or parse.
type Error struct {
	Kind    Kind
	Message string
	Offset  int
	Line    int
	Column  int
	// AtEOF is set when the error was raised on the end-of-input token,
	// i.e. more input could still complete the construct.
	AtEOF bool
}

// Errorf builds an *Error of the given kind at a source position
func Errorf(kind Kind, offset, line, col int, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
		Line:    line,
		Column:  col,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Message)
}

// Unwrap exposes the sentinel for the error's kind
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// Diagnostic converts the error into an error-level diagnostic
func (e *Error) Diagnostic() Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Message:  e.Message,
		Offset:   e.Offset,
		Line:     e.Line,
		Column:   e.Column,
	}
}

// KindOf extracts the kind of a parse error, or 0 when err is not one
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}

// Incomplete reports whether err was raised at end of input, so that
// appending more source could make it parse.
func Incomplete(err error) bool {
	var perr *Error
	if !errors.As(err, &perr) {
		return false
	}
	return perr.AtEOF || perr.Kind == UnterminatedLiteral
}
