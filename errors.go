package mint

import (
	"fmt"
	"strings"

	"github.com/oarkflow/errors"
)

type ErrorCode string

const (
	ErrCodeLex     ErrorCode = "LEX_ERROR"
	ErrCodeParse   ErrorCode = "PARSE_ERROR"
	ErrCodeResolve ErrorCode = "RESOLVE_ERROR"
	ErrCodeRuntime ErrorCode = "RUNTIME_ERROR"
)

// ErrUnsupportedHostValue is returned when a Go value has no Mint counterpart.
var ErrUnsupportedHostValue = errors.New("unsupported host value")

// Error is a single diagnostic. Static errors (lex, parse, resolve) render as
// "[Line N] Error<where>: msg", runtime errors as "[Line N] msg".
type Error struct {
	Code    ErrorCode
	Line    int
	Where   string
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Code == ErrCodeRuntime {
		return fmt.Sprintf("[Line %d] %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[Line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// Static reports whether the error was raised before execution.
func (e *Error) Static() bool {
	return e != nil && e.Code != ErrCodeRuntime
}

func lexError(line int, msg string) *Error {
	return &Error{Code: ErrCodeLex, Line: line, Message: msg}
}

// tokenError places the error at a token the way the diagnostics channel expects.
func tokenError(code ErrorCode, tok Token, msg string) *Error {
	where := " at '" + tok.Lexeme + "'"
	if tok.Type == EOF {
		where = " at end"
	}
	return &Error{Code: code, Line: tok.Line, Where: where, Message: msg}
}

func runtimeError(tok Token, format string, args ...any) *Error {
	return &Error{Code: ErrCodeRuntime, Line: tok.Line, Message: fmt.Sprintf(format, args...)}
}

// UnitError describes a compilation unit that did not run to completion.
type UnitError struct {
	Status      Status
	Diagnostics []*Error
}

func (e *UnitError) Error() string {
	if e == nil {
		return ""
	}
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		lines = append(lines, d.Error())
	}
	return fmt.Sprintf("%s: %s", e.Status, strings.Join(lines, "; "))
}

func (e *UnitError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		errs = append(errs, d)
	}
	return errs
}
