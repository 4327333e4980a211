package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes, one per failing subsystem.
const (
	ErrConfig = "CONFIG" // config file, built-in config or command-line option
	ErrKind   = "KIND"   // a kind reference that names no column
	ErrSource = "SOURCE" // process enumeration or Docker lookup
	ErrTerm   = "TERM"   // terminal setup for watch mode
	ErrOutput = "OUTPUT" // stdout, pager or completion file writes
)

// ExitInterrupted is the status for a run cut short by SIGINT or SIGTERM.
const ExitInterrupted = 130

// Error is a failure reported to the user on stderr:
//
//	✗ <what failed>
//
//	  <cause>
//
//	  <suggestion>
//
// Cause and Suggestion are omitted when empty.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates an error without an underlying cause.
func New(code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap attaches message to err under ErrSource, the code for failures
// that come from the system rather than from the user's input.
func Wrap(err error, message string) *Error {
	return WrapWithCode(err, ErrSource, message, "")
}

// WrapWithCode attaches message and suggestion to err under code.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

// NewUnknownKind reports a column kind reference that matches nothing.
// flag names the option that carried the reference (e.g. "--only").
func NewUnknownKind(flag, kind string) *Error {
	return &Error{
		Code:       ErrKind,
		Message:    fmt.Sprintf("%s '%s' doesn't match any column", flag, kind),
		Suggestion: "Run 'pst --list' to see the available kinds.",
	}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("✗ ")
	b.WriteString(e.Message)
	b.WriteByte('\n')
	for _, detail := range []string{e.cause(), e.Suggestion} {
		if detail != "" {
			b.WriteString("\n  ")
			b.WriteString(detail)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (e *Error) cause() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries code.
func IsCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// ExitError ends the program with Code and prints nothing.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError for the given status.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts the status from an ExitError anywhere in err's chain.
func GetExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// ExitStatus maps err to a process exit status: 0 for nil, the carried
// status for an ExitError, 1 for anything else.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := GetExitCode(err); ok {
		return code
	}
	return 1
}
