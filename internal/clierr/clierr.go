// Package clierr maps command errors to process exit codes.
package clierr

import (
	"context"
	"errors"
	"fmt"

	"github.com/maxbolgarin/errm"
)

// Exit codes of the docweave command
const (
	CodeOK          = 0
	CodeError       = 1
	CodeInterrupted = 130
)

// ExitError is an error with an explicit exit code
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	if e.msg == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) Unwrap() error { return e.cause }

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int { return e.code }

// New creates an error with the given exit code; codes below 1 become 1.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap attaches an exit code to cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Interrupted returns the error of a run stopped by a signal.
func Interrupted(cause error) error {
	return Wrap(CodeInterrupted, "interrupted", cause)
}

// ExitCodeOf returns the exit code for err: 0 for nil, 130 for a canceled context,
// the attached code for an ExitError and 1 otherwise.
func ExitCodeOf(err error) int {
	if err == nil {
		return CodeOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	if errors.Is(err, context.Canceled) || errm.Is(err, context.Canceled) {
		return CodeInterrupted
	}
	return CodeError
}

func normalize(code int) int {
	if code <= 0 {
		return CodeError
	}
	return code
}
