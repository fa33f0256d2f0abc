package config

import (
	"errors"
	"fmt"
	"io"
)

// Exit codes of the worm command.
const (
	ExitSuccess  = 0
	ExitGeneral  = 1
	ExitConfig   = 2
	ExitSchema   = 3
	ExitDatabase = 4
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Report prints err to w and returns the exit code it maps to.
func Report(w io.Writer, err error) int {
	fmt.Fprintln(w, "Error:", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneral
}

// ConfigError creates an ExitError with ExitConfig code.
func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

// SchemaError creates an ExitError with ExitSchema code.
func SchemaError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitSchema, Message: msg, Err: err}
}

// DatabaseError creates an ExitError with ExitDatabase code.
func DatabaseError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitDatabase, Message: msg, Err: err}
}
