package worm

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for table operations.
var (
	// ErrNotSingular is returned when a statement that expects exactly one
	// result row returns zero or multiple rows.
	ErrNotSingular = errors.New("worm: result not singular")
)

// NotSingularError is returned by Count when the COUNT statement does not
// produce exactly one row. It carries the rows that were read.
type NotSingularError struct {
	Entity string
	Rows   []int64
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	return fmt.Sprintf("worm: %s: SELECT COUNT result is expected to have length of 1. Current result is %v", e.Entity, e.Rows)
}

// Is reports whether the target error matches ErrNotSingular.
func (e *NotSingularError) Is(err error) bool {
	return err == ErrNotSingular
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// QueryError wraps an error returned while reading an entity table.
type QueryError struct {
	Entity string // Entity type being queried
	Op     string // Operation (e.g., "select", "count")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("worm: querying %s (%s): %v", e.Entity, e.Op, e.Err)
	}
	return fmt.Sprintf("worm: querying %s: %v", e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e)
}

// MutationError wraps an error returned by a statement changing a table or
// its rows.
type MutationError struct {
	Entity string // Entity type being mutated
	Op     string // Operation (e.g., "insert", "update", "delete")
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *MutationError) Error() string {
	return fmt.Sprintf("worm: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error.
func (e *MutationError) Unwrap() error {
	return e.Err
}

// IsMutationError returns true if the error is a MutationError.
func IsMutationError(err error) bool {
	if err == nil {
		return false
	}
	var e *MutationError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation
// spanning several tables.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "worm: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("worm: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil. A single error is returned as is.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
