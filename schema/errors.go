package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for schema compilation failures.
var (
	// ErrInvalidSchema is matched by every error reported while compiling a schema.
	ErrInvalidSchema = errors.New("worm: invalid schema")

	// Type mapper rules.
	ErrMissingSize      = errors.New("missing size for varchar")
	ErrIncompatibleType = errors.New("type incompatible with varchar")
	ErrSizeNotSupported = errors.New("size not supported")
	ErrUnknownType      = errors.New("unknown type for field")

	// Shape rules.
	ErrNoFields       = errors.New("entity has no fields")
	ErrDuplicateField = errors.New("duplicate field name")
	ErrInvalidName    = errors.New("invalid identifier")

	// ErrUnsupportedShape is reported by schema sources for declarations
	// that are not a record of named scalar fields.
	ErrUnsupportedShape = errors.New("unsupported entity shape")
)

// Error describes a single schema definition error.
type Error struct {
	Entity  string // entity name, if known.
	Field   string // field name, if applicable.
	Message string // offending declaration.
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("worm: schema error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidSchema
}

// Errors holds every error found while compiling one entity.
type Errors struct {
	Entity string
	Errs   []*Error
}

// Error implements the error interface.
func (e *Errors) Error() string {
	switch len(e.Errs) {
	case 0:
		return "worm: no schema errors"
	case 1:
		return e.Errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "worm: %d schema errors on entity %s:", len(e.Errs), e.Entity)
	for i, err := range e.Errs {
		fmt.Fprintf(&b, "\n  [%d] %v", i+1, err)
	}
	return b.String()
}

// Unwrap returns the collected errors.
func (e *Errors) Unwrap() []error {
	errs := make([]error, len(e.Errs))
	for i, err := range e.Errs {
		errs[i] = err
	}
	return errs
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *Errors) Is(target error) bool {
	return target == ErrInvalidSchema
}

func (e *Errors) add(field, msg string, cause error) {
	e.Errs = append(e.Errs, &Error{Entity: e.Entity, Field: field, Message: msg, Cause: cause})
}

func (e *Errors) err() error {
	if len(e.Errs) == 0 {
		return nil
	}
	return e
}

// IsInvalidSchema returns true if the error was reported by the schema compiler.
func IsInvalidSchema(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidSchema)
}
