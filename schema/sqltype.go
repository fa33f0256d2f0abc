package schema

import (
	"fmt"
	"strconv"

	"github.com/remdragon/worm/schema/field"
)

// Kind is the kind of an SQL column type.
type Kind uint8

// SQL type kinds.
const (
	KindInteger Kind = iota + 1
	KindText
	KindVarchar
)

// String returns the SQL keyword of the kind.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindText:
		return "TEXT"
	case KindVarchar:
		return "VARCHAR"
	default:
		return "INVALID"
	}
}

// SQLType is the SQL type of a column. Size is only meaningful for KindVarchar.
type SQLType struct {
	Kind Kind
	Size uint64
}

// String renders the type as it appears in a column definition.
func (t SQLType) String() string {
	if t.Kind == KindVarchar {
		return "VARCHAR(" + strconv.FormatUint(t.Size, 10) + ")"
	}
	return t.Kind.String()
}

// Quoted reports if values of this type are rendered as quoted literals.
func (t SQLType) Quoted() bool {
	return t.Kind == KindText || t.Kind == KindVarchar
}

// Attribute returns the field attribute kind that declares this type.
func (t SQLType) Attribute() string {
	switch t.Kind {
	case KindInteger:
		return field.AttrInteger
	case KindText:
		return field.AttrText
	case KindVarchar:
		return field.AttrVarchar
	}
	return ""
}

// MapType maps a logical type, declared attribute and optional size to the
// SQL type of the column. The rules are checked in order and the first one
// matching wins:
//
//	varchar + string + size     VARCHAR(size)
//	varchar + string            missing size
//	varchar + other             incompatible type
//	text    + no size           TEXT
//	text    + size              size not supported
//	integer + size              size not supported
//	integer + 32/64-bit integer INTEGER
//
// Anything else is an unknown type. Errors are *Error values without entity
// or field, which are filled in by New.
func MapType(typ field.Type, attribute string, size *uint64) (SQLType, error) {
	switch {
	case attribute == field.AttrVarchar && typ == field.TypeString && size != nil:
		return SQLType{Kind: KindVarchar, Size: *size}, nil
	case attribute == field.AttrVarchar && typ == field.TypeString:
		return SQLType{}, mapError(typ, attribute, size, ErrMissingSize)
	case attribute == field.AttrVarchar:
		return SQLType{}, mapError(typ, attribute, size, ErrIncompatibleType)
	case attribute == field.AttrText && size == nil:
		return SQLType{Kind: KindText}, nil
	case attribute == field.AttrText:
		return SQLType{}, mapError(typ, attribute, size, fmt.Errorf("%w for text", ErrSizeNotSupported))
	case attribute == field.AttrInteger && size != nil:
		return SQLType{}, mapError(typ, attribute, size, fmt.Errorf("%w for integer", ErrSizeNotSupported))
	case attribute == field.AttrInteger && typ.Integer():
		return SQLType{Kind: KindInteger}, nil
	default:
		return SQLType{}, mapError(typ, attribute, size, ErrUnknownType)
	}
}

func mapError(typ field.Type, attribute string, size *uint64, cause error) *Error {
	msg := fmt.Sprintf("%s as %q", typ, attribute)
	if size != nil {
		msg = fmt.Sprintf("%s as %q with size %d", typ, attribute, *size)
	}
	return &Error{Message: msg, Cause: cause}
}
