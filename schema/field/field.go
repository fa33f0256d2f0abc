package field

import (
	"fmt"
	"strings"
)

// A Type is the logical type of a field, i.e. the representation of its values in Go.
type Type uint8

// List of logical types. Only the integer types and TypeString can be mapped to
// an SQL column type; the remaining types exist so that a schema source can
// describe such a field and have it rejected at compile time.
const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt32
	TypeInt64
	TypeUint32
	TypeUint64
	TypeFloat64
	TypeString
	TypeBytes
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeBool:    "bool",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeUint32:  "uint32",
	TypeUint64:  "uint64",
	TypeFloat64: "float64",
	TypeString:  "string",
	TypeBytes:   "[]byte",
}

// String returns the Go name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known logical type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the type is one of the 32 or 64-bit integer types.
func (t Type) Integer() bool {
	return t == TypeInt32 || t == TypeInt64 || t == TypeUint32 || t == TypeUint64
}

// Signed reports if the type is a signed integer type.
func (t Type) Signed() bool {
	return t == TypeInt32 || t == TypeInt64
}

// ParseType returns the logical type for its Go name. "bytes" is accepted
// as an alias of "[]byte".
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "bytes" {
		return TypeBytes, nil
	}
	for t := TypeBool; t < endTypes; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("field: unknown logical type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	typ, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = typ
	return nil
}

// Attribute kinds accepted by the type mapper.
const (
	AttrInteger = "integer"
	AttrVarchar = "varchar"
	AttrText    = "text"
)

// A Descriptor holds the declared properties of a field.
type Descriptor struct {
	Name       string  // column name.
	Type       Type    // logical type.
	Attribute  string  // one of AttrInteger, AttrVarchar or AttrText.
	Size       *uint64 // declared size, if any.
	Nullable   *bool   // nil when NULL/NOT NULL was not declared.
	PrimaryKey bool
	Unique     bool
	Err        error
}

// Builder is the fluent builder of a field descriptor.
type Builder struct {
	desc *Descriptor
}

// New returns a builder for a field with the given logical type.
func New(name string, t Type) *Builder {
	return &Builder{desc: &Descriptor{Name: name, Type: t}}
}

// Int32 returns a new builder for an int32 field.
func Int32(name string) *Builder { return New(name, TypeInt32) }

// Int64 returns a new builder for an int64 field.
func Int64(name string) *Builder { return New(name, TypeInt64) }

// Uint32 returns a new builder for a uint32 field.
func Uint32(name string) *Builder { return New(name, TypeUint32) }

// Uint64 returns a new builder for a uint64 field.
func Uint64(name string) *Builder { return New(name, TypeUint64) }

// String returns a new builder for a string field.
func String(name string) *Builder { return New(name, TypeString) }

// Bool returns a new builder for a bool field.
func Bool(name string) *Builder { return New(name, TypeBool) }

// Float64 returns a new builder for a float64 field.
func Float64(name string) *Builder { return New(name, TypeFloat64) }

// Bytes returns a new builder for a []byte field.
func Bytes(name string) *Builder { return New(name, TypeBytes) }

// Integer declares the field as an INTEGER column.
func (b *Builder) Integer() *Builder {
	b.desc.Attribute = AttrInteger
	return b
}

// Varchar declares the field as a VARCHAR(size) column.
func (b *Builder) Varchar(size uint64) *Builder {
	b.desc.Attribute = AttrVarchar
	b.desc.Size = &size
	return b
}

// Text declares the field as a TEXT column.
func (b *Builder) Text() *Builder {
	b.desc.Attribute = AttrText
	return b
}

// Size sets the declared size of the field.
func (b *Builder) Size(size uint64) *Builder {
	b.desc.Size = &size
	return b
}

// Nullable declares the column as NULL (true) or NOT NULL (false).
func (b *Builder) Nullable(null bool) *Builder {
	b.desc.Nullable = &null
	return b
}

// Primary marks the field as (part of) the primary key.
func (b *Builder) Primary() *Builder {
	b.desc.PrimaryKey = true
	return b
}

// Unique adds a UNIQUE constraint to the column.
func (b *Builder) Unique() *Builder {
	b.desc.Unique = true
	return b
}

// Attribute applies an attribute written in the attribute grammar, for example
// `varchar(size = 30, null = false)`. A parse error is recorded in the
// descriptor and reported at compile time.
func (b *Builder) Attribute(text string) *Builder {
	attr, err := ParseAttribute(text)
	if err != nil {
		b.desc.Err = err
		return b
	}
	attr.Apply(b.desc)
	return b
}

// Descriptor returns the descriptor built so far.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}
