package filter

import (
	"errors"
	"fmt"

	"github.com/remdragon/worm/schema"
)

// Errors returned when building a leaf.
var (
	ErrUnknownField   = errors.New("filter: unknown field")
	ErrUnknownVariant = errors.New("filter: unknown variant")
	ErrUnknownOp      = errors.New("filter: unknown operator")
	ErrValueType      = errors.New("filter: value does not match field type")
	ErrInvalidFilter  = errors.New("filter: invalid filter")
	ErrForeignSchema  = errors.New("filter: field of another schema")
)

// MismatchError is returned by Check for a leaf built against another
// schema than the one the filter is used with.
type MismatchError struct {
	Entity string // entity the filter is used with.
	Owner  string // entity the leaf was built for.
	Column string
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("filter: %s.%s used with %s", e.Owner, e.Column, e.Entity)
}

// Is reports whether the target matches ErrForeignSchema.
func (e *MismatchError) Is(target error) bool {
	return target == ErrForeignSchema
}

// Filter is a WHERE condition tree. The implementations are *Leaf,
// *Conjunction and *Disjunction. Trees are immutable.
//
// Filters are built with New, And and Or. The zero values of the node
// types are not valid filters: they render a "?" in place of the missing
// part and Check rejects them.
type Filter interface {
	// String returns the SQL condition text of the filter.
	String() string
	filter()
}

// Leaf compares one column against a value.
type Leaf struct {
	schema *schema.Schema
	column schema.Column
	op     Op
	value  any
}

// New returns a leaf comparing the named column of s against v. It fails
// if s has no such column, or if v does not fit the logical type of the column.
func New(s *schema.Schema, name string, op Op, v any) (*Leaf, error) {
	c, ok := s.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrUnknownField, name, s.Entity())
	}
	if !op.Valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownOp, op)
	}
	nv, err := normalize(c.Type, v)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.Entity(), name, err)
	}
	return &Leaf{schema: s, column: c, op: op, value: nv}, nil
}

// GT returns the leaf `name > v`.
func GT(s *schema.Schema, name string, v any) (*Leaf, error) { return New(s, name, OpGT, v) }

// GTE returns the leaf `name >= v`.
func GTE(s *schema.Schema, name string, v any) (*Leaf, error) { return New(s, name, OpGTE, v) }

// EQ returns the leaf `name = v`.
func EQ(s *schema.Schema, name string, v any) (*Leaf, error) { return New(s, name, OpEQ, v) }

// LTE returns the leaf `name <= v`.
func LTE(s *schema.Schema, name string, v any) (*Leaf, error) { return New(s, name, OpLTE, v) }

// LT returns the leaf `name < v`.
func LT(s *schema.Schema, name string, v any) (*Leaf, error) { return New(s, name, OpLT, v) }

// Schema returns the schema the leaf was built against.
func (l *Leaf) Schema() *schema.Schema { return l.schema }

// Column returns the name of the compared column.
func (l *Leaf) Column() string { return l.column.Name }

// Op returns the comparison operator.
func (l *Leaf) Op() Op { return l.op }

// Value returns the normalized value: int64 or uint64 for integer fields,
// string for string fields.
func (l *Leaf) Value() any { return l.value }

// Variant returns the variant name of the leaf, e.g. UserIdEqual.
func (l *Leaf) Variant() string { return variantName(l.column.Name, l.op) }

// String renders the leaf. Values of TEXT and VARCHAR columns are wrapped
// in single quotes without escaping.
func (l *Leaf) String() string {
	if l == nil || l.schema == nil {
		return "?"
	}
	v := format(l.value)
	if l.column.SQLType.Quoted() {
		v = "'" + v + "'"
	}
	return l.column.Name + " " + l.op.String() + " " + v
}

func (*Leaf) filter() {}

// Conjunction is the AND of two filters.
type Conjunction struct {
	left, right Filter
}

// And returns the conjunction of a and b. If one of them is nil, the
// other is returned as is.
func And(a, b Filter) Filter {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return &Conjunction{left: a, right: b}
}

// Left returns the left operand.
func (c *Conjunction) Left() Filter { return c.left }

// Right returns the right operand.
func (c *Conjunction) Right() Filter { return c.right }

// String renders `(left AND right)`.
func (c *Conjunction) String() string {
	if c == nil {
		return "?"
	}
	return "(" + operand(c.left) + " AND " + operand(c.right) + ")"
}

func (*Conjunction) filter() {}

// Disjunction is the OR of two filters.
type Disjunction struct {
	left, right Filter
}

// Or returns the disjunction of a and b. If one of them is nil, the
// other is returned as is.
func Or(a, b Filter) Filter {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return &Disjunction{left: a, right: b}
}

// Left returns the left operand.
func (d *Disjunction) Left() Filter { return d.left }

// Right returns the right operand.
func (d *Disjunction) Right() Filter { return d.right }

// String renders `(left OR right)`.
func (d *Disjunction) String() string {
	if d == nil {
		return "?"
	}
	return "(" + operand(d.left) + " OR " + operand(d.right) + ")"
}

func (*Disjunction) filter() {}

func operand(f Filter) string {
	if f == nil {
		return "?"
	}
	return f.String()
}

// Condition returns the SQL condition text of f, or the empty string if f is nil.
//
// String literals are interpolated as '<value>' with no escaping, so a value
// containing a single quote yields broken SQL. Never build a filter from
// untrusted input.
func Condition(f Filter) string {
	if f == nil {
		return ""
	}
	return f.String()
}

// Check reports whether f can be used in a statement of s. Every leaf must
// have been built against s and every node must be complete. A nil filter
// is valid.
func Check(s *schema.Schema, f Filter) error {
	var err error
	Walk(f, func(n Filter) bool {
		if err != nil {
			return false
		}
		switch n := n.(type) {
		case *Leaf:
			switch {
			case n == nil || n.schema == nil:
				err = fmt.Errorf("%w: leaf without schema", ErrInvalidFilter)
			case n.schema != s:
				err = &MismatchError{Entity: s.Entity(), Owner: n.schema.Entity(), Column: n.column.Name}
			}
		case *Conjunction:
			if n == nil || n.left == nil || n.right == nil {
				err = fmt.Errorf("%w: incomplete AND", ErrInvalidFilter)
			}
		case *Disjunction:
			if n == nil || n.left == nil || n.right == nil {
				err = fmt.Errorf("%w: incomplete OR", ErrInvalidFilter)
			}
		}
		return err == nil
	})
	return err
}

// Walk traverses f in depth-first order, calling fn for every node. The
// children of a node are skipped if fn returns false.
func Walk(f Filter, fn func(Filter) bool) {
	if f == nil || !fn(f) {
		return
	}
	switch f := f.(type) {
	case *Conjunction:
		if f != nil {
			Walk(f.left, fn)
			Walk(f.right, fn)
		}
	case *Disjunction:
		if f != nil {
			Walk(f.left, fn)
			Walk(f.right, fn)
		}
	}
}

// Leaves returns the leaves of f from left to right.
func Leaves(f Filter) []*Leaf {
	var leaves []*Leaf
	Walk(f, func(n Filter) bool {
		if l, ok := n.(*Leaf); ok {
			leaves = append(leaves, l)
		}
		return true
	})
	return leaves
}

// FromValues returns a filter asserting equality on every column of s, in
// declared order, nested to the left:
//
//	((c1 = v1 AND c2 = v2) AND c3 = v3)
//
// values must hold one value per column.
func FromValues(s *schema.Schema, values []any) (Filter, error) {
	if len(values) != s.Len() {
		return nil, fmt.Errorf("%w: %d values for %d columns of %s", ErrValueType, len(values), s.Len(), s.Entity())
	}
	var f Filter
	for i, c := range s.Columns() {
		l, err := New(s, c.Name, OpEQ, values[i])
		if err != nil {
			return nil, err
		}
		f = And(f, l)
	}
	return f, nil
}
