package schema

import (
	"fmt"
	"slices"
	"unicode"

	"github.com/remdragon/worm/schema/field"
)

// Column is a compiled field.
type Column struct {
	Name       string
	Type       field.Type // logical type.
	SQLType    SQLType
	Nullable   *bool // nil when neither NULL nor NOT NULL was declared.
	PrimaryKey bool
	Unique     bool
	Index      int // position in the schema, starting at 0.
}

// Descriptor returns a field descriptor that compiles back into the column.
func (c Column) Descriptor() *field.Descriptor {
	d := &field.Descriptor{
		Name:       c.Name,
		Type:       c.Type,
		Attribute:  c.SQLType.Attribute(),
		PrimaryKey: c.PrimaryKey,
		Unique:     c.Unique,
	}
	if c.SQLType.Kind == KindVarchar {
		size := c.SQLType.Size
		d.Size = &size
	}
	if c.Nullable != nil {
		null := *c.Nullable
		d.Nullable = &null
	}
	return d
}

// Schema is the compiled description of an entity. It is immutable and safe
// for concurrent use.
type Schema struct {
	entity  string
	table   string
	columns []Column
	byName  map[string]int
}

// Option configures a schema.
type Option func(*options)

type options struct {
	table string
}

// WithTable overrides the table name, which defaults to the entity name.
func WithTable(name string) Option {
	return func(o *options) {
		o.table = name
	}
}

// New compiles the fields of an entity. All problems are reported together
// in an *Errors value and no schema is returned if there is any.
func New(entity string, fields []*field.Descriptor, opts ...Option) (*Schema, error) {
	o := &options{table: entity}
	for _, opt := range opts {
		opt(o)
	}
	errs := &Errors{Entity: entity}
	if !validIdent(entity) {
		errs.add("", fmt.Sprintf("entity name %q", entity), ErrInvalidName)
	}
	if o.table != entity && !validIdent(o.table) {
		errs.add("", fmt.Sprintf("table name %q", o.table), ErrInvalidName)
	}
	if len(fields) == 0 {
		errs.add("", "", ErrNoFields)
	}
	s := &Schema{
		entity:  entity,
		table:   o.table,
		columns: make([]Column, 0, len(fields)),
		byName:  make(map[string]int, len(fields)),
	}
	for i, fd := range fields {
		if err := s.checkField(i, fd); err != nil {
			err.Entity = entity
			errs.Errs = append(errs.Errs, err)
			continue
		}
		typ, err := MapType(fd.Type, fd.Attribute, fd.Size)
		if err != nil {
			e := err.(*Error)
			e.Entity, e.Field = entity, fd.Name
			errs.Errs = append(errs.Errs, e)
			continue
		}
		s.byName[fd.Name] = len(s.columns)
		s.columns = append(s.columns, Column{
			Name:       fd.Name,
			Type:       fd.Type,
			SQLType:    typ,
			Nullable:   fd.Nullable,
			PrimaryKey: fd.PrimaryKey,
			Unique:     fd.Unique,
			Index:      len(s.columns),
		})
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// schema declarations.
func MustNew(entity string, fields []*field.Descriptor, opts ...Option) *Schema {
	s, err := New(entity, fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// checkField validates a descriptor before it reaches the type mapper.
// Duplicates are detected against every earlier descriptor, including
// the ones that failed to compile.
func (s *Schema) checkField(i int, fd *field.Descriptor) (err *Error) {
	switch {
	case fd == nil:
		err = &Error{Message: fmt.Sprintf("field #%d is nil", i), Cause: ErrInvalidName}
	case fd.Name == "" || !validIdent(fd.Name):
		err = &Error{Message: fmt.Sprintf("field #%d name %q", i, fd.Name), Cause: ErrInvalidName}
	case s.seen(fd.Name):
		err = &Error{Field: fd.Name, Message: fmt.Sprintf("field #%d", i), Cause: ErrDuplicateField}
	case fd.Err != nil:
		err = &Error{Field: fd.Name, Cause: fd.Err}
	case fd.Attribute != field.AttrInteger && fd.Attribute != field.AttrVarchar && fd.Attribute != field.AttrText:
		err = &Error{Field: fd.Name, Message: fmt.Sprintf("attribute %q", fd.Attribute), Cause: field.ErrUnknownAttribute}
	}
	if fd != nil && fd.Name != "" {
		if _, ok := s.byName[fd.Name]; !ok {
			// Reserve the name so later duplicates are reported even if
			// this field is rejected.
			s.byName[fd.Name] = -1
		}
	}
	return err
}

func (s *Schema) seen(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Entity returns the entity name.
func (s *Schema) Entity() string { return s.entity }

// Table returns the table name.
func (s *Schema) Table() string { return s.table }

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.columns) }

// Columns returns the columns in declared order.
func (s *Schema) Columns() []Column {
	return slices.Clone(s.columns)
}

// Column returns the column with the given name.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.byName[name]
	if !ok || i < 0 {
		return Column{}, false
	}
	return s.columns[i], true
}

// ColumnAt returns the i-th column.
func (s *Schema) ColumnAt(i int) Column {
	return s.columns[i]
}

// First returns the first declared column.
func (s *Schema) First() Column {
	return s.columns[0]
}

// Names returns the column names in declared order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKeys returns the primary-key columns in declared order.
func (s *Schema) PrimaryKeys() []Column {
	var pks []Column
	for _, c := range s.columns {
		if c.PrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

// Descriptors returns field descriptors that compile back into the schema.
func (s *Schema) Descriptors() []*field.Descriptor {
	fds := make([]*field.Descriptor, len(s.columns))
	for i, c := range s.columns {
		fds[i] = c.Descriptor()
	}
	return fds
}

func validIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
