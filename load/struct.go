package load

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/go-openapi/inflect"

	"github.com/remdragon/worm/dialect/sql"
	"github.com/remdragon/worm/schema"
	"github.com/remdragon/worm/schema/field"
)

// Struct tags read by Struct.
const (
	// TagAttribute holds the field attribute, e.g. `worm:"varchar(size = 30)"`.
	// A field tagged `worm:"-"` or not tagged at all is not a column.
	TagAttribute = "worm"
	// TagColumn overrides the column name, which defaults to the snake_case
	// form of the Go field name.
	TagColumn = "db"
)

// Binding ties a compiled schema to the Go struct it was derived from.
type Binding struct {
	Schema *schema.Schema
	typ    reflect.Type
	index  []int // struct field index of each column.
}

// Struct compiles the schema of the struct type of v. v may be a struct,
// a pointer to one, or a reflect.Type of either. The entity name is the
// name of the Go type.
func Struct(v any, opts ...schema.Option) (*Binding, error) {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &schema.Errors{Errs: []*schema.Error{{
			Message: fmt.Sprintf("%v is not a struct", t),
			Cause:   schema.ErrUnsupportedShape,
		}}}
	}
	b := &Binding{typ: t}
	errs := &schema.Errors{Entity: t.Name()}
	var fds []*field.Descriptor
	for i := range t.NumField() {
		sf := t.Field(i)
		attr, ok := sf.Tag.Lookup(TagAttribute)
		if !ok || attr == "-" || !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get(TagColumn)
		if name == "" {
			name = inflect.Underscore(sf.Name)
		}
		typ, err := kindType(sf.Type)
		if err != nil {
			errs.Errs = append(errs.Errs, &schema.Error{
				Entity:  t.Name(),
				Field:   name,
				Message: fmt.Sprintf("Go field %s of type %s", sf.Name, sf.Type),
				Cause:   err,
			})
			continue
		}
		fds = append(fds, field.New(name, typ).Attribute(attr).Descriptor())
		b.index = append(b.index, i)
	}
	if len(errs.Errs) > 0 {
		return nil, errs
	}
	s, err := schema.New(t.Name(), fds, opts...)
	if err != nil {
		return nil, err
	}
	b.Schema = s
	return b, nil
}

// kindType maps a Go type to its logical type. Scalars the type mapper does
// not know are reported as TypeInvalid so that the schema compiler rejects
// them with the usual message.
func kindType(t reflect.Type) (field.Type, error) {
	switch t.Kind() {
	case reflect.Int32:
		return field.TypeInt32, nil
	case reflect.Int64:
		return field.TypeInt64, nil
	case reflect.Int:
		if strconv.IntSize == 32 {
			return field.TypeInt32, nil
		}
		return field.TypeInt64, nil
	case reflect.Uint32:
		return field.TypeUint32, nil
	case reflect.Uint64:
		return field.TypeUint64, nil
	case reflect.Uint:
		if strconv.IntSize == 32 {
			return field.TypeUint32, nil
		}
		return field.TypeUint64, nil
	case reflect.String:
		return field.TypeString, nil
	case reflect.Bool:
		return field.TypeBool, nil
	case reflect.Float32, reflect.Float64:
		return field.TypeFloat64, nil
	case reflect.Int8, reflect.Int16, reflect.Uint8, reflect.Uint16, reflect.Uintptr:
		return field.TypeInvalid, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return field.TypeBytes, nil
		}
	}
	return field.TypeInvalid, schema.ErrUnsupportedShape
}

// Type returns the Go struct type of the binding.
func (b *Binding) Type() reflect.Type { return b.typ }

// Values returns the field values of v in column order. v must be a value
// of, or a pointer to, the bound struct type.
func (b *Binding) Values(v any) ([]any, error) {
	rv, err := b.value(v)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(b.index))
	for i, idx := range b.index {
		values[i] = rv.Field(idx).Interface()
	}
	return values, nil
}

// Scan reads the current row of sc into v, which must be a pointer to the
// bound struct type. Columns map positionally to fields and NULL reads as
// the zero value.
func (b *Binding) Scan(sc sql.ColumnScanner, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Type() != b.typ {
		return fmt.Errorf("load: scan destination %T is not *%s", v, b.typ)
	}
	rv = rv.Elem()
	dest := make([]any, len(b.index))
	for i, idx := range b.index {
		dest[i] = proxy(rv.Field(idx))
	}
	if err := sc.Scan(dest...); err != nil {
		return fmt.Errorf("load: scan %s: %w", b.Schema.Entity(), err)
	}
	for i, idx := range b.index {
		if err := set(rv.Field(idx), dest[i]); err != nil {
			return fmt.Errorf("load: scan %s column %s: %w", b.Schema.Entity(), b.Schema.ColumnAt(i).Name, err)
		}
	}
	return nil
}

// proxy returns a nullable scan destination for the struct field f.
func proxy(f reflect.Value) any {
	switch {
	case f.CanInt(), f.CanUint():
		return new(sql.NullInt64)
	case f.Kind() == reflect.Bool:
		return new(sql.NullBool)
	case f.CanFloat():
		return new(sql.NullFloat64)
	case f.Kind() == reflect.Slice:
		return new([]byte)
	default:
		return new(sql.NullString)
	}
}

func set(f reflect.Value, src any) error {
	switch src := src.(type) {
	case *sql.NullInt64:
		n := src.Int64
		if f.CanInt() {
			if f.OverflowInt(n) {
				return fmt.Errorf("value %d overflows %s", n, f.Type())
			}
			f.SetInt(n)
			return nil
		}
		if n < 0 || f.OverflowUint(uint64(n)) {
			return fmt.Errorf("value %d overflows %s", n, f.Type())
		}
		f.SetUint(uint64(n))
	case *sql.NullBool:
		f.SetBool(src.Bool)
	case *sql.NullFloat64:
		f.SetFloat(src.Float64)
	case *[]byte:
		f.SetBytes(*src)
	case *sql.NullString:
		f.SetString(src.String)
	}
	return nil
}

func (b *Binding) value(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != b.typ {
		return reflect.Value{}, fmt.Errorf("load: value %T is not %s", v, b.typ)
	}
	return rv, nil
}
