package worm

import (
	"context"
	"fmt"
	"reflect"

	"github.com/remdragon/worm/dialect"
	"github.com/remdragon/worm/dialect/sql"
	"github.com/remdragon/worm/filter"
	"github.com/remdragon/worm/load"
	"github.com/remdragon/worm/schema"
	"github.com/remdragon/worm/sqlgen"
)

// Table executes the statements of entity T through a driver. T is a struct
// whose columns are declared with `worm` tags, see package load.
//
// Statements that do not depend on a request are synthesized once, when the
// table is created. A Table is safe for concurrent use if its driver is.
type Table[T any] struct {
	drv     dialect.ExecQuerier
	binding *load.Binding

	create, drop, insert, updateTo string
	updateByID                     string
	updateByIDErr                  error
}

// NewTable compiles the schema of T and binds it to drv. T must be a
// struct type, not a pointer to one.
func NewTable[T any](drv dialect.ExecQuerier, opts ...schema.Option) (*Table[T], error) {
	typ := reflect.TypeFor[T]()
	if typ.Kind() != reflect.Struct {
		return nil, &schema.Errors{Entity: typ.String(), Errs: []*schema.Error{{
			Entity:  typ.String(),
			Message: fmt.Sprintf("table of %s, want a struct type", typ),
			Cause:   schema.ErrUnsupportedShape,
		}}}
	}
	b, err := load.Struct(typ, opts...)
	if err != nil {
		return nil, err
	}
	s := b.Schema
	t := &Table[T]{
		drv:      drv,
		binding:  b,
		create:   sqlgen.CreateTable(s),
		drop:     sqlgen.DropTable(s),
		insert:   sqlgen.Insert(s),
		updateTo: sqlgen.UpdateTo(s),
	}
	t.updateByID, t.updateByIDErr = sqlgen.UpdateByID(s)
	return t, nil
}

// Schema returns the compiled schema of T.
func (t *Table[T]) Schema() *schema.Schema { return t.binding.Schema }

// Values returns the column values of e in column order.
func (t *Table[T]) Values(e T) []any {
	// The binding was compiled from the struct type T, and Binding.Values
	// only fails for values of another type.
	values, _ := t.binding.Values(e)
	return values
}

// Filter returns the conjunction of equality filters matching every column
// of e, or an error if a value does not fit its column.
func (t *Table[T]) Filter(e T) (filter.Filter, error) {
	return filter.FromValues(t.Schema(), t.Values(e))
}

// CreateTable creates the table if it does not exist.
func (t *Table[T]) CreateTable(ctx context.Context) error {
	return t.exec(ctx, "create table", t.create, []any{})
}

// DeleteTable drops the table.
func (t *Table[T]) DeleteTable(ctx context.Context) error {
	return t.exec(ctx, "drop table", t.drop, []any{})
}

// Insert inserts e.
func (t *Table[T]) Insert(ctx context.Context, e T) error {
	return t.exec(ctx, "insert", t.insert, sqlgen.InsertArgs(t.Values(e)))
}

// UpdateByID overwrites every column of the row whose primary key equals
// the primary key of e.
func (t *Table[T]) UpdateByID(ctx context.Context, e T) error {
	if t.updateByIDErr != nil {
		return t.mutationError("update", t.updateByIDErr)
	}
	args, err := sqlgen.UpdateByIDArgs(t.Schema(), t.Values(e))
	if err != nil {
		return t.mutationError("update", err)
	}
	return t.exec(ctx, "update", t.updateByID, args)
}

// UpdateTo overwrites every row equal to from, column by column, with to.
func (t *Table[T]) UpdateTo(ctx context.Context, from, to T) error {
	args, err := sqlgen.UpdateToArgs(t.Schema(), t.Values(from), t.Values(to))
	if err != nil {
		return t.mutationError("update", err)
	}
	return t.exec(ctx, "update", t.updateTo, args)
}

// Select returns the rows matching the request.
//
// The filter of a request must have been built against Schema; otherwise
// Select, SelectOne, Count and Delete fail with an error matching
// filter.ErrForeignSchema or filter.ErrInvalidFilter.
func (t *Table[T]) Select(ctx context.Context, req sqlgen.Select) ([]T, error) {
	if err := filter.Check(t.Schema(), req.Filter()); err != nil {
		return nil, t.queryError("select", err)
	}
	return t.query(ctx, "select", sqlgen.SelectStatement(t.Schema(), req))
}

// SelectAll returns every row of the table.
func (t *Table[T]) SelectAll(ctx context.Context) ([]T, error) {
	return t.query(ctx, "select", sqlgen.SelectAll(t.Schema()))
}

// SelectOne returns the first row matching the request. The boolean reports
// whether a row was found.
func (t *Table[T]) SelectOne(ctx context.Context, req sqlgen.SelectOne) (T, bool, error) {
	var zero T
	if err := filter.Check(t.Schema(), req.Filter()); err != nil {
		return zero, false, t.queryError("select one", err)
	}
	rows, err := t.query(ctx, "select one", sqlgen.SelectStatement(t.Schema(), req.Select()))
	if err != nil || len(rows) == 0 {
		return zero, false, err
	}
	return rows[0], true, nil
}

// Count returns the number of rows matching the request. A result that is
// not a single row is reported as a *NotSingularError.
func (t *Table[T]) Count(ctx context.Context, req sqlgen.Count) (int64, error) {
	if err := filter.Check(t.Schema(), req.Filter()); err != nil {
		return 0, t.queryError("count", err)
	}
	return t.count(ctx, sqlgen.CountStatement(t.Schema(), req))
}

// CountAll returns the number of rows of the table.
func (t *Table[T]) CountAll(ctx context.Context) (int64, error) {
	return t.count(ctx, sqlgen.CountAll(t.Schema()))
}

// Delete removes the rows matching the request.
func (t *Table[T]) Delete(ctx context.Context, req sqlgen.Delete) error {
	if err := filter.Check(t.Schema(), req.Filter()); err != nil {
		return t.mutationError("delete", err)
	}
	return t.exec(ctx, "delete", sqlgen.DeleteStatement(t.Schema(), req), []any{})
}

// DeleteAll removes every row of the table.
func (t *Table[T]) DeleteAll(ctx context.Context) error {
	return t.exec(ctx, "delete", sqlgen.DeleteAll(t.Schema()), []any{})
}

func (t *Table[T]) exec(ctx context.Context, op, query string, args []any) error {
	if err := t.drv.Exec(ctx, query, args, nil); err != nil {
		return t.mutationError(op, err)
	}
	return nil
}

func (t *Table[T]) query(ctx context.Context, op, query string) ([]T, error) {
	rows := &sql.Rows{}
	if err := t.drv.Query(ctx, query, []any{}, rows); err != nil {
		return nil, t.queryError(op, err)
	}
	var entities []T
	err := sql.ScanAll(rows, func(sc sql.ColumnScanner) error {
		var e T
		if err := t.binding.Scan(sc, &e); err != nil {
			return err
		}
		entities = append(entities, e)
		return nil
	})
	if err != nil {
		return nil, t.queryError(op, err)
	}
	return entities, nil
}

func (t *Table[T]) count(ctx context.Context, query string) (int64, error) {
	rows := &sql.Rows{}
	if err := t.drv.Query(ctx, query, []any{}, rows); err != nil {
		return 0, t.queryError("count", err)
	}
	var counts []int64
	err := sql.ScanAll(rows, func(sc sql.ColumnScanner) error {
		var n int64
		if err := sc.Scan(&n); err != nil {
			return err
		}
		counts = append(counts, n)
		return nil
	})
	if err != nil {
		return 0, t.queryError("count", err)
	}
	if len(counts) != 1 {
		return 0, t.queryError("count", &NotSingularError{Entity: t.Schema().Entity(), Rows: counts})
	}
	return counts[0], nil
}

func (t *Table[T]) queryError(op string, err error) error {
	return &QueryError{Entity: t.Schema().Entity(), Op: op, Err: err}
}

func (t *Table[T]) mutationError(op string, err error) error {
	return &MutationError{Entity: t.Schema().Entity(), Op: op, Err: err}
}
