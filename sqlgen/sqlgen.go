package sqlgen

import (
	"errors"
	"strconv"
	"strings"

	"github.com/remdragon/worm/filter"
	"github.com/remdragon/worm/schema"
)

// ErrNoPrimaryKey is returned by UpdateByID for schemas without primary key.
var ErrNoPrimaryKey = errors.New("sqlgen: schema has no primary key")

// CreateTable returns the CREATE TABLE statement of s. Column constraints
// follow the type in a fixed order: PRIMARY KEY (always NOT NULL), then
// NULL or NOT NULL when declared, then UNIQUE.
func CreateTable(s *schema.Schema) string {
	cols := s.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = columnDef(c)
	}
	return "CREATE TABLE IF NOT EXISTS " + s.Table() + " ( " + strings.Join(defs, ", ") + " )"
}

func columnDef(c schema.Column) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.SQLType.String())
	switch {
	case c.PrimaryKey:
		b.WriteString(" NOT NULL PRIMARY KEY")
	case c.Nullable != nil && *c.Nullable:
		b.WriteString(" NULL")
	case c.Nullable != nil:
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	return b.String()
}

// DropTable returns the DROP TABLE statement of s.
func DropTable(s *schema.Schema) string {
	return "DROP TABLE " + s.Table()
}

// Insert returns the INSERT statement of s, with one placeholder per
// column: ?1 to ?N in declared order.
func Insert(s *schema.Schema) string {
	return "INSERT INTO " + s.Table() + " (" + strings.Join(s.Names(), ", ") + ") VALUES (" + placeholders(1, s.Len()) + ")"
}

// UpdateByID returns the UPDATE statement that overwrites every column of
// the row matching the primary key. The K primary-key columns are bound to
// ?1 to ?K in the WHERE clause and the N columns to ?K+1 to ?K+N in the SET
// clause. See UpdateByIDArgs.
func UpdateByID(s *schema.Schema) (string, error) {
	pks := s.PrimaryKeys()
	if len(pks) == 0 {
		return "", ErrNoPrimaryKey
	}
	conds := make([]string, len(pks))
	for i, c := range pks {
		conds[i] = assign(c.Name, i+1)
	}
	return "UPDATE " + s.Table() + " SET " + setList(s, len(pks)) + " WHERE " + strings.Join(conds, " AND "), nil
}

// UpdateTo returns the UPDATE statement that replaces every row equal to a
// previous value. The N columns of the previous value are bound to ?1 to ?N
// in the WHERE clause, the new value to ?N+1 to ?2N. See UpdateToArgs.
func UpdateTo(s *schema.Schema) string {
	conds := make([]string, s.Len())
	for i, name := range s.Names() {
		conds[i] = assign(name, i+1)
	}
	return "UPDATE " + s.Table() + " SET " + setList(s, s.Len()) + " WHERE " + strings.Join(conds, " AND ")
}

// SelectStatement returns the SELECT statement for the request. The OFFSET
// clause is preceded by a no-op ORDER BY.
func SelectStatement(s *schema.Schema, req Select) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.Names(), ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.Table())
	where(&b, req.filter)
	if n, ok := req.Limit(); ok {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatUint(n, 10))
	}
	if n, ok := req.Offset(); ok {
		b.WriteString(" ORDER BY ( SELECT NULL ) OFFSET ")
		b.WriteString(strconv.FormatUint(n, 10))
	}
	return b.String()
}

// SelectAll returns the SELECT statement of every row.
func SelectAll(s *schema.Schema) string {
	return SelectStatement(s, Select{})
}

// CountStatement returns the SELECT COUNT statement for the request. The
// first declared column is counted.
func CountStatement(s *schema.Schema, req Count) string {
	var b strings.Builder
	b.WriteString("SELECT COUNT( ")
	b.WriteString(s.First().Name)
	b.WriteString(" ) FROM ")
	b.WriteString(s.Table())
	where(&b, req.filter)
	return b.String()
}

// CountAll returns the SELECT COUNT statement of every row.
func CountAll(s *schema.Schema) string {
	return CountStatement(s, Count{})
}

// DeleteStatement returns the DELETE statement for the request.
func DeleteStatement(s *schema.Schema, req Delete) string {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(s.Table())
	where(&b, req.filter)
	return b.String()
}

// DeleteAll returns the DELETE statement of every row.
func DeleteAll(s *schema.Schema) string {
	return DeleteStatement(s, Delete{})
}

func where(b *strings.Builder, f filter.Filter) {
	if f == nil {
		return
	}
	b.WriteString(" WHERE ")
	b.WriteString(filter.Condition(f))
}

// setList assigns every column of s, numbering placeholders after offset.
func setList(s *schema.Schema, offset int) string {
	set := make([]string, s.Len())
	for i, name := range s.Names() {
		set[i] = assign(name, offset+i+1)
	}
	return strings.Join(set, ", ")
}

func assign(name string, k int) string {
	return name + " = ?" + strconv.Itoa(k)
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = "?" + strconv.Itoa(from+i)
	}
	return strings.Join(ps, ", ")
}
