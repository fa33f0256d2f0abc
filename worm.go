// Package worm maps Go structs to SQLite tables and synthesizes the SQL
// statements to manage them.
//
// A Table binds the schema of a tagged struct to a driver:
//
//	type Users struct {
//		UserID   uint32 `db:"user_id" worm:"integer(primary = true)"`
//		UserName string `worm:"varchar(size = 120, null = false, unique = true)"`
//		Note     string `worm:"text"`
//	}
//
//	drv, err := worm.Open(dialect.SQLite, "file:users.db")
//	if err != nil {
//		return err
//	}
//	users, err := worm.NewTable[Users](drv)
//	if err != nil {
//		return err
//	}
//	if err := users.CreateTable(ctx); err != nil {
//		return err
//	}
//
// The statements themselves are produced by package sqlgen from a compiled
// schema.Schema and can be used without a connection.
package worm

import (
	"context"

	"github.com/remdragon/worm/dialect"
	"github.com/remdragon/worm/dialect/sql"
	"github.com/remdragon/worm/schema"
	"github.com/remdragon/worm/sqlgen"
)

// Open opens a database/sql backed driver. The database/sql driver must be
// registered by the caller, e.g. with
//
//	import _ "modernc.org/sqlite"
func Open(driverName, dsn string) (*sql.Driver, error) {
	return sql.Open(driverName, dsn)
}

// CreateTables creates the table of every schema. All schemas are
// attempted and the failures are returned together.
func CreateTables(ctx context.Context, drv dialect.ExecQuerier, schemas ...*schema.Schema) error {
	var errs []error
	for _, s := range schemas {
		if err := drv.Exec(ctx, sqlgen.CreateTable(s), []any{}, nil); err != nil {
			errs = append(errs, &MutationError{Entity: s.Entity(), Op: "create table", Err: err})
		}
	}
	return NewAggregateError(errs...)
}
