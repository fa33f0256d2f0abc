// Package dialect defines the connection interfaces worm executes statements through.
//
// Statements are synthesized for SQLite, whose ?N placeholders they use:
//
//	drv, err := sql.Open(dialect.SQLite, "file:worm.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// The dialect/sql package provides the database/sql backed implementation.
package dialect

import "context"

// SQLite is the name of the only supported dialect. It matches the
// database/sql driver name registered by modernc.org/sqlite.
const SQLite = "sqlite"

// ExecQuerier wraps the two database operations used by worm.
//
// Exec executes a statement that returns no rows. v is nil or a
// destination for the result, *sql.Result for the SQL driver.
//
// Query executes a statement that returns rows into v, *sql.Rows for the
// SQL driver.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is an ExecQuerier bound to an open database.
type Driver interface {
	ExecQuerier
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}
