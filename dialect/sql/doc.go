// Package sql implements the dialect.Driver interface on top of database/sql.
//
// Statements are executed through Exec and Query with positional arguments:
//
//	drv, err := sql.Open(dialect.SQLite, "file:worm.db?cache=shared")
//	if err != nil {
//	    return err
//	}
//	rows := &sql.Rows{}
//	if err := drv.Query(ctx, "SELECT COUNT( user_id ) FROM Users", []any{}, rows); err != nil {
//	    return err
//	}
//	defer rows.Close()
//
// The database/sql driver itself is registered by the program, for example
// with a blank import of modernc.org/sqlite.
//
// # Instrumentation
//
// StatsDriver counts executed statements per kind and reports slow ones
// through a hook or log/slog. DebugDriver logs every statement before it is
// executed.
package sql
