// Package sqlgen synthesizes the SQL statements of a compiled schema.
//
// Every function is a pure text generator: it never touches a connection and
// always returns the same text for the same schema and request. Positional
// placeholders use the ?N form and follow the declared column order.
//
//	sqlgen.CreateTable(users)
//	sqlgen.SelectStatement(users, sqlgen.SelectBuilder{}.SetFilter(f).SetLimit(10).Build())
//	sqlgen.DeleteStatement(users, sqlgen.DeleteOf(f))
//
// Requests are built with their builders. The zero value of a builder is
// ready to use and of a request means "no filter, no limit, no offset".
//
// Filters are rendered as given. filter.Check tells whether a filter was built
// against the schema of the statement; the worm.Table methods reject the
// ones that were not.
package sqlgen
