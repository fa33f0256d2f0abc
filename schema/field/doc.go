// Package field describes the columns of a worm entity before they are compiled.
//
// A field pairs a name and a logical (Go-side) type with a declared SQL
// attribute. The attribute is one of three kinds, each accepting the same
// optional keys:
//
//	integer(primary = true)
//	varchar(size = 120, unique = true, null = false)
//	text(null = true)
//
// Keys are case-insensitive: null, size, unique and primary. Booleans may be
// written as true, false, "true", "false", 1 or 0. Sizes are unsigned decimal
// integers, optionally quoted.
//
// # Builders
//
// Descriptors are usually produced by the fluent builders:
//
//	field.Uint32("user_id").Integer().Primary()
//	field.String("user_name").Varchar(120).Unique().Nullable(false)
//	field.String("note").Text()
//	field.Uint32("birthday").Attribute("integer(null = true)")
//
// Builders never fail. Problems found while building (for example, a malformed
// attribute) are recorded in Descriptor.Err and reported when the schema is
// compiled by the schema package, together with the type-mapping errors of all
// other fields.
package field
