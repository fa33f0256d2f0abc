// Package schema compiles field descriptors into an immutable entity schema.
//
// A schema is built once, usually at package level:
//
//	var Users = schema.MustNew("Users", []*field.Descriptor{
//	    field.Uint32("user_id").Integer().Primary().Descriptor(),
//	    field.String("user_name").Varchar(120).Unique().Nullable(false).Descriptor(),
//	    field.String("note").Text().Descriptor(),
//	})
//
// Compilation maps every field to its SQL type with MapType and rejects
// invalid names, duplicates and type/attribute/size mismatches. Errors for
// all fields are reported at once. The order of the fields is significant:
// it fixes the column order and the positional placeholders of every
// statement generated for the schema.
package schema
