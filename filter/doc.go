// Package filter implements the WHERE condition algebra of worm.
//
// A leaf compares one column of a compiled schema against a value. Leaves
// can only be built for columns that exist in the schema, and the value must
// fit the logical type of the column:
//
//	byID, err := filter.EQ(users, "user_id", 1)
//	dane, err := filter.Variant(users, "LastNameEqual", "Dane")
//	f := filter.And(byID, dane)
//	filter.Condition(f) // (user_id = 1 AND last_name = 'Dane')
//
// Values of TEXT and VARCHAR columns are rendered between single quotes and
// are not escaped.
package filter
