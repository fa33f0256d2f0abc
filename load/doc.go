// Package load builds schemas from sources other than field builders.
//
// Struct reflects over a Go struct whose columns are tagged with their
// attribute:
//
//	type User struct {
//		ID        uint32 `db:"user_id" worm:"integer(primary = true)"`
//		UserName  string `worm:"varchar(size = 120, null = false, unique = true)"`
//		FirstName string `worm:"varchar(size = 30)"`
//	}
//
// File and Dir read descriptor documents in YAML, JSON or msgpack.
package load
