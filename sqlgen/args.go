package sqlgen

import (
	"fmt"

	"github.com/remdragon/worm/schema"
)

// InsertArgs returns the arguments of the Insert statement: the column
// values in declared order.
func InsertArgs(values []any) []any {
	args := make([]any, len(values))
	copy(args, values)
	return args
}

// UpdateByIDArgs returns the arguments of the UpdateByID statement: the
// primary-key values, then every column value.
func UpdateByIDArgs(s *schema.Schema, values []any) ([]any, error) {
	if err := checkLen(s, values); err != nil {
		return nil, err
	}
	pks := s.PrimaryKeys()
	if len(pks) == 0 {
		return nil, ErrNoPrimaryKey
	}
	args := make([]any, 0, len(pks)+len(values))
	for _, c := range pks {
		args = append(args, values[c.Index])
	}
	return append(args, values...), nil
}

// UpdateToArgs returns the arguments of the UpdateTo statement: the values
// of the previous row, then the new ones.
func UpdateToArgs(s *schema.Schema, from, to []any) ([]any, error) {
	if err := checkLen(s, from); err != nil {
		return nil, err
	}
	if err := checkLen(s, to); err != nil {
		return nil, err
	}
	args := make([]any, 0, len(from)+len(to))
	args = append(args, from...)
	return append(args, to...), nil
}

func checkLen(s *schema.Schema, values []any) error {
	if len(values) != s.Len() {
		return fmt.Errorf("sqlgen: %d values for %d columns of %s", len(values), s.Len(), s.Entity())
	}
	return nil
}
