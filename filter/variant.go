package filter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/remdragon/worm/schema"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// pascal converts a column name to PascalCase: user_id and userID both
// become UserId.
func pascal(name string) string {
	// Casers are stateful and cannot be shared between goroutines.
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words(name) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// words splits name at underscores, lower to upper case changes, the end
// of an acronym (HTTPStatus is HTTP and Status) and letter/digit changes.
func words(name string) []string {
	var (
		out []string
		cur []rune
	)
	rs := []rune(name)
	for i, r := range rs {
		if r == '_' {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = cur[:0]
			}
			continue
		}
		if len(cur) > 0 {
			prev := rs[i-1]
			next := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsDigit(prev) != unicode.IsDigit(r) ||
				unicode.IsLower(prev) && unicode.IsUpper(r) ||
				unicode.IsUpper(prev) && unicode.IsUpper(r) && next {
				out = append(out, string(cur))
				cur = cur[:0]
			}
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

func variantName(column string, op Op) string {
	return pascal(column) + op.Name()
}

// Variants returns the variant names of every (operator, column) pair of s,
// grouped by operator in the order of Ops, columns in declared order.
func Variants(s *schema.Schema) []string {
	names := make([]string, 0, len(Ops)*s.Len())
	for _, op := range Ops {
		for _, c := range s.Columns() {
			names = append(names, variantName(c.Name, op))
		}
	}
	return names
}

// Variant returns the leaf with the given variant name, e.g.
//
//	filter.Variant(users, "UserIdEqual", 1)
//	filter.Variant(users, "LastNameLowerThan", "M")
func Variant(s *schema.Schema, name string, v any) (*Leaf, error) {
	for _, op := range Ops {
		for _, c := range s.Columns() {
			if variantName(c.Name, op) == name {
				return New(s, c.Name, op, v)
			}
		}
	}
	return nil, fmt.Errorf("%w %q in %s", ErrUnknownVariant, name, s.Entity())
}
