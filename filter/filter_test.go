package filter_test

import (
	"math"
	"testing"

	"github.com/remdragon/worm/filter"
	"github.com/remdragon/worm/schema"
	"github.com/remdragon/worm/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var users = schema.MustNew("Users", []*field.Descriptor{
	field.Uint32("user_id").Integer().Primary().Descriptor(),
	field.String("user_name").Varchar(120).Unique().Nullable(false).Descriptor(),
	field.String("first_name").Varchar(30).Descriptor(),
	field.String("last_name").Varchar(30).Descriptor(),
	field.String("note").Text().Descriptor(),
	field.Uint32("birthday").Integer().Nullable(true).Descriptor(),
})

func leaf(t *testing.T, name string, op filter.Op, v any) *filter.Leaf {
	t.Helper()
	l, err := filter.New(users, name, op, v)
	require.NoError(t, err)
	return l
}

func TestLeaf_Condition(t *testing.T) {
	tests := []struct {
		name string
		op   filter.Op
		v    any
		want string
	}{
		{"user_id", filter.OpEQ, 1, "user_id = 1"},
		{"user_id", filter.OpGT, uint8(7), "user_id > 7"},
		{"birthday", filter.OpGTE, int64(19700101), "birthday >= 19700101"},
		{"birthday", filter.OpLTE, uint64(0), "birthday <= 0"},
		{"last_name", filter.OpEQ, "Dane", "last_name = 'Dane'"},
		{"first_name", filter.OpLT, "M", "first_name < 'M'"},
		{"note", filter.OpEQ, "", "note = ''"},
		{"note", filter.OpEQ, "it's", "note = 'it's'"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			l := leaf(t, tt.name, tt.op, tt.v)
			assert.Equal(t, tt.want, filter.Condition(l))
			assert.Equal(t, tt.want, l.String())
			assert.Equal(t, tt.name, l.Column())
			assert.Equal(t, tt.op, l.Op())
		})
	}
}

func TestLeaf_Value(t *testing.T) {
	assert.Equal(t, uint64(1), leaf(t, "user_id", filter.OpEQ, 1).Value())
	assert.Equal(t, uint64(1), leaf(t, "user_id", filter.OpEQ, int16(1)).Value())
	assert.Equal(t, "Dane", leaf(t, "last_name", filter.OpEQ, "Dane").Value())

	type name string
	assert.Equal(t, "Dane", leaf(t, "last_name", filter.OpEQ, name("Dane")).Value())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		desc string
		name string
		op   filter.Op
		v    any
		err  error
	}{
		{"unknown field", "age", filter.OpEQ, 1, filter.ErrUnknownField},
		{"unknown op", "user_id", filter.Op(42), 1, filter.ErrUnknownOp},
		{"string for integer", "user_id", filter.OpEQ, "1", filter.ErrValueType},
		{"integer for string", "last_name", filter.OpEQ, 1, filter.ErrValueType},
		{"negative for unsigned", "user_id", filter.OpEQ, -1, filter.ErrValueType},
		{"overflow uint32", "user_id", filter.OpEQ, uint64(math.MaxUint32) + 1, filter.ErrValueType},
		{"float for integer", "user_id", filter.OpEQ, 1.5, filter.ErrValueType},
		{"nil", "note", filter.OpEQ, nil, filter.ErrValueType},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			l, err := filter.New(users, tt.name, tt.op, tt.v)
			assert.Nil(t, l)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNew_SignedRange(t *testing.T) {
	s := schema.MustNew("T", []*field.Descriptor{
		field.Int32("a").Integer().Descriptor(),
		field.Int64("b").Integer().Descriptor(),
		field.Uint64("c").Integer().Descriptor(),
	})
	_, err := filter.EQ(s, "a", math.MinInt32)
	assert.NoError(t, err)
	_, err = filter.EQ(s, "a", int64(math.MinInt32)-1)
	assert.ErrorIs(t, err, filter.ErrValueType)
	_, err = filter.EQ(s, "a", uint32(math.MaxInt32)+1)
	assert.ErrorIs(t, err, filter.ErrValueType)

	l, err := filter.LT(s, "b", int64(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, "b < -9223372036854775808", l.String())
	_, err = filter.EQ(s, "b", uint64(math.MaxUint64))
	assert.ErrorIs(t, err, filter.ErrValueType)

	l, err = filter.GTE(s, "c", uint64(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, "c >= 18446744073709551615", l.String())
}

func TestComposite_Laws(t *testing.T) {
	a := leaf(t, "user_id", filter.OpEQ, 1)
	b := leaf(t, "last_name", filter.OpEQ, "Dane")
	c := leaf(t, "birthday", filter.OpLT, 2000)

	assert.Equal(t, "(user_id = 1 AND last_name = 'Dane')", filter.Condition(filter.And(a, b)))
	assert.Equal(t, "(user_id = 1 OR last_name = 'Dane')", filter.Condition(filter.Or(a, b)))

	trees := []filter.Filter{a, filter.And(a, b), filter.Or(b, c), filter.And(filter.Or(a, b), c)}
	for _, x := range trees {
		for _, y := range trees {
			assert.Equal(t, "("+filter.Condition(x)+" AND "+filter.Condition(y)+")", filter.Condition(filter.And(x, y)))
			assert.Equal(t, "("+filter.Condition(x)+" OR "+filter.Condition(y)+")", filter.Condition(filter.Or(x, y)))
		}
	}

	and := filter.And(a, b).(*filter.Conjunction)
	assert.Same(t, a, and.Left())
	assert.Same(t, b, and.Right())
	or := filter.Or(a, b).(*filter.Disjunction)
	assert.Same(t, a, or.Left())
	assert.Same(t, b, or.Right())
}

func TestComposite_Nil(t *testing.T) {
	a := leaf(t, "user_id", filter.OpEQ, 1)
	assert.Same(t, a, filter.And(nil, a))
	assert.Same(t, a, filter.And(a, nil))
	assert.Same(t, a, filter.Or(nil, a))
	assert.Nil(t, filter.And(nil, nil))
	assert.Equal(t, "", filter.Condition(nil))
}

func TestLeaves(t *testing.T) {
	a := leaf(t, "user_id", filter.OpEQ, 1)
	b := leaf(t, "last_name", filter.OpEQ, "Dane")
	c := leaf(t, "birthday", filter.OpLT, 2000)
	f := filter.Or(filter.And(a, b), c)
	assert.Equal(t, []*filter.Leaf{a, b, c}, filter.Leaves(f))
	assert.Empty(t, filter.Leaves(nil))

	var nodes int
	filter.Walk(f, func(filter.Filter) bool {
		nodes++
		return false
	})
	assert.Equal(t, 1, nodes)
}

func TestFromValues(t *testing.T) {
	values := []any{uint32(7), "jdoe", "John", "Dane", "", uint32(19800101)}
	f, err := filter.FromValues(users, values)
	require.NoError(t, err)

	leaves := filter.Leaves(f)
	require.Len(t, leaves, users.Len())
	for i, l := range leaves {
		assert.Equal(t, users.ColumnAt(i).Name, l.Column())
		assert.Equal(t, filter.OpEQ, l.Op())
	}

	root, ok := f.(*filter.Conjunction)
	require.True(t, ok)
	last, ok := root.Right().(*filter.Leaf)
	require.True(t, ok)
	assert.Equal(t, "birthday", last.Column())

	// Left nesting: the innermost conjunction holds the first two columns.
	inner := root
	for {
		next, ok := inner.Left().(*filter.Conjunction)
		if !ok {
			break
		}
		_, isLeaf := next.Right().(*filter.Leaf)
		assert.True(t, isLeaf)
		inner = next
	}
	assert.Equal(t, "(user_id = 7 AND user_name = 'jdoe')", inner.String())

	assert.Equal(t,
		"(((((user_id = 7 AND user_name = 'jdoe') AND first_name = 'John') AND last_name = 'Dane') AND note = '') AND birthday = 19800101)",
		filter.Condition(f),
	)
}

func TestFromValues_Errors(t *testing.T) {
	_, err := filter.FromValues(users, []any{1})
	assert.ErrorIs(t, err, filter.ErrValueType)
	_, err = filter.FromValues(users, []any{"x", "jdoe", "John", "Dane", "", 1})
	assert.ErrorIs(t, err, filter.ErrValueType)

	single := schema.MustNew("One", []*field.Descriptor{field.Int64("id").Integer().Descriptor()})
	f, err := filter.FromValues(single, []any{int64(3)})
	require.NoError(t, err)
	assert.Equal(t, "id = 3", filter.Condition(f))
}

func TestVariants(t *testing.T) {
	names := filter.Variants(users)
	require.Len(t, names, 5*users.Len())
	assert.Equal(t, "UserIdGreaterThan", names[0])
	assert.Equal(t, "BirthdayGreaterThan", names[5])
	assert.Equal(t, "UserIdGreaterEqualThan", names[6])
	assert.Contains(t, names, "LastNameEqual")
	assert.Contains(t, names, "FirstNameLowerEqualThan")
	assert.Equal(t, "BirthdayLowerThan", names[len(names)-1])

	l, err := filter.Variant(users, "UserIdEqual", 1)
	require.NoError(t, err)
	assert.Equal(t, "user_id = 1", l.String())
	assert.Equal(t, "UserIdEqual", l.Variant())

	l, err = filter.Variant(users, "LastNameLowerThan", "M")
	require.NoError(t, err)
	assert.Equal(t, "last_name < 'M'", l.String())

	_, err = filter.Variant(users, "AgeEqual", 1)
	assert.ErrorIs(t, err, filter.ErrUnknownVariant)
	_, err = filter.Variant(users, "UserIdEqual", "1")
	assert.ErrorIs(t, err, filter.ErrValueType)
}

func TestVariants_MixedCase(t *testing.T) {
	s := schema.MustNew("Requests", []*field.Descriptor{
		field.Int64("userID").Integer().Descriptor(),
		field.String("HTTPStatus").Text().Descriptor(),
		field.Int64("line2total").Integer().Descriptor(),
		field.Int64("createdAt").Integer().Descriptor(),
	})
	names := filter.Variants(s)
	assert.Equal(t, []string{
		"UserIdGreaterThan",
		"HttpStatusGreaterThan",
		"Line2TotalGreaterThan",
		"CreatedAtGreaterThan",
	}, names[:4])

	l, err := filter.Variant(s, "UserIdEqual", 3)
	require.NoError(t, err)
	assert.Equal(t, "userID = 3", l.String())
}

func TestCheck(t *testing.T) {
	groups := schema.MustNew("Groups", []*field.Descriptor{
		field.Uint32("group_id").Integer().Primary().Descriptor(),
		field.Uint32("user_id").Integer().Descriptor(),
	})
	a := leaf(t, "user_id", filter.OpEQ, 1)
	b := leaf(t, "last_name", filter.OpEQ, "Dane")
	g, err := filter.EQ(groups, "user_id", 1)
	require.NoError(t, err)
	assert.Same(t, users, a.Schema())

	assert.NoError(t, filter.Check(users, nil))
	assert.NoError(t, filter.Check(users, a))
	assert.NoError(t, filter.Check(users, filter.Or(filter.And(a, b), a)))
	assert.NoError(t, filter.Check(groups, g))

	err = filter.Check(groups, a)
	assert.ErrorIs(t, err, filter.ErrForeignSchema)
	var mismatch *filter.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, &filter.MismatchError{Entity: "Groups", Owner: "Users", Column: "user_id"}, mismatch)
	assert.EqualError(t, err, "filter: Users.user_id used with Groups")

	assert.ErrorIs(t, filter.Check(users, filter.And(a, g)), filter.ErrForeignSchema)

	invalid := map[string]filter.Filter{
		"zero leaf":        &filter.Leaf{},
		"zero conjunction": &filter.Conjunction{},
		"zero disjunction": &filter.Disjunction{},
		"nil leaf":         (*filter.Leaf)(nil),
		"nil conjunction":  (*filter.Conjunction)(nil),
		"nested":           filter.And(a, &filter.Disjunction{}),
	}
	for name, f := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, filter.Check(users, f), filter.ErrInvalidFilter)
		})
	}
}

func TestZeroValues(t *testing.T) {
	a := leaf(t, "user_id", filter.OpEQ, 1)
	tests := []struct {
		f    filter.Filter
		want string
	}{
		{&filter.Leaf{}, "?"},
		{(*filter.Leaf)(nil), "?"},
		{&filter.Conjunction{}, "(? AND ?)"},
		{&filter.Disjunction{}, "(? OR ?)"},
		{(*filter.Disjunction)(nil), "?"},
		{filter.And(a, &filter.Conjunction{}), "(user_id = 1 AND (? AND ?))"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Condition(tt.f))
			assert.NotPanics(t, func() { filter.Leaves(tt.f) })
		})
	}
}

func TestOp(t *testing.T) {
	symbols := []string{">", ">=", "=", "<=", "<"}
	for i, op := range filter.Ops {
		assert.Equal(t, symbols[i], op.String())
		assert.True(t, op.Valid())
	}
	assert.Equal(t, "GreaterEqualThan", filter.OpGTE.Name())
	assert.False(t, filter.Op(0).Valid())
	assert.Equal(t, "?", filter.Op(0).String())
	assert.Equal(t, "", filter.Op(9).Name())
}
