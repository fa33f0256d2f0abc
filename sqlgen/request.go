package sqlgen

import "github.com/remdragon/worm/filter"

// Select is a SELECT request. The zero value selects every row.
type Select struct {
	filter filter.Filter
	limit  *uint64
	offset *uint64
}

// Filter returns the WHERE condition, if any.
func (s Select) Filter() filter.Filter { return s.filter }

// Limit returns the LIMIT of the request and whether it is set.
func (s Select) Limit() (uint64, bool) { return deref(s.limit) }

// Offset returns the OFFSET of the request and whether it is set.
func (s Select) Offset() (uint64, bool) { return deref(s.offset) }

// SelectBuilder assembles a Select request.
//
//	req := sqlgen.SelectBuilder{}.SetFilter(f).SetLimit(10).Build()
type SelectBuilder struct {
	req Select
}

// SetFilter sets the WHERE condition.
func (b SelectBuilder) SetFilter(f filter.Filter) SelectBuilder {
	b.req.filter = f
	return b
}

// SetLimit sets the maximum number of returned rows.
func (b SelectBuilder) SetLimit(n uint64) SelectBuilder {
	b.req.limit = &n
	return b
}

// SetOffset sets the number of skipped rows.
func (b SelectBuilder) SetOffset(n uint64) SelectBuilder {
	b.req.offset = &n
	return b
}

// Build returns the request.
func (b SelectBuilder) Build() Select { return b.req }

// SelectOf returns a Select request filtered by f.
func SelectOf(f filter.Filter) Select {
	return SelectBuilder{}.SetFilter(f).Build()
}

// SelectOne is a request for at most one row.
type SelectOne struct {
	filter filter.Filter
}

// Filter returns the WHERE condition, if any.
func (s SelectOne) Filter() filter.Filter { return s.filter }

// Select converts the request to a Select with a LIMIT of 1 and no OFFSET.
func (s SelectOne) Select() Select {
	return SelectBuilder{}.SetFilter(s.filter).SetLimit(1).Build()
}

// SelectOneBuilder assembles a SelectOne request.
type SelectOneBuilder struct {
	req SelectOne
}

// SetFilter sets the WHERE condition.
func (b SelectOneBuilder) SetFilter(f filter.Filter) SelectOneBuilder {
	b.req.filter = f
	return b
}

// Build returns the request.
func (b SelectOneBuilder) Build() SelectOne { return b.req }

// SelectOneOf returns a SelectOne request filtered by f.
func SelectOneOf(f filter.Filter) SelectOne {
	return SelectOneBuilder{}.SetFilter(f).Build()
}

// Count is a SELECT COUNT request.
type Count struct {
	filter filter.Filter
}

// Filter returns the WHERE condition, if any.
func (c Count) Filter() filter.Filter { return c.filter }

// CountBuilder assembles a Count request.
type CountBuilder struct {
	req Count
}

// SetFilter sets the WHERE condition.
func (b CountBuilder) SetFilter(f filter.Filter) CountBuilder {
	b.req.filter = f
	return b
}

// Build returns the request.
func (b CountBuilder) Build() Count { return b.req }

// CountOf returns a Count request filtered by f.
func CountOf(f filter.Filter) Count {
	return CountBuilder{}.SetFilter(f).Build()
}

// Delete is a DELETE request. The zero value deletes every row.
type Delete struct {
	filter filter.Filter
}

// Filter returns the WHERE condition, if any.
func (d Delete) Filter() filter.Filter { return d.filter }

// DeleteBuilder assembles a Delete request.
type DeleteBuilder struct {
	req Delete
}

// SetFilter sets the WHERE condition.
func (b DeleteBuilder) SetFilter(f filter.Filter) DeleteBuilder {
	b.req.filter = f
	return b
}

// Build returns the request.
func (b DeleteBuilder) Build() Delete { return b.req }

// DeleteOf returns a Delete request filtered by f.
func DeleteOf(f filter.Filter) Delete {
	return DeleteBuilder{}.SetFilter(f).Build()
}

func deref(p *uint64) (uint64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
