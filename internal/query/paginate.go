package query

import (
	sq "github.com/Masterminds/squirrel"
)

// paginated pairs the page query with its count query. The two are
// derived from the same fully composed builder, so their predicate sets
// are identical by construction; only limit/offset differ.
type paginated struct {
	page  sq.SelectBuilder
	count sq.SelectBuilder

	// limit is the requested page size, before the look-ahead row.
	limit int
}

// paginate derives both queries from the unpaginated builder. Builders
// are immutable values, so taking the count query here is the clone: any
// predicate added after this point would apply to one query but not the
// other, which is exactly the divergence this ordering rules out.
//
// The count wraps the composed query as a subselect and counts its rows;
// a grouped inner query therefore counts groups, i.e. distinct entries.
// The page query carries one look-ahead row past the page size so the
// caller learns whether a next page exists without a second count.
func paginate(q sq.SelectBuilder, page, limit, offset int) paginated {
	if page < 1 {
		page = 1
	}
	if offset < 0 {
		offset = 0
	}

	count := sq.Select("COUNT(*)").FromSelect(q, "filtered")
	pageQ := q.
		Limit(uint64(limit + 1)).
		Offset(uint64((page-1)*limit + offset))

	return paginated{page: pageQ, count: count, limit: limit}
}
