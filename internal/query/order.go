package query

import (
	"strings"

	"github.com/plumecms/plume/internal/scope"
)

// ordering is the resolved sort of a listing: concrete ORDER BY clauses
// plus an optional GROUP BY key that prevents duplicate rows when the
// sort rides on a join.
type ordering struct {
	clauses  []string
	groupKey string
}

// resolveOrder maps a "field-direction" sort spec to concrete clauses.
//
// The context-dependent "sort" field resolves to the per-user, the
// per-category, or the global sort column depending on which single scope
// the query carries; with both an owner and a category scope the choice
// is ambiguous, so it falls back to identity order. Unknown specs fall
// back the same way. Every resolved ordering ends with a tie-break on the
// primary key in the direction of the first clause, making the order
// total and pagination stable.
func resolveOrder(p scope.Params, fieldSorted bool) ordering {
	field, dir := splitOrder(p.Order)

	var col string
	switch field {
	case "id":
		col = "e.id"
	case "datetime":
		col = "e.posted_datetime"
	case "updated":
		col = "e.updated_datetime"
	case "code":
		col = "e.code"
	case "sort":
		switch {
		case p.UserScoped() && p.CategoryScoped():
			// Ambiguous scope: not sortable.
		case p.UserScoped():
			col = "e.user_sort"
		case p.CategoryScoped():
			col = "e.category_sort"
		default:
			col = "e.sort"
		}
	case "field":
		if fieldSorted {
			return ordering{
				clauses:  []string{fieldSortColumn + " " + dir, "e.id " + dir},
				groupKey: "e.id",
			}
		}
	case "random":
		return ordering{clauses: []string{"RANDOM()"}}
	}

	if col == "" {
		// Fallback: identity descending.
		return ordering{clauses: []string{"e.id DESC"}}
	}
	if col == "e.id" {
		return ordering{clauses: []string{"e.id " + dir}}
	}
	return ordering{clauses: []string{col + " " + dir, "e.id " + dir}}
}

// splitOrder cuts a sort spec into field and SQL direction. A missing or
// unknown direction means descending.
func splitOrder(spec string) (field, dir string) {
	field, rawDir, _ := strings.Cut(spec, "-")
	if rawDir == "asc" {
		return field, "ASC"
	}
	return field, "DESC"
}

// finalize applies the resolved ordering and grouping to the composed
// query.
func (c composed) finalize(ord ordering) composed {
	if ord.groupKey != "" {
		c.query = c.query.GroupBy(ord.groupKey)
	}
	c.query = c.query.OrderBy(ord.clauses...)
	return c
}
