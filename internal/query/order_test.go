package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/plumecms/plume/internal/scope"
)

func TestResolveOrder(t *testing.T) {
	tests := []struct {
		name        string
		params      scope.Params
		fieldSorted bool
		want        ordering
	}{
		{
			name:   "empty spec falls back to identity",
			params: scope.Params{},
			want:   ordering{clauses: []string{"e.id DESC"}},
		},
		{
			name:   "unknown field falls back to identity",
			params: scope.Params{Order: "flavor-asc"},
			want:   ordering{clauses: []string{"e.id DESC"}},
		},
		{
			name:   "id ascending has no extra tie-break",
			params: scope.Params{Order: "id-asc"},
			want:   ordering{clauses: []string{"e.id ASC"}},
		},
		{
			name:   "datetime maps to posted with tie-break",
			params: scope.Params{Order: "datetime-desc"},
			want:   ordering{clauses: []string{"e.posted_datetime DESC", "e.id DESC"}},
		},
		{
			name:   "missing direction means descending",
			params: scope.Params{Order: "updated"},
			want:   ordering{clauses: []string{"e.updated_datetime DESC", "e.id DESC"}},
		},
		{
			name:   "tie-break follows an ascending first clause",
			params: scope.Params{Order: "code-asc"},
			want:   ordering{clauses: []string{"e.code ASC", "e.id ASC"}},
		},
		{
			name:   "sort unscoped uses the global column",
			params: scope.Params{Order: "sort-asc"},
			want:   ordering{clauses: []string{"e.sort ASC", "e.id ASC"}},
		},
		{
			name:   "sort with owner scope uses the per-user column",
			params: scope.Params{Order: "sort-asc", UserID: 7},
			want:   ordering{clauses: []string{"e.user_sort ASC", "e.id ASC"}},
		},
		{
			name:   "sort with category scope uses the per-category column",
			params: scope.Params{Order: "sort-desc", CategoryID: 3},
			want:   ordering{clauses: []string{"e.category_sort DESC", "e.id DESC"}},
		},
		{
			name:   "sort with both scopes is ambiguous and falls back",
			params: scope.Params{Order: "sort-asc", UserID: 7, CategoryID: 3},
			want:   ordering{clauses: []string{"e.id DESC"}},
		},
		{
			name:   "owner id list does not count as owner scope",
			params: scope.Params{Order: "sort-asc", UserIDs: []int64{7, 8}},
			want:   ordering{clauses: []string{"e.sort ASC", "e.id ASC"}},
		},
		{
			name:        "field sort groups by entry id",
			params:      scope.Params{Order: "field-asc", FieldSort: "price"},
			fieldSorted: true,
			want: ordering{
				clauses:  []string{"field_sort_value ASC", "e.id ASC"},
				groupKey: "e.id",
			},
		},
		{
			name:   "field sort without the join falls back",
			params: scope.Params{Order: "field-asc"},
			want:   ordering{clauses: []string{"e.id DESC"}},
		},
		{
			name:   "random has no tie-break",
			params: scope.Params{Order: "random"},
			want:   ordering{clauses: []string{"RANDOM()"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveOrder(tt.params, tt.fieldSorted)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolveOrder() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFinalizeAppliesGroupAndOrder(t *testing.T) {
	c := compose(scope.Params{FieldSort: "price"}, nil, nil)
	c = c.finalize(resolveOrder(scope.Params{Order: "field-desc", FieldSort: "price"}, c.fieldSorted))

	sqlStr, _ := renderComposed(t, c)
	if !strings.Contains(sqlStr, "GROUP BY e.id") {
		t.Errorf("missing GROUP BY in %q", sqlStr)
	}
	if !strings.Contains(sqlStr, "ORDER BY field_sort_value DESC, e.id DESC") {
		t.Errorf("missing ORDER BY in %q", sqlStr)
	}
}
