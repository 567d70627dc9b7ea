package query

import (
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/plumecms/plume/internal/scope"
)

func renderPred(t *testing.T, pred sq.Sqlizer) (string, []any) {
	t.Helper()
	if pred == nil {
		return "", nil
	}
	sqlStr, args, err := pred.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	return sqlStr, args
}

func TestResolveAxis(t *testing.T) {
	interior := &TreeNode{ID: 4, Lft: 2, Rgt: 9}
	leaf := &TreeNode{ID: 5, Lft: 3, Rgt: 4}
	root := &TreeNode{ID: 1, Lft: 1, Rgt: 10, Root: true}

	tests := []struct {
		name      string
		node      *TreeNode
		ids       []int64
		axis      scope.Axis
		wantSQL   string
		wantArgs  []any
		wantMulti bool
	}{
		{
			name:     "self is exact equality",
			node:     interior,
			axis:     scope.AxisSelf,
			wantSQL:  "e.category_id = ?",
			wantArgs: []any{int64(4)},
		},
		{
			name:      "descendant on interior node",
			node:      interior,
			axis:      scope.AxisDescendant,
			wantSQL:   "e.category_id IN (SELECT id FROM category WHERE lft >= ? AND rgt <= ?)",
			wantArgs:  []any{int64(2), int64(9)},
			wantMulti: true,
		},
		{
			name:     "descendant on leaf degrades to self",
			node:     leaf,
			axis:     scope.AxisDescendant,
			wantSQL:  "e.category_id = ?",
			wantArgs: []any{int64(5)},
		},
		{
			name:      "ancestor on interior node",
			node:      interior,
			axis:      scope.AxisAncestor,
			wantSQL:   "e.category_id IN (SELECT id FROM category WHERE lft <= ? AND rgt >= ?)",
			wantArgs:  []any{int64(2), int64(9)},
			wantMulti: true,
		},
		{
			name:     "ancestor on root degrades to self",
			node:     root,
			axis:     scope.AxisAncestor,
			wantSQL:  "e.category_id = ?",
			wantArgs: []any{int64(1)},
		},
		{
			name:     "unknown axis degrades to self",
			node:     interior,
			axis:     scope.Axis("sideways"),
			wantSQL:  "e.category_id = ?",
			wantArgs: []any{int64(4)},
		},
		{
			name:      "id list wins over axis",
			node:      interior,
			ids:       []int64{7, 8},
			axis:      scope.AxisDescendant,
			wantSQL:   "e.category_id IN (?,?)",
			wantArgs:  []any{int64(7), int64(8)},
			wantMulti: true,
		},
		{
			name:     "single-id list is not multi",
			ids:      []int64{7},
			axis:     scope.AxisSelf,
			wantSQL:  "e.category_id IN (?)",
			wantArgs: []any{int64(7)},
		},
		{
			name:    "empty list fails closed",
			ids:     []int64{},
			axis:    scope.AxisDescendant,
			wantSQL: "(1=0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, multi := resolveAxis("e.category_id", "category", tt.node, tt.ids, tt.axis)
			gotSQL, gotArgs := renderPred(t, pred)
			if gotSQL != tt.wantSQL {
				t.Errorf("sql = %q, want %q", gotSQL, tt.wantSQL)
			}
			if multi != tt.wantMulti {
				t.Errorf("multi = %v, want %v", multi, tt.wantMulti)
			}
			if len(gotArgs) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", gotArgs, tt.wantArgs)
			}
			for i := range gotArgs {
				if gotArgs[i] != tt.wantArgs[i] {
					t.Errorf("arg[%d] = %v, want %v", i, gotArgs[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestResolveAxisNilNode(t *testing.T) {
	pred, multi := resolveAxis("e.blog_id", "blog", nil, nil, scope.AxisDescendant)
	if pred != nil || multi {
		t.Errorf("got (%v, %v), want (nil, false)", pred, multi)
	}
}
