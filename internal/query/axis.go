package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/plumecms/plume/internal/scope"
)

// TreeNode is the nested-set extent of a blog or category node, loaded
// once per request. Axis resolution assumes a single-snapshot read: the
// tree must not mutate between loading the extent and executing the
// query.
type TreeNode struct {
	ID   int64
	Lft  int64
	Rgt  int64
	Root bool
}

// HasDescendants reports whether the node's subtree contains more than
// the node itself.
func (n TreeNode) HasDescendants() bool {
	return n.Rgt-n.Lft > 1
}

// resolveAxis turns a tree-scoped filter into a predicate on col.
//
// An explicit id list always wins over axis semantics. A descendant axis
// on a leaf, an ancestor axis on a root, and any unknown axis all degrade
// to self: exact equality, no subtree query. The second return reports
// whether the predicate may match more than one node id, which the blog
// stage consults when reconciling the tenant axis.
func resolveAxis(col, table string, node *TreeNode, ids []int64, axis scope.Axis) (sq.Sqlizer, bool) {
	if ids != nil {
		// sq.Eq with an empty slice renders a never-matching predicate,
		// so an explicit empty list fails closed.
		return sq.Eq{col: ids}, len(ids) > 1
	}
	if node == nil {
		return nil, false
	}

	switch axis {
	case scope.AxisDescendant:
		if !node.HasDescendants() {
			break
		}
		return sq.Expr(
			fmt.Sprintf("%s IN (SELECT id FROM %s WHERE lft >= ? AND rgt <= ?)", col, table),
			node.Lft, node.Rgt,
		), true
	case scope.AxisAncestor:
		if node.Root {
			break
		}
		return sq.Expr(
			fmt.Sprintf("%s IN (SELECT id FROM %s WHERE lft <= ? AND rgt >= ?)", col, table),
			node.Lft, node.Rgt,
		), true
	}

	return sq.Eq{col: node.ID}, false
}
