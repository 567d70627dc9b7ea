package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// ErrNodeNotFound indicates a blog or category id named by the scope
// parameters does not exist in the store.
var ErrNodeNotFound = errors.New("tree node not found")

// loadTreeNode fetches the nested-set extent of one node. table is "blog"
// or "category"; both carry id, parent_id, lft, rgt.
func loadTreeNode(ctx context.Context, run Runner, table string, id int64) (*TreeNode, error) {
	q := sq.Select("id", "parent_id", "lft", "rgt").
		From(table).
		Where(sq.Eq{"id": id})

	rows, err := run.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load %s node: %w", table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s %d", ErrNodeNotFound, table, id)
	}

	var node TreeNode
	var parent sql.NullInt64
	if err := rows.Scan(&node.ID, &parent, &node.Lft, &node.Rgt); err != nil {
		return nil, err
	}
	node.Root = !parent.Valid
	return &node, rows.Err()
}
