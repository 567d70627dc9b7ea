// Package query composes entry listing queries for the content
// repository: scope parameters go in, a paged row query, a structurally
// identical count query, and batched eager-load lookups come out.
package query

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
)

// Runner executes composed query objects against the underlying store.
// The engine never talks to a physical database directly; it hands
// squirrel builders to this collaborator. Implementations are expected to
// be synchronous round-trips; any timeout or retry policy lives behind
// this interface, not in the engine.
type Runner interface {
	// Select runs a row-producing query.
	Select(ctx context.Context, q sq.Sqlizer) (*sql.Rows, error)

	// SelectScalar runs a single-value query (counts, existence checks).
	SelectScalar(ctx context.Context, q sq.Sqlizer) (int64, error)

	// SelectIDs runs a query producing a list of ids.
	SelectIDs(ctx context.Context, q sq.Sqlizer) ([]int64, error)
}
