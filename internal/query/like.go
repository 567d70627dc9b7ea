package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// escapeLikePattern escapes special characters for LIKE pattern matching.
func escapeLikePattern(s string) string {
	// Escape backslash first, then % and _
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// likeExpr builds a LIKE predicate with an explicit ESCAPE clause so
// escaped % and _ match literally.
func likeExpr(col, pattern string) sq.Sqlizer {
	return sq.Expr(fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, col), pattern)
}
