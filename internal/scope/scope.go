// Package scope defines the immutable per-request parameter bag that
// drives filtering, ordering, and pagination decisions. A Params value is
// constructed once per request and read-only thereafter.
package scope

import "time"

// Axis is the tree-traversal mode for a hierarchical filter.
type Axis string

const (
	// AxisSelf filters by the node itself.
	AxisSelf Axis = "self"
	// AxisDescendant filters by the node and its whole subtree.
	AxisDescendant Axis = "descendant-or-self"
	// AxisAncestor filters by the node and its ancestor chain.
	AxisAncestor Axis = "ancestor-or-self"
)

// ParseAxis maps a string to an Axis. Unknown values default to AxisSelf;
// an invalid axis is never an error.
func ParseAxis(s string) Axis {
	switch Axis(s) {
	case AxisDescendant:
		return AxisDescendant
	case AxisAncestor:
		return AxisAncestor
	default:
		return AxisSelf
	}
}

// Window modes for the time-window/session filter.
const (
	WindowPublic  = "public"  // start <= now <= end
	WindowExpired = "expired" // end < now
	WindowFuture  = "future"  // start > now
	WindowSpan    = "span"    // posted within [Start, End]
	WindowNone    = "none"    // no time filtering
)

// Window is the time-window constraint of a query.
type Window struct {
	Mode  string
	Now   time.Time // evaluation instant for public/expired/future
	Start time.Time // span lower bound
	End   time.Time // span upper bound
}

// FieldOp is a comparison operator of a field-search condition.
type FieldOp string

const (
	FieldEq     FieldOp = "eq"
	FieldNeq    FieldOp = "neq"
	FieldLt     FieldOp = "lt"
	FieldLte    FieldOp = "lte"
	FieldGt     FieldOp = "gt"
	FieldGte    FieldOp = "gte"
	FieldLike   FieldOp = "like"
	FieldExists FieldOp = "exists"
)

// FieldCondition is one structured per-field predicate. Conditions combine
// with AND semantics.
type FieldCondition struct {
	Key   string
	Op    FieldOp
	Value string
}

// Params is the scope parameter bag. Zero values mean "filter absent":
// a zero id, a nil id list, an empty string. A non-nil empty id list is an
// explicit empty filter and fails closed (matches nothing).
type Params struct {
	// Tenant (blog) scope.
	BlogID   int64
	BlogIDs  []int64
	BlogAxis Axis

	// Tree-node (category) scope.
	CategoryID   int64
	CategoryIDs  []int64
	CategoryAxis Axis

	// Owner (user) scope.
	UserID  int64
	UserIDs []int64

	// Identity (entry) scope.
	EntryID  int64
	EntryIDs []int64

	// RelatedIDs, when non-nil, restricts results to this explicit id
	// list and short-circuits the category and entry filters.
	RelatedIDs []int64

	// Status narrows to one entry status. Empty means the default open
	// listing (trash excluded, approval required).
	Status string

	Keyword string
	Tags    []string
	Fields  []FieldCondition

	// FieldSort names a custom field whose value the order resolver may
	// sort by ("field-asc"/"field-desc").
	FieldSort string

	Window Window

	// Order is the sort spec, "field-direction" (e.g. "updated-desc").
	Order string

	Page   int
	Limit  int
	Offset int

	// Business flags.
	IndexingOnly   bool
	MembersOnly    bool
	HasImage       bool
	ExcludeEntryID int64
}

// UserScoped reports whether the query is restricted to a single owner,
// which makes the per-user sort column unambiguous.
func (p Params) UserScoped() bool {
	return p.UserID != 0 && len(p.UserIDs) == 0
}

// CategoryScoped reports whether the query is restricted to a single
// category, which makes the per-category sort column unambiguous.
func (p Params) CategoryScoped() bool {
	return p.CategoryID != 0 && len(p.CategoryIDs) == 0
}
