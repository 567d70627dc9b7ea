package query

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/plumecms/plume/internal/model"
	"github.com/plumecms/plume/internal/scope"
)

// entryColumns is the projection of the page query, aliased to e.
var entryColumns = []string{
	"e.id", "e.blog_id", "e.category_id", "e.user_id", "e.code",
	"e.title", "e.summary", "e.body", "e.status", "e.approval",
	"e.start_datetime", "e.end_datetime", "e.posted_datetime",
	"e.updated_datetime", "e.sort", "e.user_sort", "e.category_sort",
	"e.primary_unit_id", "e.indexing", "e.members_only",
}

// fieldSortColumn is the alias the composer exposes when a field-search
// sort requires the field join to surface a sortable value.
const fieldSortColumn = "field_sort_value"

// composed is the result of running the filter stages: the augmented
// builder plus the facts later components need.
type composed struct {
	query sq.SelectBuilder

	// multi reports whether any filter expanded to multiple possible
	// owners (an id list or a subtree predicate).
	multi bool

	// fieldSorted reports that the field-sort join was added, so the
	// order resolver must group by entry id to undo the join fan-out.
	fieldSorted bool
}

// compose runs the filter stages of the listing pipeline in order. Each
// stage is a no-op when its parameter is absent. blogNode and catNode are
// the pre-loaded tree extents for the single-id blog/category scopes (nil
// when unscoped or when an id list is given).
func compose(p scope.Params, blogNode, catNode *TreeNode) composed {
	c := composed{
		query: sq.Select(entryColumns...).From("entry AS e"),
	}

	c.applyStatus(p)
	c.applyWindow(p)

	// An explicit related-id list pins identity, so the category and
	// entry filters are skipped entirely.
	pinned := c.applyRelated(p)
	if !pinned {
		c.applyCategory(p, catNode)
	}
	c.applyUser(p)
	if !pinned {
		c.applyEntry(p)
	}
	c.applyBlog(p, blogNode)
	c.applyTags(p)
	c.applyKeyword(p)
	c.applyFields(p)
	c.applyFlags(p)

	return c
}

// applyStatus excludes trash by default and requires approval for the
// published listing. An explicit status narrows to exactly that status.
func (c *composed) applyStatus(p scope.Params) {
	if p.Status != "" {
		c.query = c.query.Where(sq.Eq{"e.status": p.Status})
		return
	}
	c.query = c.query.
		Where(sq.NotEq{"e.status": model.StatusTrash}).
		Where(sq.Eq{"e.approval": model.ApprovalApproved})
}

// applyWindow excludes time-invalid rows. Draft and trash listings are
// not window-filtered: their entries are visible to editors regardless of
// the publish window.
func (c *composed) applyWindow(p scope.Params) {
	if p.Status == model.StatusDraft || p.Status == model.StatusTrash {
		return
	}
	w := p.Window
	if w.Now.IsZero() {
		w.Now = time.Now()
	}
	switch w.Mode {
	case scope.WindowNone:
	case scope.WindowExpired:
		c.query = c.query.Where(sq.Lt{"e.end_datetime": w.Now.Unix()})
	case scope.WindowFuture:
		c.query = c.query.Where(sq.Gt{"e.start_datetime": w.Now.Unix()})
	case scope.WindowSpan:
		c.query = c.query.
			Where(sq.GtOrEq{"e.posted_datetime": w.Start.Unix()}).
			Where(sq.LtOrEq{"e.posted_datetime": w.End.Unix()})
	default: // public
		c.query = c.query.
			Where(sq.LtOrEq{"e.start_datetime": w.Now.Unix()}).
			Where(sq.GtOrEq{"e.end_datetime": w.Now.Unix()})
	}
}

// applyRelated restricts to an explicit related-id list. A non-nil empty
// list fails closed rather than silently dropping the filter. Returns
// whether identity is now pinned.
func (c *composed) applyRelated(p scope.Params) bool {
	if p.RelatedIDs == nil {
		return false
	}
	c.query = c.query.Where(sq.Eq{"e.id": p.RelatedIDs})
	c.multi = c.multi || len(p.RelatedIDs) > 1
	return true
}

func (c *composed) applyCategory(p scope.Params, node *TreeNode) {
	var ids []int64
	if p.CategoryIDs != nil {
		ids = p.CategoryIDs
	} else if p.CategoryID == 0 {
		return
	}
	pred, multi := resolveAxis("e.category_id", "category", node, ids, p.CategoryAxis)
	if pred == nil {
		return
	}
	c.query = c.query.Where(pred)
	c.multi = c.multi || multi
}

func (c *composed) applyUser(p scope.Params) {
	switch {
	case p.UserIDs != nil:
		c.query = c.query.Where(sq.Eq{"e.user_id": p.UserIDs})
		c.multi = c.multi || len(p.UserIDs) > 1
	case p.UserID != 0:
		c.query = c.query.Where(sq.Eq{"e.user_id": p.UserID})
	}
}

func (c *composed) applyEntry(p scope.Params) {
	switch {
	case p.EntryIDs != nil:
		c.query = c.query.Where(sq.Eq{"e.id": p.EntryIDs})
		c.multi = c.multi || len(p.EntryIDs) > 1
	case p.EntryID != 0:
		c.query = c.query.Where(sq.Eq{"e.id": p.EntryID})
	}
}

// applyBlog resolves the tenant filter last so it can consult the multi
// flag: once an upstream filter expanded to multiple possible owners, a
// self axis would under-filter, so it widens to descendant-or-self.
func (c *composed) applyBlog(p scope.Params, node *TreeNode) {
	var ids []int64
	if p.BlogIDs != nil {
		ids = p.BlogIDs
	} else if p.BlogID == 0 {
		return
	}
	axis := p.BlogAxis
	if c.multi && axis == scope.AxisSelf {
		axis = scope.AxisDescendant
	}
	pred, multi := resolveAxis("e.blog_id", "blog", node, ids, axis)
	if pred == nil {
		return
	}
	c.query = c.query.Where(pred)
	c.multi = c.multi || multi
}

// applyTags requires the entry to carry every listed tag: one self-join
// per tag, keyed by tag ownership.
func (c *composed) applyTags(p scope.Params) {
	for i, name := range p.Tags {
		alias := fmt.Sprintf("t%d", i)
		c.query = c.query.Join(
			fmt.Sprintf("tag AS %s ON %s.entry_id = e.id AND %s.name = ?", alias, alias, alias),
			name,
		)
	}
}

// applyKeyword matches every whitespace-separated word against title or
// summary.
func (c *composed) applyKeyword(p scope.Params) {
	for _, word := range strings.Fields(p.Keyword) {
		pattern := "%" + escapeLikePattern(word) + "%"
		c.query = c.query.Where(sq.Or{
			likeExpr("e.title", pattern),
			likeExpr("e.summary", pattern),
		})
	}
}

// applyFields adds one field-table join per condition (AND semantics) and,
// when a field sort is requested, a join that surfaces the sortable value
// under fieldSortColumn.
func (c *composed) applyFields(p scope.Params) {
	for i, cond := range p.Fields {
		alias := fmt.Sprintf("f%d", i)
		join := fmt.Sprintf(
			"field AS %s ON %s.kind = 'entry' AND %s.owner_id = e.id AND %s.key = ?",
			alias, alias, alias, alias,
		)
		c.query = c.query.Join(join, cond.Key)
		if cond.Op == scope.FieldExists {
			continue
		}
		c.query = c.query.Where(fieldPredicate(alias+".value", cond))
	}

	if p.FieldSort != "" {
		c.query = c.query.
			Column("fs.value AS " + fieldSortColumn).
			LeftJoin("field AS fs ON fs.kind = 'entry' AND fs.owner_id = e.id AND fs.key = ?", p.FieldSort)
		c.fieldSorted = true
	}
}

func fieldPredicate(col string, cond scope.FieldCondition) sq.Sqlizer {
	switch cond.Op {
	case scope.FieldNeq:
		return sq.NotEq{col: cond.Value}
	case scope.FieldLt:
		return sq.Lt{col: cond.Value}
	case scope.FieldLte:
		return sq.LtOrEq{col: cond.Value}
	case scope.FieldGt:
		return sq.Gt{col: cond.Value}
	case scope.FieldGte:
		return sq.GtOrEq{col: cond.Value}
	case scope.FieldLike:
		return likeExpr(col, "%"+escapeLikePattern(cond.Value)+"%")
	default:
		return sq.Eq{col: cond.Value}
	}
}

// applyFlags adds the independent business predicates.
func (c *composed) applyFlags(p scope.Params) {
	if p.IndexingOnly {
		c.query = c.query.Where(sq.Eq{"e.indexing": true})
	}
	if p.MembersOnly {
		c.query = c.query.Where(sq.Eq{"e.members_only": true})
	}
	if p.HasImage {
		c.query = c.query.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM unit u WHERE u.entry_id = e.id AND u.kind = 'image' AND u.hidden = 0)",
		))
	}
	if p.ExcludeEntryID != 0 {
		c.query = c.query.Where(sq.NotEq{"e.id": p.ExcludeEntryID})
	}
}
