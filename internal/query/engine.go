package query

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plumecms/plume/internal/model"
	"github.com/plumecms/plume/internal/scope"
	"github.com/plumecms/plume/internal/sqlutil"
)

// DefaultPageSize is used when the scope carries no limit.
const DefaultPageSize = 20

// Config tunes an Engine.
type Config struct {
	// PageSize is the fallback page size. Zero means DefaultPageSize.
	PageSize int

	// ImageStrategy and ImageField configure main-image resolution.
	ImageStrategy ImageStrategy
	ImageField    string

	// Load lists the eager-load categories attached to every listing.
	// Nil means all categories.
	Load []LoadCategory

	// Context selects the row shape.
	Context RenderContext
}

// AllLoadCategories is the default eager-load set.
var AllLoadCategories = []LoadCategory{
	LoadTags, LoadEntryFields, LoadUserFields, LoadBlogFields,
	LoadCategoryFields, LoadSubCategories, LoadRelated, LoadMainImage,
}

// Engine turns scope parameters into a paged, enriched entry listing.
// Engines are stateless between calls; concurrent use is safe as long as
// the Runner is.
type Engine struct {
	run    Runner
	cfg    Config
	loader *Loader
}

// New creates an Engine over the given runner.
func New(run Runner, cfg Config) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Load == nil {
		cfg.Load = AllLoadCategories
	}
	return &Engine{
		run:    run,
		cfg:    cfg,
		loader: NewLoader(run, cfg.ImageStrategy, cfg.ImageField),
	}
}

// Result is the output contract of a listing: one page of enriched rows,
// the total count of the full filtered set, and the raw eager-loaded
// maps. TotalCount is computed by the count query, never from the page
// length.
type Result struct {
	Rows       []Row
	TotalCount int64
	HasNext    bool
	Page       int
	PageSize   int
	Loaded     *Loaded
}

// List runs the full pipeline: resolve tree extents, compose predicates,
// resolve ordering, derive page and count queries, execute both, eager
// load, and build rows. Store failures propagate unmodified; the engine
// performs no retries.
func (g *Engine) List(ctx context.Context, p scope.Params) (*Result, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit <= 0 {
		limit = g.cfg.PageSize
	}

	blogNode, catNode, err := g.loadNodes(ctx, p)
	if err != nil {
		return nil, err
	}

	c := compose(p, blogNode, catNode)
	c = c.finalize(resolveOrder(p, c.fieldSorted))
	pg := paginate(c.query, page, limit, p.Offset)

	total, err := g.run.SelectScalar(ctx, pg.count)
	if err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}

	entries, err := g.fetchPage(ctx, pg, c.fieldSorted)
	if err != nil {
		return nil, fmt.Errorf("page query: %w", err)
	}

	hasNext := false
	if len(entries) > limit {
		entries = entries[:limit]
		hasNext = true
	}

	loaded, err := g.loader.Load(ctx, entries, g.cfg.Load)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = buildRow(e, loaded, g.cfg.Context)
	}

	return &Result{
		Rows:       rows,
		TotalCount: total,
		HasNext:    hasNext,
		Page:       page,
		PageSize:   limit,
		Loaded:     loaded,
	}, nil
}

// loadNodes fetches the nested-set extents the axis resolver needs. Only
// single-id scopes need an extent; explicit id lists bypass axis
// semantics entirely.
func (g *Engine) loadNodes(ctx context.Context, p scope.Params) (blogNode, catNode *TreeNode, err error) {
	if p.BlogID != 0 && p.BlogIDs == nil {
		blogNode, err = loadTreeNode(ctx, g.run, "blog", p.BlogID)
		if err != nil {
			return nil, nil, err
		}
	}
	if p.CategoryID != 0 && p.CategoryIDs == nil && p.RelatedIDs == nil {
		catNode, err = loadTreeNode(ctx, g.run, "category", p.CategoryID)
		if err != nil {
			return nil, nil, err
		}
	}
	return blogNode, catNode, nil
}

func (g *Engine) fetchPage(ctx context.Context, pg paginated, fieldSorted bool) ([]model.Entry, error) {
	rows, err := g.run.Select(ctx, pg.page)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(r *sql.Rows) (model.Entry, error) {
		var suffix []any
		if fieldSorted {
			suffix = []any{new(sql.NullString)}
		}
		return scanEntry(r, nil, suffix)
	})
}
