package query

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/plumecms/plume/internal/model"
)

// LoadCategory names one batch of secondary data the eager loader can
// attach to a result set.
type LoadCategory string

const (
	LoadTags           LoadCategory = "tags"
	LoadEntryFields    LoadCategory = "entry-fields"
	LoadUserFields     LoadCategory = "user-fields"
	LoadBlogFields     LoadCategory = "blog-fields"
	LoadCategoryFields LoadCategory = "category-fields"
	LoadSubCategories  LoadCategory = "sub-categories"
	LoadRelated        LoadCategory = "related-entries"
	LoadMainImage      LoadCategory = "main-image"
)

// ImageStrategy selects how the main image of an entry is resolved.
// Exactly one strategy runs per eager-load invocation.
type ImageStrategy string

const (
	// ImageByField reads a custom field holding a media path.
	ImageByField ImageStrategy = "field"
	// ImageByUnit resolves the entry's designated primary unit. Hidden
	// units are suppressed, not substituted.
	ImageByUnit ImageStrategy = "unit"
)

// Loader batches secondary lookups for a page of entries. Every requested
// category costs exactly one id-set query, never one query per row, and
// each result is indexed by its owning id for O(1) row building.
type Loader struct {
	run        Runner
	strategy   ImageStrategy
	imageField string
}

// NewLoader creates an eager loader. imageField is only consulted by the
// field strategy.
func NewLoader(run Runner, strategy ImageStrategy, imageField string) *Loader {
	return &Loader{run: run, strategy: strategy, imageField: imageField}
}

// Loaded holds the batched secondary data, each map keyed by the owning
// id. A category requested with no matching records is an empty map, not
// an error.
type Loaded struct {
	Tags           map[int64][]model.Tag
	EntryFields    map[int64][]model.Field
	UserFields     map[int64][]model.Field
	BlogFields     map[int64][]model.Field
	CategoryFields map[int64][]model.Field
	SubCategories  map[int64][]model.Category
	Related        map[int64][]model.Entry
	MainImage      map[int64]model.Image
}

// Load runs one batched lookup per requested category over the distinct
// id sets referenced by entries. A failed lookup propagates immediately;
// partial enrichment would risk inconsistent rows.
func (l *Loader) Load(ctx context.Context, entries []model.Entry, categories []LoadCategory) (*Loaded, error) {
	loaded := &Loaded{
		Tags:           map[int64][]model.Tag{},
		EntryFields:    map[int64][]model.Field{},
		UserFields:     map[int64][]model.Field{},
		BlogFields:     map[int64][]model.Field{},
		CategoryFields: map[int64][]model.Field{},
		SubCategories:  map[int64][]model.Category{},
		Related:        map[int64][]model.Entry{},
		MainImage:      map[int64]model.Image{},
	}
	if len(entries) == 0 {
		return loaded, nil
	}

	for _, cat := range categories {
		var err error
		switch cat {
		case LoadTags:
			loaded.Tags, err = l.loadTags(ctx, entryIDs(entries))
		case LoadEntryFields:
			loaded.EntryFields, err = l.loadFields(ctx, model.FieldKindEntry, entryIDs(entries))
		case LoadUserFields:
			loaded.UserFields, err = l.loadFields(ctx, model.FieldKindUser, userIDs(entries))
		case LoadBlogFields:
			loaded.BlogFields, err = l.loadFields(ctx, model.FieldKindBlog, blogIDs(entries))
		case LoadCategoryFields:
			loaded.CategoryFields, err = l.loadFields(ctx, model.FieldKindCategory, categoryIDs(entries))
		case LoadSubCategories:
			loaded.SubCategories, err = l.loadSubCategories(ctx, categoryIDs(entries))
		case LoadRelated:
			loaded.Related, err = l.loadRelated(ctx, entryIDs(entries))
		case LoadMainImage:
			loaded.MainImage, err = l.loadMainImage(ctx, entries)
		default:
			err = fmt.Errorf("unknown eager-load category: %s", cat)
		}
		if err != nil {
			return nil, fmt.Errorf("eager load %s: %w", cat, err)
		}
	}
	return loaded, nil
}

// Distinct id extraction. Order is preserved for deterministic queries.

func entryIDs(entries []model.Entry) []int64 {
	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if !seen[e.ID] {
			seen[e.ID] = true
			ids = append(ids, e.ID)
		}
	}
	return ids
}

func userIDs(entries []model.Entry) []int64 {
	var ids []int64
	seen := map[int64]bool{}
	for _, e := range entries {
		if e.UserID != 0 && !seen[e.UserID] {
			seen[e.UserID] = true
			ids = append(ids, e.UserID)
		}
	}
	return ids
}

func blogIDs(entries []model.Entry) []int64 {
	var ids []int64
	seen := map[int64]bool{}
	for _, e := range entries {
		if !seen[e.BlogID] {
			seen[e.BlogID] = true
			ids = append(ids, e.BlogID)
		}
	}
	return ids
}

func categoryIDs(entries []model.Entry) []int64 {
	var ids []int64
	seen := map[int64]bool{}
	for _, e := range entries {
		if e.CategoryID == nil {
			continue
		}
		if !seen[*e.CategoryID] {
			seen[*e.CategoryID] = true
			ids = append(ids, *e.CategoryID)
		}
	}
	return ids
}

func (l *Loader) loadTags(ctx context.Context, ids []int64) (map[int64][]model.Tag, error) {
	out := map[int64][]model.Tag{}
	if len(ids) == 0 {
		return out, nil
	}
	q := sq.Select("entry_id", "blog_id", "name", "sort").
		From("tag").
		Where(sq.Eq{"entry_id": ids}).
		OrderBy("entry_id", "sort")
	rows, err := l.run.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.EntryID, &t.BlogID, &t.Name, &t.Sort); err != nil {
			return nil, err
		}
		out[t.EntryID] = append(out[t.EntryID], t)
	}
	return out, rows.Err()
}

func (l *Loader) loadFields(ctx context.Context, kind string, ids []int64) (map[int64][]model.Field, error) {
	out := map[int64][]model.Field{}
	if len(ids) == 0 {
		return out, nil
	}
	q := sq.Select("kind", "owner_id", "key", "value", "sort").
		From("field").
		Where(sq.Eq{"kind": kind, "owner_id": ids}).
		OrderBy("owner_id", "sort", "key")
	rows, err := l.run.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var f model.Field
		if err := rows.Scan(&f.Kind, &f.OwnerID, &f.Key, &f.Value, &f.Sort); err != nil {
			return nil, err
		}
		out[f.OwnerID] = append(out[f.OwnerID], f)
	}
	return out, rows.Err()
}

func (l *Loader) loadSubCategories(ctx context.Context, parentIDs []int64) (map[int64][]model.Category, error) {
	out := map[int64][]model.Category{}
	if len(parentIDs) == 0 {
		return out, nil
	}
	q := sq.Select("id", "blog_id", "parent_id", "lft", "rgt", "code", "name", "status", "indexing").
		From("category").
		Where(sq.Eq{"parent_id": parentIDs}).
		OrderBy("parent_id", "lft")
	rows, err := l.run.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Category
		var blogID, parentID sql.NullInt64
		if err := rows.Scan(&c.ID, &blogID, &parentID, &c.Lft, &c.Rgt, &c.Code, &c.Name, &c.Status, &c.Indexing); err != nil {
			return nil, err
		}
		if blogID.Valid {
			c.BlogID = &blogID.Int64
		}
		if parentID.Valid {
			c.ParentID = &parentID.Int64
		}
		out[*c.ParentID] = append(out[*c.ParentID], c)
	}
	return out, rows.Err()
}

func (l *Loader) loadRelated(ctx context.Context, ids []int64) (map[int64][]model.Entry, error) {
	out := map[int64][]model.Entry{}
	if len(ids) == 0 {
		return out, nil
	}
	cols := append([]string{"r.entry_id"}, entryColumns...)
	q := sq.Select(cols...).
		From("related AS r").
		Join("entry AS e ON e.id = r.related_id").
		Where(sq.Eq{"r.entry_id": ids}).
		Where(sq.Eq{"e.status": model.StatusOpen}).
		OrderBy("r.entry_id", "r.sort")
	rows, err := l.run.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sourceID int64
		entry, err := scanEntry(rows, []any{&sourceID}, nil)
		if err != nil {
			return nil, err
		}
		out[sourceID] = append(out[sourceID], entry)
	}
	return out, rows.Err()
}

// loadMainImage dispatches to exactly one image strategy.
func (l *Loader) loadMainImage(ctx context.Context, entries []model.Entry) (map[int64]model.Image, error) {
	if l.strategy == ImageByUnit {
		return l.loadImagesByUnit(ctx, entries)
	}
	return l.loadImagesByField(ctx, entryIDs(entries))
}

func (l *Loader) loadImagesByField(ctx context.Context, ids []int64) (map[int64]model.Image, error) {
	out := map[int64]model.Image{}
	if len(ids) == 0 || l.imageField == "" {
		return out, nil
	}
	q := sq.Select("owner_id", "value").
		From("field").
		Where(sq.Eq{"kind": model.FieldKindEntry, "key": l.imageField, "owner_id": ids})
	rows, err := l.run.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(&img.EntryID, &img.Path); err != nil {
			return nil, err
		}
		out[img.EntryID] = img
	}
	return out, rows.Err()
}

func (l *Loader) loadImagesByUnit(ctx context.Context, entries []model.Entry) (map[int64]model.Image, error) {
	out := map[int64]model.Image{}

	var unitIDs []int64
	seen := map[int64]bool{}
	for _, e := range entries {
		if e.PrimaryUnitID == nil || seen[*e.PrimaryUnitID] {
			continue
		}
		seen[*e.PrimaryUnitID] = true
		unitIDs = append(unitIDs, *e.PrimaryUnitID)
	}
	if len(unitIDs) == 0 {
		return out, nil
	}

	q := sq.Select("id", "entry_id", "sort", "hidden", "path", "alt", "x", "y").
		From("unit").
		Where(sq.Eq{"id": unitIDs, "kind": "image"})
	rows, err := l.run.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.EntryID, &u.Sort, &u.Hidden, &u.Path, &u.Alt, &u.X, &u.Y); err != nil {
			return nil, err
		}
		if u.Hidden {
			continue
		}
		out[u.EntryID] = model.Image{EntryID: u.EntryID, Path: u.Path, Alt: u.Alt, X: u.X, Y: u.Y}
	}
	return out, rows.Err()
}
