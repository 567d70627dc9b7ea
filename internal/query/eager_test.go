package query

import (
	"context"
	"database/sql"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/plumecms/plume/internal/model"
)

// countingRunner counts batched lookups so tests can assert the loader
// issues exactly one query per requested category and none for empty id
// sets.
type countingRunner struct {
	Runner
	selects int
}

func (c *countingRunner) Select(ctx context.Context, q sq.Sqlizer) (*sql.Rows, error) {
	c.selects++
	return c.Runner.Select(ctx, q)
}

func TestLoaderEmptyEntries(t *testing.T) {
	s := testStore(t)
	run := &countingRunner{Runner: s}
	l := NewLoader(run, ImageByUnit, "")

	loaded, err := l.Load(context.Background(), nil, AllLoadCategories)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if run.selects != 0 {
		t.Errorf("selects = %d, want 0 for an empty page", run.selects)
	}
	if loaded.Tags == nil || loaded.MainImage == nil {
		t.Error("maps must be initialized even for an empty page")
	}
}

func TestLoaderSkipsEmptyIDSets(t *testing.T) {
	s := testStore(t)
	blogID := mustInsertBlog(t, s, model.Blog{Lft: 1, Rgt: 2, Code: "b", Name: "B", Status: "open"})
	id := mustInsertEntry(t, s, published(blogID, "bare"))

	run := &countingRunner{Runner: s}
	l := NewLoader(run, ImageByUnit, "")

	entries := []model.Entry{{ID: id, BlogID: blogID}}
	loaded, err := l.Load(context.Background(), entries, []LoadCategory{
		LoadCategoryFields, LoadSubCategories, LoadMainImage,
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// No entry has a category or a primary unit, so no query runs.
	if run.selects != 0 {
		t.Errorf("selects = %d, want 0 when every id set is empty", run.selects)
	}
	if len(loaded.CategoryFields) != 0 || len(loaded.MainImage) != 0 {
		t.Errorf("loaded = %+v, want empty maps", loaded)
	}
}

func TestLoaderBatchesDistinctIDs(t *testing.T) {
	s := testStore(t)
	blogID := mustInsertBlog(t, s, model.Blog{Lft: 1, Rgt: 2, Code: "b", Name: "B", Status: "open"})

	var entries []model.Entry
	for _, code := range []string{"a", "b", "c"} {
		e := published(blogID, code)
		id := mustInsertEntry(t, s, e)
		e.ID = id
		if err := s.InsertTag(model.Tag{EntryID: id, BlogID: blogID, Name: "common"}); err != nil {
			t.Fatalf("insert tag: %v", err)
		}
		entries = append(entries, e)
	}

	run := &countingRunner{Runner: s}
	l := NewLoader(run, ImageByUnit, "")
	loaded, err := l.Load(context.Background(), entries, []LoadCategory{LoadTags, LoadBlogFields})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Tags for three entries in one query; no blog fields exist but the
	// blog id set is non-empty so the lookup still runs once.
	if run.selects != 2 {
		t.Errorf("selects = %d, want 2 (one per category)", run.selects)
	}
	for _, e := range entries {
		if len(loaded.Tags[e.ID]) != 1 {
			t.Errorf("entry %s: tags = %v, want one", e.Code, loaded.Tags[e.ID])
		}
	}
}

func TestLoaderRelatedOnlyOpenEntries(t *testing.T) {
	s := testStore(t)
	blogID := mustInsertBlog(t, s, model.Blog{Lft: 1, Rgt: 2, Code: "b", Name: "B", Status: "open"})

	src := mustInsertEntry(t, s, published(blogID, "source"))
	open := mustInsertEntry(t, s, published(blogID, "open-target"))

	closed := published(blogID, "closed-target")
	closed.Status = model.StatusClose
	closedID := mustInsertEntry(t, s, closed)

	for _, target := range []int64{open, closedID} {
		if err := s.InsertRelated(model.Related{EntryID: src, RelatedID: target}); err != nil {
			t.Fatalf("insert related: %v", err)
		}
	}

	l := NewLoader(s, ImageByUnit, "")
	loaded, err := l.Load(context.Background(), []model.Entry{{ID: src, BlogID: blogID}}, []LoadCategory{LoadRelated})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := loaded.Related[src]
	if len(got) != 1 || got[0].Code != "open-target" {
		t.Errorf("related = %v, want only open-target", got)
	}
}

func TestLoaderImageByUnit(t *testing.T) {
	s := testStore(t)
	blogID := mustInsertBlog(t, s, model.Blog{Lft: 1, Rgt: 2, Code: "b", Name: "B", Status: "open"})

	withImage := mustInsertEntry(t, s, published(blogID, "with-image"))
	unitID, err := s.InsertUnit(model.Unit{EntryID: withImage, Kind: "image", Path: "img/a.jpg", Alt: "A"})
	if err != nil {
		t.Fatalf("insert unit: %v", err)
	}
	if err := s.SetPrimaryUnit(withImage, unitID); err != nil {
		t.Fatalf("set primary: %v", err)
	}

	hiddenEntry := mustInsertEntry(t, s, published(blogID, "hidden-image"))
	hiddenUnit, err := s.InsertUnit(model.Unit{EntryID: hiddenEntry, Kind: "image", Path: "img/h.jpg", Hidden: true})
	if err != nil {
		t.Fatalf("insert unit: %v", err)
	}
	if err := s.SetPrimaryUnit(hiddenEntry, hiddenUnit); err != nil {
		t.Fatalf("set primary: %v", err)
	}

	entries := []model.Entry{
		{ID: withImage, BlogID: blogID, PrimaryUnitID: &unitID},
		{ID: hiddenEntry, BlogID: blogID, PrimaryUnitID: &hiddenUnit},
	}
	l := NewLoader(s, ImageByUnit, "")
	loaded, err := l.Load(context.Background(), entries, []LoadCategory{LoadMainImage})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	img, ok := loaded.MainImage[withImage]
	if !ok || img.Path != "img/a.jpg" {
		t.Errorf("image = %+v, want img/a.jpg", img)
	}
	// A hidden primary unit is suppressed, not substituted.
	if _, ok := loaded.MainImage[hiddenEntry]; ok {
		t.Error("hidden unit must not produce an image")
	}
}

func TestLoaderImageByField(t *testing.T) {
	s := testStore(t)
	blogID := mustInsertBlog(t, s, model.Blog{Lft: 1, Rgt: 2, Code: "b", Name: "B", Status: "open"})

	id := mustInsertEntry(t, s, published(blogID, "field-image"))
	if err := s.InsertField(model.Field{
		Kind: model.FieldKindEntry, OwnerID: id, Key: "eyecatch", Value: "img/e.png",
	}); err != nil {
		t.Fatalf("insert field: %v", err)
	}
	// A primary unit exists too; the field strategy must ignore it.
	unitID, err := s.InsertUnit(model.Unit{EntryID: id, Kind: "image", Path: "img/u.png"})
	if err != nil {
		t.Fatalf("insert unit: %v", err)
	}
	if err := s.SetPrimaryUnit(id, unitID); err != nil {
		t.Fatalf("set primary: %v", err)
	}

	entries := []model.Entry{{ID: id, BlogID: blogID, PrimaryUnitID: &unitID}}
	l := NewLoader(s, ImageByField, "eyecatch")
	loaded, err := l.Load(context.Background(), entries, []LoadCategory{LoadMainImage})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	img := loaded.MainImage[id]
	if img.Path != "img/e.png" {
		t.Errorf("image path = %q, want the field value", img.Path)
	}
}

func TestBuildRowContexts(t *testing.T) {
	catID := int64(3)
	e := model.Entry{ID: 1, BlogID: 2, CategoryID: &catID, UserID: 4, Body: "body"}
	loaded := &Loaded{
		Tags:           map[int64][]model.Tag{1: {{EntryID: 1, Name: "t"}}},
		EntryFields:    map[int64][]model.Field{1: {{Key: "k"}}},
		UserFields:     map[int64][]model.Field{4: {{Key: "u"}}},
		BlogFields:     map[int64][]model.Field{2: {{Key: "b"}}},
		CategoryFields: map[int64][]model.Field{3: {{Key: "c"}}},
		SubCategories:  map[int64][]model.Category{3: {{ID: 9}}},
		Related:        map[int64][]model.Entry{1: {{ID: 8}}},
		MainImage:      map[int64]model.Image{1: {EntryID: 1, Path: "p"}},
	}

	trash := buildRow(e, loaded, ContextTrash)
	if len(trash.Tags) != 1 {
		t.Error("trash row should keep tags")
	}
	if trash.Fields != nil || trash.Image != nil || trash.Related != nil {
		t.Errorf("trash row carries secondary data: %+v", trash)
	}

	list := buildRow(e, loaded, ContextList)
	if list.Entry.Body != "" {
		t.Error("list row should not carry the body")
	}
	if len(list.Fields) != 1 || len(list.UserFields) != 1 || len(list.BlogFields) != 1 ||
		len(list.CategoryFields) != 1 || len(list.SubCategories) != 1 ||
		len(list.Related) != 1 || list.Image == nil {
		t.Errorf("list row missing associations: %+v", list)
	}

	api := buildRow(e, loaded, ContextAPI)
	if api.Entry.Body != "body" {
		t.Error("api row should keep the body")
	}
}
