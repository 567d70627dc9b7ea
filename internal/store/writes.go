package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/plumecms/plume/internal/model"
)

// Write helpers used by the seed pipeline and tests. The query engine
// itself never writes.

func (s *Store) exec(q sq.Sqlizer) (int64, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build statement: %w", err)
	}
	res, err := s.db.Exec(sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertBlog stores a blog node and returns its id.
func (s *Store) InsertBlog(b model.Blog) (int64, error) {
	return s.exec(sq.Insert("blog").
		Columns("parent_id", "lft", "rgt", "code", "name", "status", "indexing", "secret").
		Values(b.ParentID, b.Lft, b.Rgt, b.Code, b.Name, b.Status, b.Indexing, b.Secret))
}

// InsertCategory stores a category node and returns its id.
func (s *Store) InsertCategory(c model.Category) (int64, error) {
	return s.exec(sq.Insert("category").
		Columns("blog_id", "parent_id", "lft", "rgt", "code", "name", "status", "indexing").
		Values(c.BlogID, c.ParentID, c.Lft, c.Rgt, c.Code, c.Name, c.Status, c.Indexing))
}

// InsertUser stores a user and returns its id.
func (s *Store) InsertUser(u model.User) (int64, error) {
	return s.exec(sq.Insert("user").
		Columns("blog_id", "code", "name", "status").
		Values(u.BlogID, u.Code, u.Name, u.Status))
}

// InsertEntry stores an entry and returns its id.
func (s *Store) InsertEntry(e model.Entry) (int64, error) {
	return s.exec(sq.Insert("entry").
		Columns("blog_id", "category_id", "user_id", "code", "title", "summary", "body",
			"status", "approval", "start_datetime", "end_datetime",
			"posted_datetime", "updated_datetime", "sort", "user_sort",
			"category_sort", "primary_unit_id", "indexing", "members_only").
		Values(e.BlogID, e.CategoryID, e.UserID, e.Code, e.Title, e.Summary, e.Body,
			e.Status, e.Approval, e.Start.Unix(), e.End.Unix(),
			e.Posted.Unix(), e.Updated.Unix(), e.Sort, e.UserSort,
			e.CategorySort, e.PrimaryUnitID, e.Indexing, e.MembersOnly))
}

// InsertTag attaches a tag to an entry.
func (s *Store) InsertTag(t model.Tag) error {
	_, err := s.exec(sq.Insert("tag").
		Columns("entry_id", "blog_id", "name", "sort").
		Values(t.EntryID, t.BlogID, t.Name, t.Sort))
	return err
}

// InsertField stores one key-value extension datum.
func (s *Store) InsertField(f model.Field) error {
	_, err := s.exec(sq.Insert("field").
		Columns("kind", "owner_id", "key", "value", "sort").
		Values(f.Kind, f.OwnerID, f.Key, f.Value, f.Sort))
	return err
}

// InsertUnit stores a content unit and returns its id.
func (s *Store) InsertUnit(u model.Unit) (int64, error) {
	return s.exec(sq.Insert("unit").
		Columns("entry_id", "kind", "sort", "hidden", "path", "alt", "x", "y").
		Values(u.EntryID, u.Kind, u.Sort, u.Hidden, u.Path, u.Alt, u.X, u.Y))
}

// InsertRelated stores an entry-to-entry association.
func (s *Store) InsertRelated(r model.Related) error {
	_, err := s.exec(sq.Insert("related").
		Columns("entry_id", "related_id", "kind", "sort").
		Values(r.EntryID, r.RelatedID, r.Kind, r.Sort))
	return err
}

// SetPrimaryUnit marks an entry's designated primary unit.
func (s *Store) SetPrimaryUnit(entryID, unitID int64) error {
	sqlStr, args, err := sq.Update("entry").
		Set("primary_unit_id", unitID).
		Where(sq.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(sqlStr, args...)
	return err
}
