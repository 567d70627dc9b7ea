// Package seed loads declarative YAML fixtures into the store: blog and
// category trees, users, entries with tags, fields, units, and related
// links. Nested-set bounds are computed here so the query engine's axis
// filters work against freshly seeded data.
package seed

import (
	"fmt"
	"os"
	"time"

	goslug "github.com/gosimple/slug"
	"gopkg.in/yaml.v3"

	"github.com/plumecms/plume/internal/model"
	"github.com/plumecms/plume/internal/store"
)

// File is the root of a fixture document.
type File struct {
	Blogs []BlogFixture `yaml:"blogs"`

	// Categories at the top level are global: shared across tenants.
	Categories []CategoryFixture `yaml:"categories"`
}

// BlogFixture describes one tenant node and its content.
type BlogFixture struct {
	Code       string            `yaml:"code"`
	Name       string            `yaml:"name"`
	Status     string            `yaml:"status"`
	Indexing   *bool             `yaml:"indexing"`
	Secret     bool              `yaml:"secret"`
	Children   []BlogFixture     `yaml:"children"`
	Categories []CategoryFixture `yaml:"categories"`
	Users      []UserFixture     `yaml:"users"`
	Entries    []EntryFixture    `yaml:"entries"`
}

// CategoryFixture describes one category node.
type CategoryFixture struct {
	Code     string            `yaml:"code"`
	Name     string            `yaml:"name"`
	Status   string            `yaml:"status"`
	Indexing *bool             `yaml:"indexing"`
	Children []CategoryFixture `yaml:"children"`
}

// UserFixture describes one user.
type UserFixture struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// EntryFixture describes one entry.
type EntryFixture struct {
	Code        string            `yaml:"code"`
	Title       string            `yaml:"title"`
	Summary     string            `yaml:"summary"`
	Body        string            `yaml:"body"`
	Category    string            `yaml:"category"`
	User        string            `yaml:"user"`
	Status      string            `yaml:"status"`
	Approval    string            `yaml:"approval"`
	Posted      time.Time         `yaml:"posted"`
	Start       time.Time         `yaml:"start"`
	End         time.Time         `yaml:"end"`
	Sort        int64             `yaml:"sort"`
	Tags        []string          `yaml:"tags"`
	Fields      map[string]string `yaml:"fields"`
	Units       []UnitFixture     `yaml:"units"`
	Related     []string          `yaml:"related"`
	Indexing    *bool             `yaml:"indexing"`
	MembersOnly bool              `yaml:"members_only"`
}

// UnitFixture describes one content unit of an entry.
type UnitFixture struct {
	Kind    string `yaml:"kind"`
	Path    string `yaml:"path"`
	Alt     string `yaml:"alt"`
	Hidden  bool   `yaml:"hidden"`
	Primary bool   `yaml:"primary"`
}

// LoadFile parses a fixture file and loads it into the store.
func LoadFile(s *store.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixture: %w", err)
	}
	return Load(s, data)
}

// Load parses fixture YAML and loads it into the store.
func Load(s *store.Store, data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	ld := &loader{
		s:          s,
		users:      map[string]int64{},
		categories: map[string]int64{},
		entries:    map[string]int64{},
	}

	for i := range f.Categories {
		if err := ld.insertCategory(&f.Categories[i], nil, nil); err != nil {
			return err
		}
	}
	for i := range f.Blogs {
		if err := ld.insertBlog(&f.Blogs[i], nil); err != nil {
			return err
		}
	}
	return ld.linkRelated()
}

type pendingRelated struct {
	entryID int64
	codes   []string
}

type loader struct {
	s *store.Store

	// Nested-set counters. One counter per table keeps ranges unique
	// across a forest of roots.
	blogCounter int64
	catCounter  int64

	users      map[string]int64
	categories map[string]int64
	entries    map[string]int64
	related    []pendingRelated
}

func (l *loader) insertBlog(b *BlogFixture, parentID *int64) error {
	lft := l.nextBlog()
	// Children are numbered before the parent row is written so the
	// parent's rgt is known at insert time. Ids for children need the
	// parent id first, so the row is inserted with its bounds and the
	// children follow.
	blog := model.Blog{
		ParentID: parentID,
		Lft:      lft,
		Rgt:      0, // patched below
		Code:     defaultSlug(b.Code, b.Name),
		Name:     b.Name,
		Status:   defaultStr(b.Status, model.StatusOpen),
		Indexing: defaultBool(b.Indexing, true),
		Secret:   b.Secret,
	}

	// Reserve the subtree range: count descendants to compute rgt.
	blog.Rgt = lft + 2*countBlogs(b.Children) + 1
	l.blogCounter = blog.Rgt

	id, err := l.s.InsertBlog(blog)
	if err != nil {
		return fmt.Errorf("insert blog %s: %w", blog.Code, err)
	}

	// Number children inside the reserved range.
	saved := l.blogCounter
	l.blogCounter = lft
	for i := range b.Children {
		if err := l.insertBlog(&b.Children[i], &id); err != nil {
			return err
		}
	}
	l.blogCounter = saved

	for i := range b.Categories {
		if err := l.insertCategory(&b.Categories[i], &id, nil); err != nil {
			return err
		}
	}
	for _, u := range b.Users {
		uid, err := l.s.InsertUser(model.User{
			BlogID: id,
			Code:   defaultSlug(u.Code, u.Name),
			Name:   u.Name,
			Status: model.StatusOpen,
		})
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.Code, err)
		}
		l.users[u.Code] = uid
	}
	for i := range b.Entries {
		if err := l.insertEntry(&b.Entries[i], id); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) insertCategory(c *CategoryFixture, blogID, parentID *int64) error {
	lft := l.nextCat()
	cat := model.Category{
		BlogID:   blogID,
		ParentID: parentID,
		Lft:      lft,
		Rgt:      lft + 2*countCategories(c.Children) + 1,
		Code:     defaultSlug(c.Code, c.Name),
		Name:     c.Name,
		Status:   defaultStr(c.Status, model.StatusOpen),
		Indexing: defaultBool(c.Indexing, true),
	}
	l.catCounter = cat.Rgt

	id, err := l.s.InsertCategory(cat)
	if err != nil {
		return fmt.Errorf("insert category %s: %w", cat.Code, err)
	}
	l.categories[cat.Code] = id

	saved := l.catCounter
	l.catCounter = lft
	for i := range c.Children {
		if err := l.insertCategory(&c.Children[i], blogID, &id); err != nil {
			return err
		}
	}
	l.catCounter = saved
	return nil
}

func (l *loader) insertEntry(e *EntryFixture, blogID int64) error {
	posted := e.Posted
	if posted.IsZero() {
		posted = time.Now().UTC()
	}
	start := e.Start
	if start.IsZero() {
		start = posted
	}
	end := e.End
	if end.IsZero() {
		end = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	}

	entry := model.Entry{
		BlogID:      blogID,
		Code:        defaultSlug(e.Code, e.Title),
		Title:       e.Title,
		Summary:     e.Summary,
		Body:        e.Body,
		Status:      defaultStr(e.Status, model.StatusOpen),
		Approval:    defaultStr(e.Approval, model.ApprovalApproved),
		Start:       start,
		End:         end,
		Posted:      posted,
		Updated:     posted,
		Sort:        e.Sort,
		Indexing:    defaultBool(e.Indexing, true),
		MembersOnly: e.MembersOnly,
	}
	if entry.Summary == "" {
		entry.Summary = Summarize(e.Body, 200)
	}
	if e.Category != "" {
		catID, ok := l.categories[e.Category]
		if !ok {
			return fmt.Errorf("entry %s: unknown category %q", entry.Code, e.Category)
		}
		entry.CategoryID = &catID
	}
	if e.User != "" {
		uid, ok := l.users[e.User]
		if !ok {
			return fmt.Errorf("entry %s: unknown user %q", entry.Code, e.User)
		}
		entry.UserID = uid
	}

	id, err := l.s.InsertEntry(entry)
	if err != nil {
		return fmt.Errorf("insert entry %s: %w", entry.Code, err)
	}
	l.entries[entry.Code] = id

	for i, name := range e.Tags {
		if err := l.s.InsertTag(model.Tag{EntryID: id, BlogID: blogID, Name: name, Sort: int64(i + 1)}); err != nil {
			return fmt.Errorf("insert tag %s: %w", name, err)
		}
	}
	sort := int64(0)
	for key, value := range e.Fields {
		sort++
		if err := l.s.InsertField(model.Field{
			Kind: model.FieldKindEntry, OwnerID: id, Key: key, Value: value, Sort: sort,
		}); err != nil {
			return fmt.Errorf("insert field %s: %w", key, err)
		}
	}
	for i, u := range e.Units {
		unitID, err := l.s.InsertUnit(model.Unit{
			EntryID: id,
			Kind:    defaultStr(u.Kind, "image"),
			Sort:    int64(i + 1),
			Hidden:  u.Hidden,
			Path:    u.Path,
			Alt:     u.Alt,
		})
		if err != nil {
			return fmt.Errorf("insert unit: %w", err)
		}
		if u.Primary {
			if err := l.s.SetPrimaryUnit(id, unitID); err != nil {
				return err
			}
		}
	}
	if len(e.Related) > 0 {
		l.related = append(l.related, pendingRelated{entryID: id, codes: e.Related})
	}
	return nil
}

// linkRelated resolves related-entry codes after all entries exist, so
// fixtures can reference forward.
func (l *loader) linkRelated() error {
	for _, p := range l.related {
		for i, code := range p.codes {
			target, ok := l.entries[code]
			if !ok {
				return fmt.Errorf("related entry %q not found", code)
			}
			if err := l.s.InsertRelated(model.Related{
				EntryID: p.entryID, RelatedID: target, Sort: int64(i + 1),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *loader) nextBlog() int64 {
	l.blogCounter++
	return l.blogCounter
}

func (l *loader) nextCat() int64 {
	l.catCounter++
	return l.catCounter
}

func countBlogs(bs []BlogFixture) int64 {
	var n int64
	for i := range bs {
		n += 1 + countBlogs(bs[i].Children)
	}
	return n
}

func countCategories(cs []CategoryFixture) int64 {
	var n int64
	for i := range cs {
		n += 1 + countCategories(cs[i].Children)
	}
	return n
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func defaultBool(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func defaultSlug(code, name string) string {
	if code != "" {
		return code
	}
	return goslug.Make(name)
}
