package seed

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/plumecms/plume/internal/store"
)

const fixture = `
blogs:
  - code: root
    name: Root
    children:
      - code: child-a
        name: Child A
      - code: child-b
        name: Child B
        children:
          - code: grand
            name: Grandchild
    categories:
      - code: news
        name: News
        children:
          - code: releases
            name: Releases
    users:
      - code: amari
        name: Amari
    entries:
      - code: first
        title: First Post
        user: amari
        category: releases
        tags: [intro, meta]
        fields:
          price: "10"
        units:
          - path: img/cover.jpg
            primary: true
        related: [second]
      - code: second
        title: Second Post
        body: |
          # Heading

          Some *emphasised* prose that the summary keeps.
`

func loadFixture(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := Load(s, []byte(fixture)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

type bounds struct {
	lft, rgt int64
}

func treeBounds(t *testing.T, s *store.Store, table string) map[string]bounds {
	t.Helper()
	rows, err := s.Select(context.Background(), sq.Select("code", "lft", "rgt").From(table))
	if err != nil {
		t.Fatalf("select %s: %v", table, err)
	}
	defer rows.Close()

	out := map[string]bounds{}
	for rows.Next() {
		var code string
		var b bounds
		if err := rows.Scan(&code, &b.lft, &b.rgt); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out[code] = b
	}
	return out
}

func TestLoadNestedSetBounds(t *testing.T) {
	s := loadFixture(t)

	blogs := treeBounds(t, s, "blog")
	want := map[string]bounds{
		"root":    {1, 8},
		"child-a": {2, 3},
		"child-b": {4, 7},
		"grand":   {5, 6},
	}
	for code, w := range want {
		if blogs[code] != w {
			t.Errorf("blog %s bounds = %v, want %v", code, blogs[code], w)
		}
	}

	cats := treeBounds(t, s, "category")
	if cats["news"] != (bounds{1, 4}) || cats["releases"] != (bounds{2, 3}) {
		t.Errorf("category bounds = %v", cats)
	}
}

func TestLoadEntryAssociations(t *testing.T) {
	s := loadFixture(t)
	ctx := context.Background()

	tags, err := s.SelectScalar(ctx, sq.Select("COUNT(*)").From("tag"))
	if err != nil || tags != 2 {
		t.Errorf("tag count = %d (%v), want 2", tags, err)
	}

	// The primary flag on the unit must land on the entry row.
	primary, err := s.SelectScalar(ctx, sq.Select("COUNT(*)").From("entry").
		Where(sq.Eq{"code": "first"}).
		Where(sq.Expr("primary_unit_id IS NOT NULL")))
	if err != nil || primary != 1 {
		t.Errorf("primary unit not linked: %d (%v)", primary, err)
	}

	// Related links resolve codes even when the target is defined later.
	related, err := s.SelectScalar(ctx, sq.Select("COUNT(*)").From("related"))
	if err != nil || related != 1 {
		t.Errorf("related count = %d (%v), want 1", related, err)
	}
}

func TestLoadDefaultsSummaryFromBody(t *testing.T) {
	s := loadFixture(t)

	rows, err := s.Select(context.Background(),
		sq.Select("summary").From("entry").Where(sq.Eq{"code": "second"}))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatal("entry second not found")
	}
	var summary string
	if err := rows.Scan(&summary); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if summary != "Heading Some emphasised prose that the summary keeps." {
		t.Errorf("summary = %q", summary)
	}
}

func TestLoadUnknownReferences(t *testing.T) {
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	bad := `
blogs:
  - code: b
    name: B
    entries:
      - code: e
        title: E
        category: nope
`
	if err := Load(s, []byte(bad)); err == nil {
		t.Error("want error for unknown category reference")
	}
}
