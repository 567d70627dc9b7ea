package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/plumecms/plume/internal/query"
	"github.com/plumecms/plume/internal/scope"
	"github.com/plumecms/plume/internal/store"
	"github.com/plumecms/plume/internal/ui"
)

var queryFlags struct {
	blog         int64
	blogs        string
	blogAxis     string
	category     int64
	categories   string
	categoryAxis string
	user         int64
	users        string
	entry        int64
	entries      string
	status       string
	keyword      string
	tags         []string
	fields       []string
	fieldSort    string
	window       string
	from         string
	to           string
	order        string
	page         int
	limit        int
	offset       int
	indexing     bool
	members      bool
	hasImage     bool
	exclude      int64
	trash        bool
	jsonOut      bool
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "List entries matching a scope",
	Long: `List entries matching a scope built from flags.

Hierarchy scope:
  --blog / --category take one id; --blogs / --categories take a
  comma-separated list (a list disables axis expansion). The axis flags
  accept self, descendant-or-self, or ancestor-or-self.

Field conditions use key:op[:value], combined with AND:
  --field price:lt:100 --field color:eq:red --field author:exists

Time windows (--window): public, expired, future, span, none.
A span window reads --from and --to (RFC 3339 or 2006-01-02).

Ordering (--order): field-direction, e.g. updated-desc, sort-asc,
field-asc (with --field-sort), random.

Examples:
  plume query --blog 1 --blog-axis descendant-or-self
  plume query --category 4 --tag release --order posted-desc
  plume query --user 2 --keyword "search words" --page 2 --limit 10
  plume query --field price:lt:100 --field-sort price --order field-asc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildParams()
		if err != nil {
			return err
		}

		s, err := store.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		rc := query.ContextList
		if queryFlags.jsonOut {
			rc = query.ContextAPI
		} else if queryFlags.trash {
			rc = query.ContextTrash
		}

		eng := query.New(s, query.Config{
			PageSize:      cfg.PageSize,
			ImageStrategy: query.ImageStrategy(cfg.Image.Strategy),
			ImageField:    cfg.Image.FieldKey,
			Load:          loadCategories(cfg.Load),
			Context:       rc,
		})

		res, err := eng.List(cmd.Context(), p)
		if err != nil {
			return err
		}

		if queryFlags.jsonOut {
			return writeJSON(res)
		}
		renderListing(res)
		return nil
	},
}

func init() {
	f := queryCmd.Flags()
	f.Int64Var(&queryFlags.blog, "blog", 0, "blog id")
	f.StringVar(&queryFlags.blogs, "blogs", "", "comma-separated blog ids")
	f.StringVar(&queryFlags.blogAxis, "blog-axis", "", "blog tree axis")
	f.Int64Var(&queryFlags.category, "category", 0, "category id")
	f.StringVar(&queryFlags.categories, "categories", "", "comma-separated category ids")
	f.StringVar(&queryFlags.categoryAxis, "category-axis", "", "category tree axis")
	f.Int64Var(&queryFlags.user, "user", 0, "user id")
	f.StringVar(&queryFlags.users, "users", "", "comma-separated user ids")
	f.Int64Var(&queryFlags.entry, "entry", 0, "entry id")
	f.StringVar(&queryFlags.entries, "entries", "", "comma-separated entry ids")
	f.StringVar(&queryFlags.status, "status", "", "entry status (open, close, draft, trash)")
	f.StringVar(&queryFlags.keyword, "keyword", "", "keyword search over title and summary")
	f.StringArrayVar(&queryFlags.tags, "tag", nil, "required tag (repeatable)")
	f.StringArrayVar(&queryFlags.fields, "field", nil, "field condition key:op[:value] (repeatable)")
	f.StringVar(&queryFlags.fieldSort, "field-sort", "", "custom field key for field ordering")
	f.StringVar(&queryFlags.window, "window", "", "time window (public, expired, future, span, none)")
	f.StringVar(&queryFlags.from, "from", "", "span window lower bound")
	f.StringVar(&queryFlags.to, "to", "", "span window upper bound")
	f.StringVar(&queryFlags.order, "order", "", "sort spec, field-direction")
	f.IntVar(&queryFlags.page, "page", 1, "page number")
	f.IntVar(&queryFlags.limit, "limit", 0, "page size (0 uses the configured default)")
	f.IntVar(&queryFlags.offset, "offset", 0, "extra offset on top of the page calculation")
	f.BoolVar(&queryFlags.indexing, "indexing", false, "only entries flagged for index listings")
	f.BoolVar(&queryFlags.members, "members", false, "only members-only entries")
	f.BoolVar(&queryFlags.hasImage, "has-image", false, "only entries with at least one media unit")
	f.Int64Var(&queryFlags.exclude, "exclude", 0, "entry id to exclude")
	f.BoolVar(&queryFlags.trash, "trash", false, "list trashed entries")
	f.BoolVar(&queryFlags.jsonOut, "json", false, "machine-readable JSON output")
}

// loadCategories maps configured category names onto the engine's load
// set. An empty list means nil, which the engine treats as "all".
func loadCategories(names []string) []query.LoadCategory {
	if len(names) == 0 {
		return nil
	}
	cats := make([]query.LoadCategory, len(names))
	for i, name := range names {
		cats[i] = query.LoadCategory(name)
	}
	return cats
}

func buildParams() (scope.Params, error) {
	p := scope.Params{
		BlogID:         queryFlags.blog,
		BlogAxis:       scope.ParseAxis(queryFlags.blogAxis),
		CategoryID:     queryFlags.category,
		CategoryAxis:   scope.ParseAxis(queryFlags.categoryAxis),
		UserID:         queryFlags.user,
		EntryID:        queryFlags.entry,
		Status:         queryFlags.status,
		Keyword:        queryFlags.keyword,
		Tags:           queryFlags.tags,
		FieldSort:      queryFlags.fieldSort,
		Order:          queryFlags.order,
		Page:           queryFlags.page,
		Limit:          queryFlags.limit,
		Offset:         queryFlags.offset,
		IndexingOnly:   queryFlags.indexing,
		MembersOnly:    queryFlags.members,
		HasImage:       queryFlags.hasImage,
		ExcludeEntryID: queryFlags.exclude,
	}
	if queryFlags.trash && p.Status == "" {
		p.Status = "trash"
	}

	var err error
	if p.BlogIDs, err = parseIDList(queryFlags.blogs); err != nil {
		return p, fmt.Errorf("invalid --blogs: %w", err)
	}
	if p.CategoryIDs, err = parseIDList(queryFlags.categories); err != nil {
		return p, fmt.Errorf("invalid --categories: %w", err)
	}
	if p.UserIDs, err = parseIDList(queryFlags.users); err != nil {
		return p, fmt.Errorf("invalid --users: %w", err)
	}
	if p.EntryIDs, err = parseIDList(queryFlags.entries); err != nil {
		return p, fmt.Errorf("invalid --entries: %w", err)
	}

	for _, spec := range queryFlags.fields {
		cond, err := parseFieldCondition(spec)
		if err != nil {
			return p, err
		}
		p.Fields = append(p.Fields, cond)
	}

	if p.Window, err = buildWindow(); err != nil {
		return p, err
	}
	return p, nil
}

// parseIDList splits a comma-separated id list. An empty string yields
// nil, meaning the filter is absent rather than an empty match set.
func parseIDList(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not an id", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseFieldCondition(spec string) (scope.FieldCondition, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) < 2 {
		return scope.FieldCondition{}, fmt.Errorf("invalid --field %q: want key:op[:value]", spec)
	}
	cond := scope.FieldCondition{Key: parts[0], Op: scope.FieldOp(parts[1])}
	if len(parts) == 3 {
		cond.Value = parts[2]
	}
	switch cond.Op {
	case scope.FieldEq, scope.FieldNeq, scope.FieldLt, scope.FieldLte,
		scope.FieldGt, scope.FieldGte, scope.FieldLike:
		if len(parts) != 3 {
			return cond, fmt.Errorf("invalid --field %q: operator %s needs a value", spec, cond.Op)
		}
	case scope.FieldExists:
	default:
		return cond, fmt.Errorf("invalid --field %q: unknown operator %q", spec, parts[1])
	}
	return cond, nil
}

func buildWindow() (scope.Window, error) {
	w := scope.Window{Mode: queryFlags.window, Now: time.Now()}
	if w.Mode != scope.WindowSpan {
		return w, nil
	}
	var err error
	if w.Start, err = parseWhen(queryFlags.from); err != nil {
		return w, fmt.Errorf("invalid --from: %w", err)
	}
	if w.End, err = parseWhen(queryFlags.to); err != nil {
		return w, fmt.Errorf("invalid --to: %w", err)
	}
	if queryFlags.to == "" {
		w.End = w.Now
	}
	return w, nil
}

func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func renderListing(res *query.Result) {
	if len(res.Rows) == 0 {
		fmt.Println("No entries found.")
		return
	}

	t := ui.NewTable(5)
	for _, row := range res.Rows {
		e := row.Entry
		tags := make([]string, len(row.Tags))
		for i, tag := range row.Tags {
			tags[i] = tag.Name
		}
		t.AddRow(
			ui.Muted.Render(strconv.FormatInt(e.ID, 10)),
			ui.Accent.Render(e.Code),
			e.Title,
			ui.Muted.Render(e.Posted.Format("2006-01-02")),
			ui.Accent.Render(strings.Join(tags, ", ")),
		)
	}
	fmt.Print(t.String())

	pages := (res.TotalCount + int64(res.PageSize) - 1) / int64(res.PageSize)
	fmt.Println(ui.Muted.Render(fmt.Sprintf("%d entries, page %d of %d", res.TotalCount, res.Page, pages)))
}

func writeJSON(res *query.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"total":    res.TotalCount,
		"page":     res.Page,
		"has_next": res.HasNext,
		"rows":     res.Rows,
	})
}
