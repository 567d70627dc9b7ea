package cli

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/spf13/cobra"

	"github.com/plumecms/plume/internal/query"
	"github.com/plumecms/plume/internal/scope"
	"github.com/plumecms/plume/internal/store"
	"github.com/plumecms/plume/internal/ui"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <id-or-code>",
	Short: "Show one entry with its body and associations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		id, err := resolveEntryID(cmd, s, args[0])
		if err != nil {
			return err
		}

		eng := query.New(s, query.Config{
			PageSize:      1,
			ImageStrategy: query.ImageStrategy(cfg.Image.Strategy),
			ImageField:    cfg.Image.FieldKey,
			Context:       query.ContextAPI,
		})

		// Window filtering is skipped so future and expired entries are
		// still inspectable.
		res, err := eng.List(cmd.Context(), scope.Params{
			EntryID: id,
			Limit:   1,
			Window:  scope.Window{Mode: scope.WindowNone},
		})
		if err != nil {
			return err
		}
		if len(res.Rows) == 0 {
			return fmt.Errorf("entry %s not found", args[0])
		}

		if showJSON {
			return writeJSON(res)
		}
		return renderEntry(res.Rows[0])
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "machine-readable JSON output")
}

// resolveEntryID treats a numeric argument as an id and anything else as
// an entry code.
func resolveEntryID(cmd *cobra.Command, s *store.Store, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, nil
	}
	ids, err := s.SelectIDs(cmd.Context(), sq.Select("id").From("entry").Where(sq.Eq{"code": arg}))
	if err != nil {
		return 0, fmt.Errorf("look up code %q: %w", arg, err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("entry %q not found", arg)
	}
	return ids[0], nil
}

func renderEntry(row query.Row) error {
	e := row.Entry
	dc := ui.NewDisplayContext()

	fmt.Println(ui.Bold.Render(e.Title))
	fmt.Println(ui.Muted.Render(fmt.Sprintf("%s · %s · posted %s",
		ui.Accent.Render(e.Code), e.Status, e.Posted.Format("2006-01-02 15:04"))))

	if len(row.Tags) > 0 {
		names := make([]string, len(row.Tags))
		for i, t := range row.Tags {
			names[i] = t.Name
		}
		fmt.Println(ui.Accent.Render("#" + strings.Join(names, " #")))
	}
	if len(row.Fields) > 0 {
		t := ui.NewTable(2)
		for _, f := range row.Fields {
			t.AddRow(ui.Muted.Render(f.Key), f.Value)
		}
		fmt.Print(t.String())
	}
	if row.Image != nil {
		fmt.Println(ui.Muted.Render("image: " + row.Image.Path))
	}

	if e.Body != "" {
		fmt.Println()
		if dc.IsTTY {
			out, err := ui.RenderMarkdown(e.Body, dc.TermWidth)
			if err != nil {
				return fmt.Errorf("render body: %w", err)
			}
			fmt.Print(out)
		} else {
			fmt.Println(e.Body)
		}
	}

	if len(row.Related) > 0 {
		fmt.Println()
		fmt.Println(ui.Bold.Render("Related"))
		for _, r := range row.Related {
			fmt.Printf("  %s %s\n", ui.Accent.Render(r.Code), r.Title)
		}
	}
	return nil
}
