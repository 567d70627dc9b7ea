package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plumecms/plume/internal/seed"
	"github.com/plumecms/plume/internal/store"
	"github.com/plumecms/plume/internal/ui"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load a YAML fixture into the database",
	Long: `Load blogs, categories, users, and entries from a YAML fixture.

Category trees are renumbered on load, so fixtures only describe
nesting, never left/right bounds. Entry codes must be unique within the
fixture; related links refer to entries by code.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := seed.LoadFile(s, args[0]); err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
		fmt.Println(ui.Successf("loaded %s into %s", args[0], cfg.Database))
		return nil
	},
}
