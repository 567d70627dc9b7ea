package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plumecms/plume/internal/store"
	"github.com/plumecms/plume/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and write a starter config",
	Long: `Creates the SQLite database with the full schema, and writes a
starter plume.toml next to it when none exists yet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		defer s.Close()

		if err := writeStarterConfig(); err != nil {
			return err
		}
		fmt.Println(ui.Successf("initialized database at %s", cfg.Database))
		return nil
	},
}

func writeStarterConfig() error {
	const path = "plume.toml"
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	content := fmt.Sprintf(`database = %q
page_size = %d

[image]
strategy = %q
field_key = %q
`, cfg.Database, cfg.PageSize, cfg.Image.Strategy, cfg.Image.FieldKey)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write starter config: %w", err)
	}
	fmt.Println(ui.Success("wrote plume.toml"))
	return nil
}
