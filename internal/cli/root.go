// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plumecms/plume/internal/config"
	"github.com/plumecms/plume/internal/ui"
)

var (
	// Global flags
	dbPathFlag string
	configFlag string

	// Resolved values
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "plume",
	Short: "Plume - a multi-tenant content repository",
	Long: `Plume is a multi-tenant content repository: blogs, categories,
entries, tags, fields, and media, queried through a scope-driven
filtering engine.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version", "completion":
			return nil
		}

		var err error
		if configFlag != "" {
			cfg, err = config.LoadFrom(configFlag)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dbPathFlag != "" {
			cfg.Database = dbPathFlag
		}
		ui.ConfigureAccent(cfg.UI.Accent)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "path to the database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to the config file")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(initCmd)
}
