package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/framecheck/internal/config"
)

// NewHistoryCommand creates the 'framecheck history' parent command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View and manage analysis run history",
		Long: `Commands for viewing and managing recorded analysis runs.

Each analyze run stores its per-file width results in a local SQLite
database so alignment regressions can be tracked over time.`,
	}

	// Add subcommands
	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryStatsCommand())
	cmd.AddCommand(newHistoryClearCommand())

	return cmd
}

// resolveDBPath returns the history database path, preferring the
// --db-path override and falling back to the config in the working
// directory.
func resolveDBPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	cfg, err := config.LoadConfigFromDir(cwd)
	if err != nil {
		return "", err
	}
	return cfg.History.DBPath, nil
}
