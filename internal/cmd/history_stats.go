package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/framecheck/internal/history"
)

// newHistoryStatsCommand creates the 'framecheck history stats' command
func newHistoryStatsCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate history statistics",
		Long: `Display aggregate statistics across all recorded runs:
  - Total runs and files analyzed
  - Files flagged with inconsistent widths
  - Files that failed to read`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryStats(cmd.OutOrStdout(), dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (overrides config)")

	return cmd
}

// runHistoryStats executes the stats command
func runHistoryStats(output io.Writer, dbPathOverride string) error {
	dbPath, err := resolveDBPath(dbPathOverride)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output, "No analysis history found.")
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("get statistics: %w", err)
	}
	if stats.Runs == 0 {
		fmt.Fprintln(output, "No analysis history found.")
		return nil
	}

	label := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed)

	fmt.Fprintf(output, "%s: %d\n", label.Sprint("Runs"), stats.Runs)
	fmt.Fprintf(output, "%s: %d\n", label.Sprint("Files analyzed"), stats.Files)
	if stats.InconsistentFiles > 0 {
		fmt.Fprintf(output, "%s: %d\n", warn.Sprint("Inconsistent files"), stats.InconsistentFiles)
	} else {
		fmt.Fprintf(output, "%s: 0\n", label.Sprint("Inconsistent files"))
	}
	if stats.FailedFiles > 0 {
		fmt.Fprintf(output, "%s: %d\n", fail.Sprint("Failed files"), stats.FailedFiles)
	} else {
		fmt.Fprintf(output, "%s: 0\n", label.Sprint("Failed files"))
	}

	return nil
}
