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

// newHistoryShowCommand creates the 'framecheck history show' command
func newHistoryShowCommand() *cobra.Command {
	var limit int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show recent analysis runs",
		Long: `Display the most recent analysis runs including:
  - Run ID and timestamp
  - Per-file width ranges and verdicts
  - Files that failed to read`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd.OutOrStdout(), dbPath, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (overrides config)")

	return cmd
}

// runHistoryShow executes the show command
func runHistoryShow(output io.Writer, dbPathOverride string, limit int) error {
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

	ctx := context.Background()
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(output, "No analysis history found.")
		return nil
	}

	// Colors
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, run := range runs {
		fmt.Fprintf(output, "%s  %s  %d file(s)\n",
			cyan.Sprint(shortID(run.ID)),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.FileCount)

		results, err := store.RunResults(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("load results for run %s: %w", run.ID, err)
		}
		for _, r := range results {
			switch {
			case r.Error != "":
				fmt.Fprintf(output, "  %s %s: %s\n", red.Sprint("✗"), r.Path, r.Error)
			case r.SampleCount == 0:
				fmt.Fprintf(output, "  - %s: no visible lines\n", r.Path)
			case r.Consistent:
				fmt.Fprintf(output, "  %s %s: width %d (%d lines)\n",
					green.Sprint("✓"), r.Path, r.MaxWidth, r.LineCount)
			default:
				fmt.Fprintf(output, "  %s %s: width %d-%d (%d lines)\n",
					yellow.Sprint("⚠"), r.Path, r.MinWidth, r.MaxWidth, r.LineCount)
			}
		}
	}

	return nil
}

// shortID returns the first UUID segment, enough to identify a run in a
// short listing.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
