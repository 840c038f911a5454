package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/framecheck/internal/config"
	"github.com/harrison/framecheck/internal/history"
)

// newHistoryClearCommand creates the 'framecheck history clear' command
func newHistoryClearCommand() *cobra.Command {
	var days int
	var yes bool
	var dbPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear analysis history",
		Long: `Delete recorded analysis runs.

Without --days, the retention window comes from history.keep_days in
.framecheck/config.yaml (90 days by default); runs older than the
window are deleted.

Examples:
  # Delete runs older than the configured retention window
  framecheck history clear

  # Delete runs older than 30 days
  framecheck history clear --days 30

  # Delete everything without prompting
  framecheck history clear --days 0 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("days") {
				cwd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				cfg, err := config.LoadConfigFromDir(cwd)
				if err != nil {
					return err
				}
				days = cfg.History.KeepDays
			}
			return runHistoryClear(cmd.InOrStdin(), cmd.OutOrStdout(), dbPath, days, yes)
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Only delete runs older than this many days (0 = all, default from history.keep_days)")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&dbPath, "db-path", "", "Path to history database (overrides config)")

	return cmd
}

// runHistoryClear executes the clear command
func runHistoryClear(input io.Reader, output io.Writer, dbPathOverride string, days int, yes bool) error {
	dbPath, err := resolveDBPath(dbPathOverride)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output, "No analysis history found.")
		return nil
	}

	if !yes {
		if days <= 0 {
			fmt.Fprintln(output, "WARNING: This will delete ALL recorded runs.")
		} else {
			fmt.Fprintf(output, "This will delete runs older than %d day(s).\n", days)
		}
		if !confirmAction(input, output) {
			fmt.Fprintln(output, "Operation cancelled.")
			return nil
		}
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	deleted, err := store.Clear(context.Background(), days)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	fmt.Fprintf(output, "Deleted %d run(s).\n", deleted)
	return nil
}

// confirmAction prompts for a yes/no answer and returns true on "y" or
// "yes".
func confirmAction(input io.Reader, output io.Writer) bool {
	fmt.Fprint(output, "Continue? [y/N]: ")

	reader := bufio.NewReader(input)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
