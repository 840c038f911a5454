package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/framecheck/internal/analyzer"
	"github.com/harrison/framecheck/internal/config"
	"github.com/harrison/framecheck/internal/history"
	"github.com/harrison/framecheck/internal/report"
)

// NewAnalyzeCommand creates and returns the analyze subcommand
func NewAnalyzeCommand() *cobra.Command {
	var format string
	var truncate int
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Analyze line widths in ANSI art files",
		Long: `Read one or more files, strip SGR escape sequences from each line,
and report raw length, visible length, and escape-sequence count per
line, followed by the visible width range of the file.

With no arguments the default paths from .framecheck/config.yaml are
analyzed. A file that cannot be read is reported and skipped; the run
continues with the remaining files.

Examples:
  framecheck analyze banner.ans
  framecheck analyze --format json data/ansi/*.ans
  framecheck analyze --no-history welcome.ans goodbye.ans`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			cfg, err := config.LoadConfigFromDir(cwd)
			if err != nil {
				return err
			}

			// CLI flags override config file settings
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if cmd.Flags().Changed("truncate") {
				cfg.Truncate = truncate
			}
			if noHistory {
				cfg.History.Enabled = false
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return runAnalyze(args, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, markdown, or json")
	cmd.Flags().IntVar(&truncate, "truncate", 60, "Maximum visible characters shown per line in text output")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording this run in the history database")

	return cmd
}

// runAnalyze processes each path in order, writing one report per file.
// Per-file failures are reported inline and never abort the run, so the
// command succeeds even when some files are unreadable.
func runAnalyze(paths []string, cfg *config.Config, output, errOutput io.Writer) error {
	if len(paths) == 0 {
		paths = cfg.DefaultPaths
	}

	writer, err := newReportWriter(cfg, output)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	results := make([]history.FileResult, 0, len(paths))

	for _, path := range paths {
		rep, err := analyzer.AnalyzeFile(path)
		if err != nil {
			report.WriteError(output, path, err)
			results = append(results, history.FileResult{Path: path, Error: err.Error()})
			continue
		}

		if err := writer.Write(rep); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", path, err)
		}

		results = append(results, history.FileResult{
			Path:        path,
			LineCount:   len(rep.Lines),
			SampleCount: rep.Samples,
			MinWidth:    rep.MinWidth,
			MaxWidth:    rep.MaxWidth,
			Consistent:  rep.Consistent(),
		})
	}

	if cfg.History.Enabled {
		// History is best-effort: a storage problem must not fail an
		// analysis that already printed its results.
		if err := recordRun(cfg.History.DBPath, startedAt, results); err != nil {
			fmt.Fprintf(errOutput, "Warning: failed to record run history: %v\n", err)
		}
	}

	return nil
}

// newReportWriter selects the report writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) (report.Writer, error) {
	switch cfg.Format {
	case "text":
		return report.NewTextWriter(output, cfg.Truncate), nil
	case "markdown":
		return report.NewMarkdownWriter(output), nil
	case "json":
		return report.NewJSONWriter(output), nil
	default:
		return nil, fmt.Errorf("invalid format %q, must be one of: text, markdown, json", cfg.Format)
	}
}

// recordRun stores the run in the history database, opening and closing
// the store around the single write.
func recordRun(dbPath string, startedAt time.Time, results []history.FileResult) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.RecordRun(context.Background(), startedAt, results)
	return err
}
