package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for framecheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "framecheck",
		Short: "Width diagnostics for ANSI art files",
		Long: `Framecheck inspects text files containing ANSI escape sequences
and reports per-line width statistics.

It strips SGR color codes from each line, compares raw and visible
lengths, and flags files whose visible line widths are inconsistent,
the usual cause of misaligned banner frames.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
