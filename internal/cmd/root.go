package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for xraycheck
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xraycheck",
		Short: "Differential tester for double-dummy solver outputs",
		Long: `Xraycheck compares the captured output of two double-dummy solver
implementations and reports where their trick tables or search traces
disagree.

It decodes each solver's raw text capture into a strain-by-leader trick
table, diffs the tables entry by entry, optionally aligns the solvers'
instrumented search traces line by line, and archives each comparison in
a numbered run folder with a markdown report.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	// Add subcommands
	cmd.AddCommand(NewCompareCommand())
	cmd.AddCommand(NewTraceCommand())
	cmd.AddCommand(NewRunsCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
