package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/xraycheck/internal/compare"
	"github.com/harrison/xraycheck/internal/models"
	"github.com/harrison/xraycheck/internal/trace"
)

// NewTraceCommand creates the trace command
func NewTraceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <reference-file> <candidate-file>",
		Short: "Compare instrumented trace lines from two files",
		Long: `Compare the search traces of two solver captures line by line.

By default only lines carrying the trace marker prefix are extracted and
compared; with --all-lines both files are compared verbatim. Traces are
aligned positionally: line N of one file is compared against line N of
the other, and the first mismatched position is reported.

Examples:
  xraycheck trace ref.txt cand.txt
  xraycheck trace ref.txt cand.txt --prefix "XRAY "
  xraycheck trace ref_trace.txt cand_trace.txt --all-lines --limit 10

Exit code: 0 when the traces match, 1 when they diverge`,
		Args: cobra.ExactArgs(2),
		RunE: traceCommand,
	}

	// Add flags
	cmd.Flags().String("prefix", trace.DefaultPrefix, "Marker prefix of trace lines")
	cmd.Flags().Bool("all-lines", false, "Compare every line instead of extracting marked ones")
	cmd.Flags().Int("limit", 5, "Maximum differences to display (comparison itself is uncapped)")

	return cmd
}

// traceCommand implements the trace command logic
func traceCommand(cmd *cobra.Command, args []string) error {
	prefix, _ := cmd.Flags().GetString("prefix")
	allLines, _ := cmd.Flags().GetBool("all-lines")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}

	reference, err := readTraceLines(args[0], prefix, allLines)
	if err != nil {
		return err
	}
	candidate, err := readTraceLines(args[1], prefix, allLines)
	if err != nil {
		return err
	}

	result := compare.Traces(reference, candidate)
	printTraceResult(cmd.OutOrStdout(), result, len(reference), len(candidate), limit)

	if !result.Match {
		return fmt.Errorf("traces diverge at line %d", result.FirstDivergence)
	}
	return nil
}

// readTraceLines loads one side's trace, either extracted by prefix or
// taken verbatim.
func readTraceLines(path, prefix string, allLines bool) ([]string, error) {
	if allLines {
		return trace.LinesFile(path)
	}
	return trace.ExtractFile(path, prefix)
}

// printTraceResult renders the trace verdict and up to limit differences.
func printTraceResult(out io.Writer, result models.TraceComparison, refLines, candLines, limit int) {
	if result.Match {
		fmt.Fprintf(out, "✅ Traces match (%d lines)\n", refLines)
		return
	}

	fmt.Fprintf(out, "❌ Traces diverge at line %d (%d vs %d lines, %d differences)\n",
		result.FirstDivergence, refLines, candLines, len(result.Differences))
	for i, d := range result.Differences {
		if i >= limit {
			fmt.Fprintf(out, "  ... and %d more differences\n", len(result.Differences)-limit)
			break
		}
		fmt.Fprintf(out, "  Line %d:\n", d.Index)
		fmt.Fprintf(out, "    reference: %s\n", lineOrMissing(d.Reference))
		fmt.Fprintf(out, "    candidate: %s\n", lineOrMissing(d.Candidate))
	}
}

// lineOrMissing renders one side of a trace difference.
func lineOrMissing(line *string) string {
	if line == nil {
		return "(missing)"
	}
	return *line
}
