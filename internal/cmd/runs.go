package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harrison/xraycheck/internal/config"
	"github.com/harrison/xraycheck/internal/models"
	"github.com/harrison/xraycheck/internal/report"
	"github.com/harrison/xraycheck/internal/runs"
)

// NewRunsCommand creates the runs command group
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect past comparison runs",
		Long: `List and inspect archived comparison runs.

Runs are read from the history database when available, falling back to
scanning the runs directory when the database is missing or disabled.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())

	return cmd
}

// newRunsListCommand creates the runs list subcommand
func newRunsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past comparison runs",
		Long: `List past comparison runs, newest first.

Examples:
  xraycheck runs list
  xraycheck runs list --limit 10
  xraycheck runs list --runs-dir /tmp/runs`,
		Args: cobra.NoArgs,
		RunE: runsListCommand,
	}

	cmd.Flags().Int("limit", 20, "Maximum runs to list (0 = all)")
	cmd.Flags().String("runs-dir", "", "Directory run folders live under")
	cmd.Flags().String("config", "", "Path to config file (default: .xraycheck/config.yaml)")

	return cmd
}

// newRunsShowCommand creates the runs show subcommand
func newRunsShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <number>",
		Short: "Show one past comparison run",
		Long: `Show the stored verdict and parameters of one run, read back from
its archived markdown report. With --full the whole report is printed.

Examples:
  xraycheck runs show 12
  xraycheck runs show 12 --full`,
		Args: cobra.ExactArgs(1),
		RunE: runsShowCommand,
	}

	cmd.Flags().Bool("full", false, "Print the full stored report")
	cmd.Flags().String("runs-dir", "", "Directory run folders live under")
	cmd.Flags().String("config", "", "Path to config file (default: .xraycheck/config.yaml)")

	return cmd
}

// runsListCommand implements the runs list logic
func runsListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	records, err := listFromHistory(cfg, limit)
	if err == nil && len(records) > 0 {
		printRunRecords(out, records)
		return nil
	}

	// Fall back to the runs directory: history may be disabled, or the
	// database may predate deletion of the folders it points at.
	folders, ferr := runs.ListFolders(cfg.RunsDir)
	if ferr != nil {
		return ferr
	}
	if len(folders) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}
	if limit > 0 && len(folders) > limit {
		folders = folders[:limit]
	}
	for _, f := range folders {
		fmt.Fprintf(out, "%4d  %s\n", f.Number, f.Name)
	}
	return nil
}

// runsShowCommand implements the runs show logic
func runsShowCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid run number %q", args[0])
	}
	out := cmd.OutOrStdout()

	folder, err := runs.FindFolder(cfg.RunsDir, number)
	if err != nil {
		return err
	}

	if full, _ := cmd.Flags().GetBool("full"); full {
		data, err := os.ReadFile(folder.ReportPath())
		if err != nil {
			return fmt.Errorf("failed to read stored report: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	}

	summary, err := report.ReadSummary(folder.ReportPath())
	if err != nil {
		return err
	}
	printRunSummary(out, folder, summary)
	return nil
}

// listFromHistory reads run records from the history database.
func listFromHistory(cfg *config.Config, limit int) ([]*models.RunRecord, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	if _, err := os.Stat(cfg.History.DBPath); err != nil {
		return nil, nil
	}

	store, err := runs.NewStore(cfg.History.DBPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.ListRuns(context.Background(), limit)
}

// printRunRecords renders history records as a table, newest first.
func printRunRecords(out io.Writer, records []*models.RunRecord) {
	fmt.Fprintf(out, "%-4s  %-19s  %-10s  %-6s  %s\n", "RUN", "DATE", "VERDICT", "DIFFS", "FOLDER")
	for _, rec := range records {
		date := ""
		if !rec.CreatedAt.IsZero() {
			date = rec.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(out, "%-4d  %-19s  %-10s  %-6d  %s\n",
			rec.Number, date, rec.Verdict, rec.DifferenceCount, rec.Folder)
	}
}

// printRunSummary renders the verdict and parameters read back from a
// stored report.
func printRunSummary(out io.Writer, folder *runs.Folder, summary *report.Summary) {
	fmt.Fprintf(out, "Run %d (%s)\n", folder.Number, folder.Name)
	fmt.Fprintf(out, "  Verdict: %s\n", summary.Verdict)
	if summary.TraceVerdict != "" {
		fmt.Fprintf(out, "  Trace:   %s\n", summary.TraceVerdict)
	}
	if len(summary.Parameters) > 0 {
		fmt.Fprintln(out, "  Parameters:")
		for _, key := range []string{"Deal", "Strain", "Leader", "Tricks per hand", "Timestamp"} {
			if value, ok := summary.Parameters[key]; ok {
				fmt.Fprintf(out, "    %-15s %s\n", key+":", value)
			}
		}
	}
}
