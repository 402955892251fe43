package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/xraycheck/internal/compare"
	"github.com/harrison/xraycheck/internal/config"
	"github.com/harrison/xraycheck/internal/deal"
	"github.com/harrison/xraycheck/internal/display"
	"github.com/harrison/xraycheck/internal/logger"
	"github.com/harrison/xraycheck/internal/models"
	"github.com/harrison/xraycheck/internal/parser"
	"github.com/harrison/xraycheck/internal/report"
	"github.com/harrison/xraycheck/internal/runs"
	"github.com/harrison/xraycheck/internal/trace"
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <reference-output> <candidate-output>",
		Short: "Compare two solver output captures",
		Long: `Compare the captured outputs of the reference and candidate solvers.

Both captures are decoded into strain-by-leader trick tables and diffed
entry by entry. Entries present on only one side are reported as
differences. With --trace, instrumented search trace lines are extracted
from both captures and aligned positionally.

Each comparison is archived under a numbered run folder holding the
solver input, both captures, extracted traces, and a markdown report.

Configuration is loaded from .xraycheck/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  xraycheck compare ref.txt cand.txt --deal deals/quick_test_8.txt
  xraycheck compare ref.txt cand.txt --deal deal.txt --strain N --leader W
  xraycheck compare ref.txt cand.txt --tricks 8 --trace
  xraycheck compare ref.txt cand.txt --deal deal.txt --no-history

Exit code: 0 when the solvers agree, 1 otherwise`,
		Args: cobra.ExactArgs(2),
		RunE: compareCommand,
	}

	// Add flags
	cmd.Flags().String("deal", "", "Deal file the captures were produced from")
	cmd.Flags().String("strain", "", "Strain the solvers were asked for (N, S, H, D, C)")
	cmd.Flags().String("leader", "", "Leader the solvers were asked for (W, N, E, S)")
	cmd.Flags().Int("tricks", 0, "Tricks per hand override (default: counted from the deal file)")
	cmd.Flags().Bool("trace", false, "Extract and compare instrumented trace lines")
	cmd.Flags().String("trace-prefix", "", "Marker prefix of trace lines (default: from config)")
	cmd.Flags().String("runs-dir", "", "Directory run folders are created under")
	cmd.Flags().String("config", "", "Path to config file (default: .xraycheck/config.yaml)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the history database")
	cmd.Flags().Int("max-diffs", 0, "Maximum trace differences to display (default: from config)")
	cmd.Flags().Bool("verbose", false, "Show detailed progress information")

	return cmd
}

// compareCommand implements the compare command logic
func compareCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadMergedConfig(cmd)
	if err != nil {
		return err
	}

	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)
	out := cmd.OutOrStdout()

	referencePath, candidatePath := args[0], args[1]

	params, err := resolveCompareParams(cmd, cfg)
	if err != nil {
		return err
	}
	log.LogDebug(fmt.Sprintf("comparing %s against %s (%d tricks per hand)",
		candidatePath, referencePath, params.tricks))

	referenceRaw, err := os.ReadFile(referencePath)
	if err != nil {
		return fmt.Errorf("failed to read reference output: %w", err)
	}
	candidateRaw, err := os.ReadFile(candidatePath)
	if err != nil {
		return fmt.Errorf("failed to read candidate output: %w", err)
	}

	reference, err := parseCapture(parser.DialectReference, string(referenceRaw), params.tricks)
	if err != nil {
		return err
	}
	candidate, err := parseCapture(parser.DialectCandidate, string(candidateRaw), params.tricks)
	if err != nil {
		return err
	}

	if reference.Tricks.IsEmpty() {
		display.WarnEmptyOutput("reference", referencePath).Display(out)
	}
	if candidate.Tricks.IsEmpty() {
		display.WarnEmptyOutput("candidate", candidatePath).Display(out)
	}

	comparison := compare.Tables(reference.Tricks, candidate.Tricks)

	// Trace comparison works on the capture files themselves: instrumented
	// solvers interleave trace lines with their normal output.
	var traceCmp *models.TraceComparison
	var refTrace, candTrace []string
	traceEnabled, _ := cmd.Flags().GetBool("trace")
	if traceEnabled {
		refTrace = trace.Extract(string(referenceRaw), params.tracePrefix)
		candTrace = trace.Extract(string(candidateRaw), params.tracePrefix)
		tc := compare.Traces(refTrace, candTrace)
		traceCmp = &tc
		log.LogDebug(fmt.Sprintf("extracted %d reference and %d candidate trace lines",
			len(refTrace), len(candTrace)))
	}

	folder, err := runs.Allocate(cfg.RunsDir, params.dealStem, params.strain, params.leader)
	if err != nil {
		return err
	}
	if err := writeRunArtifacts(folder, params, referenceRaw, candidateRaw, refTrace, candTrace); err != nil {
		return err
	}

	in := report.Input{
		Params: report.Params{
			DealFile:      params.dealFile,
			Strain:        params.strain,
			Leader:        params.leader,
			TricksPerHand: params.tricks,
			Timestamp:     time.Now(),
		},
		Comparison:   comparison,
		Reference:    reference,
		Candidate:    candidate,
		Trace:        traceCmp,
		TraceLines:   len(refTrace),
		DisplayLimit: params.displayLimit,
	}
	if err := report.Write(folder.ReportPath(), in); err != nil {
		return err
	}

	verdict := runVerdict(reference, candidate, comparison)
	if err := recordRun(cmd, cfg, log, folder, params, verdict, comparison, traceCmp, reference, candidate); err != nil {
		// History is bookkeeping; a locked or unwritable database should
		// not hide the comparison result.
		log.LogWarn(fmt.Sprintf("failed to record run in history: %v", err))
	}

	summary := display.Summary{
		Comparison:     comparison,
		Trace:          traceCmp,
		ReferenceEmpty: reference.Tricks.IsEmpty(),
		CandidateEmpty: candidate.Tricks.IsEmpty(),
		TraceLineCount: len(refTrace),
		RunFolder:      folder.Path,
	}
	summary.Print(out)

	switch {
	case verdict == models.VerdictNoResults:
		return fmt.Errorf("no results to compare")
	case verdict == models.VerdictDiffer:
		return fmt.Errorf("results differ in %d entries", len(comparison.Differences))
	case traceCmp != nil && !traceCmp.Match:
		return fmt.Errorf("traces diverge at line %d", traceCmp.FirstDivergence)
	}
	return nil
}

// compareParams are the resolved inputs of one comparison run.
type compareParams struct {
	dealFile     string // "" when no deal file was given
	dealStem     string
	dealInput    string // solver input rebuilt from the deal, "" when absent
	strain       string
	leader       string
	tricks       int
	tracePrefix  string
	displayLimit int
}

// resolveCompareParams merges the compare flags with the config and the
// deal file into the effective run parameters.
func resolveCompareParams(cmd *cobra.Command, cfg *config.Config) (*compareParams, error) {
	params := &compareParams{
		dealStem:     "deal",
		tricks:       cfg.DefaultTricks,
		tracePrefix:  cfg.Trace.Prefix,
		displayLimit: cfg.Trace.DisplayLimit,
	}

	strainFlag, _ := cmd.Flags().GetString("strain")
	var strain models.Strain
	if strainFlag != "" {
		s, err := models.ParseStrain(strainFlag)
		if err != nil {
			return nil, err
		}
		strain = s
		params.strain = string(s)
	}

	leaderFlag, _ := cmd.Flags().GetString("leader")
	var leader models.Leader
	if leaderFlag != "" {
		l, err := models.ParseLeader(leaderFlag)
		if err != nil {
			return nil, err
		}
		leader = l
		params.leader = string(l)
	}

	dealPath, _ := cmd.Flags().GetString("deal")
	if dealPath != "" {
		d, err := deal.Read(dealPath)
		if err != nil {
			return nil, err
		}
		params.dealFile = dealPath
		params.dealStem = d.Stem()
		params.tricks = d.TricksPerHand()

		content, warning := d.BuildRequest(strain, leader)
		params.dealInput = content
		if warning != "" {
			display.Warning{
				Title:   warning,
				Message: "The solver input written to the run folder includes the inserted line",
			}.Display(cmd.OutOrStdout())
		}
	}

	if cmd.Flags().Changed("tricks") {
		tricks, _ := cmd.Flags().GetInt("tricks")
		params.tricks = tricks
	}
	if params.tricks < 1 {
		return nil, fmt.Errorf("tricks per hand must be positive, got %d", params.tricks)
	}

	if cmd.Flags().Changed("trace-prefix") {
		params.tracePrefix, _ = cmd.Flags().GetString("trace-prefix")
	}
	if cmd.Flags().Changed("max-diffs") {
		params.displayLimit, _ = cmd.Flags().GetInt("max-diffs")
	}

	return params, nil
}

// parseCapture decodes one solver capture into a result.
func parseCapture(dialect parser.Dialect, raw string, tricks int) (*models.SolverResult, error) {
	p, err := parser.NewOutputParser(dialect)
	if err != nil {
		return nil, err
	}
	result, err := p.Parse(raw, tricks)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s output: %w", dialect, err)
	}
	return result, nil
}

// writeRunArtifacts archives the comparison inputs in the run folder.
func writeRunArtifacts(folder *runs.Folder, params *compareParams, referenceRaw, candidateRaw []byte, refTrace, candTrace []string) error {
	if params.dealInput != "" {
		if err := folder.WriteArtifact(runs.ArtifactInput, []byte(params.dealInput)); err != nil {
			return err
		}
	}
	if err := folder.WriteArtifact(runs.ArtifactReferenceOutput, referenceRaw); err != nil {
		return err
	}
	if err := folder.WriteArtifact(runs.ArtifactCandidateOutput, candidateRaw); err != nil {
		return err
	}

	if refTrace == nil && candTrace == nil {
		return nil
	}
	if err := folder.WriteArtifact(runs.ArtifactReferenceTrace, joinLines(refTrace)); err != nil {
		return err
	}
	if err := folder.WriteArtifact(runs.ArtifactCandidateTrace, joinLines(candTrace)); err != nil {
		return err
	}

	// Equivalence-class lines are a separate instrumentation channel; they
	// are archived but never diffed.
	refEquiv := trace.Extract(string(referenceRaw), trace.EquivPrefix)
	candEquiv := trace.Extract(string(candidateRaw), trace.EquivPrefix)
	if len(refEquiv) > 0 {
		if err := folder.WriteArtifact(runs.ArtifactReferenceEquiv, joinLines(refEquiv)); err != nil {
			return err
		}
	}
	if len(candEquiv) > 0 {
		if err := folder.WriteArtifact(runs.ArtifactCandidateEquiv, joinLines(candEquiv)); err != nil {
			return err
		}
	}
	return nil
}

// runVerdict classifies one comparison for history and exit policy.
func runVerdict(reference, candidate *models.SolverResult, comparison models.Comparison) string {
	if reference.Tricks.IsEmpty() || candidate.Tricks.IsEmpty() {
		return models.VerdictNoResults
	}
	if comparison.Match {
		return models.VerdictMatch
	}
	return models.VerdictDiffer
}

// recordRun stores the run in the history database unless history is
// disabled by config or flag.
func recordRun(cmd *cobra.Command, cfg *config.Config, log logger.Logger, folder *runs.Folder, params *compareParams, verdict string, comparison models.Comparison, traceCmp *models.TraceComparison, reference, candidate *models.SolverResult) error {
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory || !cfg.History.Enabled {
		log.LogDebug("history recording disabled, skipping")
		return nil
	}

	store, err := runs.NewStore(cfg.History.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := &models.RunRecord{
		Number:              folder.Number,
		Folder:              folder.Name,
		DealFile:            params.dealFile,
		Strain:              params.strain,
		Leader:              params.leader,
		TricksPerHand:       params.tricks,
		Verdict:             verdict,
		DifferenceCount:     len(comparison.Differences),
		ReferenceIterations: reference.Iterations,
		CandidateIterations: candidate.Iterations,
	}
	if traceCmp != nil {
		rec.FirstDivergence = traceCmp.FirstDivergence
		if traceCmp.Match {
			rec.TraceVerdict = models.TraceVerdictMatch
		} else {
			rec.TraceVerdict = models.TraceVerdictDiverged
		}
	}
	return store.RecordRun(context.Background(), rec)
}

// loadMergedConfig loads configuration from the --config flag or the
// default location and applies flag overrides shared across commands.
func loadMergedConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Flags().Changed("runs-dir") {
		cfg.RunsDir, _ = cmd.Flags().GetString("runs-dir")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// joinLines renders extracted lines with a trailing newline, matching the
// shape of the capture files they came from.
func joinLines(lines []string) []byte {
	if len(lines) == 0 {
		return []byte{}
	}
	buf := make([]byte, 0, 64*len(lines))
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return buf
}
