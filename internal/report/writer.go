// Package report renders comparison results to markdown and reads stored
// reports back for run inspection.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/xraycheck/internal/filelock"
	"github.com/harrison/xraycheck/internal/models"
)

// Params holds the run parameters echoed at the top of each report. The
// requested strain and leader matter beyond bookkeeping: single-leader
// rows can only be oriented by knowing which leader was asked for, so the
// report must preserve the request.
type Params struct {
	DealFile      string
	Strain        string // "" = all
	Leader        string // "" = all
	TricksPerHand int
	Timestamp     time.Time
}

// Input bundles everything one report is rendered from.
type Input struct {
	Params       Params
	Comparison   models.Comparison
	Reference    *models.SolverResult
	Candidate    *models.SolverResult
	Trace        *models.TraceComparison // nil when tracing was disabled
	TraceLines   int                     // reference trace length
	DisplayLimit int                     // cap on trace differences shown; <1 defaults to 5
}

// Write renders the report and writes it atomically, so a concurrent reader
// of the run folder never sees a partial report.
func Write(path string, in Input) error {
	if err := filelock.AtomicWrite(path, []byte(Render(in))); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Render produces the markdown report body.
func Render(in Input) string {
	var b strings.Builder

	b.WriteString("# Comparison Report\n\n")
	writeParameters(&b, in.Params)
	writeResultsSummary(&b, in)
	writeAllResults(&b, in)
	writePerformance(&b, in)
	writeTraceSection(&b, in)

	return b.String()
}

func writeParameters(b *strings.Builder, p Params) {
	b.WriteString("## Parameters\n\n")
	fmt.Fprintf(b, "- **Deal**: %s\n", orAll(p.DealFile))
	fmt.Fprintf(b, "- **Strain**: %s\n", orAll(p.Strain))
	fmt.Fprintf(b, "- **Leader**: %s\n", orAll(p.Leader))
	fmt.Fprintf(b, "- **Tricks per hand**: %d\n", p.TricksPerHand)
	fmt.Fprintf(b, "- **Timestamp**: %s\n\n", p.Timestamp.Format("2006-01-02 15:04:05"))
}

func writeResultsSummary(b *strings.Builder, in Input) {
	b.WriteString("## Results Summary\n\n")

	refEmpty := in.Reference == nil || in.Reference.Tricks.IsEmpty()
	candEmpty := in.Candidate == nil || in.Candidate.Tricks.IsEmpty()

	switch {
	case refEmpty || candEmpty:
		b.WriteString("⚠️ **No results to compare**")
		var sides []string
		if refEmpty {
			sides = append(sides, "reference")
		}
		if candEmpty {
			sides = append(sides, "candidate")
		}
		fmt.Fprintf(b, ": %s solver output decoded to an empty table\n\n", strings.Join(sides, " and "))
	case in.Comparison.Match:
		b.WriteString("✅ **Results MATCH**\n\n")
		return
	default:
		b.WriteString("❌ **Results DIFFER**\n\n")
	}

	if len(in.Comparison.Differences) == 0 {
		return
	}

	b.WriteString("### Differences\n\n")
	b.WriteString("| Strain | Leader | Reference | Candidate | Delta |\n")
	b.WriteString("|--------|--------|-----------|-----------|-------|\n")
	for _, diff := range in.Comparison.Differences {
		delta := "N/A"
		if diff.Delta != nil {
			delta = fmt.Sprintf("%+d", *diff.Delta)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			diff.Strain, leaderLabel(diff.Leader),
			cellValue(diff.Reference), cellValue(diff.Candidate), delta)
	}
	b.WriteString("\n")
}

func writeAllResults(b *strings.Builder, in Input) {
	b.WriteString("### All Results\n\n")
	b.WriteString("| Strain | Leader | Reference | Candidate |\n")
	b.WriteString("|--------|--------|-----------|-----------|\n")

	var refTable, candTable models.TrickTable
	if in.Reference != nil {
		refTable = in.Reference.Tricks
	}
	if in.Candidate != nil {
		candTable = in.Candidate.Tricks
	}

	for _, strain := range models.StrainOrder {
		for _, leader := range models.LeaderOrder {
			refVal, refOK := refTable.Get(strain, leader)
			candVal, candOK := candTable.Get(strain, leader)
			if !refOK && !candOK {
				continue
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
				strain, leaderLabel(leader),
				presentValue(refVal, refOK), presentValue(candVal, candOK))
		}
	}
	b.WriteString("\n")
}

func writePerformance(b *strings.Builder, in Input) {
	b.WriteString("## Performance\n\n")
	b.WriteString("| Metric | Reference | Candidate | Ratio |\n")
	b.WriteString("|--------|-----------|-----------|-------|\n")

	var refTime, candTime float64
	var refIters, candIters int64
	if in.Reference != nil {
		refTime = in.Reference.SolveTime
		refIters = in.Reference.Iterations
	}
	if in.Candidate != nil {
		candTime = in.Candidate.SolveTime
		candIters = in.Candidate.Iterations
	}

	timeRatio := "N/A"
	if refTime > 0 {
		timeRatio = fmt.Sprintf("%.1fx", candTime/refTime)
	}
	fmt.Fprintf(b, "| Time | %.3fs | %.3fs | %s |\n", refTime, candTime, timeRatio)

	iterRatio := "N/A"
	if refIters > 0 {
		iterRatio = fmt.Sprintf("%.1fx", float64(candIters)/float64(refIters))
	}
	fmt.Fprintf(b, "| Iterations | %s | %s | %s |\n\n",
		groupDigits(refIters), groupDigits(candIters), iterRatio)
}

func writeTraceSection(b *strings.Builder, in Input) {
	b.WriteString("## Trace Comparison\n\n")

	if in.Trace == nil {
		b.WriteString("*Tracing not enabled for this run.*\n")
		return
	}

	if in.Trace.Match {
		fmt.Fprintf(b, "✅ **Traces MATCH** (%d iterations traced)\n", in.TraceLines)
		return
	}

	fmt.Fprintf(b, "❌ **Traces DIVERGE** at iteration %d\n\n", in.Trace.FirstDivergence)
	b.WriteString("### First Divergence\n\n")

	limit := in.DisplayLimit
	if limit < 1 {
		limit = 5
	}
	shown := in.Trace.Differences
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, diff := range shown {
		fmt.Fprintf(b, "**Line %d:**\n", diff.Index)
		fmt.Fprintf(b, "- Reference: `%s`\n", lineOrMissing(diff.Reference))
		fmt.Fprintf(b, "- Candidate: `%s`\n\n", lineOrMissing(diff.Candidate))
	}
	if remaining := len(in.Trace.Differences) - limit; remaining > 0 {
		fmt.Fprintf(b, "... and %d more differences\n", remaining)
	}
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func leaderLabel(l models.Leader) string {
	if l == models.LeaderSingle {
		return "(single)"
	}
	return string(l)
}

func cellValue(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func presentValue(v int, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

func lineOrMissing(line *string) string {
	if line == nil {
		return "(missing)"
	}
	return *line
}

// groupDigits formats an integer with thousands separators.
func groupDigits(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
