package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/xraycheck/internal/models"
)

// ColorEnabled reports whether out is a terminal that should get colored
// output. Only os.Stdout and os.Stderr can qualify; any other writer
// (buffers in tests, pipes, report files) gets plain text.
func ColorEnabled(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	if f != os.Stdout && f != os.Stderr {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Summary is the console verdict block printed after a comparison run.
type Summary struct {
	Comparison     models.Comparison
	Trace          *models.TraceComparison // nil when tracing was disabled
	ReferenceEmpty bool
	CandidateEmpty bool
	TraceLineCount int // reference trace length, for the match message
	RunFolder      string
}

// Print writes the verdict block to out, colored when out is a terminal.
func (s Summary) Print(out io.Writer) {
	useColor := ColorEnabled(out)

	switch {
	case s.ReferenceEmpty || s.CandidateEmpty:
		fmt.Fprintln(out, paint(useColor, color.FgYellow, "⚠️  No results to compare"))
		if s.ReferenceEmpty {
			fmt.Fprintln(out, "   reference solver produced no result lines")
		}
		if s.CandidateEmpty {
			fmt.Fprintln(out, "   candidate solver produced no result lines")
		}
	case s.Comparison.Match:
		fmt.Fprintln(out, paint(useColor, color.FgGreen, "✅ Results MATCH"))
	default:
		fmt.Fprintln(out, paint(useColor, color.FgRed, "❌ Results DIFFER"))
		for _, diff := range s.Comparison.Differences {
			fmt.Fprintf(out, "   %s/%s: reference=%s, candidate=%s\n",
				diff.Strain, leaderLabel(diff.Leader),
				FormatValue(diff.Reference), FormatValue(diff.Candidate))
		}
	}

	if s.Trace != nil {
		if s.Trace.Match {
			fmt.Fprintln(out, paint(useColor, color.FgGreen,
				fmt.Sprintf("✅ Traces MATCH (%d lines)", s.TraceLineCount)))
		} else {
			fmt.Fprintln(out, paint(useColor, color.FgRed,
				fmt.Sprintf("❌ Traces DIVERGE at line %d", s.Trace.FirstDivergence)))
		}
	}

	if s.RunFolder != "" {
		fmt.Fprintf(out, "\nFull results in: %s\n", s.RunFolder)
	}
}

// FormatValue renders a possibly-missing trick count for display. Missing
// entries show as "-" so they cannot be mistaken for a zero trick count.
func FormatValue(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// leaderLabel renders the single sentinel as "(single)" in output, matching
// the report tables.
func leaderLabel(l models.Leader) string {
	if l == models.LeaderSingle {
		return "(single)"
	}
	return string(l)
}

func paint(useColor bool, attr color.Attribute, s string) string {
	if !useColor {
		return s
	}
	return color.New(attr).Sprint(s)
}
