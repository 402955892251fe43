package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/harrison/xraycheck/internal/models"
)

func TestWarningDisplay(t *testing.T) {
	var buf bytes.Buffer
	w := Warning{
		Title:      "reference output contains no result lines",
		Message:    "The capture decodes to an empty table.",
		Files:      []string{"runs/0001_deal/reference_output.txt"},
		Suggestion: "Re-run with a longer timeout.",
	}
	w.Display(&buf)

	output := buf.String()
	for _, want := range []string{
		"Warning: reference output contains no result lines",
		"empty table",
		"Affected file:",
		"1. runs/0001_deal/reference_output.txt",
		"Suggestion:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestWarningPluralFiles(t *testing.T) {
	var buf bytes.Buffer
	Warning{Title: "t", Files: []string{"a", "b"}}.Display(&buf)
	if !strings.Contains(buf.String(), "Affected files:") {
		t.Errorf("output = %q, want plural file header", buf.String())
	}
}

func TestColorEnabledNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if ColorEnabled(&buf) {
		t.Error("ColorEnabled(buffer) = true, want false")
	}
}

func TestSummaryMatch(t *testing.T) {
	var buf bytes.Buffer
	Summary{Comparison: models.Comparison{Match: true}}.Print(&buf)
	if !strings.Contains(buf.String(), "Results MATCH") {
		t.Errorf("output = %q, want match verdict", buf.String())
	}
}

func TestSummaryDiffer(t *testing.T) {
	ref := 5
	s := Summary{
		Comparison: models.Comparison{
			Match: false,
			Differences: []models.Difference{
				{Strain: models.StrainNoTrump, Leader: models.LeaderWest, Reference: &ref, Candidate: nil},
			},
		},
		RunFolder: "runs/0007_deal",
	}

	var buf bytes.Buffer
	s.Print(&buf)

	output := buf.String()
	if !strings.Contains(output, "Results DIFFER") {
		t.Errorf("output = %q, want differ verdict", output)
	}
	if !strings.Contains(output, "N/W: reference=5, candidate=-") {
		t.Errorf("output = %q, want per-entry line with missing marker", output)
	}
	if !strings.Contains(output, "runs/0007_deal") {
		t.Errorf("output = %q, want run folder pointer", output)
	}
}

func TestSummaryEmptySides(t *testing.T) {
	var buf bytes.Buffer
	Summary{
		Comparison:     models.Comparison{Match: true},
		ReferenceEmpty: true,
	}.Print(&buf)

	output := buf.String()
	if !strings.Contains(output, "No results to compare") {
		t.Errorf("output = %q, want no-results verdict", output)
	}
	if !strings.Contains(output, "reference solver produced no result lines") {
		t.Errorf("output = %q, want side detail", output)
	}
}

func TestSummaryTraceVerdicts(t *testing.T) {
	var buf bytes.Buffer
	Summary{
		Comparison:     models.Comparison{Match: true},
		Trace:          &models.TraceComparison{Match: true},
		TraceLineCount: 250,
	}.Print(&buf)
	if !strings.Contains(buf.String(), "Traces MATCH (250 lines)") {
		t.Errorf("output = %q, want trace match line", buf.String())
	}

	buf.Reset()
	Summary{
		Comparison: models.Comparison{Match: true},
		Trace:      &models.TraceComparison{Match: false, FirstDivergence: 17},
	}.Print(&buf)
	if !strings.Contains(buf.String(), "Traces DIVERGE at line 17") {
		t.Errorf("output = %q, want trace divergence line", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(nil); got != "-" {
		t.Errorf("FormatValue(nil) = %q, want %q", got, "-")
	}
	zero := 0
	if got := FormatValue(&zero); got != "0" {
		t.Errorf("FormatValue(0) = %q, want %q", got, "0")
	}
}
