package compare

import "github.com/harrison/xraycheck/internal/models"

// Traces compares two ordered trace-line sequences position by position.
//
// Alignment is strictly by index: the instrumented solvers emit one trace
// line per search iteration in lockstep, so position i of one sequence
// corresponds to position i of the other. This is a deliberate
// simplification, not a diff algorithm; if a future solver variant reorders
// or buffers its trace output, every position from the reorder onward will
// report as divergent, which is the honest answer since bit-exact ordering
// is the property under test.
//
// Lines are compared by exact text equality, with no normalization or
// whitespace trimming: a cosmetic difference indicates real formatting or
// semantic drift worth surfacing. When the sequences have unequal length,
// the tail positions of the longer one are differences with a nil entry for
// the shorter side. FirstDivergence is 1-based; Differences holds every
// mismatched index in ascending order, uncapped.
func Traces(reference, candidate []string) models.TraceComparison {
	result := models.TraceComparison{Match: true}

	max := len(reference)
	if len(candidate) > max {
		max = len(candidate)
	}

	for i := 0; i < max; i++ {
		var refLine, candLine *string
		if i < len(reference) {
			v := reference[i]
			refLine = &v
		}
		if i < len(candidate) {
			v := candidate[i]
			candLine = &v
		}

		if refLine != nil && candLine != nil && *refLine == *candLine {
			continue
		}

		result.Match = false
		if result.FirstDivergence == 0 {
			result.FirstDivergence = i + 1
		}
		result.Differences = append(result.Differences, models.TraceDifference{
			Index:     i + 1,
			Reference: refLine,
			Candidate: candLine,
		})
	}

	return result
}
