// Package compare diffs the normalized outputs of the two solvers: the
// canonical trick tables and, when tracing is enabled, the ordered trace
// sequences. Both comparisons are pure functions: they never modify their
// inputs and always return a structured result, leaving policy (exit codes,
// report handling) to the caller.
package compare

import "github.com/harrison/xraycheck/internal/models"

// Tables compares two canonical trick tables entry by entry.
//
// It walks the union of strains and leaders present in either table, in
// canonical order, so the difference list is deterministic regardless of
// how the tables were populated. A pair present on only one side is always
// a difference, carrying a nil value for the absent side and a nil delta;
// a zero trick count is never treated as absence. When both sides are
// present and differ, Delta = candidate − reference.
func Tables(reference, candidate models.TrickTable) models.Comparison {
	result := models.Comparison{Match: true}

	for _, strain := range models.StrainOrder {
		refRow := reference[strain]
		candRow := candidate[strain]
		if len(refRow) == 0 && len(candRow) == 0 {
			continue
		}

		for _, leader := range models.LeaderOrder {
			refVal, refOK := refRow[leader]
			candVal, candOK := candRow[leader]
			if !refOK && !candOK {
				continue
			}

			if refOK && candOK && refVal == candVal {
				continue
			}

			diff := models.Difference{Strain: strain, Leader: leader}
			if refOK {
				v := refVal
				diff.Reference = &v
			}
			if candOK {
				v := candVal
				diff.Candidate = &v
			}
			if refOK && candOK {
				d := candVal - refVal
				diff.Delta = &d
			}

			result.Match = false
			result.Differences = append(result.Differences, diff)
		}
	}

	return result
}
