package compare

import (
	"testing"

	"github.com/harrison/xraycheck/internal/models"
)

func table(entries map[models.Strain]map[models.Leader]int) models.TrickTable {
	t := make(models.TrickTable)
	for strain, row := range entries {
		for leader, v := range row {
			t.Set(strain, leader, v)
		}
	}
	return t
}

func TestTablesMatch(t *testing.T) {
	a := table(map[models.Strain]map[models.Leader]int{
		models.StrainNoTrump: {models.LeaderWest: 5, models.LeaderNorth: 6},
		models.StrainSpades:  {models.LeaderSingle: 9},
	})
	b := table(map[models.Strain]map[models.Leader]int{
		models.StrainNoTrump: {models.LeaderWest: 5, models.LeaderNorth: 6},
		models.StrainSpades:  {models.LeaderSingle: 9},
	})

	result := Tables(a, b)
	if !result.Match {
		t.Error("Match = false, want true")
	}
	if len(result.Differences) != 0 {
		t.Errorf("Differences = %v, want none", result.Differences)
	}
}

func TestTablesBothEmpty(t *testing.T) {
	result := Tables(make(models.TrickTable), make(models.TrickTable))
	if !result.Match {
		t.Error("Match = false for two empty tables, want true")
	}
}

func TestTablesValueDifference(t *testing.T) {
	a := table(map[models.Strain]map[models.Leader]int{
		models.StrainHearts: {models.LeaderWest: 7},
	})
	b := table(map[models.Strain]map[models.Leader]int{
		models.StrainHearts: {models.LeaderWest: 9},
	})

	result := Tables(a, b)
	if result.Match {
		t.Error("Match = true, want false")
	}
	if len(result.Differences) != 1 {
		t.Fatalf("got %d differences, want 1", len(result.Differences))
	}

	diff := result.Differences[0]
	if diff.Strain != models.StrainHearts || diff.Leader != models.LeaderWest {
		t.Errorf("difference at %s/%s, want H/W", diff.Strain, diff.Leader)
	}
	if diff.Reference == nil || *diff.Reference != 7 {
		t.Errorf("Reference = %v, want 7", diff.Reference)
	}
	if diff.Candidate == nil || *diff.Candidate != 9 {
		t.Errorf("Candidate = %v, want 9", diff.Candidate)
	}
	if diff.Delta == nil || *diff.Delta != 2 {
		t.Errorf("Delta = %v, want +2", diff.Delta)
	}
}

// TestTablesMissingVsZero verifies a zero trick count compared against an
// absent entry is a difference with a nil side, never a silent match.
func TestTablesMissingVsZero(t *testing.T) {
	a := table(map[models.Strain]map[models.Leader]int{
		models.StrainNoTrump: {models.LeaderWest: 0},
	})
	b := make(models.TrickTable)

	result := Tables(a, b)
	if result.Match {
		t.Fatal("Match = true, want false for zero-vs-missing")
	}
	if len(result.Differences) != 1 {
		t.Fatalf("got %d differences, want 1", len(result.Differences))
	}

	diff := result.Differences[0]
	if diff.Reference == nil || *diff.Reference != 0 {
		t.Errorf("Reference = %v, want 0", diff.Reference)
	}
	if diff.Candidate != nil {
		t.Errorf("Candidate = %v, want nil (missing)", *diff.Candidate)
	}
	if diff.Delta != nil {
		t.Errorf("Delta = %v, want nil when one side is missing", *diff.Delta)
	}
}

// TestTablesSymmetry verifies compare(A,B) and compare(B,A) report the same
// differing keys with negated deltas.
func TestTablesSymmetry(t *testing.T) {
	a := table(map[models.Strain]map[models.Leader]int{
		models.StrainNoTrump:  {models.LeaderWest: 5, models.LeaderNorth: 6},
		models.StrainDiamonds: {models.LeaderEast: 2},
	})
	b := table(map[models.Strain]map[models.Leader]int{
		models.StrainNoTrump: {models.LeaderWest: 8, models.LeaderNorth: 6},
		models.StrainClubs:   {models.LeaderSouth: 4},
	})

	forward := Tables(a, b)
	backward := Tables(b, a)

	if len(forward.Differences) != len(backward.Differences) {
		t.Fatalf("forward has %d differences, backward has %d",
			len(forward.Differences), len(backward.Differences))
	}

	for i, fd := range forward.Differences {
		bd := backward.Differences[i]
		if fd.Strain != bd.Strain || fd.Leader != bd.Leader {
			t.Errorf("difference %d: forward %s/%s vs backward %s/%s",
				i, fd.Strain, fd.Leader, bd.Strain, bd.Leader)
		}
		if fd.Delta != nil && bd.Delta != nil && *fd.Delta != -*bd.Delta {
			t.Errorf("difference %d: delta %d not negated (%d)", i, *fd.Delta, *bd.Delta)
		}
		if (fd.Delta == nil) != (bd.Delta == nil) {
			t.Errorf("difference %d: delta nil-ness asymmetric", i)
		}
	}
}

// TestTablesCanonicalOrder verifies differences come out in the fixed
// strain/leader order regardless of table insertion order.
func TestTablesCanonicalOrder(t *testing.T) {
	a := make(models.TrickTable)
	a.Set(models.StrainClubs, models.LeaderSingle, 1)
	a.Set(models.StrainNoTrump, models.LeaderSouth, 2)
	a.Set(models.StrainNoTrump, models.LeaderWest, 3)
	a.Set(models.StrainSpades, models.LeaderEast, 4)

	result := Tables(a, make(models.TrickTable))

	want := []struct {
		strain models.Strain
		leader models.Leader
	}{
		{models.StrainNoTrump, models.LeaderWest},
		{models.StrainNoTrump, models.LeaderSouth},
		{models.StrainSpades, models.LeaderEast},
		{models.StrainClubs, models.LeaderSingle},
	}

	if len(result.Differences) != len(want) {
		t.Fatalf("got %d differences, want %d", len(result.Differences), len(want))
	}
	for i, w := range want {
		d := result.Differences[i]
		if d.Strain != w.strain || d.Leader != w.leader {
			t.Errorf("difference %d = %s/%s, want %s/%s",
				i, d.Strain, d.Leader, w.strain, w.leader)
		}
	}
}

func TestTablesDoesNotModifyInputs(t *testing.T) {
	a := table(map[models.Strain]map[models.Leader]int{
		models.StrainNoTrump: {models.LeaderWest: 5},
	})
	b := make(models.TrickTable)

	Tables(a, b)

	if got := a.Entries(); got != 1 {
		t.Errorf("reference table entries = %d after compare, want 1", got)
	}
	if len(b) != 0 {
		t.Errorf("candidate table grew rows during compare: %v", b)
	}
}
