package models

import "fmt"

// Strain represents the trump suit of a deal, or no-trump.
// Note that StrainNoTrump shares the letter "N" with the north seat;
// the two enums are distinct types so they cannot be mixed up in code.
type Strain string

const (
	StrainNoTrump  Strain = "N"
	StrainSpades   Strain = "S"
	StrainHearts   Strain = "H"
	StrainDiamonds Strain = "D"
	StrainClubs    Strain = "C"
)

// StrainOrder is the canonical iteration order for strains. Reports and
// difference lists always follow this order so output is reproducible.
var StrainOrder = []Strain{StrainNoTrump, StrainSpades, StrainHearts, StrainDiamonds, StrainClubs}

// ParseStrain validates a strain symbol.
func ParseStrain(s string) (Strain, error) {
	switch Strain(s) {
	case StrainNoTrump, StrainSpades, StrainHearts, StrainDiamonds, StrainClubs:
		return Strain(s), nil
	default:
		return "", fmt.Errorf("invalid strain %q, must be one of: N, S, H, D, C", s)
	}
}

// Leader represents the seat that leads the first card, or LeaderSingle
// when the solver reported a single result without naming the leader.
type Leader string

const (
	LeaderWest  Leader = "W"
	LeaderNorth Leader = "N"
	LeaderEast  Leader = "E"
	LeaderSouth Leader = "S"

	// LeaderSingle marks a single-leader result line. The stored value is
	// exactly as reported; its partnership orientation depends on which
	// leader the caller actually requested, information not present in the
	// solver output itself. Callers must track the requested leader out of
	// band.
	LeaderSingle Leader = "single"
)

// LeaderOrder is the canonical iteration order for leaders.
var LeaderOrder = []Leader{LeaderWest, LeaderNorth, LeaderEast, LeaderSouth, LeaderSingle}

// ParseLeader validates a leader symbol. LeaderSingle is not accepted here:
// it is a decoder-internal sentinel, never a caller request.
func ParseLeader(s string) (Leader, error) {
	switch Leader(s) {
	case LeaderWest, LeaderNorth, LeaderEast, LeaderSouth:
		return Leader(s), nil
	default:
		return "", fmt.Errorf("invalid leader %q, must be one of: W, N, E, S", s)
	}
}

// TrickTable is the canonical strain → leader → North-South trick count
// mapping both solver outputs are normalized into. Values lie in
// [0, tricksPerHand]. It has mapping semantics: comparison is independent
// of insertion order, and the canonical orders above apply only when
// iterating for output.
type TrickTable map[Strain]map[Leader]int

// Set stores a trick count, creating the strain row if needed.
func (t TrickTable) Set(strain Strain, leader Leader, tricks int) {
	row, ok := t[strain]
	if !ok {
		row = make(map[Leader]int)
		t[strain] = row
	}
	row[leader] = tricks
}

// Get returns the trick count for a (strain, leader) pair and whether the
// entry exists. Absence is distinct from a zero trick count.
func (t TrickTable) Get(strain Strain, leader Leader) (int, bool) {
	row, ok := t[strain]
	if !ok {
		return 0, false
	}
	v, ok := row[leader]
	return v, ok
}

// IsEmpty reports whether the table holds no entries at all. An empty table
// is the normal outcome of decoding output from a timed-out or crashed
// solver run, not an error.
func (t TrickTable) IsEmpty() bool {
	for _, row := range t {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Entries counts the (strain, leader) pairs present in the table.
func (t TrickTable) Entries() int {
	n := 0
	for _, row := range t {
		n += len(row)
	}
	return n
}

// SolverResult is the decoded form of one solver's raw output: the
// normalized trick table plus auxiliary telemetry pulled from performance
// lines. Telemetry is surfaced for reporting only and never participates in
// the correctness comparison.
type SolverResult struct {
	Tricks     TrickTable
	Iterations int64   // sum of iterations=<N> fields on performance lines
	SolveTime  float64 // sum of the time column of recognized result lines, seconds
}

// Difference describes one (strain, leader) pair on which the two tables
// disagree. A nil Reference or Candidate means the entry is missing on that
// side; nil is never conflated with a zero trick count. Delta is
// candidate − reference and is nil unless both sides are present.
type Difference struct {
	Strain    Strain
	Leader    Leader
	Reference *int
	Candidate *int
	Delta     *int
}

// Comparison is the result of diffing two canonical trick tables.
// Differences are emitted in canonical strain/leader order.
type Comparison struct {
	Match       bool
	Differences []Difference
}

// TraceDifference records a mismatch at one position of two aligned trace
// sequences. A nil side means that sequence had no line at the index.
type TraceDifference struct {
	Index     int // 1-based
	Reference *string
	Candidate *string
}

// TraceComparison is the result of diffing two ordered trace-line
// sequences. FirstDivergence is the smallest 1-based index at which the
// sequences differ, or 0 when they are identical. Differences is uncapped;
// truncating for display is the presenter's concern.
type TraceComparison struct {
	Match           bool
	FirstDivergence int
	Differences     []TraceDifference
}
