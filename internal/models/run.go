package models

import "time"

// Run verdict constants
const (
	VerdictMatch     = "MATCH"      // Both solvers agree on every entry
	VerdictDiffer    = "DIFFER"     // At least one entry disagrees or is missing
	VerdictNoResults = "NO_RESULTS" // One or both sides decoded no result lines
)

// Trace verdict constants. Empty string means tracing was not enabled.
const (
	TraceVerdictMatch    = "MATCH"
	TraceVerdictDiverged = "DIVERGED"
)

// RunRecord is one row of the comparison history: the parameters and
// verdicts of a single comparison invocation. The run folder holds the full
// artifacts (captures, traces, report); the record exists so past runs can
// be listed and located without re-reading every folder.
type RunRecord struct {
	ID                  int64
	UUID                string
	Number              int    // run folder number (NNNN prefix)
	Folder              string // run folder name
	DealFile            string
	Strain              string // requested strain, "" = all
	Leader              string // requested leader, "" = all
	TricksPerHand       int
	Verdict             string // MATCH / DIFFER / NO_RESULTS
	DifferenceCount     int
	TraceVerdict        string // "" when tracing was disabled
	FirstDivergence     int    // 1-based, 0 = none
	ReferenceIterations int64
	CandidateIterations int64
	CreatedAt           time.Time
}
