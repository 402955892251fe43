// Package parser decodes raw double-dummy solver output into the canonical
// trick table used for comparison.
//
// Both solver variants report, for a given leader, the trick count of the
// NON-leading partnership: when West or East leads the number is already
// North-South's tricks, and when North or South leads the number is
// East-West's tricks and must be inverted against the tricks per hand. This
// is a fixed external-protocol fact, not a heuristic. The two dialects share
// all of the semantic logic; only the line-matching patterns may differ.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/harrison/xraycheck/internal/models"
)

// Dialect identifies which solver's surface output format to match.
type Dialect int

const (
	// DialectUnknown represents an unknown or unsupported output format
	DialectUnknown Dialect = iota
	// DialectReference matches the reference solver's output format
	DialectReference
	// DialectCandidate matches the candidate solver's output format
	DialectCandidate
)

// String returns the string representation of the Dialect
func (d Dialect) String() string {
	switch d {
	case DialectReference:
		return "reference"
	case DialectCandidate:
		return "candidate"
	default:
		return "unknown"
	}
}

// linePatterns holds the two result-line shapes for one dialect.
type linePatterns struct {
	single *regexp.Regexp // "<strain> <tricks> <time>s ..."
	multi  *regexp.Regexp // "<strain> <w> <e> <n> <s> <time>s ..."
}

// Both solvers currently print result lines in the same column layout, so
// the dialects share patterns. Any future surface drift (spacing, trailing
// annotations) belongs here, never in the transformation logic below.
var dialectPatterns = map[Dialect]linePatterns{
	DialectReference: {
		single: regexp.MustCompile(`^([NSHDC])\s+(\d+)\s+([\d.]+)\s*s`),
		multi:  regexp.MustCompile(`^([NSHDC])\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+([\d.]+)\s*s`),
	},
	DialectCandidate: {
		single: regexp.MustCompile(`^([NSHDC])\s+(\d+)\s+([\d.]+)\s*s`),
		multi:  regexp.MustCompile(`^([NSHDC])\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+([\d.]+)\s*s`),
	},
}

var iterationsPattern = regexp.MustCompile(`iterations=(\d+)`)

// OutputParser decodes one solver's raw output. Create one per dialect with
// NewOutputParser; instances are stateless and safe for reuse.
type OutputParser struct {
	dialect  Dialect
	patterns linePatterns
}

// NewOutputParser creates a parser for the specified solver dialect.
// Returns an error if the dialect is unknown.
func NewOutputParser(dialect Dialect) (*OutputParser, error) {
	patterns, ok := dialectPatterns[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect: %v", dialect)
	}
	return &OutputParser{dialect: dialect, patterns: patterns}, nil
}

// Parse decodes raw solver output (stdout and stderr concatenated, any line
// order) into a SolverResult. tricksPerHand must be positive; it is needed
// to invert North/South-lead values into North-South tricks.
//
// Decoding never fails on content. Lines matching neither result shape
// (banners, suit-symbol hand diagrams, performance lines) are silently
// skipped, and a capture with no result lines at all decodes to an empty
// table, which callers detect via Tricks.IsEmpty(). That covers upstream
// timeouts, whose captures hold no usable output.
func (p *OutputParser) Parse(raw string, tricksPerHand int) (*models.SolverResult, error) {
	if tricksPerHand < 1 {
		return nil, fmt.Errorf("tricks per hand must be positive, got %d", tricksPerHand)
	}

	result := &models.SolverResult{
		Tricks: make(models.TrickTable),
	}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if isNoiseLine(line) {
			// Performance lines still contribute telemetry.
			if strings.HasPrefix(line, "[PERF") {
				if m := iterationsPattern.FindStringSubmatch(line); m != nil {
					n, err := strconv.ParseInt(m[1], 10, 64)
					if err == nil {
						result.Iterations += n
					}
				}
			}
			continue
		}

		// Single leader: "N  9  0.00 s 0.0 M". The value is stored exactly
		// as reported under the single sentinel; the requesting context
		// already fixed a known leader (see models.LeaderSingle).
		if m := p.patterns.single.FindStringSubmatch(line); m != nil {
			strain := models.Strain(m[1])
			tricks, _ := strconv.Atoi(m[2])
			result.Tricks.Set(strain, models.LeaderSingle, tricks)
			result.SolveTime += parseSeconds(m[3])
			continue
		}

		// All leaders on one line, values in W, E, N, S order:
		// "N  1  1  5  5  0.00 s 3728.0 M". W/E entries are already
		// North-South tricks; N/S entries are East-West tricks and are
		// inverted.
		if m := p.patterns.multi.FindStringSubmatch(line); m != nil {
			strain := models.Strain(m[1])
			w, _ := strconv.Atoi(m[2])
			e, _ := strconv.Atoi(m[3])
			n, _ := strconv.Atoi(m[4])
			s, _ := strconv.Atoi(m[5])

			result.Tricks.Set(strain, models.LeaderWest, w)
			result.Tricks.Set(strain, models.LeaderEast, e)
			result.Tricks.Set(strain, models.LeaderNorth, tricksPerHand-n)
			result.Tricks.Set(strain, models.LeaderSouth, tricksPerHand-s)
			result.SolveTime += parseSeconds(m[6])
			continue
		}
	}

	return result, nil
}

// isNoiseLine reports whether a line is recognizably diagnostic output:
// performance lines and suit-symbol hand diagrams. Other unrecognized lines
// are dropped by simply matching neither result pattern.
func isNoiseLine(line string) bool {
	if strings.HasPrefix(line, "[PERF") {
		return true
	}
	return strings.ContainsAny(line, "♠♥♦♣")
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
