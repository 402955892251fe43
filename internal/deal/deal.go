// Package deal reads and validates solver-format deal files.
//
// A deal file holds three hand lines: North, then West and East on one
// line, then South. Each hand is four whitespace-separated suit groups in
// spades, hearts, diamonds, clubs order, with "-" marking a void. Optional
// fourth and fifth lines request a specific strain and leader.
package deal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/xraycheck/internal/models"
)

// Ranks are the legal card characters of a suit group.
const Ranks = "AKQJT98765432"

// FullHandTricks is the trick count of a complete 13-card deal, used as the
// fallback when a deal file is too short to count cards from.
const FullHandTricks = 13

// groupsPerHand is the number of suit groups each hand carries (S, H, D, C).
const groupsPerHand = 4

// Deal is a parsed deal file. Lines holds the trimmed non-empty lines in
// file order; the first three are the hand lines.
type Deal struct {
	Path  string
	Lines []string
}

// Read loads a deal file from disk.
func Read(path string) (*Deal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deal file: %w", err)
	}

	d := &Deal{Path: path}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		d.Lines = append(d.Lines, strings.TrimSpace(line))
	}
	if len(d.Lines) == 1 && d.Lines[0] == "" {
		d.Lines = nil
	}
	return d, nil
}

// Stem returns the deal file name without directory or extension, used to
// name run folders.
func (d *Deal) Stem() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TricksPerHand derives the tricks available per deal by counting the rank
// characters of the North hand (the first line). Files with fewer than
// three lines default to a full 13-trick deal.
func (d *Deal) TricksPerHand() int {
	if len(d.Lines) < 3 {
		return FullHandTricks
	}
	return countCards(d.Lines[0])
}

// BuildRequest renders the solver input for this deal with the requested
// strain and leader appended. Any strain/leader lines already present in
// the file are dropped first. The solver protocol requires a strain line
// before a leader line, so a leader request without a strain inserts the
// default no-trump strain; the returned warning reports that substitution.
// Empty strain and leader mean "test all".
func (d *Deal) BuildRequest(strain models.Strain, leader models.Leader) (content string, warning string) {
	lines := d.Lines
	if len(lines) > 3 {
		lines = lines[:3]
	}
	request := make([]string, len(lines))
	copy(request, lines)

	if strain != "" {
		request = append(request, string(strain))
	}
	if leader != "" {
		if strain == "" {
			request = append(request, string(models.StrainNoTrump))
			warning = fmt.Sprintf("leader %s requested without strain, defaulting strain to N (no-trump)", leader)
		}
		request = append(request, string(leader))
	}

	return strings.Join(request, "\n") + "\n", warning
}

// ValidationResult holds everything wrong (or suspicious) about a deal.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the deal passed without errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks the deal's structure: line and group counts, legal
// characters, equal hand sizes, and duplicate cards within a suit. It
// returns findings rather than stopping at the first problem, so one pass
// reports everything wrong with the file.
func (d *Deal) Validate() *ValidationResult {
	result := &ValidationResult{}

	if len(d.Lines) < 3 {
		result.Errors = append(result.Errors,
			fmt.Sprintf("deal has %d lines, want at least 3 (north, west+east, south)", len(d.Lines)))
		return result
	}

	hands := splitHands(d.Lines, result)
	if len(hands) != 4 {
		return result
	}

	checkHandContents(hands, result)
	checkHandSizes(hands, result)
	checkDuplicates(hands, result)
	return result
}

// hand is one seat's four suit groups.
type hand struct {
	seat   string
	groups []string
}

// splitHands tokenizes the three hand lines into West, North, East, South
// hands. The middle line carries West's four groups followed by East's.
func splitHands(lines []string, result *ValidationResult) []hand {
	north := strings.Fields(lines[0])
	westEast := strings.Fields(lines[1])
	south := strings.Fields(lines[2])

	ok := true
	if len(north) != groupsPerHand {
		result.Errors = append(result.Errors,
			fmt.Sprintf("north line has %d suit groups, want %d", len(north), groupsPerHand))
		ok = false
	}
	if len(westEast) != 2*groupsPerHand {
		result.Errors = append(result.Errors,
			fmt.Sprintf("west+east line has %d suit groups, want %d", len(westEast), 2*groupsPerHand))
		ok = false
	}
	if len(south) != groupsPerHand {
		result.Errors = append(result.Errors,
			fmt.Sprintf("south line has %d suit groups, want %d", len(south), groupsPerHand))
		ok = false
	}
	if !ok {
		return nil
	}

	return []hand{
		{seat: "west", groups: westEast[:groupsPerHand]},
		{seat: "north", groups: north},
		{seat: "east", groups: westEast[groupsPerHand:]},
		{seat: "south", groups: south},
	}
}

// checkHandContents verifies every suit group holds only rank characters or
// a single void marker.
func checkHandContents(hands []hand, result *ValidationResult) {
	suitNames := []string{"spades", "hearts", "diamonds", "clubs"}
	for _, h := range hands {
		for i, group := range h.groups {
			if group == "-" {
				continue
			}
			for _, c := range group {
				if !strings.ContainsRune(Ranks, toUpperRune(c)) {
					result.Errors = append(result.Errors,
						fmt.Sprintf("%s %s: illegal character %q in group %q", h.seat, suitNames[i], c, group))
				}
			}
		}
	}
}

// checkHandSizes verifies all four hands hold the same number of cards.
func checkHandSizes(hands []hand, result *ValidationResult) {
	counts := make([]int, len(hands))
	for i, h := range hands {
		counts[i] = countCards(strings.Join(h.groups, " "))
	}
	for i := 1; i < len(counts); i++ {
		if counts[i] != counts[0] {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s has %d cards but %s has %d", hands[i].seat, counts[i], hands[0].seat, counts[0]))
		}
	}
	if counts[0] > FullHandTricks {
		result.Errors = append(result.Errors,
			fmt.Sprintf("hands hold %d cards, more than the %d possible", counts[0], FullHandTricks))
	}
}

// checkDuplicates verifies no card appears twice within a suit across the
// four hands and flags oversized suits.
func checkDuplicates(hands []hand, result *ValidationResult) {
	suitNames := []string{"spades", "hearts", "diamonds", "clubs"}
	for suit := 0; suit < groupsPerHand; suit++ {
		seen := make(map[rune]string)
		total := 0
		for _, h := range hands {
			group := h.groups[suit]
			if group == "-" {
				continue
			}
			for _, c := range group {
				r := toUpperRune(c)
				if !strings.ContainsRune(Ranks, r) {
					continue // already reported by checkHandContents
				}
				total++
				if prev, dup := seen[r]; dup {
					result.Errors = append(result.Errors,
						fmt.Sprintf("%s of %s dealt to both %s and %s", string(r), suitNames[suit], prev, h.seat))
					continue
				}
				seen[r] = h.seat
			}
		}
		if total > len(Ranks) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s holds %d cards across hands, more than the %d in the suit", suitNames[suit], total, len(Ranks)))
		}
	}
}

// countCards counts rank characters in a line, ignoring voids and spacing.
func countCards(line string) int {
	count := 0
	for _, c := range line {
		if strings.ContainsRune(Ranks, toUpperRune(c)) {
			count++
		}
	}
	return count
}

func toUpperRune(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
