// Package trace extracts instrumented search-trace lines from captured
// solver output. Trace lines are opaque, order-significant tokens: nothing
// is parsed out of them, and their emission order is exactly the property
// the comparison checks.
package trace

import (
	"fmt"
	"os"
	"strings"
)

// DefaultPrefix is the marker instrumented solvers put on search-trace lines.
const DefaultPrefix = "XRAY "

// EquivPrefix marks equivalence-class diagnostic lines. These are kept as
// run artifacts but never compared.
const EquivPrefix = "EQUIV:"

// Extract returns, in emission order, every line of raw that starts with
// prefix. Lines are returned whole, marker included, with no trimming: the
// differ compares exact text, so extraction must not alter it.
func Extract(raw string, prefix string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, prefix) {
			lines = append(lines, line)
		}
	}
	return lines
}

// ExtractFile reads a capture file and extracts its prefixed lines.
func ExtractFile(path string, prefix string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture file: %w", err)
	}
	return Extract(string(data), prefix), nil
}

// Lines splits a capture into all of its lines, dropping only a trailing
// empty line. Used when a whole file is to be compared verbatim instead of
// filtered by marker.
func Lines(raw string) []string {
	lines := strings.Split(raw, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// LinesFile reads a file and returns all of its lines.
func LinesFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capture file: %w", err)
	}
	return Lines(string(data)), nil
}
