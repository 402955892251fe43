package report

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/harrison/xraycheck/internal/models"
)

// Summary is what can be recovered from a stored report without re-running
// the comparison: the verdicts and the run parameters.
type Summary struct {
	Verdict      string // models.VerdictMatch / VerdictDiffer / VerdictNoResults
	TraceVerdict string // models.TraceVerdictMatch / TraceVerdictDiverged, "" when tracing was off
	Parameters   map[string]string
}

// ReadSummary parses a stored report back into a Summary by walking its
// markdown AST: parameters come from the list under "Parameters", verdicts
// from the first paragraph under "Results Summary" and "Trace Comparison".
func ReadSummary(path string) (*Summary, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return parseSummary(source)
}

func parseSummary(source []byte) (*Summary, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	summary := &Summary{Parameters: make(map[string]string)}
	var section string
	var sectionHasVerdict bool

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok && heading.Level == 2 {
			section = nodeText(heading, source)
			sectionHasVerdict = false
			return ast.WalkSkipChildren, nil
		}

		switch section {
		case "Parameters":
			if item, ok := n.(*ast.ListItem); ok {
				key, value, found := strings.Cut(nodeText(item, source), ": ")
				if found {
					summary.Parameters[strings.TrimSpace(key)] = strings.TrimSpace(value)
				}
				return ast.WalkSkipChildren, nil
			}
		case "Results Summary":
			if _, ok := n.(*ast.Paragraph); ok && !sectionHasVerdict {
				sectionHasVerdict = true
				summary.Verdict = resultVerdict(nodeText(n, source))
				return ast.WalkSkipChildren, nil
			}
		case "Trace Comparison":
			if _, ok := n.(*ast.Paragraph); ok && !sectionHasVerdict {
				sectionHasVerdict = true
				summary.TraceVerdict = traceVerdict(nodeText(n, source))
				return ast.WalkSkipChildren, nil
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk report: %w", err)
	}

	if summary.Verdict == "" {
		return nil, fmt.Errorf("no results summary found in report")
	}
	return summary, nil
}

func resultVerdict(text string) string {
	switch {
	case strings.Contains(text, "No results"):
		return models.VerdictNoResults
	case strings.Contains(text, "Results DIFFER"):
		return models.VerdictDiffer
	case strings.Contains(text, "Results MATCH"):
		return models.VerdictMatch
	default:
		return ""
	}
}

func traceVerdict(text string) string {
	switch {
	case strings.Contains(text, "Traces DIVERGE"):
		return models.TraceVerdictDiverged
	case strings.Contains(text, "Traces MATCH"):
		return models.TraceVerdictMatch
	default:
		return ""
	}
}

// nodeText extracts the plain text of a node and all of its descendants.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	collectText(n, source, &buf)
	return buf.String()
}

func collectText(n ast.Node, source []byte, buf *bytes.Buffer) {
	if t, ok := n.(*ast.Text); ok {
		buf.Write(t.Segment.Value(source))
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(c, source, buf)
	}
}
