package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func executeRuns(t *testing.T, args []string) (string, error) {
	t.Helper()
	cmd := NewRunsCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seedRun produces one archived run folder by running a comparison.
func seedRun(t *testing.T, runsDir string) {
	t.Helper()
	dir := t.TempDir()
	dealFile := writeFile(t, dir, "deal.txt", testDeal)
	ref := writeFile(t, dir, "ref.txt", "N 5 5 7 7 0.12 s\n")
	cand := writeFile(t, dir, "cand.txt", "N 5 5 7 7 0.34 s\n")

	if _, err := executeCompare(t, []string{
		ref, cand, "--deal", dealFile, "--strain", "N",
		"--runs-dir", runsDir, "--no-history",
	}); err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
}

func TestRunsListEmpty(t *testing.T) {
	output, err := executeRuns(t, []string{"list", "--runs-dir", t.TempDir()})
	if err != nil {
		t.Fatalf("runs list returned error for empty dir: %v", err)
	}
	if !strings.Contains(output, "No runs found.") {
		t.Errorf("Expected empty message, got: %s", output)
	}
}

func TestRunsListFolderFallback(t *testing.T) {
	runsDir := filepath.Join(t.TempDir(), "runs")
	seedRun(t, runsDir)

	output, err := executeRuns(t, []string{"list", "--runs-dir", runsDir})
	if err != nil {
		t.Fatalf("runs list returned error: %v", err)
	}
	if !strings.Contains(output, "0001_deal_N") {
		t.Errorf("Expected seeded run folder in listing, got: %s", output)
	}
}

func TestRunsShow(t *testing.T) {
	runsDir := filepath.Join(t.TempDir(), "runs")
	seedRun(t, runsDir)

	output, err := executeRuns(t, []string{"show", "1", "--runs-dir", runsDir})
	if err != nil {
		t.Fatalf("runs show returned error: %v", err)
	}
	if !strings.Contains(output, "Run 1 (0001_deal_N)") {
		t.Errorf("Expected run header, got: %s", output)
	}
	if !strings.Contains(output, "Verdict: MATCH") {
		t.Errorf("Expected verdict read back from report, got: %s", output)
	}
	if !strings.Contains(output, "Strain:") || !strings.Contains(output, "Tricks per hand:") {
		t.Errorf("Expected parameters read back from report, got: %s", output)
	}
}

func TestRunsShowFull(t *testing.T) {
	runsDir := filepath.Join(t.TempDir(), "runs")
	seedRun(t, runsDir)

	output, err := executeRuns(t, []string{"show", "1", "--full", "--runs-dir", runsDir})
	if err != nil {
		t.Fatalf("runs show --full returned error: %v", err)
	}
	if !strings.Contains(output, "# Comparison Report") {
		t.Errorf("Expected full stored report, got: %s", output)
	}
}

func TestRunsShowUnknownNumber(t *testing.T) {
	if _, err := executeRuns(t, []string{"show", "42", "--runs-dir", t.TempDir()}); err == nil {
		t.Error("runs show should return error for unknown run number")
	}
}

func TestRunsShowInvalidNumber(t *testing.T) {
	if _, err := executeRuns(t, []string{"show", "abc", "--runs-dir", t.TempDir()}); err == nil {
		t.Error("runs show should return error for non-numeric argument")
	}
}
