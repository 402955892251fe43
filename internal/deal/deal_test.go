package deal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/xraycheck/internal/models"
)

// fullDeal is a legal 13-card deal in solver format.
const fullDeal = `AKQ2 AKQ2 AKQ 32
JT98 JT98 JT9 54  7654 7654 765 76
3 3 8432 AKQJT98
`

// endgameDeal is a legal 3-card ending.
const endgameDeal = `AKQ - - -
JT9 - - -  876 - - -
543 - - -
`

func writeDeal(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deal.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test deal: %v", err)
	}
	return path
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read("/nonexistent/deal.txt"); err == nil {
		t.Error("Read() should return error for missing file")
	}
}

func TestTricksPerHandFullDeal(t *testing.T) {
	d, err := Read(writeDeal(t, fullDeal))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := d.TricksPerHand(); got != 13 {
		t.Errorf("TricksPerHand() = %d, want 13", got)
	}
}

func TestTricksPerHandEndgame(t *testing.T) {
	d, err := Read(writeDeal(t, endgameDeal))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := d.TricksPerHand(); got != 3 {
		t.Errorf("TricksPerHand() = %d, want 3", got)
	}
}

// TestTricksPerHandShortFile verifies files with fewer than three lines
// default to a full deal rather than failing.
func TestTricksPerHandShortFile(t *testing.T) {
	d, err := Read(writeDeal(t, "AKQ2 AKQ2 AKQ 32\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got := d.TricksPerHand(); got != 13 {
		t.Errorf("TricksPerHand() = %d, want 13 (default)", got)
	}
}

func TestStem(t *testing.T) {
	d := &Deal{Path: "/some/dir/quick_test_8.txt"}
	if got := d.Stem(); got != "quick_test_8" {
		t.Errorf("Stem() = %q, want %q", got, "quick_test_8")
	}
}

func TestBuildRequestAll(t *testing.T) {
	d, err := Read(writeDeal(t, endgameDeal))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	content, warning := d.BuildRequest("", "")
	if warning != "" {
		t.Errorf("warning = %q, want none", warning)
	}
	want := "AKQ - - -\nJT9 - - -  876 - - -\n543 - - -\n"
	if content != want {
		t.Errorf("content = %q, want %q", content, want)
	}
}

func TestBuildRequestStrainAndLeader(t *testing.T) {
	d, err := Read(writeDeal(t, endgameDeal))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	content, warning := d.BuildRequest(models.StrainSpades, models.LeaderWest)
	if warning != "" {
		t.Errorf("warning = %q, want none", warning)
	}
	if !strings.HasSuffix(content, "543 - - -\nS\nW\n") {
		t.Errorf("content = %q, want strain then leader appended", content)
	}
}

// TestBuildRequestLeaderWithoutStrain verifies the default strain is
// inserted before the leader line, with a warning.
func TestBuildRequestLeaderWithoutStrain(t *testing.T) {
	d, err := Read(writeDeal(t, endgameDeal))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	content, warning := d.BuildRequest("", models.LeaderNorth)
	if warning == "" {
		t.Error("expected a warning for leader without strain")
	}
	if !strings.HasSuffix(content, "\nN\nN\n") {
		t.Errorf("content = %q, want default strain N inserted before leader N", content)
	}
}

// TestBuildRequestDropsExistingTrailer verifies strain/leader lines already
// in the file are replaced, not stacked.
func TestBuildRequestDropsExistingTrailer(t *testing.T) {
	d, err := Read(writeDeal(t, endgameDeal+"H\nE\n"))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	content, _ := d.BuildRequest(models.StrainClubs, "")
	if strings.Contains(content, "H") || strings.Contains(content, "E") {
		t.Errorf("content = %q, want old strain/leader lines dropped", content)
	}
	if !strings.HasSuffix(content, "\nC\n") {
		t.Errorf("content = %q, want new strain appended", content)
	}
}

func TestValidateLegalDeals(t *testing.T) {
	for _, content := range []string{fullDeal, endgameDeal} {
		d, err := Read(writeDeal(t, content))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		result := d.Validate()
		if !result.Valid() {
			t.Errorf("Validate() errors = %v, want none", result.Errors)
		}
	}
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "too few lines",
			content: "AKQ - - -\nJT9 - - -  876 - - -\n",
			wantErr: "want at least 3",
		},
		{
			name:    "wrong group count north",
			content: "AKQ - -\nJT9 - - -  876 - - -\n543 - - -\n",
			wantErr: "north line has 3 suit groups",
		},
		{
			name:    "wrong group count middle",
			content: "AKQ - - -\nJT9 - - -  876 - -\n543 - - -\n",
			wantErr: "west+east line has 7 suit groups",
		},
		{
			name:    "illegal character",
			content: "AKX - - -\nJT9 - - -  876 - - -\n543 - - -\n",
			wantErr: "illegal character",
		},
		{
			name:    "unequal hand sizes",
			content: "AKQ2 - - -\nJT9 - - -  876 - - -\n543 - - -\n",
			wantErr: "cards",
		},
		{
			name:    "duplicate card",
			content: "AKQ - - -\nAT9 - - -  876 - - -\n543 - - -\n",
			wantErr: "dealt to both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Read(writeDeal(t, tt.content))
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			result := d.Validate()
			if result.Valid() {
				t.Fatal("Validate() reported valid, want errors")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v, want one containing %q", result.Errors, tt.wantErr)
			}
		})
	}
}
