package runs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFolderName(t *testing.T) {
	tests := []struct {
		number         int
		stem           string
		strain, leader string
		want           string
	}{
		{1, "quick_test_8", "", "", "0001_quick_test_8"},
		{12, "endgame", "N", "", "0012_endgame_N"},
		{345, "endgame", "S", "W", "0345_endgame_S_W"},
		{6789, "d", "", "E", "6789_d_E"},
	}

	for _, tt := range tests {
		got := FolderName(tt.number, tt.stem, tt.strain, tt.leader)
		if got != tt.want {
			t.Errorf("FolderName(%d, %q, %q, %q) = %q, want %q",
				tt.number, tt.stem, tt.strain, tt.leader, got, tt.want)
		}
	}
}

func TestAllocateSequential(t *testing.T) {
	runsDir := filepath.Join(t.TempDir(), "runs")

	first, err := Allocate(runsDir, "deal", "N", "")
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if first.Number != 1 || first.Name != "0001_deal_N" {
		t.Errorf("first = %+v, want number 1, name 0001_deal_N", first)
	}
	if info, err := os.Stat(first.Path); err != nil || !info.IsDir() {
		t.Errorf("run folder not created at %s", first.Path)
	}

	second, err := Allocate(runsDir, "deal", "", "W")
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if second.Number != 2 || second.Name != "0002_deal_W" {
		t.Errorf("second = %+v, want number 2, name 0002_deal_W", second)
	}
}

// TestAllocateSkipsForeignEntries verifies numbering ignores files and
// unnumbered folders in the runs directory.
func TestAllocateSkipsForeignEntries(t *testing.T) {
	runsDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(runsDir, "0041_old_run"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(runsDir, "notes"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runsDir, "0099_file_not_dir"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := Allocate(runsDir, "deal", "", "")
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if f.Number != 42 {
		t.Errorf("Number = %d, want 42 (follows highest numbered folder)", f.Number)
	}
}

func TestWriteArtifact(t *testing.T) {
	f, err := Allocate(t.TempDir(), "deal", "", "")
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}

	if err := f.WriteArtifact(ArtifactReferenceOutput, []byte("N 9 0.00 s\n")); err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(f.Path, ArtifactReferenceOutput))
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}
	if string(data) != "N 9 0.00 s\n" {
		t.Errorf("artifact content = %q", data)
	}
}

func TestListFolders(t *testing.T) {
	runsDir := t.TempDir()
	for _, name := range []string{"0002_b", "0001_a", "0010_c", ".hidden", "junk"} {
		if err := os.MkdirAll(filepath.Join(runsDir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	folders, err := ListFolders(runsDir)
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}

	wantNumbers := []int{10, 2, 1}
	if len(folders) != len(wantNumbers) {
		t.Fatalf("got %d folders, want %d", len(folders), len(wantNumbers))
	}
	for i, want := range wantNumbers {
		if folders[i].Number != want {
			t.Errorf("folders[%d].Number = %d, want %d (newest first)", i, folders[i].Number, want)
		}
	}
}

func TestListFoldersMissingDir(t *testing.T) {
	folders, err := ListFolders(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ListFolders() error = %v, want nil for missing dir", err)
	}
	if folders != nil {
		t.Errorf("folders = %v, want nil", folders)
	}
}

func TestFindFolder(t *testing.T) {
	runsDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(runsDir, "0007_deal_N"), 0755); err != nil {
		t.Fatal(err)
	}

	f, err := FindFolder(runsDir, 7)
	if err != nil {
		t.Fatalf("FindFolder() error = %v", err)
	}
	if f.Name != "0007_deal_N" {
		t.Errorf("Name = %q, want %q", f.Name, "0007_deal_N")
	}

	if _, err := FindFolder(runsDir, 8); err == nil {
		t.Error("FindFolder() should return error for unknown number")
	}
}
