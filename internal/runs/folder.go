// Package runs manages comparison run artifacts: numbered run folders that
// hold the inputs, captures, traces and report of one invocation, and a
// SQLite history of past runs.
package runs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/harrison/xraycheck/internal/filelock"
)

// lockFileName guards folder-number allocation across concurrent
// invocations sharing one runs directory.
const lockFileName = ".alloc.lock"

// Standard artifact file names inside a run folder.
const (
	ArtifactInput           = "input.txt"
	ArtifactReferenceOutput = "reference_output.txt"
	ArtifactCandidateOutput = "candidate_output.txt"
	ArtifactReferenceTrace  = "reference_trace.txt"
	ArtifactCandidateTrace  = "candidate_trace.txt"
	ArtifactReferenceEquiv  = "reference_equiv.txt"
	ArtifactCandidateEquiv  = "candidate_equiv.txt"
	ArtifactReport          = "comparison.md"
)

// Folder is one allocated run folder.
type Folder struct {
	Number int
	Name   string
	Path   string
}

// FolderName composes the run folder name: a zero-padded number, the deal
// file stem, and the requested strain and leader when present.
func FolderName(number int, dealStem, strain, leader string) string {
	name := fmt.Sprintf("%04d_%s", number, dealStem)
	if strain != "" {
		name += "_" + strain
	}
	if leader != "" {
		name += "_" + leader
	}
	return name
}

// Allocate creates the next numbered run folder under runsDir. Allocation
// holds a file lock while scanning for the highest existing number and
// creating the folder, so concurrent invocations cannot claim the same
// number.
func Allocate(runsDir, dealStem, strain, leader string) (*Folder, error) {
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runs directory: %w", err)
	}

	lock := filelock.NewFileLock(filepath.Join(runsDir, lockFileName))
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	number, err := nextNumber(runsDir)
	if err != nil {
		return nil, err
	}

	name := FolderName(number, dealStem, strain, leader)
	path := filepath.Join(runsDir, name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run folder: %w", err)
	}

	return &Folder{Number: number, Name: name, Path: path}, nil
}

// WriteArtifact writes one artifact file into the run folder atomically.
func (f *Folder) WriteArtifact(name string, data []byte) error {
	if err := filelock.AtomicWrite(filepath.Join(f.Path, name), data); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	return nil
}

// ReportPath returns the path of the run's comparison report.
func (f *Folder) ReportPath() string {
	return filepath.Join(f.Path, ArtifactReport)
}

// nextNumber scans existing run folders for the highest NNNN prefix.
func nextNumber(runsDir string) (int, error) {
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read runs directory: %w", err)
	}

	max := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if n, ok := folderNumber(entry.Name()); ok && n > max {
			max = n
		}
	}
	return max + 1, nil
}

// folderNumber extracts the leading run number from a folder name.
func folderNumber(name string) (int, bool) {
	if len(name) < 4 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:4])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ListFolders returns all run folders under runsDir, newest first. It is
// the fallback source for runs listing when the history database is
// missing or empty.
func ListFolders(runsDir string) ([]Folder, error) {
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read runs directory: %w", err)
	}

	var folders []Folder
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		n, ok := folderNumber(entry.Name())
		if !ok {
			continue
		}
		folders = append(folders, Folder{
			Number: n,
			Name:   entry.Name(),
			Path:   filepath.Join(runsDir, entry.Name()),
		})
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Number > folders[j].Number })
	return folders, nil
}

// FindFolder locates the run folder with the given number.
func FindFolder(runsDir string, number int) (*Folder, error) {
	folders, err := ListFolders(runsDir)
	if err != nil {
		return nil, err
	}
	for i := range folders {
		if folders[i].Number == number {
			return &folders[i], nil
		}
	}
	return nil, fmt.Errorf("run %d not found in %s", number, runsDir)
}
