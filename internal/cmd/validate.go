package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/xraycheck/internal/deal"
	"github.com/harrison/xraycheck/internal/fileutil"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <deal-file-or-directory>...",
		Short: "Validate one or more deal files",
		Long: `Parse and validate deal files, checking for:
  - Line and suit group counts
  - Illegal card characters
  - Unequal hand sizes
  - Duplicate cards within a suit

Supports multiple input modes:
  - Single file: xraycheck validate deal.txt
  - Directory: xraycheck validate deals/ (scans *.txt files)
  - Multiple files: xraycheck validate deal1.txt deal2.txt

Exit code: 0 if valid, 1 if errors found`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateDealsWithOutput(args, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	return cmd
}

// validateDealsWithOutput validates deal files with custom output writer (for testing)
func validateDealsWithOutput(paths []string, output io.Writer) error {
	files, err := collectDealFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no deal files found")
	}

	invalid := 0
	for _, file := range files {
		d, err := deal.Read(file)
		if err != nil {
			fmt.Fprintf(output, "❌ %s: %v\n", file, err)
			invalid++
			continue
		}

		result := d.Validate()
		if result.Valid() {
			fmt.Fprintf(output, "✅ %s (%d tricks per hand)\n", file, d.TricksPerHand())
		} else {
			fmt.Fprintf(output, "❌ %s\n", file)
			for _, e := range result.Errors {
				fmt.Fprintf(output, "    error: %s\n", e)
			}
			invalid++
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(output, "    warning: %s\n", w)
		}
	}

	fmt.Fprintf(output, "\n%d file(s) checked, %d invalid\n", len(files), invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid deal file(s)", invalid)
	}
	return nil
}

// collectDealFiles expands directory arguments into their .txt files and
// keeps file arguments as given.
func collectDealFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		result, err := fileutil.ScanDirectory(path, fileutil.ScanOptions{
			Extensions: []string{".txt"},
		})
		if err != nil {
			return nil, err
		}
		files = append(files, result.Files...)
	}
	return files, nil
}
