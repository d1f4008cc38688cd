package pkg

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// DuplicateInfo holds information about a file found to duplicate another.
type DuplicateInfo struct {
	KeptFile      string
	DiscardedFile string
	Reason        string
	Deleted       bool
}

// SkippedInfo records a file left in place because of an error.
type SkippedInfo struct {
	Path   string
	Reason string
}

// MoveInfo records one placement (performed, or planned in a dry run).
type MoveInfo struct {
	From   string
	To     string
	Source DateSource
}

// Summary collects the outcome of one run.
type Summary struct {
	DryRun bool

	Scanned    int // top-level candidates
	Organized  int
	Duplicates int
	Deleted    int // duplicates removed under the delete policy
	Skipped    int
	Existing   int // files already inside month folders

	Moves            []MoveInfo
	DuplicateEntries []DuplicateInfo
	SkippedEntries   []SkippedInfo
}

func (s *Summary) AddMove(m MoveInfo) {
	s.Organized++
	s.Moves = append(s.Moves, m)
}

func (s *Summary) AddDuplicate(d DuplicateInfo) {
	s.Duplicates++
	if d.Deleted {
		s.Deleted++
	}
	s.DuplicateEntries = append(s.DuplicateEntries, d)
}

func (s *Summary) AddSkipped(path string, err error) {
	s.Skipped++
	s.SkippedEntries = append(s.SkippedEntries, SkippedInfo{Path: path, Reason: err.Error()})
}

// Line is the one-line run summary printed at the end of every run.
func (s Summary) Line() string {
	prefix := ""
	if s.DryRun {
		prefix = "[DRY RUN] "
	}
	return fmt.Sprintf("%sRun Summary: Scanned: %d, Organized: %d, Duplicates: %d (deleted %d), Skipped: %d, Already organized: %d",
		prefix, s.Scanned, s.Organized, s.Duplicates, s.Deleted, s.Skipped, s.Existing)
}

// WriteSummary writes the full text report for s to w.
func WriteSummary(w io.Writer, s Summary) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Photo Organizing Report\n")
	fmt.Fprintf(&buf, "=======================\n\n")
	if s.DryRun {
		fmt.Fprintf(&buf, "Dry run: no files were changed.\n\n")
	}
	fmt.Fprintf(&buf, "Summary:\n")
	fmt.Fprintf(&buf, "  - Total files scanned: %d\n", s.Scanned)
	fmt.Fprintf(&buf, "  - Files organized: %d\n", s.Organized)
	fmt.Fprintf(&buf, "  - Duplicate files found: %d\n", s.Duplicates)
	fmt.Fprintf(&buf, "  - Duplicate files deleted: %d\n", s.Deleted)
	fmt.Fprintf(&buf, "  - Files skipped: %d\n", s.Skipped)
	fmt.Fprintf(&buf, "  - Files already organized: %d\n", s.Existing)

	if len(s.Moves) > 0 {
		fmt.Fprintf(&buf, "\nOrganized Files:\n")
		for _, m := range s.Moves {
			fmt.Fprintf(&buf, "  - %s -> %s (%s)\n", m.From, m.To, m.Source)
		}
	}

	if len(s.DuplicateEntries) > 0 {
		fmt.Fprintf(&buf, "\nDuplicate Details:\n")
		for _, d := range s.DuplicateEntries {
			fmt.Fprintf(&buf, "  - Kept: %s\n", d.KeptFile)
			fmt.Fprintf(&buf, "    Discarded: %s\n", d.DiscardedFile)
			fmt.Fprintf(&buf, "    Reason: %s\n\n", d.Reason)
		}
	}

	if len(s.SkippedEntries) > 0 {
		fmt.Fprintf(&buf, "\nSkipped Files:\n")
		for _, sk := range s.SkippedEntries {
			fmt.Fprintf(&buf, "  - %s: %s\n", sk.Path, sk.Reason)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// GenerateReport writes the text report for s to reportPath on fs.
func GenerateReport(fs afero.Fs, reportPath string, s Summary) error {
	reportDir := filepath.Dir(reportPath)
	if err := fs.MkdirAll(reportDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for report '%s': %w", reportDir, err)
	}

	file, err := fs.Create(reportPath)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", reportPath, err)
	}
	defer file.Close()

	if err := WriteSummary(file, s); err != nil {
		return fmt.Errorf("failed to write report file '%s': %w", reportPath, err)
	}
	return nil
}
