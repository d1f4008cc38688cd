package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	"github.com/spf13/afero"
)

// DefaultExtensions are the image extensions organized when none are configured.
var DefaultExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif",
	".heic", ".heif",
	".tif", ".tiff",
	".dng", ".cr2", ".nef", ".arw",
}

// ExtensionSet is a case-insensitive set of file extensions.
type ExtensionSet map[string]bool

// NewExtensionSet normalizes exts (lowercase, leading dot). Empty entries are
// ignored; an empty result falls back to DefaultExtensions.
func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet)
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	if len(set) == 0 {
		for _, ext := range DefaultExtensions {
			set[ext] = true
		}
	}
	return set
}

// Matches reports whether filePath has one of the set's extensions.
func (s ExtensionSet) Matches(filePath string) bool {
	return s[strings.ToLower(filepath.Ext(filePath))]
}

// List returns the extensions, sorted.
func (s ExtensionSet) List() []string {
	out := make([]string, 0, len(s))
	for ext := range s {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ScanResult is the outcome of scanning the directory to organize.
type ScanResult struct {
	// Candidates are the top-level image files, in natural name order.
	Candidates []string
	// MonthDirs are the names of existing month folders, sorted.
	MonthDirs []string
}

// ScanSourceDirectory lists the top-level image files of root and its month
// folders. It does not descend into any subdirectory. Hidden files are skipped.
func ScanSourceDirectory(fs afero.Fs, root string, exts ExtensionSet) (*ScanResult, error) {
	info, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source directory '%s' does not exist", root)
		}
		return nil, fmt.Errorf("error accessing source directory '%s': %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path '%s' is not a directory", root)
	}

	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		return nil, fmt.Errorf("error reading source directory '%s': %w", root, err)
	}

	res := &ScanResult{Candidates: []string{}, MonthDirs: []string{}}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			if IsMonthDirName(name) {
				res.MonthDirs = append(res.MonthDirs, name)
			}
			continue
		}
		if entry.Mode().IsRegular() && exts.Matches(name) {
			res.Candidates = append(res.Candidates, filepath.Join(root, name))
		}
	}

	sort.Slice(res.Candidates, func(i, j int) bool {
		return natural.Less(filepath.Base(res.Candidates[i]), filepath.Base(res.Candidates[j]))
	})
	sort.Strings(res.MonthDirs)
	return res, nil
}

// ScanMonthDirectory lists the image files directly inside <root>/<key>.
func ScanMonthDirectory(fs afero.Fs, root, key string, exts ExtensionSet) ([]string, error) {
	dir := filepath.Join(root, key)
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read month folder %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !exts.Matches(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Slice(files, func(i, j int) bool {
		return natural.Less(filepath.Base(files[i]), filepath.Base(files[j]))
	})
	return files, nil
}

// CreateTargetDirectory creates the month folder (YYYY-MM) for date under root.
func CreateTargetDirectory(fs afero.Fs, root string, date time.Time) (string, error) {
	monthDir := filepath.Join(root, MonthKey(date))
	if err := fs.MkdirAll(monthDir, 0755); err != nil {
		return "", &IOError{Op: "mkdir", Path: monthDir, Err: err}
	}
	return monthDir, nil
}
