package pkg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// CopyFile copies srcPath to destPath on fs, keeping the source's modification
// time. It ensures the destination directory exists and never overwrites an
// existing file.
func CopyFile(fs afero.Fs, srcPath, destPath string) error {
	destDir := filepath.Dir(destPath)
	if err := fs.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory %s: %w", destDir, err)
	}

	sourceFile, err := fs.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcPath, err)
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", srcPath, err)
	}

	destinationFile, err := fs.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", destPath, err)
	}
	defer destinationFile.Close()

	if _, err := io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy content from %s to %s: %w", srcPath, destPath, err)
	}

	if err := destinationFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file %s: %w", destPath, err)
	}

	if err := fs.Chtimes(destPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to preserve modification time on %s: %w", destPath, err)
	}
	return nil
}

// MoveFile moves srcPath to destPath, creating the destination directory.
// An existing destination is never overwritten. When a plain rename fails
// because source and destination live on different devices, the file is
// copied into a temporary name beside the destination, renamed into place,
// and the source is removed. If the source cannot be removed the copy is
// rolled back so the file ends up in exactly one place.
func MoveFile(fs afero.Fs, srcPath, destPath string) error {
	if _, err := fs.Stat(destPath); err == nil {
		return &IOError{Op: "move", Path: destPath, Err: os.ErrExist}
	} else if !os.IsNotExist(err) {
		return &IOError{Op: "stat", Path: destPath, Err: err}
	}

	destDir := filepath.Dir(destPath)
	if err := fs.MkdirAll(destDir, 0755); err != nil {
		return &IOError{Op: "mkdir", Path: destDir, Err: err}
	}

	err := fs.Rename(srcPath, destPath)
	if err == nil {
		return nil
	}
	if !isEXDEV(err) {
		return &IOError{Op: "move", Path: srcPath, Err: err}
	}

	tmpPath := filepath.Join(destDir, "."+filepath.Base(destPath)+".tmp-"+uuid.NewString())
	if err := CopyFile(fs, srcPath, tmpPath); err != nil {
		_ = fs.Remove(tmpPath)
		return &IOError{Op: "move", Path: srcPath, Err: err}
	}
	if err := fs.Rename(tmpPath, destPath); err != nil {
		_ = fs.Remove(tmpPath)
		return &IOError{Op: "move", Path: srcPath, Err: err}
	}
	if err := fs.Remove(srcPath); err != nil {
		_ = fs.Remove(destPath)
		return &IOError{Op: "delete", Path: srcPath, Err: err}
	}
	return nil
}
