package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFileAtomic stages data next to path and renames it into place, so a
// reader sees either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := EnsureDirectory(filepath.Dir(path)); err != nil {
		return fmt.Errorf("stage mkdir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("stage open: %w", err)
	}
	staged := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(staged)
		return fmt.Errorf("stage write: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("stage close: %w", err)
	}
	if err := os.Chmod(staged, perm); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("stage chmod: %w", err)
	}
	if err := os.Rename(staged, path); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("promote %s: %w", path, err)
	}
	return nil
}
