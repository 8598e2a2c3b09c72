package safefile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultMode is used for files that did not exist before the first write.
const DefaultMode fs.FileMode = 0644

// Mode returns the permission bits of an existing file. The boolean is false
// when the file does not exist.
func Mode(path string) (fs.FileMode, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return info.Mode().Perm(), true, nil
}

// WriteFile replaces path with data. The data goes to a temporary file next
// to path which is synced and renamed over the destination, so readers see
// either the old or the new content, never a partial write. The final file
// carries mode.
func WriteFile(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	temporaryPath := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}

	// Write, sync, close, chmod. Any failure removes the temporary file and
	// leaves the destination untouched.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("failed to write temporary file %s: %w", temporaryPath, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("failed to sync temporary file %s: %w", temporaryPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("failed to close temporary file %s: %w", temporaryPath, err)
	}
	// The umask may have narrowed the mode passed to OpenFile.
	if err := os.Chmod(temporaryPath, mode); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("failed to set mode on %s: %w", temporaryPath, err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	if parent, err := os.Open(dir); err == nil {
		parent.Sync()
		parent.Close()
	}

	slog.Debug("file written", "path", path, "bytes", len(data), "mode", mode)
	return nil
}
