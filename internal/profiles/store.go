package profiles

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redhatinsights/profilesync/internal/document"
	"github.com/redhatinsights/profilesync/internal/safefile"
)

// ErrMissingFile is returned when a required input file does not exist.
var ErrMissingFile = errors.New("file not found")

// LoadDocument reads and parses the YAML file at path. When missingOK is set a
// missing file is treated as an empty document (nil Node); otherwise it is
// reported as ErrMissingFile.
func LoadDocument(path string, missingOK bool) (document.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if missingOK {
				slog.Debug("file not found, using empty document", "path", path)
				return nil, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	n, err := document.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return n, nil
}

// Store writes a profiles document back to disk.
type Store struct {
	Path string
	// Backup copies the current file aside before it is replaced.
	Backup bool
	// Lock serializes writers through an advisory lock on Path.lock.
	Lock bool
	// Now defaults to time.Now; it names backups.
	Now func() time.Time
}

// SaveResult describes a completed Save.
type SaveResult struct {
	// BackupPath is empty when no backup was taken.
	BackupPath string
	Mode       fs.FileMode
}

// Acquire takes the store's advisory lock when Lock is set. The returned
// function releases it and is safe to call when no lock was taken.
func (s *Store) Acquire() (func(), error) {
	if !s.Lock {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", s.Path, err)
	}
	lock, err := safefile.Lock(s.Path)
	if err != nil {
		return nil, err
	}
	slog.Debug("lock acquired", "path", safefile.LockPath(s.Path))
	return func() {
		if err := lock.Release(); err != nil {
			slog.Warn("failed to release lock", "path", safefile.LockPath(s.Path), "error", err)
		}
	}, nil
}

// Save encodes doc and atomically replaces the file at Path. The file keeps
// its permission bits (new files get safefile.DefaultMode) and, when Backup
// is set, an existing file is copied aside first. Nothing on disk changes if
// encoding fails.
func (s *Store) Save(doc *document.Mapping) (SaveResult, error) {
	data, err := document.Marshal(doc)
	if err != nil {
		return SaveResult{}, err
	}

	mode, exists, err := safefile.Mode(s.Path)
	if err != nil {
		return SaveResult{}, err
	}
	if !exists {
		mode = safefile.DefaultMode
		if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
			return SaveResult{}, fmt.Errorf("failed to create directory for %s: %w", s.Path, err)
		}
	}

	result := SaveResult{Mode: mode}
	if s.Backup && exists {
		result.BackupPath, err = safefile.Backup(s.Path, s.now())
		if err != nil {
			return SaveResult{}, err
		}
	}

	if err := safefile.WriteFile(s.Path, data, mode); err != nil {
		return SaveResult{}, err
	}
	return result, nil
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
