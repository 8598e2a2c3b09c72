package safefile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// BackupTimeFormat is the timestamp layout of backup file suffixes.
const BackupTimeFormat = "20060102-150405"

// maxBackupAttempts bounds the search for a free backup name within one second.
const maxBackupAttempts = 100

// BackupPath returns the name of the backup taken at now:
// <path>.bak-YYYYMMDD-HHMMSS.
func BackupPath(path string, now time.Time) string {
	return path + ".bak-" + now.Format(BackupTimeFormat)
}

// Backup copies path byte for byte to BackupPath(path, now) and gives the
// copy the permission bits of the original. When a backup with that name
// already exists, "-1", "-2", ... are appended so earlier backups are kept.
// It returns the path of the new backup.
func Backup(path string, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	mode := info.Mode().Perm()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	base := BackupPath(path, now)
	for attempt := 0; attempt < maxBackupAttempts; attempt++ {
		backupPath := base
		if attempt > 0 {
			backupPath = base + "-" + strconv.Itoa(attempt)
		}

		file, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
		if err != nil {
			if errors.Is(err, fs.ErrExist) {
				continue
			}
			return "", fmt.Errorf("failed to create backup %s: %w", backupPath, err)
		}
		if _, err := file.Write(data); err != nil {
			file.Close()
			os.Remove(backupPath)
			return "", fmt.Errorf("failed to write backup %s: %w", backupPath, err)
		}
		if err := file.Sync(); err != nil {
			file.Close()
			os.Remove(backupPath)
			return "", fmt.Errorf("failed to sync backup %s: %w", backupPath, err)
		}
		if err := file.Close(); err != nil {
			os.Remove(backupPath)
			return "", fmt.Errorf("failed to close backup %s: %w", backupPath, err)
		}
		if err := os.Chmod(backupPath, mode); err != nil {
			return "", fmt.Errorf("failed to set mode on backup %s: %w", backupPath, err)
		}

		slog.Debug("backup written", "path", backupPath, "bytes", len(data), "mode", mode)
		return backupPath, nil
	}
	return "", fmt.Errorf("failed to find a free backup name for %s after %d attempts", path, maxBackupAttempts)
}
