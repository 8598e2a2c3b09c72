package safefile

import (
	"errors"
	"os"
)

// ErrLocked is returned by Lock when another process holds the lock.
var ErrLocked = errors.New("file is locked by another process")

// FileLock is an advisory lock held on a sidecar file.
type FileLock struct {
	file *os.File
	path string
}

// LockPath returns the sidecar lock file used for path.
func LockPath(path string) string {
	return path + ".lock"
}
