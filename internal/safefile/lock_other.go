//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package safefile

// Lock is a no-op on platforms without flock(2).
func Lock(path string) (*FileLock, error) {
	return &FileLock{path: LockPath(path)}, nil
}

// Release is a no-op on platforms without flock(2).
func (l *FileLock) Release() error {
	return nil
}
