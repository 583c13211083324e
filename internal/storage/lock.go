package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// DirLock guards a data directory against a second server process
// interleaving read-modify-write cycles with this one.
type DirLock struct {
	lock *flock.Flock
}

// LockDir acquires an exclusive lock on <dir>/.lock, creating the directory
// if needed. It fails fast when another process already holds the lock.
func LockDir(dir string) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	l := flock.New(filepath.Join(dir, ".lock"))
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire data directory lock: %w", err)
	}
	if !ok {
		return nil, errors.New("data directory is locked by another bookshelf instance")
	}

	return &DirLock{lock: l}, nil
}

// Release gives up the lock.
func (d *DirLock) Release() error {
	return d.lock.Unlock()
}
