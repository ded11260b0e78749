package dub

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrWorkDirBusy reports that another run already holds the work directory.
var ErrWorkDirBusy = errors.New("work directory is locked by another run")

// Lock guards a work directory against concurrent runs.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes an exclusive lock on the work directory. It does not
// block: a held lock returns ErrWorkDirBusy immediately.
func AcquireLock(workDir string) (*Lock, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	path := filepath.Join(workDir, "dubber.lock")
	fileLock := flock.New(path)
	ok, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire work lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorkDirBusy, path)
	}
	return &Lock{path: path, lock: fileLock}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
