package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrHeld indicates another import run currently holds the lock.
var ErrHeld = errors.New("another import run is already in progress")

// Lock is a held single-run lock.
type Lock struct {
	flk  *flock.Flock
	path string
}

// Acquire takes the lock at path without blocking. Returns ErrHeld when the
// lock is already taken.
func Acquire(path string) (*Lock, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure lock directory: %w", err)
		}
	}
	flk := flock.New(path)
	ok, err := flk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrHeld, path)
	}
	return &Lock{flk: flk, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release gives the lock up. Safe on a nil receiver.
func (l *Lock) Release() error {
	if l == nil || l.flk == nil {
		return nil
	}
	return l.flk.Unlock()
}
