// Package runlock enforces single-run execution over an output root so
// two concurrent invocations cannot interleave counter namespaces.
package runlock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".bidstool.lock"

// Acquire takes an exclusive lock under dir and returns a release
// function. It fails immediately when another run holds the lock.
func Acquire(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("could not acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another run is already writing to %s", dir)
	}

	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}, nil
}
