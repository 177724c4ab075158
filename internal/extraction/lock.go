package extraction

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// ErrBatchLocked is returned when another batch holds the lock.
var ErrBatchLocked = errors.New("another vx batch is running")

func acquireLock(path string) (func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBatchLocked, path)
	}
	return lock.Unlock, nil
}
