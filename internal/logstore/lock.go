package logstore

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// LockFile is the marker file used for the advisory directory lock.
const LockFile = ".lock"

// ErrConversationInUse is returned when another process already holds the
// lock for a conversation directory.
var ErrConversationInUse = errors.New("conversation directory in use")

// DirLock is an exclusive advisory lock on a conversation directory. It only
// guards against other cooperating processes; nothing stops a process that
// bypasses this API from touching the files.
type DirLock struct {
	fl       *flock.Flock
	mu       sync.Mutex
	released bool
}

// AcquireDirLock takes a non-blocking exclusive lock on dir's marker file,
// creating the file if needed. It fails immediately with
// ErrConversationInUse when the lock is held elsewhere.
func AcquireDirLock(dir string) (*DirLock, error) {
	fl := flock.New(filepath.Join(dir, LockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("another chatlog instance is using %s: %w", dir, ErrConversationInUse)
	}
	return &DirLock{fl: fl}, nil
}

// Release unlocks and closes the marker file. It is safe to call more than
// once and on a nil lock; failures are logged rather than returned since
// they occur during teardown.
func (l *DirLock) Release() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.released {
		return
	}
	l.released = true
	if err := l.fl.Unlock(); err != nil {
		slog.Warn("failed to release conversation lock", "path", l.fl.Path(), "err", err)
	}
}
