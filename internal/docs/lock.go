package docs

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
)

// LockFilename is the lock file shared by every process using a data dir.
const LockFilename = "generate.lock"

// ErrLockTimeout is returned when another process held the generation lock
// for longer than the configured timeout.
var ErrLockTimeout = errors.New("generation lock timed out")

const (
	lockPollStart = 10 * time.Millisecond
	lockPollMax   = 500 * time.Millisecond
)

// GenerationLock serializes generation between processes sharing a data
// directory. It wraps flock(2), so the kernel drops it if a holder dies.
type GenerationLock struct {
	path    string
	timeout time.Duration
}

func NewGenerationLock(dataDir string, timeout time.Duration) *GenerationLock {
	return &GenerationLock{
		path:    filepath.Join(dataDir, LockFilename),
		timeout: timeout,
	}
}

func (l *GenerationLock) Path() string {
	return l.path
}

// Acquire blocks until the lock is held, the timeout passes, or ctx is
// done. The returned func releases the lock and is safe to call once.
func (l *GenerationLock) Acquire(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create lock directory")
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open lock file")
	}

	deadline := time.Now().Add(l.timeout)
	poll := lockPollStart
	for {
		err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return unlocker(file), nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			_ = file.Close()
			return nil, errors.Wrap(err, "flock")
		}
		if l.timeout > 0 && time.Now().After(deadline) {
			_ = file.Close()
			return nil, errors.WithDetailf(ErrLockTimeout, "lock %s held for more than %s", l.path, l.timeout)
		}

		select {
		case <-ctx.Done():
			_ = file.Close()
			return nil, ctx.Err()
		case <-time.After(poll):
			poll = min(poll*2, lockPollMax)
		}
	}
}

func unlocker(file *os.File) func() error {
	return func() error {
		err := syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		closeErr := file.Close()
		if err != nil {
			return errors.Wrap(err, "flock unlock")
		}
		return errors.Wrap(closeErr, "close lock file")
	}
}
