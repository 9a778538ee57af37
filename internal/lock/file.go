package lock

import (
	"context"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const (
	defaultLockSuffix = ".lock"
	defaultFileRetry  = 10 * time.Millisecond
)

// File combines the in-process Local lock with an advisory flock on a
// sidecar file (path + ".lock") so separate processes sharing a directory
// exclude each other. Only meaningful on the OS filesystem.
type File struct {
	local  *Local
	suffix string
	retry  time.Duration
}

// NewFile creates a File locker polling every retry while a flock is
// contended. A zero retry selects 10ms.
func NewFile(retry time.Duration) *File {
	if retry <= 0 {
		retry = defaultFileRetry
	}
	return &File{local: NewLocal(), suffix: defaultLockSuffix, retry: retry}
}

// WithWrite runs fn holding the in-process and the exclusive file lock.
func (f *File) WithWrite(ctx context.Context, path string, fn func() error) error {
	return f.local.WithWrite(ctx, path, func() error {
		fl := flock.New(Key(path) + f.suffix)
		ok, err := fl.TryLockContext(ctx, f.retry)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrapf(err, "failed to lock %s", fl.Path())
		}
		if !ok {
			return errors.Errorf("failed to lock %s", fl.Path())
		}
		defer fl.Unlock()
		return fn()
	})
}

// WithRead runs fn holding the in-process and the shared file lock.
func (f *File) WithRead(ctx context.Context, path string, fn func() error) error {
	return f.local.WithRead(ctx, path, func() error {
		fl := flock.New(Key(path) + f.suffix)
		ok, err := fl.TryRLockContext(ctx, f.retry)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrapf(err, "failed to read-lock %s", fl.Path())
		}
		if !ok {
			return errors.Errorf("failed to read-lock %s", fl.Path())
		}
		defer fl.Unlock()
		return fn()
	})
}
