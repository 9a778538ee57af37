// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// lock.go — Locker contract shared by the in-process, flock and Redis
// implementations. Every lock is scoped to a single file path and released
// on all exit paths of the guarded action.

// Package lock provides path-scoped reader/writer locks for file persistence.
package lock

import (
	"context"
	"path/filepath"
)

// Locker serializes access to a single file path.
//
// WithWrite runs fn while holding a lock that excludes every other reader and
// writer of path. WithRead runs fn while holding a lock that excludes writers;
// implementations may also exclude other readers. Errors returned by fn are
// passed through unchanged.
type Locker interface {
	WithWrite(ctx context.Context, path string, fn func() error) error
	WithRead(ctx context.Context, path string, fn func() error) error
}

// Key normalises path so equivalent spellings share one lock.
func Key(path string) string {
	return filepath.Clean(path)
}
