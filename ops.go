// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// ops.go — the generic Save, Load, LoadWithModTime and LoadOrCreate
// operations. Each wraps exactly one dispatcher call in the path's lock.

package persist

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/AndrewDonelson/persist/internal/clock"
	"github.com/spf13/afero"
)

// Save writes value to path, creating parent directories as needed. The
// extension selects the codec. A nil value is ignored and no file is
// created. Codec errors are returned unwrapped.
func Save[T any](ctx context.Context, s *Store, path string, value T) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := validatePath(path); err != nil {
		return err
	}
	if isAbsent(value) {
		return nil
	}
	s.stats.Saves.Add(1)
	start := s.cfg.Clock.Now()
	err := s.ensureDir(path)
	if err == nil {
		err = s.locker.WithWrite(ctx, path, func() error {
			return encode(s.disp, path, value)
		})
	}
	s.metrics.RecordLatency("save", clock.Since(s.cfg.Clock, start))
	if err != nil {
		s.fail("save", path, err)
		return err
	}
	s.logger.Debug("persist: saved", "path", path, "format", s.disp.format(path))
	return nil
}

// Load reads path into a T. A missing file is not an error: the zero value
// is returned.
func Load[T any](ctx context.Context, s *Store, path string) (T, error) {
	v, _, err := LoadWithModTime[T](ctx, s, path)
	return v, err
}

// LoadWithModTime is Load that also reports the file's modification time.
// The time is zero when the file does not exist.
func LoadWithModTime[T any](ctx context.Context, s *Store, path string) (T, time.Time, error) {
	var zero T
	if s.closed.Load() {
		return zero, time.Time{}, ErrClosed
	}
	if err := validatePath(path); err != nil {
		return zero, time.Time{}, err
	}
	s.stats.Loads.Add(1)
	start := s.cfg.Clock.Now()
	v, modified, err := load[T](ctx, s, path)
	s.metrics.RecordLatency("load", clock.Since(s.cfg.Clock, start))
	if err != nil {
		s.fail("load", path, err)
		return zero, time.Time{}, err
	}
	s.recordLookup(path, !modified.IsZero())
	return v, modified, nil
}

// LoadOrCreate loads path, or when it does not exist writes factory() to it
// and returns that value stamped with the current time. When several
// callers race on the same missing path exactly one runs factory; the rest
// read what it wrote.
func LoadOrCreate[T any](ctx context.Context, s *Store, path string, factory func() T) (T, time.Time, error) {
	var zero T
	if s.closed.Load() {
		return zero, time.Time{}, ErrClosed
	}
	if err := validatePath(path); err != nil {
		return zero, time.Time{}, err
	}
	if factory == nil {
		return zero, time.Time{}, ErrNilFactory
	}
	s.stats.Loads.Add(1)
	start := s.cfg.Clock.Now()
	defer func() {
		s.metrics.RecordLatency("load_or_create", clock.Since(s.cfg.Clock, start))
	}()

	v, modified, err := load[T](ctx, s, path)
	if err != nil {
		s.fail("load_or_create", path, err)
		return zero, time.Time{}, err
	}
	if !modified.IsZero() {
		s.recordLookup(path, true)
		return v, modified, nil
	}

	if err := s.ensureDir(path); err != nil {
		s.fail("load_or_create", path, err)
		return zero, time.Time{}, err
	}
	created, err := s.writeIfNotExists(ctx, path, func() error {
		v = factory()
		if err := encode(s.disp, path, v); err != nil {
			return err
		}
		modified = s.cfg.Clock.Now()
		return nil
	})
	if err != nil {
		s.fail("load_or_create", path, err)
		return zero, time.Time{}, err
	}
	if created {
		s.stats.Misses.Add(1)
		s.stats.Creates.Add(1)
		s.metrics.RecordCreate(s.disp.format(path))
		s.logger.Debug("persist: created", "path", path)
		return v, modified, nil
	}

	s.logger.Warn("persist: file created concurrently, reloading", "path", path)
	v, modified, err = load[T](ctx, s, path)
	if err != nil {
		s.fail("load_or_create", path, err)
		return zero, time.Time{}, err
	}
	if modified.IsZero() {
		err := fmt.Errorf("%w: %s", ErrRetrieveFailed, path)
		s.fail("load_or_create", path, err)
		return zero, time.Time{}, err
	}
	s.recordLookup(path, true)
	return v, modified, nil
}

// load reads path under its read lock. A missing file is reported before
// any lock is taken.
func load[T any](ctx context.Context, s *Store, path string) (T, time.Time, error) {
	var (
		v        T
		modified time.Time
	)
	exists, err := afero.Exists(s.cfg.Fs, path)
	if err != nil || !exists {
		return v, modified, err
	}
	err = s.locker.WithRead(ctx, path, func() error {
		var derr error
		v, modified, derr = decode[T](s.disp, path)
		return derr
	})
	if err != nil {
		var zero T
		return zero, time.Time{}, err
	}
	return v, modified, nil
}

// writeIfNotExists runs fn under the path's write lock unless the file
// already exists once the lock is held. It reports whether fn ran.
func (s *Store) writeIfNotExists(ctx context.Context, path string, fn func() error) (bool, error) {
	var created bool
	err := s.locker.WithWrite(ctx, path, func() error {
		exists, err := afero.Exists(s.cfg.Fs, path)
		if err != nil || exists {
			return err
		}
		created = true
		return fn()
	})
	return created, err
}

func (s *Store) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := s.cfg.Fs.MkdirAll(dir, s.cfg.DirPerm); err != nil {
		return fmt.Errorf("persist: ensure directory %s: %w", dir, err)
	}
	return nil
}

func (s *Store) recordLookup(path string, hit bool) {
	format := s.disp.format(path)
	if hit {
		s.stats.Hits.Add(1)
		s.metrics.RecordHit(format)
		return
	}
	s.stats.Misses.Add(1)
	s.metrics.RecordMiss(format)
}

func (s *Store) fail(op, path string, err error) {
	s.stats.Errors.Add(1)
	s.metrics.RecordError(op)
	s.logger.Error("persist: "+op+" failed", "path", path, "error", err)
}
