// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// errors.go — sentinel error variables returned by the public persist API,
// covering argument validation, configuration, store lifecycle and the
// load-or-create race.

// Package persist saves values to disk and loads them back, choosing an XML
// or binary encoding from the file extension and guarding every file with a
// path-scoped lock.
package persist

import (
	"errors"

	"github.com/AndrewDonelson/persist/internal/codec"
)

// Argument errors
var (
	ErrInvalidPath = errors.New("persist: path cannot be empty or whitespace")
	ErrNilFactory  = errors.New("persist: factory is nil")
)

// Encoding errors
var (
	// ErrInvalidMarkupText is returned when a value saved to a markup file
	// holds text XML cannot represent, such as control characters. Tables
	// report tabular.ErrInvalidText instead.
	ErrInvalidMarkupText = codec.ErrInvalidText
)

// Race errors
var (
	// ErrRetrieveFailed reports that LoadOrCreate lost the create race yet
	// found no file afterwards. It signals a broken lock implementation and
	// is never retried.
	ErrRetrieveFailed = errors.New("persist: unable to retrieve file for deserialization")
)

// Lifecycle errors
var (
	ErrClosed     = errors.New("persist: store is closed")
	ErrNoDatabase = errors.New("persist: no PostgreSQL DSN configured")
)

// Config errors
var (
	ErrInvalidConfig = errors.New("persist: invalid configuration")
)
