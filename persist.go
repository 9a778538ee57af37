// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// persist.go — Config, Store construction and lifecycle, statistics, and
// file inspection. The generic Save/Load operations live in ops.go.

package persist

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/AndrewDonelson/persist/internal/clock"
	"github.com/AndrewDonelson/persist/internal/codec"
	"github.com/AndrewDonelson/persist/internal/lock"
	"github.com/AndrewDonelson/persist/internal/metrics"
	"github.com/AndrewDonelson/persist/internal/pg"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

// Re-export types so callers only import this package.
type MetricsRecorder = metrics.MetricsRecorder
type Codec = codec.Codec
type Locker = lock.Locker
type Clock = clock.Clock

// CodecByName returns a built-in codec: "msgpack", "json", "gob" or "xml".
func CodecByName(name string) (Codec, bool) {
	return codec.ByName(name)
}

// ────────────────────────────────────────────────────────────────────────────
// Config
// ────────────────────────────────────────────────────────────────────────────

// LockMode selects the Locker built by NewStore when Config.Locker is nil.
type LockMode int

const (
	// LockLocal serializes access within this process only.
	LockLocal LockMode = iota
	// LockFile adds an advisory lock on a "<path>.lock" sidecar so separate
	// processes sharing a disk exclude each other.
	LockFile
	// LockRedis takes a lease in Redis keyed by path.
	LockRedis
)

func (m LockMode) String() string {
	switch m {
	case LockLocal:
		return "local"
	case LockFile:
		return "file"
	case LockRedis:
		return "redis"
	}
	return fmt.Sprintf("LockMode(%d)", int(m))
}

// ParseLockMode converts "local", "file" or "redis" to a LockMode.
func ParseLockMode(s string) (LockMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return LockLocal, nil
	case "file":
		return LockFile, nil
	case "redis":
		return LockRedis, nil
	}
	return 0, fmt.Errorf("%w: unknown lock mode %q", ErrInvalidConfig, s)
}

// PoolConfig configures the PostgreSQL connection pool of the table bridge.
type PoolConfig struct {
	MaxConns int32
	MinConns int32
}

// Config contains all Store configuration.
type Config struct {
	// Filesystem
	Fs        afero.Fs
	MarkupExt string      // extension selecting the markup codec, matched case-insensitively
	OpenFlag  int         // flags used when opening a file for write
	FilePerm  os.FileMode // mode of created files
	DirPerm   os.FileMode // mode of created parent directories

	// Codecs
	MarkupCodec codec.Codec
	BinaryCodec codec.Codec

	// Encryption key for binary files (must be 32 bytes for AES-256-GCM; nil = disabled).
	EncryptionKey []byte

	// Locking
	LockMode      LockMode
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration
	LockRetry     time.Duration

	// Locker replaces the one selected by LockMode.
	Locker lock.Locker

	// Table bridge
	PostgresDSN string
	Pool        PoolConfig

	// Optional overrideable components
	Clock   clock.Clock
	Metrics metrics.MetricsRecorder
	Logger  Logger
}

func (c *Config) defaults() {
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.MarkupExt == "" {
		c.MarkupExt = ".xml"
	}
	if !strings.HasPrefix(c.MarkupExt, ".") {
		c.MarkupExt = "." + c.MarkupExt
	}
	if c.OpenFlag == 0 {
		c.OpenFlag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	if c.FilePerm == 0 {
		c.FilePerm = 0o644
	}
	if c.DirPerm == 0 {
		c.DirPerm = 0o755
	}
	if c.MarkupCodec == nil {
		c.MarkupCodec = codec.XML{}
	}
	if c.BinaryCodec == nil {
		c.BinaryCodec = codec.Default
	}
	if c.LockTTL == 0 {
		c.LockTTL = 30 * time.Second
	}
	if c.LockRetry == 0 {
		c.LockRetry = 25 * time.Millisecond
	}
	if c.Pool.MaxConns == 0 {
		c.Pool.MaxConns = 4
	}
	if c.Clock == nil {
		c.Clock = clock.Real{}
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Noop{}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
}

func (c *Config) validate() error {
	if c.OpenFlag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return fmt.Errorf("%w: OpenFlag must request write access", ErrInvalidConfig)
	}
	if c.Locker != nil {
		return nil
	}
	switch c.LockMode {
	case LockLocal:
	case LockFile:
		if _, ok := c.Fs.(*afero.OsFs); !ok {
			return fmt.Errorf("%w: file locks require the OS filesystem", ErrInvalidConfig)
		}
	case LockRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis lock mode requires RedisAddr", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown lock mode %d", ErrInvalidConfig, int(c.LockMode))
	}
	return nil
}

// ────────────────────────────────────────────────────────────────────────────
// Stats
// ────────────────────────────────────────────────────────────────────────────

type storeStats struct {
	Saves   atomic.Int64
	Loads   atomic.Int64
	Hits    atomic.Int64
	Misses  atomic.Int64
	Creates atomic.Int64
	Errors  atomic.Int64
}

// Stats is the snapshot returned by Store.Stats().
type Stats struct {
	Saves   int64
	Loads   int64
	Hits    int64 // loads that found a file
	Misses  int64 // loads that found nothing
	Creates int64 // files written by LoadOrCreate
	Errors  int64
}

// ────────────────────────────────────────────────────────────────────────────
// Store
// ────────────────────────────────────────────────────────────────────────────

// Store persists values to files. It is safe for concurrent use.
type Store struct {
	cfg     Config
	disp    *dispatcher
	locker  lock.Locker
	redis   redis.UniversalClient
	pg      *pg.Store
	stats   storeStats
	metrics metrics.MetricsRecorder
	logger  Logger
	closed  atomic.Bool
}

// NewStore creates and initialises a Store from the provided Config.
func NewStore(cfg Config) (*Store, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		cfg:     cfg,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	binary := cfg.BinaryCodec
	if len(cfg.EncryptionKey) > 0 {
		enc, err := NewAES256GCM(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("persist: encryption init: %w", err)
		}
		binary = codec.Sealed{Inner: binary, Cipher: enc}
	}
	s.disp = &dispatcher{
		fs:        cfg.Fs,
		markupExt: strings.ToLower(cfg.MarkupExt),
		flag:      cfg.OpenFlag,
		perm:      cfg.FilePerm,
		markup:    cfg.MarkupCodec,
		binary:    binary,
	}

	switch {
	case cfg.Locker != nil:
		s.locker = cfg.Locker
	case cfg.LockMode == LockFile:
		s.locker = lock.NewFile(cfg.LockRetry)
	case cfg.LockMode == LockRedis:
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		s.locker = lock.NewRedis(lock.RedisOptions{
			Client: s.redis,
			TTL:    cfg.LockTTL,
			Retry:  cfg.LockRetry,
			OnReleaseError: func(key string, err error) {
				s.logger.Warn("persist: lock release failed", "key", key, "error", err)
			},
		})
	default:
		s.locker = lock.NewLocal()
	}

	if cfg.PostgresDSN != "" {
		db, err := pg.Open(context.Background(), cfg.PostgresDSN, pg.PoolOptions{
			MaxConns: cfg.Pool.MaxConns,
			MinConns: cfg.Pool.MinConns,
		})
		if err != nil {
			s.closeRedis()
			return nil, fmt.Errorf("persist: postgres: %w", err)
		}
		s.pg = db
	}

	s.logger.Debug("persist: store ready",
		"lock", cfg.LockMode.String(),
		"markup", cfg.MarkupCodec.Name(),
		"binary", binary.Name())
	return s, nil
}

// Close releases the Redis client and the PostgreSQL pool, if any. Further
// operations return ErrClosed.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.pg != nil {
		s.pg.Close()
	}
	return s.closeRedis()
}

func (s *Store) closeRedis() error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Close()
}

// Stats returns a snapshot of operation counters.
func (s *Store) Stats() Stats {
	return Stats{
		Saves:   s.stats.Saves.Load(),
		Loads:   s.stats.Loads.Load(),
		Hits:    s.stats.Hits.Load(),
		Misses:  s.stats.Misses.Load(),
		Creates: s.stats.Creates.Load(),
		Errors:  s.stats.Errors.Load(),
	}
}

// FileInfo describes a persisted file.
type FileInfo struct {
	Path    string
	Exists  bool
	Size    int64
	ModTime time.Time
	Format  string // codec that reads and writes the file
}

// Stat reports whether path exists and which codec applies to it. It takes
// no lock.
func (s *Store) Stat(path string) (FileInfo, error) {
	if err := validatePath(path); err != nil {
		return FileInfo{}, err
	}
	fi := FileInfo{Path: path, Format: s.disp.format(path)}
	info, err := s.disp.fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fi, nil
		}
		return fi, err
	}
	fi.Exists = true
	fi.Size = info.Size()
	fi.ModTime = info.ModTime()
	return fi, nil
}

func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	return nil
}
