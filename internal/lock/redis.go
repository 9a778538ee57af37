// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// redis.go — Redis-backed path lock for hosts that share a network
// filesystem: SET NX PX acquisition with a random token, polling retry, and
// a Lua compare-and-delete release so an expired holder never frees a lock
// that another holder has since taken.

package lock

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix  = "persist:lock:"
	defaultRedisTTL   = 30 * time.Second
	defaultRedisRetry = 25 * time.Millisecond
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOptions configures a Redis locker.
type RedisOptions struct {
	Client    redis.UniversalClient
	KeyPrefix string
	TTL       time.Duration // lock lease; bounds how long a crashed holder blocks others
	Retry     time.Duration // poll interval while the lock is held elsewhere

	// OnReleaseError is told when a lease could not be deleted after the
	// action ran. The lease still expires after TTL.
	OnReleaseError func(key string, err error)
}

// Redis is a distributed Locker. Readers take the same exclusive lock as
// writers, so concurrent readers of one path are serialized.
type Redis struct {
	client    redis.UniversalClient
	prefix    string
	ttl       time.Duration
	retry     time.Duration
	onRelease func(key string, err error)
}

// NewRedis creates a Redis locker.
func NewRedis(opts RedisOptions) *Redis {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = defaultKeyPrefix
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultRedisTTL
	}
	if opts.Retry <= 0 {
		opts.Retry = defaultRedisRetry
	}
	if opts.OnReleaseError == nil {
		opts.OnReleaseError = func(string, error) {}
	}
	return &Redis{
		client:    opts.Client,
		prefix:    opts.KeyPrefix,
		ttl:       opts.TTL,
		retry:     opts.Retry,
		onRelease: opts.OnReleaseError,
	}
}

// WithWrite runs fn holding the path's lock.
func (r *Redis) WithWrite(ctx context.Context, path string, fn func() error) error {
	return r.with(ctx, path, fn)
}

// WithRead runs fn holding the path's lock.
func (r *Redis) WithRead(ctx context.Context, path string, fn func() error) error {
	return r.with(ctx, path, fn)
}

// LockKey returns the Redis key guarding path.
func (r *Redis) LockKey(path string) string {
	return r.prefix + Key(path)
}

// The result of fn is returned as is: once it has run, its side effects have
// landed, so a failed release is reported through OnReleaseError only.
func (r *Redis) with(ctx context.Context, path string, fn func() error) error {
	key := r.LockKey(path)
	token, err := uuid.NewV4()
	if err != nil {
		return errors.Wrap(err, "failed to generate lock token")
	}
	if err := r.acquire(ctx, key, token.String()); err != nil {
		return err
	}
	defer func() {
		if err := releaseScript.Run(context.Background(), r.client, []string{key}, token.String()).Err(); err != nil {
			r.onRelease(key, errors.Wrapf(err, "failed to release lock %s", key))
		}
	}()
	return fn()
}

func (r *Redis) acquire(ctx context.Context, key, token string) error {
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrapf(err, "failed to acquire lock %s", key)
		}
		if ok {
			return nil
		}
		t := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
