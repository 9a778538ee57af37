package lock

import (
	"context"
	"hash/fnv"
	"sync"
)

const numShards = 64

// pathLock is a reference-counted RW mutex for one path.
type pathLock struct {
	mu   sync.RWMutex
	refs int
}

// shard is one partition of the path table.
type shard struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

// Local provides in-process per-path reader/writer locks. Idle paths are
// dropped from the table, so memory tracks only paths currently in use.
type Local struct {
	shards [numShards]*shard
}

// NewLocal creates an empty Local locker.
func NewLocal() *Local {
	l := &Local{}
	for i := range l.shards {
		l.shards[i] = &shard{locks: make(map[string]*pathLock)}
	}
	return l
}

func (l *Local) getShard(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return l.shards[h.Sum32()%numShards]
}

func (l *Local) acquire(key string) *pathLock {
	sh := l.getShard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	pl, ok := sh.locks[key]
	if !ok {
		pl = &pathLock{}
		sh.locks[key] = pl
	}
	pl.refs++
	return pl
}

func (l *Local) release(key string, pl *pathLock) {
	sh := l.getShard(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	pl.refs--
	if pl.refs == 0 {
		delete(sh.locks, key)
	}
}

// WithWrite runs fn holding the exclusive lock for path.
func (l *Local) WithWrite(ctx context.Context, path string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := Key(path)
	pl := l.acquire(key)
	defer l.release(key, pl)

	pl.mu.Lock()
	defer pl.mu.Unlock()
	return fn()
}

// WithRead runs fn holding the shared lock for path.
func (l *Local) WithRead(ctx context.Context, path string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := Key(path)
	pl := l.acquire(key)
	defer l.release(key, pl)

	pl.mu.RLock()
	defer pl.mu.RUnlock()
	return fn()
}

// Len returns the number of paths with a held or pending lock.
func (l *Local) Len() int {
	n := 0
	for _, sh := range l.shards {
		sh.mu.Lock()
		n += len(sh.locks)
		sh.mu.Unlock()
	}
	return n
}
