package persist_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/AndrewDonelson/persist"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Load: concurrent Save+Load on shared paths ───────────────────────────────

func TestLoad_ConcurrentSaveLoad(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, persist.Config{})

	const goroutines = 32
	const opsPerGoroutine = 100

	var errs, torn atomic.Int64
	var wg sync.WaitGroup
	ctx := context.Background()

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(gid int) {
			defer wg.Done()
			for i := 0; i < opsPerGoroutine; i++ {
				path := fmt.Sprintf("load/p%d.xml", i%4)
				v := AppConfig{Name: fmt.Sprintf("g%d", gid), Retries: i, Tags: []string{"t"}}
				if err := persist.Save(ctx, s, path, v); err != nil {
					errs.Add(1)
					continue
				}
				got, err := persist.Load[AppConfig](ctx, s, path)
				if err != nil {
					errs.Add(1)
					continue
				}
				if got.Name == "" || len(got.Tags) != 1 {
					torn.Add(1)
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, int64(0), errs.Load(),
		"%d errors during %d concurrent Save+Load operations", errs.Load(), goroutines*opsPerGoroutine)
	assert.Equal(t, int64(0), torn.Load(), "a reader observed a partially written file")
}

// ── Load: two stores sharing a directory through file locks ──────────────────

func TestLoad_FileLocksAcrossStores(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, _ := newStore(t, persist.Config{Fs: afero.NewOsFs(), LockMode: persist.LockFile})
	b, _ := newStore(t, persist.Config{Fs: afero.NewOsFs(), LockMode: persist.LockFile})
	path := filepath.Join(dir, "shared.bin")
	ctx := context.Background()

	big := make([]string, 2000)
	for i := range big {
		big[i] = fmt.Sprintf("entry-%04d", i)
	}
	small := []string{"only"}

	var errs, torn atomic.Int64
	var wg sync.WaitGroup
	for g, s := range []*persist.Store{a, b} {
		wg.Add(1)
		go func(g int, s *persist.Store) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				v := small
				if (i+g)%2 == 0 {
					v = big
				}
				if err := persist.Save(ctx, s, path, v); err != nil {
					errs.Add(1)
					continue
				}
				got, err := persist.Load[[]string](ctx, s, path)
				if err != nil {
					errs.Add(1)
					continue
				}
				if len(got) != len(big) && len(got) != len(small) {
					torn.Add(1)
				}
			}
		}(g, s)
	}
	wg.Wait()

	require.Equal(t, int64(0), errs.Load())
	assert.Equal(t, int64(0), torn.Load())
}

// ── Load: many callers racing LoadOrCreate on distinct paths ─────────────────

func TestLoad_LoadOrCreateManyPaths(t *testing.T) {
	t.Parallel()

	s, _ := newStore(t, persist.Config{})
	ctx := context.Background()

	const paths = 16
	const callersPerPath = 8
	var created [paths]atomic.Int32
	var wg sync.WaitGroup
	var errs atomic.Int64

	for p := 0; p < paths; p++ {
		for c := 0; c < callersPerPath; c++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				_, _, err := persist.LoadOrCreate(ctx, s, fmt.Sprintf("many/%02d.bin", p), func() int {
					created[p].Add(1)
					return p
				})
				if err != nil {
					errs.Add(1)
				}
			}(p)
		}
	}
	wg.Wait()

	require.Equal(t, int64(0), errs.Load())
	for p := 0; p < paths; p++ {
		assert.Equal(t, int32(1), created[p].Load(), "path %d", p)
	}
	assert.Equal(t, int64(paths), s.Stats().Creates)
}
