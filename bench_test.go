package persist_test

import (
	"context"
	"testing"

	"github.com/AndrewDonelson/persist"
	"github.com/spf13/afero"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func benchNewStore(b *testing.B) *persist.Store {
	b.Helper()
	s, err := persist.NewStore(persist.Config{Fs: afero.NewMemMapFs()})
	if err != nil {
		b.Fatal(err)
	}
	return s
}

// ── Save ──────────────────────────────────────────────────────────────────────

func BenchmarkSave_Binary(b *testing.B) {
	s := benchNewStore(b)
	defer s.Close()
	ctx := context.Background()
	v := defaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = persist.Save(ctx, s, "bench/app.bin", v)
	}
}

func BenchmarkSave_Markup(b *testing.B) {
	s := benchNewStore(b)
	defer s.Close()
	ctx := context.Background()
	v := defaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = persist.Save(ctx, s, "bench/app.xml", v)
	}
}

// ── Load ──────────────────────────────────────────────────────────────────────

func BenchmarkLoad_Binary(b *testing.B) {
	s := benchNewStore(b)
	defer s.Close()
	ctx := context.Background()
	_ = persist.Save(ctx, s, "bench/app.bin", defaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = persist.Load[AppConfig](ctx, s, "bench/app.bin")
	}
}

func BenchmarkLoad_Markup(b *testing.B) {
	s := benchNewStore(b)
	defer s.Close()
	ctx := context.Background()
	_ = persist.Save(ctx, s, "bench/app.xml", defaultConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = persist.Load[AppConfig](ctx, s, "bench/app.xml")
	}
}

func BenchmarkLoad_Missing(b *testing.B) {
	s := benchNewStore(b)
	defer s.Close()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = persist.Load[AppConfig](ctx, s, "bench/none.bin")
	}
}

// ── Parallel ──────────────────────────────────────────────────────────────────

func BenchmarkLoadOrCreate_Parallel(b *testing.B) {
	s := benchNewStore(b)
	defer s.Close()
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _, _ = persist.LoadOrCreate(ctx, s, "bench/shared.xml", defaultConfig)
		}
	})
}
