package clock_test

import (
	"sync"
	"testing"
	"time"

	"github.com/AndrewDonelson/persist/internal/clock"
	"github.com/stretchr/testify/assert"
)

func TestMockClock_DefaultsToReferenceDate(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), clk.Now())
}

func TestMockClock_Set(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clk.Set(ts)
	assert.Equal(t, ts, clk.Now())
}

func TestMockClock_AdvanceAndSince(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	start := clk.Now()
	clk.Advance(10 * time.Second)
	assert.Equal(t, 10*time.Second, clock.Since(clk, start))
}

func TestMockClock_ConcurrentAdvance(t *testing.T) {
	clk := clock.NewMock(time.Time{})
	start := clk.Now()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clk.Advance(time.Millisecond)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50*time.Millisecond, clk.Now().Sub(start))
}

func TestRealClock(t *testing.T) {
	clk := clock.Real{}
	before := time.Now()
	got := clk.Now()
	after := time.Now()
	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}
