package parallel

import (
	"sync/atomic"
	"testing"
)

func TestRange(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}

	n := 1000
	hits := make([]int32, n)

	Range(n, cfg, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, h)
		}
	}
}

func TestRange_Sequential(t *testing.T) {
	var calls int
	Range(100, Sequential(), func(lo, hi int) {
		calls++
		if lo != 0 || hi != 100 {
			t.Errorf("got chunk [%d, %d), want [0, 100)", lo, hi)
		}
	})

	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRange_SmallInputStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}

	var calls int32
	Range(100, cfg, func(_, _ int) {
		atomic.AddInt32(&calls, 1)
	})

	if calls != 1 {
		t.Errorf("Expected 1 call for n < 2*MinChunkSize, got %d", calls)
	}
}

func TestRange_Empty(t *testing.T) {
	Range(0, DefaultConfig(), func(_, _ int) {
		t.Fatal("fn must not be called for n == 0")
	})
}

func TestRange_ZeroChunkSize(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 0}

	var total int64
	Range(10, cfg, func(lo, hi int) {
		atomic.AddInt64(&total, int64(hi-lo))
	})

	if total != 10 {
		t.Errorf("Expected 10 elements covered, got %d", total)
	}
}
