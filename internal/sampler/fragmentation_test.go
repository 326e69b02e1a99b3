package sampler

import "testing"

const testPageSize = 4096

func TestMemoryFragIndexNoData(t *testing.T) {
	if _, ok := memoryFragIndex(nil, testPageSize); ok {
		t.Fatal("nil block counts reported ok")
	}
	if _, ok := memoryFragIndex([]uint64{10, 5}, 0); ok {
		t.Fatal("zero page size reported ok")
	}
	if _, ok := memoryFragIndex([]uint64{0, 0, 0}, testPageSize); ok {
		t.Fatal("empty free pool reported ok")
	}
}

func TestMemoryFragIndexExtremes(t *testing.T) {
	// One large block and nothing else: fully contiguous, index 0.
	index, ok := memoryFragIndex([]uint64{0, 0, 0, 0, 1}, testPageSize)
	if !ok || index != 0 {
		t.Fatalf("single high-order block: index = %v ok=%v, want 0", index, ok)
	}

	// All free memory in order-0 pages: maximally shattered.
	index, ok = memoryFragIndex([]uint64{4096, 0, 0, 0, 0}, testPageSize)
	if !ok {
		t.Fatal("order-0 pool not ok")
	}
	if index < 0.99 || index > 1 {
		t.Fatalf("shattered pool: index = %v, want close to 1", index)
	}
}

func TestMemoryFragIndexMonotonic(t *testing.T) {
	// Same total free memory; the largest contiguous block shrinks at
	// each step, so the index must rise.
	pools := [][]uint64{
		{0, 0, 0, 0, 16}, // 16 order-4 blocks
		{0, 0, 0, 32, 0}, // same bytes in order-3 blocks
		{0, 0, 64, 0, 0},
		{0, 128, 0, 0, 0},
		{256, 0, 0, 0, 0},
	}
	prev := -1.0
	for i, pool := range pools {
		index, ok := memoryFragIndex(pool, testPageSize)
		if !ok {
			t.Fatalf("pool %d not ok", i)
		}
		if index < 0 || index > 1 {
			t.Fatalf("pool %d: index %v out of [0,1]", i, index)
		}
		if index <= prev {
			t.Fatalf("pool %d: index %v did not rise past %v", i, index, prev)
		}
		prev = index
	}
}

func TestSwapFragProxy(t *testing.T) {
	if got := swapFragProxy(0, 0); got != 0 {
		t.Fatalf("empty system proxy = %v, want 0", got)
	}
	if got := swapFragProxy(0, 8<<30); got != 0 {
		t.Fatalf("no swap used proxy = %v, want 0", got)
	}
	if got := swapFragProxy(4<<30, 4<<30); got != 0.5 {
		t.Fatalf("equal split proxy = %v, want 0.5", got)
	}
	if got := swapFragProxy(8<<30, 0); got != 1 {
		t.Fatalf("all swap proxy = %v, want 1", got)
	}
}

func TestDiskFragIndex(t *testing.T) {
	const partition = 64 << 30 // 1024 size-class slots

	if got := diskFragIndex(100, 0); got != 0 {
		t.Fatalf("zero partition index = %v, want 0", got)
	}

	prev := -1.0
	for _, count := range []uint64{0, 10, 500, 1024, 5000} {
		index := diskFragIndex(count, partition)
		if index < 0 || index > 1 {
			t.Fatalf("count %d: index %v out of [0,1]", count, index)
		}
		if index < prev {
			t.Fatalf("count %d: index %v decreased from %v", count, index, prev)
		}
		prev = index
	}

	if got := diskFragIndex(1<<40, partition); got != 1 {
		t.Fatalf("saturated index = %v, want clamp to 1", got)
	}

	// Tiny partitions round to a single slot instead of dividing by zero.
	if got := diskFragIndex(1, 1<<20); got != 1 {
		t.Fatalf("tiny partition index = %v, want 1", got)
	}
}
