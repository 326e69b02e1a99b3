// Package history holds bounded per-domain snapshot time series. Each
// ring has exactly one writer (its sampler) and any number of readers;
// readers always observe a fully formed snapshot list via an atomic
// pointer swap of immutable slices, never an in-place mutation.
package history

import (
	"sync/atomic"
	"time"
)

// Sample is the contract a snapshot type must satisfy to live in a Ring.
// MarkedOutOfOrder returns a flagged copy; the original is never touched.
type Sample[T any] interface {
	SampleTime() time.Time
	MarkedOutOfOrder() T
}

// Ring is a fixed-capacity FIFO time series. Append evicts the oldest
// entry once capacity is reached. Entries whose timestamp does not
// advance past the newest stored one are appended flagged out-of-order
// rather than rejected, so consumers can handle clock skew defensively.
type Ring[T Sample[T]] struct {
	capacity int
	entries  atomic.Pointer[[]T]
}

func NewRing[T Sample[T]](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	r := &Ring[T]{capacity: capacity}
	empty := make([]T, 0)
	r.entries.Store(&empty)
	return r
}

func (r *Ring[T]) Capacity() int { return r.capacity }

func (r *Ring[T]) Len() int { return len(*r.entries.Load()) }

// Append inserts one snapshot, evicting the oldest entry first when the
// ring is full. Writer-exclusive: only the owning sampler may call it.
func (r *Ring[T]) Append(s T) {
	cur := *r.entries.Load()
	if n := len(cur); n > 0 && !s.SampleTime().After(cur[n-1].SampleTime()) {
		s = s.MarkedOutOfOrder()
	}

	next := make([]T, 0, r.capacity)
	if len(cur) >= r.capacity {
		next = append(next, cur[len(cur)-r.capacity+1:]...)
	} else {
		next = append(next, cur...)
	}
	next = append(next, s)
	r.entries.Store(&next)
}

// Latest returns the most recent snapshot, or ok=false before the first
// append.
func (r *Ring[T]) Latest() (T, bool) {
	cur := *r.entries.Load()
	if len(cur) == 0 {
		var zero T
		return zero, false
	}
	return cur[len(cur)-1], true
}

// Range returns up to lastN most recent snapshots in insertion (time)
// order. Asking for more than is available returns everything available.
func (r *Ring[T]) Range(lastN int) []T {
	cur := *r.entries.Load()
	if lastN <= 0 || len(cur) == 0 {
		return nil
	}
	if lastN > len(cur) {
		lastN = len(cur)
	}
	out := make([]T, lastN)
	copy(out, cur[len(cur)-lastN:])
	return out
}
