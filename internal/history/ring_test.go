package history

import (
	"testing"
	"time"
)

type stamped struct {
	at         time.Time
	seq        int
	outOfOrder bool
}

func (s stamped) SampleTime() time.Time { return s.at }

func (s stamped) MarkedOutOfOrder() stamped {
	s.outOfOrder = true
	return s
}

func TestRingEmpty(t *testing.T) {
	r := NewRing[stamped](4)

	if _, ok := r.Latest(); ok {
		t.Fatal("Latest on empty ring reported ok")
	}
	if got := r.Range(10); got != nil {
		t.Fatalf("Range on empty ring = %v, want nil", got)
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
}

func TestRingCapacityClamp(t *testing.T) {
	r := NewRing[stamped](0)
	if r.Capacity() != 1 {
		t.Fatalf("Capacity = %d, want 1", r.Capacity())
	}
}

func TestRingEviction(t *testing.T) {
	const capacity = 3
	r := NewRing[stamped](capacity)
	base := time.Now()

	for i := 0; i < capacity+4; i++ {
		r.Append(stamped{at: base.Add(time.Duration(i) * time.Second), seq: i})
		if r.Len() > capacity {
			t.Fatalf("after append %d: Len = %d, exceeds capacity %d", i, r.Len(), capacity)
		}
	}

	got := r.Range(capacity)
	if len(got) != capacity {
		t.Fatalf("Range = %d entries, want %d", len(got), capacity)
	}
	for i, s := range got {
		if want := capacity + 4 - capacity + i; s.seq != want {
			t.Errorf("entry %d: seq = %d, want %d", i, s.seq, want)
		}
	}

	latest, ok := r.Latest()
	if !ok || latest.seq != capacity+3 {
		t.Fatalf("Latest = %+v ok=%v, want seq %d", latest, ok, capacity+3)
	}
}

func TestRingRangeClamp(t *testing.T) {
	r := NewRing[stamped](5)
	base := time.Now()
	for i := 0; i < 3; i++ {
		r.Append(stamped{at: base.Add(time.Duration(i) * time.Second), seq: i})
	}

	if got := r.Range(10); len(got) != 3 {
		t.Fatalf("Range(10) = %d entries, want all 3", len(got))
	}
	if got := r.Range(2); len(got) != 2 || got[0].seq != 1 {
		t.Fatalf("Range(2) = %v, want seqs 1,2", got)
	}
	if got := r.Range(0); got != nil {
		t.Fatalf("Range(0) = %v, want nil", got)
	}
}

func TestRingOutOfOrderFlagged(t *testing.T) {
	r := NewRing[stamped](4)
	base := time.Now()

	r.Append(stamped{at: base, seq: 0})
	r.Append(stamped{at: base, seq: 1})                   // duplicate timestamp
	r.Append(stamped{at: base.Add(-time.Second), seq: 2}) // clock went backwards
	r.Append(stamped{at: base.Add(time.Second), seq: 3})

	got := r.Range(4)
	if len(got) != 4 {
		t.Fatalf("ring dropped entries: len = %d, want 4", len(got))
	}

	wantFlagged := []bool{false, true, true, false}
	for i, s := range got {
		if s.outOfOrder != wantFlagged[i] {
			t.Errorf("entry %d (seq %d): outOfOrder = %v, want %v", i, s.seq, s.outOfOrder, wantFlagged[i])
		}
	}
}

func TestRingSnapshotIsolation(t *testing.T) {
	r := NewRing[stamped](3)
	base := time.Now()
	r.Append(stamped{at: base, seq: 0})
	r.Append(stamped{at: base.Add(time.Second), seq: 1})

	view := r.Range(2)
	r.Append(stamped{at: base.Add(2 * time.Second), seq: 2})
	r.Append(stamped{at: base.Add(3 * time.Second), seq: 3})

	if len(view) != 2 || view[0].seq != 0 || view[1].seq != 1 {
		t.Fatalf("earlier Range view mutated by later appends: %v", view)
	}
}
