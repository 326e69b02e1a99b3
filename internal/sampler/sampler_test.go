package sampler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"resmond/internal/history"
	"resmond/internal/model"
)

type loopSnap struct {
	at         time.Time
	degraded   bool
	reason     string
	outOfOrder bool
}

func (s loopSnap) SampleTime() time.Time { return s.at }

func (s loopSnap) MarkedOutOfOrder() loopSnap {
	s.outOfOrder = true
	return s
}

// loopCollector counts calls and can fail a configured range of them or
// park inside Collect until released.
type loopCollector struct {
	mu        sync.Mutex
	calls     int
	failFrom  int
	failUntil int
	gate      chan struct{}
}

func (c *loopCollector) Domain() model.Domain { return model.DomainCPU }

func (c *loopCollector) Collect(ctx context.Context, at time.Time) (loopSnap, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	gate := c.gate
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return loopSnap{}, ctx.Err()
		}
	}
	if call >= c.failFrom && call <= c.failUntil {
		return loopSnap{}, errors.New("stat source down")
	}
	return loopSnap{at: at}, nil
}

func (c *loopCollector) Degraded(at time.Time, reason string) loopSnap {
	return loopSnap{at: at, degraded: true, reason: reason}
}

func (c *loopCollector) setGate(gate chan struct{}) {
	c.mu.Lock()
	c.gate = gate
	c.mu.Unlock()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForLen(t *testing.T, ring *history.Ring[loopSnap], want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if ring.Len() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("ring never reached %d entries, have %d", want, ring.Len())
}

func TestSamplerSamplesImmediatelyThenTicks(t *testing.T) {
	collector := &loopCollector{}
	s := New[loopSnap](testLogger(), collector, 64, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()

	// The first sample lands without waiting a full interval.
	waitForLen(t, s.Ring(), 1)
	waitForLen(t, s.Ring(), 4)

	cancel()
	<-done

	snaps := s.Ring().Range(s.Ring().Len())
	for i := 1; i < len(snaps); i++ {
		if snaps[i].at.Before(snaps[i-1].at) {
			t.Fatalf("entries out of time order at %d: %v then %v", i, snaps[i-1].at, snaps[i].at)
		}
	}
}

func TestSamplerHistoryStaysBounded(t *testing.T) {
	const capacity = 5
	collector := &loopCollector{}
	s := New[loopSnap](testLogger(), collector, capacity, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()

	waitForLen(t, s.Ring(), capacity)
	// Keep ticking well past capacity and watch the bound hold.
	for i := 0; i < 20; i++ {
		if s.Ring().Len() > capacity {
			t.Fatalf("ring grew past capacity: %d > %d", s.Ring().Len(), capacity)
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done
}

func TestSamplerDegradedTicksThenRecovery(t *testing.T) {
	collector := &loopCollector{failFrom: 2, failUntil: 4}
	s := New[loopSnap](testLogger(), collector, 1024, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()

	waitForLen(t, s.Ring(), 6)
	cancel()
	<-done

	snaps := s.Ring().Range(s.Ring().Len())
	for i, snap := range snaps[:6] {
		wantDegraded := i >= 1 && i <= 3
		if snap.degraded != wantDegraded {
			t.Errorf("sample %d: degraded = %v, want %v", i, snap.degraded, wantDegraded)
		}
		if wantDegraded && snap.reason == "" {
			t.Errorf("sample %d: degraded without reason", i)
		}
	}
}

func TestSamplerRefreshCoalesces(t *testing.T) {
	collector := &loopCollector{}
	// Interval long enough that only refreshes drive sampling here.
	s := New[loopSnap](testLogger(), collector, 64, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitForLen(t, s.Ring(), 1)

	gate := make(chan struct{})
	collector.setGate(gate)

	// First refresh parks the loop inside Collect; the burst behind it
	// collapses into a single pending request.
	s.Refresh()
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		s.Refresh()
	}

	gate <- struct{}{} // release the parked sample
	gate <- struct{}{} // release the one coalesced follow-up
	waitForLen(t, s.Ring(), 3)

	collector.setGate(nil)
	time.Sleep(30 * time.Millisecond)
	if got := s.Ring().Len(); got != 3 {
		t.Fatalf("ring has %d entries after burst, want 3", got)
	}
}

func TestSamplerShutdownMidCollectLeavesHistory(t *testing.T) {
	collector := &loopCollector{}
	s := New[loopSnap](testLogger(), collector, 64, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()

	waitForLen(t, s.Ring(), 1)

	// Park the loop inside a collect, then shut down while it waits.
	gate := make(chan struct{})
	collector.setGate(gate)
	s.Refresh()
	time.Sleep(20 * time.Millisecond)

	cancel()
	<-done

	if got := s.Ring().Len(); got != 1 {
		t.Fatalf("ring has %d entries after shutdown, want 1", got)
	}
	latest, _ := s.Ring().Latest()
	if latest.degraded {
		t.Fatalf("shutdown recorded a degraded snapshot: %+v", latest)
	}
}
