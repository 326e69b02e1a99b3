// Package sampler runs one periodic collection loop per resource
// domain. Each loop polls the stat source once per tick, derives rates
// from its previous counters, and appends exactly one snapshot to its
// history ring. A failed read produces a degraded marker snapshot and
// the loop keeps ticking; nothing here ever aborts on a bad sample.
package sampler

import (
	"context"
	"log/slog"
	"time"

	"resmond/internal/history"
	"resmond/internal/model"
)

// Collector builds one snapshot per call for a single domain. Collect
// owns whatever previous-sample state rate derivation needs; it is only
// ever called from its sampler's goroutine.
type Collector[T history.Sample[T]] interface {
	Domain() model.Domain
	Collect(ctx context.Context, at time.Time) (T, error)
	// Degraded builds the marker snapshot recorded when the stat read
	// failed: rate and gauge fields zero, reason attached.
	Degraded(at time.Time, reason string) T
}

type Sampler[T history.Sample[T]] struct {
	logger    *slog.Logger
	collector Collector[T]
	ring      *history.Ring[T]
	interval  time.Duration
	// watchdog bounds a single stat-source call so a stuck platform
	// facility degrades the tick instead of blocking the loop.
	watchdog time.Duration
	refresh  chan struct{}
}

func New[T history.Sample[T]](logger *slog.Logger, collector Collector[T], capacity int, interval time.Duration) *Sampler[T] {
	return &Sampler[T]{
		logger:    logger,
		collector: collector,
		ring:      history.NewRing[T](capacity),
		interval:  interval,
		watchdog:  2 * interval,
		refresh:   make(chan struct{}, 1),
	}
}

func (s *Sampler[T]) Domain() model.Domain { return s.collector.Domain() }

func (s *Sampler[T]) Ring() *history.Ring[T] { return s.ring }

// Refresh requests one off-cycle sample, serviced by the loop between
// ticks. Requests arriving while one is pending coalesce, so rapid
// callers get at most one extra snapshot per serviced request.
func (s *Sampler[T]) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Run ticks until ctx is canceled, finishing the in-flight sample
// before returning.
func (s *Sampler[T]) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sample(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sample(ctx)
		case <-s.refresh:
			s.sample(ctx)
		}
	}
}

func (s *Sampler[T]) sample(ctx context.Context) {
	at := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, s.watchdog)
	snap, err := s.collector.Collect(callCtx, at)
	cancel()

	if err != nil {
		// A collect cut short by shutdown is not a source failure;
		// leave the history as it was.
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("sample failed, recording degraded snapshot",
			"domain", s.collector.Domain(), "error", err)
		snap = s.collector.Degraded(at, err.Error())
	}
	s.ring.Append(snap)
}
