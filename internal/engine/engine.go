// Package engine owns the lifecycle of the five domain samplers and is
// the single read surface over their history rings. Consumers pull
// snapshots and history from here; they never touch a sampler directly.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"resmond/internal/config"
	"resmond/internal/control"
	"resmond/internal/model"
	"resmond/internal/sampler"
	"resmond/internal/source"
)

// ErrAlreadyRunning is returned by Start when the engine is running.
var ErrAlreadyRunning = errors.New("engine already running")

// ErrDraining is returned by Start while samplers abandoned by a
// timed-out Stop are still winding down; their rings must not gain a
// second writer.
var ErrDraining = errors.New("previous sampler group still draining")

type Engine struct {
	cfg    config.Config
	logger *slog.Logger

	cpu     *sampler.Sampler[model.CPUSnapshot]
	memory  *sampler.Sampler[model.MemorySnapshot]
	disk    *sampler.Sampler[model.DiskSnapshot]
	network *sampler.Sampler[model.NetworkSnapshot]
	process *sampler.Sampler[model.ProcessSnapshot]

	ctrl *control.Controller

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	draining chan struct{}
	running  bool
}

// New validates cfg and wires one sampler per domain against src. When
// src can also signal processes (source.System can), the termination
// control surface is wired alongside the samplers. The samplers do not
// run until Start.
func New(cfg config.Config, src source.Source, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger,
		cpu:     sampler.New(logger, sampler.NewCPUCollector(src), cfg.CPU.HistoryCapacity, cfg.CPU.Interval()),
		memory:  sampler.New(logger, sampler.NewMemoryCollector(src), cfg.Memory.HistoryCapacity, cfg.Memory.Interval()),
		disk:    sampler.New(logger, sampler.NewDiskCollector(src), cfg.Disk.HistoryCapacity, cfg.Disk.Interval()),
		network: sampler.New(logger, sampler.NewNetworkCollector(src), cfg.Network.HistoryCapacity, cfg.Network.Interval()),
		process: sampler.New(logger, sampler.NewProcessCollector(src), cfg.Process.HistoryCapacity, cfg.Process.Interval()),
	}
	if sig, ok := src.(control.Signaller); ok {
		e.ctrl = control.New(logger, sig)
	}
	return e, nil
}

// Start launches all five sampler loops. It returns immediately; the
// loops run until Stop or parent cancellation.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrAlreadyRunning
	}
	if e.draining != nil {
		select {
		case <-e.draining:
			e.draining = nil
		default:
			return ErrDraining
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error { return e.cpu.Run(gctx) })
	g.Go(func() error { return e.memory.Run(gctx) })
	g.Go(func() error { return e.disk.Run(gctx) })
	g.Go(func() error { return e.network.Run(gctx) })
	g.Go(func() error { return e.process.Run(gctx) })

	done := make(chan struct{})
	go func() {
		if err := g.Wait(); err != nil {
			e.logger.Error("sampler group exited with error", "error", err)
		}
		close(done)
	}()

	e.cancel = cancel
	e.done = done
	e.running = true

	e.logger.Info("engine started",
		"cpu_interval", e.cfg.CPU.Interval(),
		"memory_interval", e.cfg.Memory.Interval(),
		"disk_interval", e.cfg.Disk.Interval(),
		"network_interval", e.cfg.Network.Interval(),
		"process_interval", e.cfg.Process.Interval())
	return nil
}

// Stop cancels the sampler loops and waits up to the configured
// shutdown timeout for them to drain. Laggards are abandoned with a
// warning; Stop never hangs past the grace period.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}

	e.cancel()
	select {
	case <-e.done:
		e.logger.Info("engine stopped")
	case <-time.After(e.cfg.ShutdownTimeout):
		e.logger.Warn("shutdown timeout reached, abandoning samplers",
			"timeout", e.cfg.ShutdownTimeout)
		// An abandoned loop may still be mid-sample; Start must wait
		// for it before handing its ring to a fresh run.
		e.draining = e.done
	}

	e.cancel = nil
	e.done = nil
	e.running = false
}

// RefreshAll requests one off-cycle sample from every domain. Requests
// coalesce per domain; calling this in a burst yields at most one extra
// snapshot per domain.
func (e *Engine) RefreshAll() {
	e.cpu.Refresh()
	e.memory.Refresh()
	e.disk.Refresh()
	e.network.Refresh()
	e.process.Refresh()
}

// Refresh requests one off-cycle sample from a single domain. Unknown
// domains are ignored.
func (e *Engine) Refresh(domain model.Domain) {
	switch domain {
	case model.DomainCPU:
		e.cpu.Refresh()
	case model.DomainMemory:
		e.memory.Refresh()
	case model.DomainDisk:
		e.disk.Refresh()
	case model.DomainNetwork:
		e.network.Refresh()
	case model.DomainProcess:
		e.process.Refresh()
	}
}

// CPU returns the most recent CPU snapshot, ok=false before the first
// sample lands.
func (e *Engine) CPU() (model.CPUSnapshot, bool) { return e.cpu.Ring().Latest() }

// CPUHistory returns up to lastN most recent CPU snapshots, oldest first.
func (e *Engine) CPUHistory(lastN int) []model.CPUSnapshot { return e.cpu.Ring().Range(lastN) }

func (e *Engine) Memory() (model.MemorySnapshot, bool) { return e.memory.Ring().Latest() }

func (e *Engine) MemoryHistory(lastN int) []model.MemorySnapshot { return e.memory.Ring().Range(lastN) }

func (e *Engine) Disk() (model.DiskSnapshot, bool) { return e.disk.Ring().Latest() }

func (e *Engine) DiskHistory(lastN int) []model.DiskSnapshot { return e.disk.Ring().Range(lastN) }

func (e *Engine) Network() (model.NetworkSnapshot, bool) { return e.network.Ring().Latest() }

func (e *Engine) NetworkHistory(lastN int) []model.NetworkSnapshot {
	return e.network.Ring().Range(lastN)
}

func (e *Engine) Processes() (model.ProcessSnapshot, bool) { return e.process.Ring().Latest() }

func (e *Engine) ProcessHistory(lastN int) []model.ProcessSnapshot {
	return e.process.Ring().Range(lastN)
}

// TopProcesses returns the top entries of the latest process snapshot
// ranked by the given key. Empty before the first process sample.
func (e *Engine) TopProcesses(by model.TopKey, limit int) []model.ProcessEntry {
	snap, ok := e.Processes()
	if !ok {
		return nil
	}
	return snap.Top(by, limit)
}

// ProcessByPID looks up pid in the latest process snapshot. ok=false
// when no snapshot exists yet or the snapshot does not list the pid.
func (e *Engine) ProcessByPID(pid int32) (model.ProcessEntry, bool) {
	snap, ok := e.Processes()
	if !ok {
		return model.ProcessEntry{}, false
	}
	return snap.ByPID(pid)
}

// SearchProcesses returns latest-snapshot entries whose name contains
// query, case-insensitively.
func (e *Engine) SearchProcesses(query string) []model.ProcessEntry {
	snap, ok := e.Processes()
	if !ok {
		return nil
	}
	return snap.Search(query)
}

// Terminate asks pid to exit gracefully through the control surface.
func (e *Engine) Terminate(ctx context.Context, pid int32) control.Result {
	if e.ctrl == nil {
		return unwiredControl(pid, control.SignalTerminate)
	}
	return e.ctrl.Terminate(ctx, pid)
}

// Kill forcefully kills pid through the control surface.
func (e *Engine) Kill(ctx context.Context, pid int32) control.Result {
	if e.ctrl == nil {
		return unwiredControl(pid, control.SignalKill)
	}
	return e.ctrl.Kill(ctx, pid)
}

func unwiredControl(pid int32, kind control.SignalKind) control.Result {
	return control.Result{
		PID:    pid,
		Signal: kind,
		Code:   control.CodeFailed,
		Reason: "stat source cannot signal processes",
	}
}
