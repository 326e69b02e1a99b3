// Package control carries out process termination requests. Every
// request resolves to a typed result; a PID that disappeared before the
// signal landed is a normal outcome, not an error.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"resmond/internal/source"
)

// SignalKind selects the delivery semantics of a termination request.
type SignalKind string

const (
	// SignalTerminate asks the process to exit gracefully (SIGTERM).
	SignalTerminate SignalKind = "terminate"
	// SignalKill forces the process down without cleanup (SIGKILL).
	SignalKill SignalKind = "kill"
)

// Code classifies the outcome of a termination request.
type Code string

const (
	// CodeTerminated means the signal was delivered.
	CodeTerminated Code = "terminated"
	// CodeNotFound means no live process had the target PID. Expected
	// when the process exited between snapshot and request.
	CodeNotFound Code = "not_found"
	// CodePermissionDenied means the caller lacks privilege over the
	// target.
	CodePermissionDenied Code = "permission_denied"
	// CodeInvalidTarget means the PID was rejected before any signal
	// was attempted.
	CodeInvalidTarget Code = "invalid_target"
	// CodeFailed covers platform errors outside the cases above.
	CodeFailed Code = "failed"
)

// Result is the full outcome of one termination request.
type Result struct {
	PID    int32      `json:"pid"`
	Signal SignalKind `json:"signal"`
	Code   Code       `json:"code"`
	Reason string     `json:"reason,omitempty"`
}

// OK reports whether the signal was delivered.
func (r Result) OK() bool { return r.Code == CodeTerminated }

// Signaller is the platform surface the controller needs. source.System
// satisfies it.
type Signaller interface {
	PIDExists(ctx context.Context, pid int32) (bool, error)
	Signal(ctx context.Context, pid int32, force bool) error
}

type Controller struct {
	logger *slog.Logger
	sig    Signaller
	// mu serializes control requests; at most one signal is in flight
	// at a time.
	mu sync.Mutex
	// self is rejected as a target so the monitor cannot take itself
	// down through its own control surface.
	self int32
}

func New(logger *slog.Logger, sig Signaller) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{logger: logger, sig: sig, self: int32(os.Getpid())}
}

// Terminate sends a graceful termination signal to pid.
func (c *Controller) Terminate(ctx context.Context, pid int32) Result {
	return c.deliver(ctx, pid, SignalTerminate)
}

// Kill forcefully kills pid. No cleanup runs in the target; callers
// should offer Terminate first.
func (c *Controller) Kill(ctx context.Context, pid int32) Result {
	return c.deliver(ctx, pid, SignalKill)
}

func (c *Controller) deliver(ctx context.Context, pid int32, kind SignalKind) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := Result{PID: pid, Signal: kind}

	switch {
	case pid <= 0:
		res.Code = CodeInvalidTarget
		res.Reason = fmt.Sprintf("pid %d is not a valid target", pid)
	case pid == c.self:
		res.Code = CodeInvalidTarget
		res.Reason = "refusing to signal own process"
	}
	if res.Code != "" {
		c.logger.Warn("termination request rejected", "pid", pid, "signal", kind, "reason", res.Reason)
		return res
	}

	exists, err := c.sig.PIDExists(ctx, pid)
	if err != nil {
		return c.classify(res, err)
	}
	if !exists {
		res.Code = CodeNotFound
		res.Reason = "no process with that pid"
		c.logger.Info("termination target already gone", "pid", pid, "signal", kind)
		return res
	}

	if err := c.sig.Signal(ctx, pid, kind == SignalKill); err != nil {
		return c.classify(res, err)
	}

	res.Code = CodeTerminated
	c.logger.Info("signal delivered", "pid", pid, "signal", kind)
	return res
}

func (c *Controller) classify(res Result, err error) Result {
	switch {
	case errors.Is(err, source.ErrProcessNotFound):
		res.Code = CodeNotFound
	case errors.Is(err, source.ErrPermissionDenied):
		res.Code = CodePermissionDenied
	default:
		res.Code = CodeFailed
	}
	res.Reason = err.Error()

	if res.Code == CodeNotFound {
		c.logger.Info("termination target already gone", "pid", res.PID, "signal", res.Signal)
	} else {
		c.logger.Warn("termination request failed",
			"pid", res.PID, "signal", res.Signal, "code", res.Code, "error", err)
	}
	return res
}
