package engine

import (
	"time"

	"resmond/internal/model"
)

// DomainHealth is the liveness view of one sampler derived from its
// latest snapshot.
type DomainHealth struct {
	Domain     model.Domain `json:"domain"`
	Samples    int          `json:"samples"`
	LastSample time.Time    `json:"last_sample,omitzero"`
	Degraded   bool         `json:"degraded"`
	LastError  string       `json:"last_error,omitempty"`
}

// Stale reports whether the domain has gone more than two intervals
// without a fresh snapshot, the same bound the per-sample watchdog uses.
func (h DomainHealth) Stale(interval time.Duration, now time.Time) bool {
	if h.Samples == 0 {
		return true
	}
	return now.Sub(h.LastSample) > 2*interval
}

// Health reports the per-domain sampler status in the fixed domain
// order.
func (e *Engine) Health() []DomainHealth {
	out := make([]DomainHealth, 0, 5)

	cpuHealth := DomainHealth{Domain: model.DomainCPU, Samples: e.cpu.Ring().Len()}
	if snap, ok := e.CPU(); ok {
		cpuHealth.LastSample = snap.Timestamp
		cpuHealth.Degraded = snap.Flags.Degraded
		cpuHealth.LastError = snap.Flags.Err
	}
	out = append(out, cpuHealth)

	memHealth := DomainHealth{Domain: model.DomainMemory, Samples: e.memory.Ring().Len()}
	if snap, ok := e.Memory(); ok {
		memHealth.LastSample = snap.Timestamp
		memHealth.Degraded = snap.Flags.Degraded
		memHealth.LastError = snap.Flags.Err
	}
	out = append(out, memHealth)

	diskHealth := DomainHealth{Domain: model.DomainDisk, Samples: e.disk.Ring().Len()}
	if snap, ok := e.Disk(); ok {
		diskHealth.LastSample = snap.Timestamp
		diskHealth.Degraded = snap.Flags.Degraded
		diskHealth.LastError = snap.Flags.Err
	}
	out = append(out, diskHealth)

	netHealth := DomainHealth{Domain: model.DomainNetwork, Samples: e.network.Ring().Len()}
	if snap, ok := e.Network(); ok {
		netHealth.LastSample = snap.Timestamp
		netHealth.Degraded = snap.Flags.Degraded
		netHealth.LastError = snap.Flags.Err
	}
	out = append(out, netHealth)

	procHealth := DomainHealth{Domain: model.DomainProcess, Samples: e.process.Ring().Len()}
	if snap, ok := e.Processes(); ok {
		procHealth.LastSample = snap.Timestamp
		procHealth.Degraded = snap.Flags.Degraded
		procHealth.LastError = snap.Flags.Err
	}
	out = append(out, procHealth)

	return out
}
