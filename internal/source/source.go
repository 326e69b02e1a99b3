// Package source defines the contract against the platform stat
// facility and implements it on gopsutil. Samplers receive raw counters
// and gauges from here and derive rates themselves; nothing in this
// package keeps previous-sample state.
package source

import (
	"context"
	"errors"

	"resmond/internal/model"
)

// ErrProcessNotFound reports that the target PID had no live process at
// the time of the call. Callers treat it as a normal race outcome.
var ErrProcessNotFound = errors.New("process not found")

// ErrPermissionDenied reports insufficient privilege to signal a process.
var ErrPermissionDenied = errors.New("permission denied")

// CPUTimes are cumulative scheduler counters in seconds since boot.
type CPUTimes struct {
	User   float64
	System float64
	Idle   float64
	Total  float64
}

type CPUStats struct {
	Aggregate CPUTimes
	PerCore   []CPUTimes

	FrequencyMHz uint64
	Load1        float64
	Load5        float64
	Load15       float64

	PhysicalCores int
	LogicalCores  int
}

type MemoryStats struct {
	RAMTotal     uint64
	RAMUsed      uint64
	RAMAvailable uint64
	RAMFree      uint64
	RAMUsedPct   float64

	SwapTotal   uint64
	SwapUsed    uint64
	SwapFree    uint64
	SwapUsedPct float64

	// FreeBlockCounts holds the number of free blocks per buddy order
	// (order 0 = one page), summed across zones. Nil when the platform
	// exposes no free-block granularity.
	FreeBlockCounts []uint64
	PageSize        uint64
}

type DiskStats struct {
	Partitions []model.PartitionUsage

	// Cumulative counters aggregated over all physical disks.
	ReadBytes  uint64
	WriteBytes uint64
	ReadOps    uint64
	WriteOps   uint64

	// SampledFileCount is the in-use inode count of the largest
	// partition, the input to the disk fragmentation proxy.
	SampledFileCount      uint64
	SampledPartitionBytes uint64
}

type NetworkStats struct {
	// Cumulative counters aggregated over all interfaces.
	BytesSent uint64
	BytesRecv uint64

	Interfaces        []model.InterfaceTotals
	ActiveConnections int
}

type ProcessStats struct {
	Total   int
	Entries []model.ProcessEntry
}

// Source is the per-call contract with the platform stat facility. Every
// method returns either a complete value or an error; partial results are
// never handed out. Implementations must be safe for concurrent use by
// independent samplers.
type Source interface {
	CPU(ctx context.Context) (CPUStats, error)
	Memory(ctx context.Context) (MemoryStats, error)
	Disk(ctx context.Context) (DiskStats, error)
	Network(ctx context.Context) (NetworkStats, error)
	Processes(ctx context.Context) (ProcessStats, error)
}
