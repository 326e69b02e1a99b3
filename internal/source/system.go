package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"syscall"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// System reads live stats from the local OS through gopsutil. It is
// stateless and safe for concurrent use.
type System struct{}

func NewSystem() *System { return &System{} }

func (s *System) CPU(ctx context.Context) (CPUStats, error) {
	agg, err := cpu.TimesWithContext(ctx, false)
	if err != nil {
		return CPUStats{}, fmt.Errorf("read cpu times: %w", err)
	}
	if len(agg) == 0 {
		return CPUStats{}, errors.New("empty aggregate cpu times")
	}
	perCore, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return CPUStats{}, fmt.Errorf("read per-core cpu times: %w", err)
	}

	out := CPUStats{Aggregate: convertTimes(agg[0])}
	out.PerCore = make([]CPUTimes, 0, len(perCore))
	for _, core := range perCore {
		out.PerCore = append(out.PerCore, convertTimes(core))
	}

	if physical, cntErr := cpu.CountsWithContext(ctx, false); cntErr == nil {
		out.PhysicalCores = physical
	}
	if logical, cntErr := cpu.CountsWithContext(ctx, true); cntErr == nil {
		out.LogicalCores = logical
	}
	if info, infoErr := cpu.InfoWithContext(ctx); infoErr == nil && len(info) > 0 && info[0].Mhz > 0 {
		out.FrequencyMHz = uint64(info[0].Mhz)
	}
	// Load average is unsupported on some platforms; zeros are fine.
	if avg, loadErr := load.AvgWithContext(ctx); loadErr == nil {
		out.Load1 = avg.Load1
		out.Load5 = avg.Load5
		out.Load15 = avg.Load15
	}
	return out, nil
}

func convertTimes(t cpu.TimesStat) CPUTimes {
	total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
	return CPUTimes{
		User:   t.User,
		System: t.System,
		Idle:   t.Idle,
		Total:  total,
	}
}

func (s *System) Memory(ctx context.Context) (MemoryStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, fmt.Errorf("read virtual memory: %w", err)
	}
	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, fmt.Errorf("read swap memory: %w", err)
	}

	out := MemoryStats{
		RAMTotal:     vm.Total,
		RAMUsed:      vm.Used,
		RAMAvailable: vm.Available,
		RAMFree:      vm.Free,
		RAMUsedPct:   vm.UsedPercent,
		SwapTotal:    swap.Total,
		SwapUsed:     swap.Used,
		SwapFree:     swap.Free,
		SwapUsedPct:  swap.UsedPercent,
		PageSize:     uint64(os.Getpagesize()),
	}

	// Free-block granularity is Linux-only; elsewhere the read fails and
	// the sampler falls back to the swap-pressure proxy.
	if raw, readErr := os.ReadFile("/proc/buddyinfo"); readErr == nil {
		out.FreeBlockCounts = parseBuddyInfo(raw)
	}
	return out, nil
}

func (s *System) Disk(ctx context.Context) (DiskStats, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return DiskStats{}, fmt.Errorf("read partitions: %w", err)
	}

	out := DiskStats{}
	for _, part := range parts {
		usage, usageErr := disk.UsageWithContext(ctx, part.Mountpoint)
		if usageErr != nil {
			// Some mounts are unreadable without privilege; skip them
			// the way the partition listing itself tolerates gaps.
			continue
		}
		out.Partitions = append(out.Partitions, partitionUsage(part, usage))
		if usage.Total > out.SampledPartitionBytes {
			out.SampledPartitionBytes = usage.Total
			out.SampledFileCount = usage.InodesUsed
		}
	}
	sort.Slice(out.Partitions, func(i, j int) bool {
		return out.Partitions[i].Mountpoint < out.Partitions[j].Mountpoint
	})

	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return DiskStats{}, fmt.Errorf("read disk io counters: %w", err)
	}
	for _, io := range counters {
		out.ReadBytes += io.ReadBytes
		out.WriteBytes += io.WriteBytes
		out.ReadOps += io.ReadCount
		out.WriteOps += io.WriteCount
	}
	return out, nil
}

func (s *System) Network(ctx context.Context) (NetworkStats, error) {
	agg, err := gopsnet.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetworkStats{}, fmt.Errorf("read net io counters: %w", err)
	}
	if len(agg) == 0 {
		return NetworkStats{}, errors.New("empty aggregate net io counters")
	}
	perNic, err := gopsnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return NetworkStats{}, fmt.Errorf("read per-nic io counters: %w", err)
	}

	out := NetworkStats{
		BytesSent: agg[0].BytesSent,
		BytesRecv: agg[0].BytesRecv,
	}
	for _, nic := range perNic {
		out.Interfaces = append(out.Interfaces, interfaceTotals(nic))
	}

	// Connection enumeration can be denied without privilege; a zero
	// count is better than failing the whole sample.
	if conns, connErr := gopsnet.ConnectionsWithContext(ctx, "inet"); connErr == nil {
		out.ActiveConnections = len(conns)
	}
	return out, nil
}

func (s *System) Processes(ctx context.Context) (ProcessStats, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return ProcessStats{}, fmt.Errorf("list processes: %w", err)
	}

	out := ProcessStats{Total: len(procs)}
	for _, p := range procs {
		entry, ok := processEntry(ctx, p)
		if !ok {
			continue
		}
		out.Entries = append(out.Entries, entry)
	}
	return out, nil
}

// PIDExists reports whether pid maps to a live process right now. The
// answer can be stale by the time the caller acts on it.
func (s *System) PIDExists(ctx context.Context, pid int32) (bool, error) {
	return process.PidExistsWithContext(ctx, pid)
}

// Signal delivers SIGTERM, or SIGKILL when force is set, and reports the
// request outcome without waiting for the process to exit.
func (s *System) Signal(ctx context.Context, pid int32, force bool) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return fmt.Errorf("pid %d: %w", pid, ErrProcessNotFound)
		}
		return fmt.Errorf("lookup pid %d: %w", pid, err)
	}

	if force {
		err = p.KillWithContext(ctx)
	} else {
		err = p.TerminateWithContext(ctx)
	}
	return mapSignalError(pid, err)
}

func mapSignalError(pid int32, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, process.ErrorProcessNotRunning), errors.Is(err, syscall.ESRCH):
		return fmt.Errorf("pid %d: %w", pid, ErrProcessNotFound)
	case errors.Is(err, os.ErrPermission), errors.Is(err, syscall.EPERM):
		return fmt.Errorf("pid %d: %w", pid, ErrPermissionDenied)
	default:
		return fmt.Errorf("signal pid %d: %w", pid, err)
	}
}
