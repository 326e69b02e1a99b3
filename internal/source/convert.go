package source

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
	gopsnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"

	"resmond/internal/model"
)

func partitionUsage(part disk.PartitionStat, usage *disk.UsageStat) model.PartitionUsage {
	return model.PartitionUsage{
		Device:     part.Device,
		Mountpoint: part.Mountpoint,
		Fstype:     part.Fstype,
		TotalBytes: usage.Total,
		UsedBytes:  usage.Used,
		FreeBytes:  usage.Free,
		UsedPct:    usage.UsedPercent,
	}
}

func interfaceTotals(nic gopsnet.IOCountersStat) model.InterfaceTotals {
	return model.InterfaceTotals{
		Name:        nic.Name,
		BytesSent:   nic.BytesSent,
		BytesRecv:   nic.BytesRecv,
		PacketsSent: nic.PacketsSent,
		PacketsRecv: nic.PacketsRecv,
	}
}

// processEntry reads one process's stats, tolerating per-field access
// denials the way the process table itself tolerates gaps. Only a
// vanished process drops the whole entry.
func processEntry(ctx context.Context, p *process.Process) (model.ProcessEntry, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return model.ProcessEntry{}, false
	}

	entry := model.ProcessEntry{PID: p.Pid, Name: name}

	if status, statusErr := p.StatusWithContext(ctx); statusErr == nil && len(status) > 0 {
		entry.State = status[0]
	}
	if user, userErr := p.UsernameWithContext(ctx); userErr == nil {
		entry.Username = user
	}
	if pct, cpuErr := p.CPUPercentWithContext(ctx); cpuErr == nil {
		entry.CPUPct = pct
	}
	if pct, memErr := p.MemoryPercentWithContext(ctx); memErr == nil {
		entry.MemPct = float64(pct)
	}
	if info, memErr := p.MemoryInfoWithContext(ctx); memErr == nil && info != nil {
		entry.MemBytes = info.RSS
	}
	if io, ioErr := p.IOCountersWithContext(ctx); ioErr == nil && io != nil {
		entry.DiskReadBytes = io.ReadBytes
		entry.DiskWriteBytes = io.WriteBytes
	}
	if threads, thrErr := p.NumThreadsWithContext(ctx); thrErr == nil {
		entry.NumThreads = threads
	}
	return entry, true
}
