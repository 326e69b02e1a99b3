package sampler

import (
	"context"
	"time"

	"resmond/internal/model"
	"resmond/internal/source"
)

type MemoryCollector struct {
	src    source.Source
	primed bool
}

func NewMemoryCollector(src source.Source) *MemoryCollector {
	return &MemoryCollector{src: src}
}

func (c *MemoryCollector) Domain() model.Domain { return model.DomainMemory }

func (c *MemoryCollector) Collect(ctx context.Context, at time.Time) (model.MemorySnapshot, error) {
	stats, err := c.src.Memory(ctx)
	if err != nil {
		return model.MemorySnapshot{}, err
	}

	snap := model.MemorySnapshot{
		Timestamp:         at,
		RAMTotalBytes:     stats.RAMTotal,
		RAMUsedBytes:      stats.RAMUsed,
		RAMAvailableBytes: stats.RAMAvailable,
		RAMFreeBytes:      stats.RAMFree,
		RAMUsedPct:        clampPercent(stats.RAMUsedPct),
		SwapTotalBytes:    stats.SwapTotal,
		SwapUsedBytes:     stats.SwapUsed,
		SwapFreeBytes:     stats.SwapFree,
		SwapUsedPct:       clampPercent(stats.SwapUsedPct),
	}

	if index, ok := memoryFragIndex(stats.FreeBlockCounts, stats.PageSize); ok {
		snap.FragmentationIndex = index
		snap.FragSource = model.FragSourceBuddyInfo
	} else {
		snap.FragmentationIndex = swapFragProxy(stats.SwapUsed, stats.RAMUsed)
		snap.FragSource = model.FragSourceSwapProxy
	}

	if !c.primed {
		snap.Flags.WarmingUp = true
		c.primed = true
	}
	return snap, nil
}

func (c *MemoryCollector) Degraded(at time.Time, reason string) model.MemorySnapshot {
	return model.MemorySnapshot{
		Timestamp: at,
		Flags:     model.Flags{Degraded: true, Err: reason},
	}
}
