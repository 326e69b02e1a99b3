package sampler

import (
	"context"
	"time"

	"resmond/internal/model"
	"resmond/internal/source"
)

type DiskCollector struct {
	src    source.Source
	prev   source.DiskStats
	prevAt time.Time
	primed bool
}

func NewDiskCollector(src source.Source) *DiskCollector {
	return &DiskCollector{src: src}
}

func (c *DiskCollector) Domain() model.Domain { return model.DomainDisk }

func (c *DiskCollector) Collect(ctx context.Context, at time.Time) (model.DiskSnapshot, error) {
	stats, err := c.src.Disk(ctx)
	if err != nil {
		return model.DiskSnapshot{}, err
	}

	snap := model.DiskSnapshot{
		Timestamp:          at,
		Partitions:         stats.Partitions,
		FragmentationIndex: diskFragIndex(stats.SampledFileCount, stats.SampledPartitionBytes),
	}

	if !c.primed {
		snap.Flags.WarmingUp = true
	} else {
		seconds := at.Sub(c.prevAt).Seconds()
		snap.ReadBytesPerSec = rate(stats.ReadBytes, c.prev.ReadBytes, seconds)
		snap.WriteBytesPerSec = rate(stats.WriteBytes, c.prev.WriteBytes, seconds)
		snap.ReadOpsPerSec = rate(stats.ReadOps, c.prev.ReadOps, seconds)
		snap.WriteOpsPerSec = rate(stats.WriteOps, c.prev.WriteOps, seconds)
	}

	c.prev = stats
	c.prevAt = at
	c.primed = true
	return snap, nil
}

func (c *DiskCollector) Degraded(at time.Time, reason string) model.DiskSnapshot {
	return model.DiskSnapshot{
		Timestamp: at,
		Flags:     model.Flags{Degraded: true, Err: reason},
	}
}
