package sampler

import (
	"context"
	"time"

	"resmond/internal/model"
	"resmond/internal/source"
)

type CPUCollector struct {
	src    source.Source
	prev   source.CPUStats
	primed bool
}

func NewCPUCollector(src source.Source) *CPUCollector {
	return &CPUCollector{src: src}
}

func (c *CPUCollector) Domain() model.Domain { return model.DomainCPU }

func (c *CPUCollector) Collect(ctx context.Context, at time.Time) (model.CPUSnapshot, error) {
	stats, err := c.src.CPU(ctx)
	if err != nil {
		return model.CPUSnapshot{}, err
	}

	snap := model.CPUSnapshot{
		Timestamp:     at,
		FrequencyMHz:  stats.FrequencyMHz,
		Load1:         stats.Load1,
		Load5:         stats.Load5,
		Load15:        stats.Load15,
		PhysicalCores: stats.PhysicalCores,
		LogicalCores:  stats.LogicalCores,
		PerCorePct:    make([]float64, len(stats.PerCore)),
	}

	if !c.primed {
		snap.Flags.WarmingUp = true
	} else {
		c.fillUtilization(&snap, stats)
	}

	c.prev = stats
	c.primed = true
	return snap, nil
}

func (c *CPUCollector) fillUtilization(snap *model.CPUSnapshot, cur source.CPUStats) {
	totalDelta := deltaSeconds(cur.Aggregate.Total, c.prev.Aggregate.Total)
	if totalDelta > 0 {
		idleDelta := deltaSeconds(cur.Aggregate.Idle, c.prev.Aggregate.Idle)
		snap.UserPct = clampPercent(deltaSeconds(cur.Aggregate.User, c.prev.Aggregate.User) / totalDelta * 100)
		snap.SystemPct = clampPercent(deltaSeconds(cur.Aggregate.System, c.prev.Aggregate.System) / totalDelta * 100)
		snap.IdlePct = clampPercent(idleDelta / totalDelta * 100)
		snap.TotalPct = clampPercent((totalDelta - idleDelta) / totalDelta * 100)
	}

	coreCount := len(cur.PerCore)
	if len(c.prev.PerCore) < coreCount {
		coreCount = len(c.prev.PerCore)
	}
	for i := 0; i < coreCount; i++ {
		coreDelta := deltaSeconds(cur.PerCore[i].Total, c.prev.PerCore[i].Total)
		if coreDelta <= 0 {
			continue
		}
		busy := coreDelta - deltaSeconds(cur.PerCore[i].Idle, c.prev.PerCore[i].Idle)
		snap.PerCorePct[i] = clampPercent(busy / coreDelta * 100)
	}
}

func (c *CPUCollector) Degraded(at time.Time, reason string) model.CPUSnapshot {
	return model.CPUSnapshot{
		Timestamp: at,
		Flags:     model.Flags{Degraded: true, Err: reason},
	}
}
