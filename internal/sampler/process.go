package sampler

import (
	"context"
	"sort"
	"time"

	"resmond/internal/model"
	"resmond/internal/source"
)

type ProcessCollector struct {
	src    source.Source
	primed bool
}

func NewProcessCollector(src source.Source) *ProcessCollector {
	return &ProcessCollector{src: src}
}

func (c *ProcessCollector) Domain() model.Domain { return model.DomainProcess }

func (c *ProcessCollector) Collect(ctx context.Context, at time.Time) (model.ProcessSnapshot, error) {
	stats, err := c.src.Processes(ctx)
	if err != nil {
		return model.ProcessSnapshot{}, err
	}

	entries := stats.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].MemBytes > entries[j].MemBytes
	})

	snap := model.ProcessSnapshot{
		Timestamp: at,
		Total:     stats.Total,
		Entries:   entries,
	}
	if !c.primed {
		snap.Flags.WarmingUp = true
		c.primed = true
	}
	return snap, nil
}

func (c *ProcessCollector) Degraded(at time.Time, reason string) model.ProcessSnapshot {
	return model.ProcessSnapshot{
		Timestamp: at,
		Flags:     model.Flags{Degraded: true, Err: reason},
	}
}
