package sampler

import (
	"context"
	"time"

	"resmond/internal/model"
	"resmond/internal/source"
)

type NetworkCollector struct {
	src    source.Source
	prev   source.NetworkStats
	prevAt time.Time
	primed bool
}

func NewNetworkCollector(src source.Source) *NetworkCollector {
	return &NetworkCollector{src: src}
}

func (c *NetworkCollector) Domain() model.Domain { return model.DomainNetwork }

func (c *NetworkCollector) Collect(ctx context.Context, at time.Time) (model.NetworkSnapshot, error) {
	stats, err := c.src.Network(ctx)
	if err != nil {
		return model.NetworkSnapshot{}, err
	}

	snap := model.NetworkSnapshot{
		Timestamp:         at,
		Interfaces:        stats.Interfaces,
		ActiveConnections: stats.ActiveConnections,
	}

	if !c.primed {
		snap.Flags.WarmingUp = true
	} else {
		seconds := at.Sub(c.prevAt).Seconds()
		snap.UploadBytesPerSec = rate(stats.BytesSent, c.prev.BytesSent, seconds)
		snap.DownloadBytesPerSec = rate(stats.BytesRecv, c.prev.BytesRecv, seconds)
	}

	c.prev = stats
	c.prevAt = at
	c.primed = true
	return snap, nil
}

func (c *NetworkCollector) Degraded(at time.Time, reason string) model.NetworkSnapshot {
	return model.NetworkSnapshot{
		Timestamp: at,
		Flags:     model.Flags{Degraded: true, Err: reason},
	}
}
