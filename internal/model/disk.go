package model

import "time"

type PartitionUsage struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	TotalBytes uint64  `json:"total_bytes"`
	UsedBytes  uint64  `json:"used_bytes"`
	FreeBytes  uint64  `json:"free_bytes"`
	UsedPct    float64 `json:"used_pct"`
}

type DiskSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Flags     Flags     `json:"flags,omitzero"`

	Partitions []PartitionUsage `json:"partitions"`

	ReadBytesPerSec  float64 `json:"read_bytes_per_sec"`
	WriteBytesPerSec float64 `json:"write_bytes_per_sec"`
	ReadOpsPerSec    float64 `json:"read_ops_per_sec"`
	WriteOpsPerSec   float64 `json:"write_ops_per_sec"`

	FragmentationIndex float64 `json:"fragmentation_index"`
}

func (s DiskSnapshot) SampleTime() time.Time { return s.Timestamp }

func (s DiskSnapshot) MarkedOutOfOrder() DiskSnapshot {
	s.Flags.OutOfOrder = true
	return s
}
