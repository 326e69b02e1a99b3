package model

import "time"

type CPUSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Flags     Flags     `json:"flags,omitzero"`

	TotalPct     float64   `json:"total_utilization_pct"`
	PerCorePct   []float64 `json:"per_core_utilization_pct"`
	UserPct      float64   `json:"user_pct"`
	SystemPct    float64   `json:"system_pct"`
	IdlePct      float64   `json:"idle_pct"`
	FrequencyMHz uint64    `json:"frequency_mhz"`
	Load1        float64   `json:"load_avg_1"`
	Load5        float64   `json:"load_avg_5"`
	Load15       float64   `json:"load_avg_15"`

	PhysicalCores int `json:"physical_cores"`
	LogicalCores  int `json:"logical_cores"`
}

func (s CPUSnapshot) SampleTime() time.Time { return s.Timestamp }

func (s CPUSnapshot) MarkedOutOfOrder() CPUSnapshot {
	s.Flags.OutOfOrder = true
	return s
}
