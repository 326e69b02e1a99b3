package model

import "time"

// FragSource names the policy that produced a memory fragmentation index,
// so consumers and tests can tell the real buddy-allocator estimate from
// the swap-pressure proxy used where free-block granularity is missing.
type FragSource string

const (
	FragSourceBuddyInfo FragSource = "buddyinfo"
	FragSourceSwapProxy FragSource = "swap_proxy"
	FragSourceNone      FragSource = ""
)

type MemorySnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Flags     Flags     `json:"flags,omitzero"`

	RAMTotalBytes     uint64  `json:"ram_total_bytes"`
	RAMUsedBytes      uint64  `json:"ram_used_bytes"`
	RAMAvailableBytes uint64  `json:"ram_available_bytes"`
	RAMFreeBytes      uint64  `json:"ram_free_bytes"`
	RAMUsedPct        float64 `json:"ram_used_pct"`

	SwapTotalBytes uint64  `json:"swap_total_bytes"`
	SwapUsedBytes  uint64  `json:"swap_used_bytes"`
	SwapFreeBytes  uint64  `json:"swap_free_bytes"`
	SwapUsedPct    float64 `json:"swap_used_pct"`

	// FragmentationIndex is a [0,1] proxy for memory non-contiguity.
	// FragSource records which estimate produced it.
	FragmentationIndex float64    `json:"fragmentation_index"`
	FragSource         FragSource `json:"fragmentation_source,omitempty"`
}

func (s MemorySnapshot) SampleTime() time.Time { return s.Timestamp }

func (s MemorySnapshot) MarkedOutOfOrder() MemorySnapshot {
	s.Flags.OutOfOrder = true
	return s
}
