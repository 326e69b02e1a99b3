package model

import (
	"sort"
	"strings"
	"time"
)

// ProcessEntry is a point-in-time view of one process. It carries no
// identity beyond PID; a PID looked up later may already belong to a
// different process or to none.
type ProcessEntry struct {
	PID      int32  `json:"pid"`
	Name     string `json:"name"`
	State    string `json:"state"`
	Username string `json:"username,omitempty"`

	CPUPct   float64 `json:"cpu_pct"`
	MemPct   float64 `json:"mem_pct"`
	MemBytes uint64  `json:"mem_bytes"`

	DiskReadBytes  uint64 `json:"disk_read_bytes"`
	DiskWriteBytes uint64 `json:"disk_write_bytes"`
	NumThreads     int32  `json:"num_threads"`
}

type TopKey string

const (
	TopByCPU    TopKey = "cpu"
	TopByMemory TopKey = "memory"
	TopByDisk   TopKey = "disk"
)

type ProcessSnapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Flags     Flags     `json:"flags,omitzero"`

	Total int `json:"total"`
	// Entries is ordered by resident memory descending.
	Entries []ProcessEntry `json:"entries"`
}

func (s ProcessSnapshot) SampleTime() time.Time { return s.Timestamp }

func (s ProcessSnapshot) MarkedOutOfOrder() ProcessSnapshot {
	s.Flags.OutOfOrder = true
	return s
}

// ByPID returns the entry for pid, ok=false when this snapshot does not
// list it. The answer is as stale as the snapshot itself.
func (s ProcessSnapshot) ByPID(pid int32) (ProcessEntry, bool) {
	for _, e := range s.Entries {
		if e.PID == pid {
			return e, true
		}
	}
	return ProcessEntry{}, false
}

// Search returns entries whose name contains query, case-insensitively,
// preserving snapshot order. An empty query matches nothing.
func (s ProcessSnapshot) Search(query string) []ProcessEntry {
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	var out []ProcessEntry
	for _, e := range s.Entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Top returns up to limit entries ordered by the given resource key,
// heaviest first. The receiver's entry order is left untouched.
func (s ProcessSnapshot) Top(by TopKey, limit int) []ProcessEntry {
	if limit <= 0 || len(s.Entries) == 0 {
		return nil
	}
	out := make([]ProcessEntry, len(s.Entries))
	copy(out, s.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		switch by {
		case TopByCPU:
			return out[i].CPUPct > out[j].CPUPct
		case TopByDisk:
			return out[i].DiskReadBytes+out[i].DiskWriteBytes > out[j].DiskReadBytes+out[j].DiskWriteBytes
		default:
			return out[i].MemBytes > out[j].MemBytes
		}
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}
