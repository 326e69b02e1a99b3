package model

type Domain string

const (
	DomainCPU     Domain = "cpu"
	DomainMemory  Domain = "memory"
	DomainDisk    Domain = "disk"
	DomainNetwork Domain = "network"
	DomainProcess Domain = "process"
)

// Domains lists every sampled resource domain in a stable order.
func Domains() []Domain {
	return []Domain{DomainCPU, DomainMemory, DomainDisk, DomainNetwork, DomainProcess}
}

// Flags annotate a snapshot with sampling conditions the consumer must
// tolerate. A snapshot is never rejected for any of these; the flags are
// set once at construction and the snapshot stays immutable afterwards.
type Flags struct {
	// WarmingUp marks the first sample of a sampler, where rate fields
	// have no previous counter to diff against and are reported as zero.
	WarmingUp bool `json:"warming_up,omitempty"`
	// Degraded marks a sample whose underlying stat read failed. Rate and
	// gauge fields are zero and Err carries the reason.
	Degraded bool `json:"degraded,omitempty"`
	// OutOfOrder marks a sample whose timestamp did not advance past the
	// previously stored one (clock skew or duplicate tick).
	OutOfOrder bool   `json:"out_of_order,omitempty"`
	Err        string `json:"error,omitempty"`
}
