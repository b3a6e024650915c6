package models

import "time"

// LookupStatus reports how a volume or instance lookup ended
type LookupStatus int

const (
	// LookupFound means the entity was described successfully
	LookupFound LookupStatus = iota
	// LookupNotFound means the id no longer resolves
	LookupNotFound
	// LookupFailed means the provider returned an error other than not-found
	// (throttling, access denied, network)
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not-found"
	case LookupFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SnapshotRecord is one EBS snapshot enriched with the state of its volume,
// the instances that volume is attached to and the AMIs that reference it.
// Multi-valued fields are comma-joined.
type SnapshotRecord struct {
	ID          string
	Description string
	StartTime   string // day-month-year hour:minute:second, UTC
	StartedAt   time.Time
	SizeGB      int

	VolumeID     string
	VolumeExists bool
	VolumeName   string

	InstanceID     string
	InstanceExists bool
	InstanceName   string

	AmiID     string
	AmiExists bool
	AmiName   string

	VolumeLookup   LookupStatus
	InstanceLookup LookupStatus
}

// UnreferencedSnapshot is a snapshot in the report with its storage cost estimate
type UnreferencedSnapshot struct {
	Record               SnapshotRecord
	EstimatedMonthlyCost float64
	PricingSource        string
}

// VolumeInfo represents an unattached (available) EBS volume
type VolumeInfo struct {
	VolumeID             string
	Name                 string
	Size                 int
	VolumeType           string
	State                string
	Region               string
	SnapshotID           string
	Tags                 string // "key = value" pairs, comma-joined
	CreationTime         time.Time
	EstimatedMonthlyCost float64
	PricingSource        string // "API", "Cache", "Default" or "N/A"
}
