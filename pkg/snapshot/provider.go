// Package snapshot resolves the provenance of EBS snapshots: whether the volume a
// snapshot was taken from still exists, which instances that volume is attached
// to, and which AMIs reference the snapshot.
package snapshot

import (
	"context"
	"errors"
	"time"
)

// NoNameSet marks an entity that exists but carries no Name tag. It keeps
// "exists, untagged" distinguishable from "absent", which resolves to "".
const NoNameSet = "No Name Set"

// ErrNotFound is wrapped by providers when a volume or instance id no longer resolves
var ErrNotFound = errors.New("not found")

// Image is a self-owned AMI
type Image struct {
	ID                  string
	Name                string
	BlockDeviceMappings []BlockDeviceMapping
}

// BlockDeviceMapping is one device of an image. SnapshotID is empty for
// ephemeral or non-EBS devices.
type BlockDeviceMapping struct {
	DeviceName string
	SnapshotID string
}

// Snapshot is a self-owned EBS snapshot
type Snapshot struct {
	ID          string
	Description string
	StartTime   time.Time
	SizeGB      int
	VolumeID    string
}

// Volume is an EBS volume as currently described by the provider
type Volume struct {
	ID          string
	Tags        map[string]string
	Attachments []Attachment
}

// Attachment links a volume to an instance
type Attachment struct {
	InstanceID string
}

// Instance is an EC2 instance as currently described by the provider
type Instance struct {
	ID    string
	State string
	Tags  map[string]string
}

// InventoryProvider supplies the inventory the resolver cross-references.
// List calls return complete collections. Describe calls return an error
// wrapping ErrNotFound when the id no longer resolves; any other error is
// treated as a failed lookup.
type InventoryProvider interface {
	ListImages(ctx context.Context) ([]Image, error)
	ListSnapshots(ctx context.Context) ([]Snapshot, error)
	DescribeVolume(ctx context.Context, volumeID string) (Volume, error)
	DescribeInstance(ctx context.Context, instanceID string) (Instance, error)
}

// nameOf returns the Name tag, or NoNameSet when it is missing or blank
func nameOf(tags map[string]string) string {
	if name := tags["Name"]; name != "" {
		return name
	}
	return NoNameSet
}
