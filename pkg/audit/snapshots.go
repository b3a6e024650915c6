// Package audit holds the checks and rankings the report and cleanup commands
// apply to data collected from AWS.
package audit

import "github.com/younsl/awsaudit/internal/models"

// IsUnreferenced reports whether any entity that could reference the snapshot
// is gone: its volume, an AMI built from it, or an instance using its volume.
func IsUnreferenced(rec models.SnapshotRecord) bool {
	return !rec.VolumeExists || !rec.AmiExists || !rec.InstanceExists
}

// IsOrphaned reports whether the snapshot is safe to delete: nothing
// references it and both the volume and instance lookups completed.
// A record whose lookups failed is never orphaned.
func IsOrphaned(rec models.SnapshotRecord) bool {
	if rec.VolumeLookup == models.LookupFailed || rec.InstanceLookup == models.LookupFailed {
		return false
	}
	return !rec.VolumeExists && !rec.AmiExists && !rec.InstanceExists
}
