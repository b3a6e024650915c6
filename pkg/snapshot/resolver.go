package snapshot

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/utils"
)

// listSeparator joins multi-valued record fields
const listSeparator = ", "

// Resolver turns the provider's snapshot listing into SnapshotRecords
type Resolver struct {
	provider InventoryProvider
}

// NewResolver creates a Resolver backed by provider
func NewResolver(provider InventoryProvider) *Resolver {
	return &Resolver{provider: provider}
}

// volumeDetails is the memoized state of one volume
type volumeDetails struct {
	name           string
	instanceIDs    []string
	instanceNames  []string
	lookup         models.LookupStatus
	instanceFailed bool
}

// instanceDetails is the memoized state of one instance
type instanceDetails struct {
	name   string
	lookup models.LookupStatus
}

// run holds everything scoped to one enumeration: the AMI index and the
// volume and instance caches. Nothing outlives it.
type run struct {
	provider  InventoryProvider
	amis      AmiIndex
	volumes   map[string]volumeDetails
	instances map[string]instanceDetails
}

// Records builds the AMI index, lists snapshots and returns a lazy sequence
// with one record per snapshot, in listing order. Volume and instance lookups
// happen while the sequence is consumed and are memoized for the run.
//
// The sequence is single-pass: ranging over it a second time yields nothing.
// Call Records again for a fresh run with empty caches.
func (r *Resolver) Records(ctx context.Context) (iter.Seq[models.SnapshotRecord], error) {
	images, err := r.provider.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing images: %w", err)
	}

	rn := &run{
		provider:  r.provider,
		amis:      BuildAmiIndex(images),
		volumes:   make(map[string]volumeDetails),
		instances: make(map[string]instanceDetails),
	}
	log.Debug().Int("images", len(images)).Int("referenced_snapshots", len(rn.amis)).Msg("built AMI index")

	snapshots, err := r.provider.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing snapshots: %w", err)
	}
	log.Debug().Int("snapshots", len(snapshots)).Msg("listed snapshots")

	consumed := false
	return func(yield func(models.SnapshotRecord) bool) {
		if consumed {
			return
		}
		consumed = true

		for _, s := range snapshots {
			if ctx.Err() != nil {
				return
			}
			if !yield(rn.record(ctx, s)) {
				return
			}
		}
	}, nil
}

// record merges the snapshot's own attributes with its volume, instance and AMI state
func (rn *run) record(ctx context.Context, s Snapshot) models.SnapshotRecord {
	volume := rn.volume(ctx, s.VolumeID)

	rec := models.SnapshotRecord{
		ID:           s.ID,
		Description:  s.Description,
		StartTime:    utils.FormatReportTime(s.StartTime),
		StartedAt:    s.StartTime,
		SizeGB:       s.SizeGB,
		VolumeID:     s.VolumeID,
		VolumeName:   volume.name,
		VolumeExists: volume.name != "",
		InstanceID:   strings.Join(volume.instanceIDs, listSeparator),
		InstanceName: strings.Join(volume.instanceNames, listSeparator),
		VolumeLookup: volume.lookup,
	}
	rec.InstanceExists = rec.InstanceName != ""

	switch {
	case volume.lookup == models.LookupFailed || volume.instanceFailed:
		rec.InstanceLookup = models.LookupFailed
	case rec.InstanceExists:
		rec.InstanceLookup = models.LookupFound
	default:
		rec.InstanceLookup = models.LookupNotFound
	}

	if refs, ok := rn.amis.Lookup(s.ID); ok {
		ids := make([]string, 0, len(refs))
		names := make([]string, 0, len(refs))
		for _, ref := range refs {
			ids = append(ids, ref.ID)
			names = append(names, ref.Name)
		}
		rec.AmiExists = true
		rec.AmiID = strings.Join(ids, listSeparator)
		rec.AmiName = strings.Join(names, listSeparator)
	}

	return rec
}

// volume resolves a volume's name and attachments, at most once per run
func (rn *run) volume(ctx context.Context, volumeID string) volumeDetails {
	if cached, ok := rn.volumes[volumeID]; ok {
		return cached
	}

	details := volumeDetails{lookup: models.LookupNotFound}
	if volumeID != "" {
		details = rn.describeVolume(ctx, volumeID)
	}

	rn.volumes[volumeID] = details
	return details
}

func (rn *run) describeVolume(ctx context.Context, volumeID string) volumeDetails {
	volume, err := rn.provider.DescribeVolume(ctx, volumeID)
	if errors.Is(err, ErrNotFound) {
		log.Debug().Str("volume", volumeID).Msg("volume no longer exists")
		return volumeDetails{lookup: models.LookupNotFound}
	}
	if err != nil {
		log.Warn().Err(err).Str("volume", volumeID).Msg("volume lookup failed")
		return volumeDetails{lookup: models.LookupFailed}
	}

	details := volumeDetails{
		name:          nameOf(volume.Tags),
		instanceIDs:   []string{},
		instanceNames: []string{},
		lookup:        models.LookupFound,
	}
	for _, attachment := range volume.Attachments {
		if attachment.InstanceID == "" {
			continue
		}
		instance := rn.instance(ctx, attachment.InstanceID)
		details.instanceIDs = append(details.instanceIDs, attachment.InstanceID)
		details.instanceNames = append(details.instanceNames, instance.name)
		if instance.lookup == models.LookupFailed {
			details.instanceFailed = true
		}
	}
	return details
}

// instance resolves an instance's name, at most once per run
func (rn *run) instance(ctx context.Context, instanceID string) instanceDetails {
	if cached, ok := rn.instances[instanceID]; ok {
		return cached
	}

	var details instanceDetails
	instance, err := rn.provider.DescribeInstance(ctx, instanceID)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Debug().Str("instance", instanceID).Msg("instance no longer exists")
		details = instanceDetails{lookup: models.LookupNotFound}
	case err != nil:
		log.Warn().Err(err).Str("instance", instanceID).Msg("instance lookup failed")
		details = instanceDetails{lookup: models.LookupFailed}
	default:
		details = instanceDetails{name: nameOf(instance.Tags), lookup: models.LookupFound}
	}

	rn.instances[instanceID] = details
	return details
}
