package formatter

import (
	"fmt"

	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/utils"
)

// lookupUnknown marks a volume or instance whose lookup failed
const lookupUnknown = "UNKNOWN"

// WriteUnreferencedSnapshots adds the "Unreferenced Snapshots" sheet. Volume,
// AMI and Instance show whether each referencing entity still exists; a failed
// volume or instance lookup shows UNKNOWN instead.
func (w *Workbook) WriteUnreferencedSnapshots(snapshots []models.UnreferencedSnapshot) (int, error) {
	s, err := w.newSheet("Unreferenced Snapshots",
		[]float64{25, 10, 22, 10, 10, 10, 25, 30, 25, 30, 25, 30, 18},
		"Snapshot ID", "Size", "Start Time", "Volume", "AMI", "Instance",
		"Volume ID", "Volume Name", "AMI ID", "AMI Name", "Instance ID", "Instance Name",
		"Est. Monthly Cost (USD)")
	if err != nil {
		return 0, err
	}

	for _, snap := range snapshots {
		rec := snap.Record
		err := s.add(
			rec.ID,
			fmt.Sprintf("%d GB", rec.SizeGB),
			rec.StartTime,
			s.lookupFlag(rec.VolumeExists, rec.VolumeLookup),
			s.flag(rec.AmiExists, true, false),
			s.lookupFlag(rec.InstanceExists, rec.InstanceLookup),
			rec.VolumeID,
			rec.VolumeName,
			rec.AmiID,
			rec.AmiName,
			rec.InstanceID,
			rec.InstanceName,
			monthlyCost(snap.EstimatedMonthlyCost, snap.PricingSource),
		)
		if err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}

func (s *sheet) lookupFlag(exists bool, status models.LookupStatus) any {
	if status == models.LookupFailed {
		return lookupUnknown
	}
	return s.flag(exists, true, false)
}

// WriteUnattachedVolumes adds the "Unattached Volumes" sheet
func (w *Workbook) WriteUnattachedVolumes(volumes []models.VolumeInfo) (int, error) {
	s, err := w.newSheet("Unattached Volumes", []float64{25, 22, 12, 10, 25, 60, 18},
		"Volume ID", "Create Time", "Status", "Size", "Snapshot ID", "Tags", "Est. Monthly Cost (USD)")
	if err != nil {
		return 0, err
	}

	for _, volume := range volumes {
		err := s.add(
			volume.VolumeID,
			utils.FormatReportTime(volume.CreationTime),
			volume.State,
			fmt.Sprintf("%d GB", volume.Size),
			volume.SnapshotID,
			volume.Tags,
			monthlyCost(volume.EstimatedMonthlyCost, volume.PricingSource),
		)
		if err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}

// monthlyCost is the cell value of an estimate, "N/A" when there is none
func monthlyCost(cost float64, source string) any {
	if source == "" || source == "N/A" {
		return "N/A"
	}
	return cost
}
