package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/younsl/awsaudit/pkg/audit"
	"github.com/younsl/awsaudit/pkg/aws"
	"github.com/younsl/awsaudit/pkg/formatter"
	"github.com/younsl/awsaudit/pkg/snapshot"
)

const (
	statusWouldDelete = "would delete"
	statusDeleted     = "deleted"
	statusFailed      = "failed"

	cleanupSection = "Orphaned snapshots"
)

func newCleanupSnapshotsCmd(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "cleanup-snapshots",
		Short: "Delete snapshots no volume, AMI or instance refers to",
		Long: `Deletes EBS snapshots whose volume, AMIs and instances are all gone.
Snapshots whose volume or instance lookup failed are never deleted.
Runs as a dry run unless --dry-run=false is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			startTime := time.Now()

			region := opts.resolveRegion()
			awsCfg, err := aws.LoadConfig(ctx, region)
			if err != nil {
				return err
			}
			ebs := aws.NewEBSClient(awsCfg, nil)

			progress := opts.progress()
			progress.Start(cleanupSection)

			records, err := snapshot.NewResolver(ebs).Records(ctx)
			if err != nil {
				progress.Stop(formatter.SectionResult{Section: cleanupSection, Duration: time.Since(startTime), Err: err})
				return err
			}

			var rows []formatter.CleanupRow
			failed := 0
			for rec := range records {
				if !audit.IsOrphaned(rec) {
					continue
				}

				row := formatter.CleanupRow{
					SnapshotID:  rec.ID,
					SizeGB:      rec.SizeGB,
					StartTime:   rec.StartTime,
					VolumeID:    rec.VolumeID,
					Description: rec.Description,
					Status:      statusWouldDelete,
				}
				if !dryRun {
					if err := ebs.DeleteSnapshot(ctx, rec.ID); err != nil {
						log.Error().Err(err).Str("snapshot", rec.ID).Msg("could not delete snapshot")
						row.Status = statusFailed
						failed++
					} else {
						log.Info().Str("snapshot", rec.ID).Int("size_gb", rec.SizeGB).Msg("deleted snapshot")
						row.Status = statusDeleted
					}
				}
				rows = append(rows, row)
			}

			progress.Stop(formatter.SectionResult{Section: cleanupSection, Rows: len(rows), Duration: time.Since(startTime)})
			if err := ctx.Err(); err != nil {
				return err
			}

			formatter.PrintCleanupTable(os.Stdout, rows)
			if dryRun && len(rows) > 0 {
				fmt.Println("\nDry run: nothing was deleted. Re-run with --dry-run=false to delete.")
			}
			formatter.PrintTimestamp(os.Stdout, startTime, time.Since(startTime))

			if failed > 0 {
				return fmt.Errorf("%d of %d snapshots could not be deleted", failed, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "List the snapshots that would be deleted without deleting them")
	return cmd
}
