package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// maxDescriptionWidth defines the maximum width for the description column
const maxDescriptionWidth = 40

// CleanupRow is a snapshot selected for deletion and what happened to it
type CleanupRow struct {
	SnapshotID  string
	SizeGB      int
	StartTime   string
	VolumeID    string
	Description string
	Status      string // "would delete", "deleted" or "failed"
}

// PrintCleanupTable prints the snapshots selected by cleanup-snapshots
func PrintCleanupTable(out io.Writer, rows []CleanupRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No orphaned snapshots found.")
		return
	}

	// kubectl style tabwriter
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SNAPSHOT ID\tSIZE\tSTART TIME\tVOLUME ID\tDESCRIPTION\tSTATUS")

	totalGB := 0
	for _, row := range rows {
		volumeID := row.VolumeID
		if volumeID == "" {
			volumeID = "N/A"
		}
		fmt.Fprintf(w, "%s\t%d GB\t%s\t%s\t%s\t%s\n",
			row.SnapshotID,
			row.SizeGB,
			row.StartTime,
			volumeID,
			Truncate(row.Description, maxDescriptionWidth),
			row.Status,
		)
		totalGB += row.SizeGB
	}

	fmt.Fprintf(w, "Total:\t%s\t\t\t%d snapshots\t\n",
		humanize.IBytes(uint64(totalGB)*humanize.GiByte),
		len(rows),
	)

	w.Flush()
}
