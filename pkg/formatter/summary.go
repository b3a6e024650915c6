package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

// maxErrorWidth is the display width error messages are cut to in the terminal summary
const maxErrorWidth = 60

// SectionResult is the outcome of one report section
type SectionResult struct {
	Section  string
	Sheet    string
	Rows     int
	Duration time.Duration
	Err      error
}

// Failed reports whether the section ended with an error
func (r SectionResult) Failed() bool {
	return r.Err != nil
}

func (r SectionResult) status() string {
	if r.Err != nil {
		return "FAILED: " + r.Err.Error()
	}
	return "OK"
}

// PrintSectionSummary prints one line per report section
func PrintSectionSummary(out io.Writer, results []SectionResult) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No report sections enabled.")
		return
	}

	fmt.Fprintln(out, "\n## Report Sections")

	// kubectl style tabwriter
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SECTION\tSHEET\tROWS\tDURATION\tSTATUS")

	var rows int64
	failed := 0
	for _, r := range results {
		sheet := r.Sheet
		if sheet == "" {
			sheet = "-"
		}
		if r.Failed() {
			failed++
		}
		rows += int64(r.Rows)

		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%s\n",
			r.Section,
			sheet,
			humanize.Comma(int64(r.Rows)),
			r.Duration.Seconds(),
			Truncate(r.status(), maxErrorWidth),
		)
	}
	fmt.Fprintf(w, "Total:\t\t%s\t\t%d failed\n", humanize.Comma(rows), failed)

	w.Flush()
}

// WriteReportSummary adds the "Report Summary" sheet listing every section
// and its outcome
func (w *Workbook) WriteReportSummary(results []SectionResult) error {
	s, err := w.newSheet("Report Summary", []float64{35, 35, 10, 14, 80},
		"Section", "Sheet", "Rows", "Duration (s)", "Status")
	if err != nil {
		return err
	}

	for _, r := range results {
		err := s.add(r.Section, r.Sheet, r.Rows, r.Duration.Round(10*time.Millisecond).Seconds(),
			s.flag(!r.Failed(), r.status(), r.status()))
		if err != nil {
			return err
		}
	}
	s.done()
	return nil
}
