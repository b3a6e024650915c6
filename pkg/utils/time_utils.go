package utils

import "time"

// ReportTimeLayout renders timestamps as day-month-year hour:minute:second
const ReportTimeLayout = "02-01-2006 15:04:05"

// costExplorerDateLayout is the date format Cost Explorer expects
const costExplorerDateLayout = "2006-01-02"

// FormatReportTime formats t in UTC with ReportTimeLayout
func FormatReportTime(t time.Time) string {
	return t.UTC().Format(ReportTimeLayout)
}

// CostWindow returns the Cost Explorer start (inclusive) and end (exclusive)
// dates covering the past days ending today
func CostWindow(now time.Time, pastDays int) (string, string) {
	start := now.AddDate(0, 0, -pastDays)
	return start.Format(costExplorerDateLayout), now.Format(costExplorerDateLayout)
}
