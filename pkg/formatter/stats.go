package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/younsl/awsaudit/pkg/pricing"
)

// PrintPricingAPIStats prints the statistics of pricing API calls
func PrintPricingAPIStats(out io.Writer, stats []pricing.APIStats) {
	if len(stats) == 0 {
		return
	}

	fmt.Fprintln(out, "\n## AWS Pricing API Call Statistics")

	// Use tabwriter for clean tabular output
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "SERVICE\tREGION\tAPI CALLS\tSUCCESS\tFAILURE\tCACHE HITS\tSUCCESS RATE")

	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.1f%%\n",
			s.Service,
			s.Region,
			s.APICalls(),
			s.Success,
			s.Failure,
			s.Cache,
			s.SuccessRate(),
		)
	}

	w.Flush()
}
