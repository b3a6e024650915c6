package audit

import (
	"sort"

	"github.com/younsl/awsaudit/internal/models"
)

// TopLogGroups returns the n log groups with the most ingested GB, largest first
func TopLogGroups(usage map[string]float64, n int) []models.LogGroupUsage {
	groups := make([]models.LogGroupUsage, 0, len(usage))
	for name, gb := range usage {
		groups = append(groups, models.LogGroupUsage{Name: name, IncomingGB: gb})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].IncomingGB != groups[j].IncomingGB {
			return groups[i].IncomingGB > groups[j].IncomingGB
		}
		return groups[i].Name < groups[j].Name
	})

	return groups[:min(n, len(groups))]
}

// TopStages fills in each stage's usage from the log group usage, drops stages
// whose log groups ingested nothing and returns the n with the most combined
// ingestion, largest first.
func TopStages(stages []models.APIGatewayStageUsage, usage map[string]float64, n int) []models.APIGatewayStageUsage {
	var active []models.APIGatewayStageUsage
	for _, stage := range stages {
		stage.ExecutionGB = usage[stage.ExecutionLogGroup]
		if stage.AccessLogGroup != "" {
			stage.AccessGB = usage[stage.AccessLogGroup]
		}
		if stage.TotalGB() > 0 {
			active = append(active, stage)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].TotalGB() > active[j].TotalGB()
	})

	return active[:min(n, len(active))]
}
