package formatter

import (
	"fmt"

	"github.com/younsl/awsaudit/internal/models"
)

// WriteLogGroups adds the "Top <n> Log Groups" sheet
func (w *Workbook) WriteLogGroups(groups []models.LogGroupUsage, topN, pastDays int) (int, error) {
	s, err := w.newSheet(fmt.Sprintf("Top %d Log Groups", topN), []float64{80, 30},
		"CloudWatch Log Group", incomingHeading(pastDays))
	if err != nil {
		return 0, err
	}

	for _, group := range groups {
		if err := s.add(group.Name, group.IncomingGB); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}

// WriteAPIGatewayStages adds the "Top <n> API GW Logs" sheet
func (w *Workbook) WriteAPIGatewayStages(stages []models.APIGatewayStageUsage, topN, pastDays int) (int, error) {
	s, err := w.newSheet(fmt.Sprintf("Top %d API GW Logs", topN), []float64{30, 15, 60, 30, 60, 30},
		"REST API", "Stage", "Execution Log Group", incomingHeading(pastDays), "Access Log Group", incomingHeading(pastDays))
	if err != nil {
		return 0, err
	}

	for _, stage := range stages {
		if err := s.add(stage.APIName, stage.Stage, stage.ExecutionLogGroup, stage.ExecutionGB, stage.AccessLogGroup, stage.AccessGB); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}
