package formatter

import (
	"fmt"

	"github.com/younsl/awsaudit/internal/models"
)

// WriteServiceCosts adds the "<pct>% Cost Services" sheet
func (w *Workbook) WriteServiceCosts(share models.CostShare, percentage float64, pastDays int) (int, error) {
	return w.writeCostShare(fmt.Sprintf("%g%% Cost Services", percentage), "Service", "ALL SERVICES", share, pastDays)
}

// WriteLambdaCosts adds the "<pct>% Cost Lambdas" sheet
func (w *Workbook) WriteLambdaCosts(share models.CostShare, percentage float64, pastDays int) (int, error) {
	return w.writeCostShare(fmt.Sprintf("%g%% Cost Lambdas", percentage), "Function Name", "ALL FUNCTIONS", share, pastDays)
}

func (w *Workbook) writeCostShare(name, nameHeading, totalLabel string, share models.CostShare, pastDays int) (int, error) {
	s, err := w.newSheet(name, []float64{60, 40}, nameHeading, costHeading(pastDays))
	if err != nil {
		return 0, err
	}

	for _, item := range share.Items {
		if err := s.add(item.Name, item.Cost); err != nil {
			return 0, err
		}
	}
	if share.Total > 0 {
		if err := s.total(totalLabel, share.Total); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}

// WriteStreamCosts adds the "<pct>% Cost Streams" sheet
func (w *Workbook) WriteStreamCosts(streams []models.StreamCost, total, percentage float64, pastDays int) (int, error) {
	s, err := w.newSheet(fmt.Sprintf("%g%% Cost Streams", percentage), []float64{60, 20, 40},
		"Kinesis Stream Name", "Number of Shards", costHeading(pastDays))
	if err != nil {
		return 0, err
	}

	for _, stream := range streams {
		if err := s.add(stream.Name, stream.Shards, stream.Cost); err != nil {
			return 0, err
		}
	}
	if total > 0 {
		if err := s.total("ALL STREAMS", "", total); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}

// WriteTableCosts adds the "<pct>% Cost DynamoDB Tables" sheet
func (w *Workbook) WriteTableCosts(tables []models.TableCost, total, percentage float64, pastDays int) (int, error) {
	s, err := w.newSheet(fmt.Sprintf("%g%% Cost DynamoDB Tables", percentage), []float64{60, 20, 20, 20, 40},
		"DynamoDB Table Name", "Billing Mode", "Number of Items", "Storage in GB", costHeading(pastDays))
	if err != nil {
		return 0, err
	}

	for _, table := range tables {
		if err := s.add(table.Name, table.BillingMode, table.ItemCount, table.StorageGB, table.Cost); err != nil {
			return 0, err
		}
	}
	if total > 0 {
		if err := s.total("ALL TABLES", "", "", "", total); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}

// WriteOnDemandTables adds the "On-Demand DynamoDB Tables" sheet
func (w *Workbook) WriteOnDemandTables(tables []string) (int, error) {
	s, err := w.newSheet("On-Demand DynamoDB Tables", []float64{60}, "DynamoDB Table Name")
	if err != nil {
		return 0, err
	}

	for _, table := range tables {
		if err := s.add(table); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}
