package report

import (
	"context"
	"iter"

	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/pricing"
)

// CostSource reads Cost Explorer totals
type CostSource interface {
	GetServiceCosts(ctx context.Context, pastDays int) (map[string]float64, error)
	GetTagCosts(ctx context.Context, service, tagKey string, pastDays int) (map[string]float64, error)
}

// SnapshotSource produces one record per EBS snapshot
type SnapshotSource interface {
	Records(ctx context.Context) (iter.Seq[models.SnapshotRecord], error)
}

// VolumeSource reads unattached volumes and prices snapshot storage
type VolumeSource interface {
	GetAvailableVolumes(ctx context.Context) ([]models.VolumeInfo, error)
	SnapshotMonthlyCost(ctx context.Context, sizeGB int) (float64, pricing.PricingSource)
}

// TaggedSource lists one kind of resource with its tags
type TaggedSource interface {
	ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error)
}

// ShardSource counts the shards of a Kinesis stream
type ShardSource interface {
	ShardCount(ctx context.Context, name string) (string, error)
}

// TableSource reads DynamoDB table details
type TableSource interface {
	TableDetails(ctx context.Context, name string) (models.TableCost, error)
	GetOnDemandTables(ctx context.Context) ([]string, error)
}

// LogUsageSource measures log group ingestion
type LogUsageSource interface {
	GetIncomingGB(ctx context.Context, pastDays int) (map[string]float64, error)
}

// StageSource lists REST API stages with their log groups
type StageSource interface {
	GetStageLogGroups(ctx context.Context) ([]models.APIGatewayStageUsage, error)
}

// EIPSource lists Elastic IPs that are not in use
type EIPSource interface {
	GetUnusedEIPs(ctx context.Context) ([]models.EIPInfo, error)
}

// Sources are the AWS readers behind the report sections. Only the sources
// of enabled sections need to be set.
type Sources struct {
	Costs      CostSource
	Snapshots  SnapshotSource
	Volumes    VolumeSource
	Tagged     []TaggedSource
	Kinesis    ShardSource
	DynamoDB   TableSource
	Logs       LogUsageSource
	APIGateway StageSource
	EIPs       EIPSource
}
