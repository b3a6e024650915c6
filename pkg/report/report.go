// Package report builds the cost and hygiene workbook. Sections run one after
// another; a failing section is logged and recorded, and the rest still run.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/config"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/audit"
	"github.com/younsl/awsaudit/pkg/aws"
	"github.com/younsl/awsaudit/pkg/formatter"
)

// errNoLogUsage is returned by the API Gateway section when the log group
// section did not produce usage figures
var errNoLogUsage = errors.New("log group usage unavailable, storage_cloudwatch_log_groups section did not complete")

// Reporter runs the enabled report sections into a workbook
type Reporter struct {
	cfg      *config.Config
	src      Sources
	progress Progress

	wb       *formatter.Workbook
	logUsage map[string]float64
}

// New creates a Reporter. A nil progress reports nothing.
func New(cfg *config.Config, src Sources, progress Progress) *Reporter {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Reporter{cfg: cfg, src: src, progress: progress}
}

type section struct {
	name    string
	enabled bool
	run     func(ctx context.Context) (int, error)
}

func (r *Reporter) sections() []section {
	c := r.cfg
	return []section{
		{"Top cost services", c.ExpensiveServices.Enabled, r.serviceCosts},
		{"Untagged resources", c.UntaggedResources.Enabled, r.untaggedResources},
		{"Unreferenced snapshots", c.UnreferencedSnapshots.Enabled, r.unreferencedSnapshots},
		{"Unattached volumes", c.UnattachedVolumes.Enabled, r.unattachedVolumes},
		{"Top cost Lambda functions", c.ExpensiveLambdaFunctions.Enabled, r.lambdaCosts},
		{"Top cost Kinesis streams", c.ExpensiveKinesisStreams.Enabled, r.kinesisCosts},
		{"Top cost DynamoDB tables", c.ExpensiveDynamoDB.Enabled, r.dynamoDBCosts},
		{"On-demand DynamoDB tables", c.OnDemandDynamoDB.Enabled, r.onDemandTables},
		{"Top log groups", c.LogGroups.Enabled, r.logGroups},
		{"API Gateway logs", c.APIGateway.Enabled, r.apiGatewayLogs},
		{"Unused Elastic IPs", c.UnusedElasticIPs.Enabled, r.unusedEIPs},
	}
}

// Generate runs every enabled section, adds the summary sheet and saves the
// workbook to the configured output path. Section failures are returned in the
// results, not as an error.
func (r *Reporter) Generate(ctx context.Context) ([]formatter.SectionResult, error) {
	wb, err := formatter.NewWorkbook()
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}
	defer wb.Close()

	r.wb = wb
	r.logUsage = nil

	results := r.run(ctx)

	if err := wb.WriteReportSummary(results); err != nil {
		return results, fmt.Errorf("error writing report summary: %w", err)
	}
	if err := wb.SaveAs(r.cfg.Output); err != nil {
		return results, err
	}
	log.Info().Str("output", r.cfg.Output).Int("sections", len(results)).Msg("report written")
	return results, nil
}

func (r *Reporter) run(ctx context.Context) []formatter.SectionResult {
	var results []formatter.SectionResult
	for _, s := range r.sections() {
		if !s.enabled {
			continue
		}

		r.progress.Start(s.name)
		sheets := len(r.wb.Sheets())
		start := time.Now()

		rows, err := s.run(ctx)

		result := formatter.SectionResult{
			Section:  s.name,
			Rows:     rows,
			Duration: time.Since(start),
			Err:      err,
		}
		if written := r.wb.Sheets(); len(written) > sheets {
			result.Sheet = written[len(written)-1].Name
		}
		r.progress.Stop(result)

		if err != nil {
			log.Error().Err(err).Str("section", s.name).Msg("report section failed")
		}
		results = append(results, result)
	}
	return results
}

func (r *Reporter) serviceCosts(ctx context.Context) (int, error) {
	c := r.cfg.ExpensiveServices
	costs, err := r.src.Costs.GetServiceCosts(ctx, c.PastDays)
	if err != nil {
		return 0, err
	}
	return r.wb.WriteServiceCosts(audit.TopCostShare(costs, c.CostPercentage), c.CostPercentage, c.PastDays)
}

// untaggedResources skips a resource kind whose listing fails and carries on
// with the others
func (r *Reporter) untaggedResources(ctx context.Context) (int, error) {
	var resources []models.TaggedResource
	for _, source := range r.src.Tagged {
		listed, err := source.ListTaggedResources(ctx)
		if aws.IsAccessDenied(err) {
			log.Warn().Err(err).Msg("skipping resource kind, missing permissions")
			continue
		}
		if err != nil {
			log.Warn().Err(err).Msg("skipping resource kind, listing failed")
			continue
		}
		resources = append(resources, listed...)
	}

	tags := r.cfg.UntaggedResources.Tags
	return r.wb.WriteUntaggedResources(audit.FindUntagged(resources, tags), tags)
}

func (r *Reporter) unreferencedSnapshots(ctx context.Context) (int, error) {
	records, err := r.src.Snapshots.Records(ctx)
	if err != nil {
		return 0, err
	}

	var snapshots []models.UnreferencedSnapshot
	for rec := range records {
		if !audit.IsUnreferenced(rec) {
			continue
		}
		cost, source := r.src.Volumes.SnapshotMonthlyCost(ctx, rec.SizeGB)
		snapshots = append(snapshots, models.UnreferencedSnapshot{
			Record:               rec,
			EstimatedMonthlyCost: cost,
			PricingSource:        string(source),
		})
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return r.wb.WriteUnreferencedSnapshots(snapshots)
}

func (r *Reporter) unattachedVolumes(ctx context.Context) (int, error) {
	volumes, err := r.src.Volumes.GetAvailableVolumes(ctx)
	if err != nil {
		return 0, err
	}
	return r.wb.WriteUnattachedVolumes(volumes)
}

// rankTagCosts ranks the resources of a service by the cost grouped under the name tag
func (r *Reporter) rankTagCosts(ctx context.Context, service string, c config.NamedCostSection) (models.CostShare, error) {
	groups, err := r.src.Costs.GetTagCosts(ctx, service, c.NameTagKey, c.PastDays)
	if err != nil {
		return models.CostShare{}, err
	}
	return audit.RankCosts(audit.TagCosts(groups, c.NameTagKey)), nil
}

func (r *Reporter) lambdaCosts(ctx context.Context) (int, error) {
	c := r.cfg.ExpensiveLambdaFunctions
	groups, err := r.src.Costs.GetTagCosts(ctx, aws.ServiceLambda, c.NameTagKey, c.PastDays)
	if err != nil {
		return 0, err
	}
	share := audit.TopCostShare(audit.TagCosts(groups, c.NameTagKey), c.CostPercentage)
	return r.wb.WriteLambdaCosts(share, c.CostPercentage, c.PastDays)
}

// kinesisCosts skips streams that cannot be described without counting their
// cost, so the next streams fill the share
func (r *Reporter) kinesisCosts(ctx context.Context) (int, error) {
	c := r.cfg.ExpensiveKinesisStreams
	share, err := r.rankTagCosts(ctx, aws.ServiceKinesis, c)
	if err != nil {
		return 0, err
	}

	var streams []models.StreamCost
	audit.WalkCostShare(share, c.CostPercentage, func(item models.ResourceCost) bool {
		shards, err := r.src.Kinesis.ShardCount(ctx, item.Name)
		if err != nil {
			log.Warn().Err(err).Str("stream", item.Name).Msg("skipping Kinesis stream")
			return false
		}
		streams = append(streams, models.StreamCost{Name: item.Name, Shards: shards, Cost: item.Cost})
		return true
	})
	return r.wb.WriteStreamCosts(streams, share.Total, c.CostPercentage, c.PastDays)
}

// dynamoDBCosts skips tables that cannot be described the same way
func (r *Reporter) dynamoDBCosts(ctx context.Context) (int, error) {
	c := r.cfg.ExpensiveDynamoDB
	share, err := r.rankTagCosts(ctx, aws.ServiceDynamoDB, c)
	if err != nil {
		return 0, err
	}

	var tables []models.TableCost
	audit.WalkCostShare(share, c.CostPercentage, func(item models.ResourceCost) bool {
		table, err := r.src.DynamoDB.TableDetails(ctx, item.Name)
		if err != nil {
			log.Warn().Err(err).Str("table", item.Name).Msg("skipping DynamoDB table")
			return false
		}
		table.Cost = item.Cost
		tables = append(tables, table)
		return true
	})
	return r.wb.WriteTableCosts(tables, share.Total, c.CostPercentage, c.PastDays)
}

func (r *Reporter) onDemandTables(ctx context.Context) (int, error) {
	tables, err := r.src.DynamoDB.GetOnDemandTables(ctx)
	if err != nil {
		return 0, err
	}
	return r.wb.WriteOnDemandTables(tables)
}

// logGroups keeps the full usage map for the API Gateway section
func (r *Reporter) logGroups(ctx context.Context) (int, error) {
	c := r.cfg.LogGroups
	usage, err := r.src.Logs.GetIncomingGB(ctx, c.PastDays)
	if err != nil {
		return 0, err
	}
	r.logUsage = usage
	return r.wb.WriteLogGroups(audit.TopLogGroups(usage, c.TopN), c.TopN, c.PastDays)
}

func (r *Reporter) apiGatewayLogs(ctx context.Context) (int, error) {
	if r.logUsage == nil {
		return 0, errNoLogUsage
	}

	stages, err := r.src.APIGateway.GetStageLogGroups(ctx)
	if err != nil {
		return 0, err
	}
	c := r.cfg.APIGateway
	return r.wb.WriteAPIGatewayStages(audit.TopStages(stages, r.logUsage, c.TopN), c.TopN, r.cfg.LogGroups.PastDays)
}

func (r *Reporter) unusedEIPs(ctx context.Context) (int, error) {
	eips, err := r.src.EIPs.GetUnusedEIPs(ctx)
	if err != nil {
		return 0, err
	}
	return r.wb.WriteUnusedEIPs(eips)
}
