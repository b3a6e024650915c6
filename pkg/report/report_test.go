package report

import (
	"context"
	"errors"
	"iter"
	"path/filepath"
	"slices"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/younsl/awsaudit/internal/config"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/formatter"
	"github.com/younsl/awsaudit/pkg/pricing"
)

var errDenied = errors.New("AccessDeniedException")

type fakeCosts struct {
	services map[string]float64
	tags     map[string]map[string]float64
	err      error
}

func (f *fakeCosts) GetServiceCosts(ctx context.Context, pastDays int) (map[string]float64, error) {
	return f.services, f.err
}

func (f *fakeCosts) GetTagCosts(ctx context.Context, service, tagKey string, pastDays int) (map[string]float64, error) {
	return f.tags[service], f.err
}

type fakeSnapshots struct {
	records []models.SnapshotRecord
}

func (f *fakeSnapshots) Records(ctx context.Context) (iter.Seq[models.SnapshotRecord], error) {
	return slices.Values(f.records), nil
}

type fakeVolumes struct {
	volumes []models.VolumeInfo
}

func (f *fakeVolumes) GetAvailableVolumes(ctx context.Context) ([]models.VolumeInfo, error) {
	return f.volumes, nil
}

func (f *fakeVolumes) SnapshotMonthlyCost(ctx context.Context, sizeGB int) (float64, pricing.PricingSource) {
	return float64(sizeGB) * 0.05, pricing.PricingSourceDefault
}

type fakeTagged struct {
	resources []models.TaggedResource
	err       error
}

func (f *fakeTagged) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	return f.resources, f.err
}

type fakeKinesis struct{}

func (fakeKinesis) ShardCount(ctx context.Context, name string) (string, error) {
	if name == "deleted" {
		return "", errors.New("ResourceNotFoundException")
	}
	return "4", nil
}

type fakeDynamoDB struct{}

func (fakeDynamoDB) TableDetails(ctx context.Context, name string) (models.TableCost, error) {
	if name == "dropped" {
		return models.TableCost{}, errors.New("ResourceNotFoundException")
	}
	return models.TableCost{Name: name, BillingMode: "PROVISIONED", ItemCount: 10}, nil
}

func (fakeDynamoDB) GetOnDemandTables(ctx context.Context) ([]string, error) {
	return []string{"sessions"}, nil
}

type fakeLogs struct {
	usage map[string]float64
	err   error
}

func (f *fakeLogs) GetIncomingGB(ctx context.Context, pastDays int) (map[string]float64, error) {
	return f.usage, f.err
}

type fakeStages struct{}

func (fakeStages) GetStageLogGroups(ctx context.Context) ([]models.APIGatewayStageUsage, error) {
	return []models.APIGatewayStageUsage{
		{APIName: "orders", Stage: "prod", ExecutionLogGroup: "API-Gateway-Execution-Logs_abc/prod"},
		{APIName: "orders", Stage: "dev", ExecutionLogGroup: "API-Gateway-Execution-Logs_abc/dev"},
	}, nil
}

type fakeEIPs struct{}

func (fakeEIPs) GetUnusedEIPs(ctx context.Context) ([]models.EIPInfo, error) {
	return []models.EIPInfo{{PublicIP: "1.2.3.4"}}, nil
}

// recordingProgress keeps the order of progress events
type recordingProgress struct {
	events []string
}

func (p *recordingProgress) Start(section string) { p.events = append(p.events, "start "+section) }
func (p *recordingProgress) Stop(result formatter.SectionResult) {
	p.events = append(p.events, "stop "+result.Section)
}

func allEnabled(t *testing.T, output string) *config.Config {
	t.Helper()
	v := config.New()
	v.Set("output", output)
	v.Set("region", "us-east-1")
	for _, key := range []string{
		"expensive_services", "untagged_resources", "expensive_lambda_functions",
		"expensive_kinesis_streams", "expensive_ddb", "on_demand_ddb",
		"storage_cloudwatch_log_groups", "api_gateway_cloudwatch",
	} {
		v.Set(key+".enabled", true)
	}
	v.Set("untagged_resources.tags", []string{"team"})

	cfg, err := config.Decode(v)
	require.NoError(t, err)
	return cfg
}

func fullSources() Sources {
	return Sources{
		Costs: &fakeCosts{
			services: map[string]float64{"Amazon EC2": 70, "AWS Lambda": 20, "Amazon S3": 10},
			tags: map[string]map[string]float64{
				"AWS Lambda":      {"Name$orders": 5, "Name$": 3},
				"Amazon Kinesis":  {"Name$clicks": 8, "Name$deleted": 2},
				"Amazon DynamoDB": {"Name$users": 4},
			},
		},
		Snapshots: &fakeSnapshots{records: []models.SnapshotRecord{
			{ID: "snap-live", SizeGB: 8, VolumeExists: true, AmiExists: true, InstanceExists: true},
			{ID: "snap-gone", SizeGB: 20},
		}},
		Volumes: &fakeVolumes{volumes: []models.VolumeInfo{{VolumeID: "vol-1", Size: 10, PricingSource: "Default"}}},
		Tagged: []TaggedSource{
			&fakeTagged{resources: []models.TaggedResource{
				{Type: "Lambda Function", Name: "orders", Tags: map[string]string{"team": "core"}},
				{Type: "Lambda Function", Name: "cron", Tags: map[string]string{}},
			}},
			&fakeTagged{err: &smithy.GenericAPIError{Code: "AccessDeniedException"}},
			&fakeTagged{err: errDenied},
		},
		Kinesis:    fakeKinesis{},
		DynamoDB:   fakeDynamoDB{},
		Logs:       &fakeLogs{usage: map[string]float64{"API-Gateway-Execution-Logs_abc/prod": 3, "/ecs/web": 1}},
		APIGateway: fakeStages{},
		EIPs:       fakeEIPs{},
	}
}

func openReport(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateAllSections(t *testing.T) {
	output := filepath.Join(t.TempDir(), "report.xlsx")
	progress := &recordingProgress{}

	results, err := New(allEnabled(t, output), fullSources(), progress).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 11)

	rows := make(map[string]int)
	for _, r := range results {
		assert.NoError(t, r.Err, r.Section)
		rows[r.Sheet] = r.Rows
	}

	assert.Equal(t, 2, rows["80% Cost Services"])
	assert.Equal(t, 1, rows["Untagged Resources"])
	assert.Equal(t, 1, rows["Unreferenced Snapshots"])
	assert.Equal(t, 1, rows["Unattached Volumes"])
	assert.Equal(t, 1, rows["80% Cost Lambdas"])
	assert.Equal(t, 1, rows["80% Cost Streams"])
	assert.Equal(t, 1, rows["80% Cost DynamoDB Tables"])
	assert.Equal(t, 1, rows["On-Demand DynamoDB Tables"])
	assert.Equal(t, 2, rows["Top 10 Log Groups"])
	assert.Equal(t, 1, rows["Top 10 API GW Logs"])
	assert.Equal(t, 1, rows["Unused Elastic IPs"])

	assert.Equal(t, "start Top cost services", progress.events[0])
	assert.Equal(t, "stop Unused Elastic IPs", progress.events[len(progress.events)-1])

	f := openReport(t, output)
	sheets := f.GetSheetList()
	assert.Equal(t, "80% Cost Services", sheets[0])
	assert.Equal(t, "Report Summary", sheets[len(sheets)-1])

	cost, err := f.GetCellValue("Unreferenced Snapshots", "A2")
	require.NoError(t, err)
	assert.Equal(t, "snap-gone", cost)
	cost, err = f.GetCellValue("Unreferenced Snapshots", "M2")
	require.NoError(t, err)
	assert.Equal(t, "1", cost)

	stream, err := f.GetCellValue("80% Cost Streams", "A2")
	require.NoError(t, err)
	assert.Equal(t, "clicks", stream)
}

func TestGenerateContinuesAfterFailure(t *testing.T) {
	output := filepath.Join(t.TempDir(), "report.xlsx")
	src := fullSources()
	src.Costs = &fakeCosts{err: errDenied}
	src.Logs = &fakeLogs{err: errDenied}

	results, err := New(allEnabled(t, output), src, nil).Generate(context.Background())
	require.NoError(t, err)

	failed := make(map[string]error)
	for _, r := range results {
		if r.Failed() {
			failed[r.Section] = r.Err
		}
	}

	assert.ErrorIs(t, failed["Top cost services"], errDenied)
	assert.ErrorIs(t, failed["Top cost Lambda functions"], errDenied)
	assert.ErrorIs(t, failed["Top log groups"], errDenied)
	assert.ErrorIs(t, failed["API Gateway logs"], errNoLogUsage)
	assert.Len(t, failed, 6)

	f := openReport(t, output)
	assert.Contains(t, f.GetSheetList(), "Unused Elastic IPs")
	assert.Contains(t, f.GetSheetList(), "Report Summary")
}

func TestGenerateDefaultSections(t *testing.T) {
	output := filepath.Join(t.TempDir(), "report.xlsx")
	v := config.New()
	v.Set("output", output)
	cfg, err := config.Decode(v)
	require.NoError(t, err)

	results, err := New(cfg, fullSources(), nil).Generate(context.Background())
	require.NoError(t, err)

	var sections []string
	for _, r := range results {
		sections = append(sections, r.Section)
	}
	assert.Equal(t, []string{"Unreferenced snapshots", "Unattached volumes", "Unused Elastic IPs"}, sections)
}

func TestGenerateSkipsUndescribedResourcesBeforeCutoff(t *testing.T) {
	output := filepath.Join(t.TempDir(), "report.xlsx")
	v := config.New()
	v.Set("output", output)
	for _, key := range []string{"unreferenced_snapshots", "unattached_volumes", "unused_elastic_ips"} {
		v.Set(key+".enabled", false)
	}
	v.Set("expensive_kinesis_streams.enabled", true)
	v.Set("expensive_ddb.enabled", true)
	cfg, err := config.Decode(v)
	require.NoError(t, err)

	src := fullSources()
	src.Costs = &fakeCosts{tags: map[string]map[string]float64{
		"Amazon Kinesis":  {"Name$deleted": 90, "Name$clicks": 5, "Name$views": 5},
		"Amazon DynamoDB": {"Name$dropped": 60, "Name$users": 30, "Name$orders": 10},
	}}

	results, err := New(cfg, src, nil).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err, r.Section)
	}
	assert.Equal(t, 2, results[0].Rows)
	assert.Equal(t, 2, results[1].Rows)

	f := openReport(t, output)
	first, err := f.GetCellValue("80% Cost Streams", "A2")
	require.NoError(t, err)
	assert.Equal(t, "clicks", first)
	second, err := f.GetCellValue("80% Cost Streams", "A3")
	require.NoError(t, err)
	assert.Equal(t, "views", second)

	table, err := f.GetCellValue("80% Cost DynamoDB Tables", "A2")
	require.NoError(t, err)
	assert.Equal(t, "users", table)
}
