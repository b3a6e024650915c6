package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

const (
	namespaceLogs       = "AWS/Logs"
	metricIncomingBytes = "IncomingBytes"
	dimensionLogGroup   = "LogGroupName"

	// metricQueryBatchSize is the number of log groups queried per GetMetricData request
	metricQueryBatchSize = 100
)

type logGroupsAPI interface {
	DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error)
}

type metricDataAPI interface {
	GetMetricData(ctx context.Context, params *cloudwatch.GetMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error)
}

// LogsClient measures CloudWatch Logs ingestion
type LogsClient struct {
	logs    logGroupsAPI
	metrics metricDataAPI
	now     func() time.Time
}

// NewLogsClient creates a new LogsClient
func NewLogsClient(cfg aws.Config) *LogsClient {
	return &LogsClient{
		logs:    cloudwatchlogs.NewFromConfig(cfg),
		metrics: cloudwatch.NewFromConfig(cfg),
		now:     time.Now,
	}
}

// listLogGroupNames returns the name of every log group
func (c *LogsClient) listLogGroupNames(ctx context.Context) ([]string, error) {
	paginator := cloudwatchlogs.NewDescribeLogGroupsPaginator(c.logs, &cloudwatchlogs.DescribeLogGroupsInput{})

	var names []string
	pageCount := 0
	for paginator.HasMorePages() {
		pageCount++
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error fetching log groups page %d: %w", pageCount, err)
		}
		for _, lg := range output.LogGroups {
			names = append(names, aws.ToString(lg.LogGroupName))
		}
	}
	return names, nil
}

// GetIncomingGB returns the gigabytes ingested by each log group over the
// past days. Log groups without datapoints in the window are left out.
func (c *LogsClient) GetIncomingGB(ctx context.Context, pastDays int) (map[string]float64, error) {
	names, err := c.listLogGroupNames(ctx)
	if err != nil {
		return nil, err
	}

	endTime := c.now()
	startTime := endTime.AddDate(0, 0, -pastDays)
	period := int32(pastDays * 24 * 60 * 60)

	usage := make(map[string]float64)
	for start := 0; start < len(names); start += metricQueryBatchSize {
		batch := names[start:min(start+metricQueryBatchSize, len(names))]
		if err := c.incomingBytes(ctx, batch, startTime, endTime, period, usage); err != nil {
			return nil, err
		}
	}
	return usage, nil
}

// incomingBytes sums IncomingBytes for one batch of log groups into usage, in GB
func (c *LogsClient) incomingBytes(ctx context.Context, names []string, startTime, endTime time.Time, period int32, usage map[string]float64) error {
	queries := make([]cwtypes.MetricDataQuery, 0, len(names))
	byID := make(map[string]string, len(names))
	for i, name := range names {
		// Query ids must start with a lowercase letter
		id := fmt.Sprintf("q%d", i)
		byID[id] = name
		queries = append(queries, cwtypes.MetricDataQuery{
			Id:    aws.String(id),
			Label: aws.String(name),
			MetricStat: &cwtypes.MetricStat{
				Metric: &cwtypes.Metric{
					Namespace:  aws.String(namespaceLogs),
					MetricName: aws.String(metricIncomingBytes),
					Dimensions: []cwtypes.Dimension{{
						Name:  aws.String(dimensionLogGroup),
						Value: aws.String(name),
					}},
				},
				Period: aws.Int32(period),
				Stat:   aws.String(string(cwtypes.StatisticSum)),
				Unit:   cwtypes.StandardUnitBytes,
			},
		})
	}

	paginator := cloudwatch.NewGetMetricDataPaginator(c.metrics, &cloudwatch.GetMetricDataInput{
		MetricDataQueries: queries,
		StartTime:         aws.Time(startTime),
		EndTime:           aws.Time(endTime),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("error getting %s metric data: %w", metricIncomingBytes, err)
		}
		for _, result := range page.MetricDataResults {
			name, ok := byID[aws.ToString(result.Id)]
			if !ok || len(result.Values) == 0 {
				continue
			}
			for _, value := range result.Values {
				usage[name] += value / bytesPerGB
			}
		}
	}
	return nil
}
