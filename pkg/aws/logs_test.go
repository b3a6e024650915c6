package aws

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigateway"
	agtypes "github.com/aws/aws-sdk-go-v2/service/apigateway/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logstypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/awsaudit/internal/models"
)

type fakeLogGroups struct {
	names []string
}

func (f *fakeLogGroups) DescribeLogGroups(ctx context.Context, params *cloudwatchlogs.DescribeLogGroupsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.DescribeLogGroupsOutput, error) {
	out := &cloudwatchlogs.DescribeLogGroupsOutput{}
	for _, name := range f.names {
		out.LogGroups = append(out.LogGroups, logstypes.LogGroup{LogGroupName: aws.String(name)})
	}
	return out, nil
}

// fakeMetricData answers every query with the bytes configured for its log group
type fakeMetricData struct {
	bytes   map[string][]float64
	inputs  []*cloudwatch.GetMetricDataInput
	failure error
}

func (f *fakeMetricData) GetMetricData(ctx context.Context, params *cloudwatch.GetMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	f.inputs = append(f.inputs, params)

	out := &cloudwatch.GetMetricDataOutput{}
	for _, q := range params.MetricDataQueries {
		name := aws.ToString(q.MetricStat.Metric.Dimensions[0].Value)
		out.MetricDataResults = append(out.MetricDataResults, cwtypes.MetricDataResult{
			Id:     q.Id,
			Values: f.bytes[name],
		})
	}
	return out, nil
}

func TestGetIncomingGB(t *testing.T) {
	now := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	t.Run("sums datapoints per log group in GB", func(t *testing.T) {
		metrics := &fakeMetricData{bytes: map[string][]float64{
			"/aws/lambda/orders": {bytesPerGB, bytesPerGB / 2},
			"/ecs/web":           {bytesPerGB / 4},
		}}
		c := &LogsClient{
			logs:    &fakeLogGroups{names: []string{"/aws/lambda/orders", "/ecs/web", "/quiet"}},
			metrics: metrics,
			now:     func() time.Time { return now },
		}

		usage, err := c.GetIncomingGB(context.Background(), 30)
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"/aws/lambda/orders": 1.5, "/ecs/web": 0.25}, usage)

		require.Len(t, metrics.inputs, 1)
		input := metrics.inputs[0]
		assert.Equal(t, now, aws.ToTime(input.EndTime))
		assert.Equal(t, now.AddDate(0, 0, -30), aws.ToTime(input.StartTime))

		stat := input.MetricDataQueries[0].MetricStat
		assert.Equal(t, "AWS/Logs", aws.ToString(stat.Metric.Namespace))
		assert.Equal(t, "IncomingBytes", aws.ToString(stat.Metric.MetricName))
		assert.Equal(t, int32(30*24*60*60), aws.ToInt32(stat.Period))
		assert.Equal(t, "Sum", aws.ToString(stat.Stat))
	})

	t.Run("batches queries", func(t *testing.T) {
		names := make([]string, 150)
		for i := range names {
			names[i] = fmt.Sprintf("/group/%03d", i)
		}
		metrics := &fakeMetricData{bytes: map[string][]float64{"/group/149": {bytesPerGB}}}
		c := &LogsClient{logs: &fakeLogGroups{names: names}, metrics: metrics, now: func() time.Time { return now }}

		usage, err := c.GetIncomingGB(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"/group/149": 1}, usage)
		require.Len(t, metrics.inputs, 2)
		assert.Len(t, metrics.inputs[0].MetricDataQueries, 100)
		assert.Len(t, metrics.inputs[1].MetricDataQueries, 50)
	})

	t.Run("metric errors are returned", func(t *testing.T) {
		c := &LogsClient{
			logs:    &fakeLogGroups{names: []string{"/a"}},
			metrics: &fakeMetricData{failure: errThrottled},
			now:     func() time.Time { return now },
		}
		_, err := c.GetIncomingGB(context.Background(), 7)
		assert.ErrorIs(t, err, errThrottled)
	})
}

type fakeAPIGateway struct {
	apis   []agtypes.RestApi
	stages map[string][]agtypes.Stage
}

func (f *fakeAPIGateway) GetRestApis(ctx context.Context, params *apigateway.GetRestApisInput, optFns ...func(*apigateway.Options)) (*apigateway.GetRestApisOutput, error) {
	return &apigateway.GetRestApisOutput{Items: f.apis}, nil
}

func (f *fakeAPIGateway) GetStages(ctx context.Context, params *apigateway.GetStagesInput, optFns ...func(*apigateway.Options)) (*apigateway.GetStagesOutput, error) {
	stages, ok := f.stages[aws.ToString(params.RestApiId)]
	if !ok {
		return nil, apiError("NotFoundException")
	}
	return &apigateway.GetStagesOutput{Item: stages}, nil
}

func TestGetStageLogGroups(t *testing.T) {
	c := &APIGatewayClient{client: &fakeAPIGateway{
		apis: []agtypes.RestApi{
			{Id: aws.String("abc123"), Name: aws.String("orders")},
			{Id: aws.String("gone"), Name: aws.String("deleted")},
		},
		stages: map[string][]agtypes.Stage{"abc123": {
			{StageName: aws.String("prod"), AccessLogSettings: &agtypes.AccessLogSettings{
				DestinationArn: aws.String("arn:aws:logs:us-east-1:123456789012:log-group:orders-access"),
			}},
			{StageName: aws.String("dev")},
		}},
	}}

	stages, err := c.GetStageLogGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.APIGatewayStageUsage{
		{APIName: "orders", Stage: "prod", ExecutionLogGroup: "API-Gateway-Execution-Logs_abc123/prod", AccessLogGroup: "orders-access"},
		{APIName: "orders", Stage: "dev", ExecutionLogGroup: "API-Gateway-Execution-Logs_abc123/dev"},
	}, stages)
}
