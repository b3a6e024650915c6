package aws

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/younsl/awsaudit/pkg/utils"
)

// Cost Explorer SERVICE dimension values
const (
	ServiceLambda   = "AWS Lambda"
	ServiceKinesis  = "Amazon Kinesis"
	ServiceDynamoDB = "Amazon DynamoDB"
)

const unblendedCost = "UnblendedCost"

type costExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// CostExplorerClient reads daily unblended costs
type CostExplorerClient struct {
	client costExplorerAPI
	now    func() time.Time
}

// NewCostExplorerClient creates a new CostExplorerClient
func NewCostExplorerClient(cfg aws.Config) *CostExplorerClient {
	return &CostExplorerClient{
		client: costexplorer.NewFromConfig(cfg),
		now:    time.Now,
	}
}

// GetServiceCosts returns the cost of each service over the past days.
// Only positive daily amounts are summed, so credits and refunds are ignored.
func (c *CostExplorerClient) GetServiceCosts(ctx context.Context, pastDays int) (map[string]float64, error) {
	input := c.input(pastDays, types.GroupDefinition{
		Type: types.GroupDefinitionTypeDimension,
		Key:  aws.String(string(types.DimensionService)),
	})

	costs := make(map[string]float64)
	err := c.forEachGroup(ctx, input, func(key string, amount float64) {
		if amount > 0 {
			costs[key] += amount
		}
	})
	if err != nil {
		return nil, fmt.Errorf("error getting service costs: %w", err)
	}
	return costs, nil
}

// GetTagCosts returns the cost of one service over the past days grouped by
// tagKey. Keys are Cost Explorer group keys of the form "<tagKey>$<value>".
func (c *CostExplorerClient) GetTagCosts(ctx context.Context, service, tagKey string, pastDays int) (map[string]float64, error) {
	input := c.input(pastDays, types.GroupDefinition{
		Type: types.GroupDefinitionTypeTag,
		Key:  aws.String(tagKey),
	})
	input.Filter = &types.Expression{
		Dimensions: &types.DimensionValues{
			Key:    types.DimensionService,
			Values: []string{service},
		},
	}

	costs := make(map[string]float64)
	err := c.forEachGroup(ctx, input, func(key string, amount float64) {
		costs[key] += amount
	})
	if err != nil {
		return nil, fmt.Errorf("error getting %s costs by tag %s: %w", service, tagKey, err)
	}
	return costs, nil
}

func (c *CostExplorerClient) input(pastDays int, groupBy types.GroupDefinition) *costexplorer.GetCostAndUsageInput {
	start, end := utils.CostWindow(c.now(), pastDays)
	return &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start),
			End:   aws.String(end),
		},
		Granularity: types.GranularityDaily,
		Metrics:     []string{unblendedCost},
		GroupBy:     []types.GroupDefinition{groupBy},
	}
}

// forEachGroup pages through GetCostAndUsage and calls fn for every group of every day
func (c *CostExplorerClient) forEachGroup(ctx context.Context, input *costexplorer.GetCostAndUsageInput, fn func(key string, amount float64)) error {
	for {
		out, err := c.client.GetCostAndUsage(ctx, input)
		if err != nil {
			return err
		}

		for _, result := range out.ResultsByTime {
			for _, group := range result.Groups {
				if len(group.Keys) == 0 {
					continue
				}
				metric, ok := group.Metrics[unblendedCost]
				if !ok {
					continue
				}
				amount, err := strconv.ParseFloat(aws.ToString(metric.Amount), 64)
				if err != nil {
					return fmt.Errorf("error parsing cost amount %q: %w", aws.ToString(metric.Amount), err)
				}
				fn(group.Keys[0], amount)
			}
		}

		if aws.ToString(out.NextPageToken) == "" {
			return nil
		}
		input.NextPageToken = out.NextPageToken
	}
}
