package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
)

// ResourceTypeDynamoDBTable labels DynamoDB tables in tag audits and tag files
const ResourceTypeDynamoDBTable = "DynamoDB Table"

// billingModeNotAvailable is reported for tables without a billing mode summary
const billingModeNotAvailable = "Not Available"

const bytesPerGB = 1024 * 1024 * 1024

type dynamoDBAPI interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	ListTagsOfResource(ctx context.Context, params *dynamodb.ListTagsOfResourceInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTagsOfResourceOutput, error)
}

// DynamoDBClient struct for DynamoDB client
type DynamoDBClient struct {
	client dynamoDBAPI
}

// NewDynamoDBClient creates a new DynamoDBClient
func NewDynamoDBClient(cfg aws.Config) *DynamoDBClient {
	return &DynamoDBClient{client: dynamodb.NewFromConfig(cfg)}
}

// ListTableNames returns the names of every table
func (c *DynamoDBClient) ListTableNames(ctx context.Context) ([]string, error) {
	paginator := dynamodb.NewListTablesPaginator(c.client, &dynamodb.ListTablesInput{})

	var names []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing DynamoDB tables: %w", err)
		}
		names = append(names, page.TableNames...)
	}
	return names, nil
}

func (c *DynamoDBClient) describeTable(ctx context.Context, name string) (*types.TableDescription, error) {
	out, err := c.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("error describing DynamoDB table %s: %w", name, err)
	}
	if out.Table == nil {
		return nil, fmt.Errorf("DynamoDB table %s has no description", name)
	}
	return out.Table, nil
}

// ListTaggedResources returns every table with its tags. Tables that cannot be
// described are skipped.
func (c *DynamoDBClient) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	names, err := c.ListTableNames(ctx)
	if err != nil {
		return nil, err
	}

	var resources []models.TaggedResource
	for _, name := range names {
		table, err := c.describeTable(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("table", name).Msg("skipping DynamoDB table")
			continue
		}
		tags, err := c.tags(ctx, table.TableArn)
		if err != nil {
			log.Warn().Err(err).Str("table", name).Msg("skipping DynamoDB table, tags unavailable")
			continue
		}
		resources = append(resources, models.TaggedResource{
			Type: ResourceTypeDynamoDBTable,
			Name: name,
			Tags: tags,
		})
	}
	return resources, nil
}

func (c *DynamoDBClient) tags(ctx context.Context, arn *string) (map[string]string, error) {
	tags := make(map[string]string)
	input := &dynamodb.ListTagsOfResourceInput{ResourceArn: arn}
	for {
		out, err := c.client.ListTagsOfResource(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, tag := range out.Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
		if aws.ToString(out.NextToken) == "" {
			return tags, nil
		}
		input.NextToken = out.NextToken
	}
}

// TableDetails returns the billing mode, item count and storage of a table
func (c *DynamoDBClient) TableDetails(ctx context.Context, name string) (models.TableCost, error) {
	table, err := c.describeTable(ctx, name)
	if err != nil {
		return models.TableCost{}, err
	}

	details := models.TableCost{
		Name:        name,
		BillingMode: billingModeNotAvailable,
		ItemCount:   aws.ToInt64(table.ItemCount),
		StorageGB:   float64(aws.ToInt64(table.TableSizeBytes)) / bytesPerGB,
	}
	if table.BillingModeSummary != nil {
		details.BillingMode = string(table.BillingModeSummary.BillingMode)
	}
	return details, nil
}

// GetOnDemandTables returns the names of tables billed per request. Tables
// that cannot be described are skipped.
func (c *DynamoDBClient) GetOnDemandTables(ctx context.Context) ([]string, error) {
	names, err := c.ListTableNames(ctx)
	if err != nil {
		return nil, err
	}

	onDemand := []string{}
	for _, name := range names {
		table, err := c.describeTable(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("table", name).Msg("skipping DynamoDB table")
			continue
		}
		if table.BillingModeSummary != nil && table.BillingModeSummary.BillingMode == types.BillingModePayPerRequest {
			onDemand = append(onDemand, name)
		}
	}
	return onDemand, nil
}

// ResourceARN returns the ARN of the named table
func (c *DynamoDBClient) ResourceARN(ctx context.Context, name string) (string, error) {
	table, err := c.describeTable(ctx, name)
	if err != nil {
		return "", err
	}
	return aws.ToString(table.TableArn), nil
}
