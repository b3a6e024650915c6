package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
)

type taggingAPI interface {
	TagResources(ctx context.Context, params *resourcegroupstaggingapi.TagResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.TagResourcesOutput, error)
}

// TaggingClient applies tags through the Resource Groups Tagging API
type TaggingClient struct {
	client taggingAPI
}

// NewTaggingClient creates a new TaggingClient
func NewTaggingClient(cfg aws.Config) *TaggingClient {
	return &TaggingClient{client: resourcegroupstaggingapi.NewFromConfig(cfg)}
}

// TagResource applies tags to a single ARN. A rejection reported in the
// response's failure map is returned as an error.
func (c *TaggingClient) TagResource(ctx context.Context, arn string, tags map[string]string) error {
	out, err := c.client.TagResources(ctx, &resourcegroupstaggingapi.TagResourcesInput{
		ResourceARNList: []string{arn},
		Tags:            tags,
	})
	if err != nil {
		return fmt.Errorf("error tagging %s: %w", arn, err)
	}

	if failure, ok := out.FailedResourcesMap[arn]; ok {
		return fmt.Errorf("error tagging %s: %s: %s", arn, failure.ErrorCode, aws.ToString(failure.ErrorMessage))
	}
	return nil
}
