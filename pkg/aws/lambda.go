package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
)

// ResourceTypeLambdaFunction labels Lambda functions in tag audits and tag files
const ResourceTypeLambdaFunction = "Lambda Function"

type lambdaAPI interface {
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	ListTags(ctx context.Context, params *lambda.ListTagsInput, optFns ...func(*lambda.Options)) (*lambda.ListTagsOutput, error)
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
}

// LambdaClient struct for Lambda client
type LambdaClient struct {
	client lambdaAPI
}

// NewLambdaClient creates a new LambdaClient
func NewLambdaClient(cfg aws.Config) *LambdaClient {
	return &LambdaClient{client: lambda.NewFromConfig(cfg)}
}

// ListTaggedResources returns every function with its tags. Functions whose
// tags cannot be read are skipped.
func (c *LambdaClient) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	paginator := lambda.NewListFunctionsPaginator(c.client, &lambda.ListFunctionsInput{})

	var resources []models.TaggedResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing Lambda functions: %w", err)
		}

		for _, function := range page.Functions {
			name := aws.ToString(function.FunctionName)
			out, err := c.client.ListTags(ctx, &lambda.ListTagsInput{Resource: function.FunctionArn})
			if err != nil {
				log.Warn().Err(err).Str("function", name).Msg("skipping Lambda function, tags unavailable")
				continue
			}
			tags := out.Tags
			if tags == nil {
				tags = map[string]string{}
			}
			resources = append(resources, models.TaggedResource{
				Type: ResourceTypeLambdaFunction,
				Name: name,
				Tags: tags,
			})
		}
	}
	return resources, nil
}

// ResourceARN returns the ARN of the named function
func (c *LambdaClient) ResourceARN(ctx context.Context, name string) (string, error) {
	out, err := c.client.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(name)})
	if err != nil {
		return "", fmt.Errorf("error getting Lambda function %s: %w", name, err)
	}
	if out.Configuration == nil {
		return "", fmt.Errorf("Lambda function %s has no configuration", name)
	}
	return aws.ToString(out.Configuration.FunctionArn), nil
}
