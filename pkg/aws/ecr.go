package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
)

// ResourceTypeECRRepository labels ECR repositories in tag audits
const ResourceTypeECRRepository = "ECR Repository"

type ecrAPI interface {
	DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	ListTagsForResource(ctx context.Context, params *ecr.ListTagsForResourceInput, optFns ...func(*ecr.Options)) (*ecr.ListTagsForResourceOutput, error)
}

// ECRClient wraps the ECR API calls
type ECRClient struct {
	client ecrAPI
}

// NewECRClient creates a new ECR client
func NewECRClient(cfg aws.Config) *ECRClient {
	return &ECRClient{client: ecr.NewFromConfig(cfg)}
}

// ListTaggedResources returns every repository with its tags. Repositories
// whose tags cannot be read are skipped.
func (c *ECRClient) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	paginator := ecr.NewDescribeRepositoriesPaginator(c.client, &ecr.DescribeRepositoriesInput{})

	var resources []models.TaggedResource
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe ECR repositories: %w", err)
		}

		for _, repo := range output.Repositories {
			name := aws.ToString(repo.RepositoryName)
			out, err := c.client.ListTagsForResource(ctx, &ecr.ListTagsForResourceInput{
				ResourceArn: repo.RepositoryArn,
			})
			if err != nil {
				log.Warn().Err(err).Str("repository", name).Msg("skipping ECR repository, tags unavailable")
				continue
			}

			tags := make(map[string]string, len(out.Tags))
			for _, tag := range out.Tags {
				tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
			}
			resources = append(resources, models.TaggedResource{
				Type: ResourceTypeECRRepository,
				Name: name,
				Tags: tags,
			})
		}
	}

	return resources, nil
}
