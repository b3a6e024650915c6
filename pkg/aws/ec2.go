package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/snapshot"
	"github.com/younsl/awsaudit/pkg/utils"
)

// ResourceTypeEC2Instance labels EC2 instances in tag audits
const ResourceTypeEC2Instance = "EC2 Instance"

// EC2Client struct for EC2 client
type EC2Client struct {
	client ec2API
	region string
}

// NewEC2Client creates a new EC2Client
func NewEC2Client(cfg aws.Config) *EC2Client {
	return &EC2Client{
		client: ec2.NewFromConfig(cfg),
		region: cfg.Region,
	}
}

// ListTaggedResources returns every instance with its tags. Instances with a
// Name tag are labelled "<id> (<name>)".
func (c *EC2Client) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	paginator := ec2.NewDescribeInstancesPaginator(c.client, &ec2.DescribeInstancesInput{})

	var resources []models.TaggedResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances: %w", err)
		}

		for _, reservation := range page.Reservations {
			for _, instance := range reservation.Instances {
				label := aws.ToString(instance.InstanceId)
				tags := utils.GetTagsMap(instance.Tags)
				if name, ok := tags[utils.NameTagKey]; ok {
					label = fmt.Sprintf("%s (%s)", label, name)
				}
				resources = append(resources, models.TaggedResource{
					Type: ResourceTypeEC2Instance,
					Name: label,
					Tags: tags,
				})
			}
		}
	}
	return resources, nil
}

// describeInstance looks up a single instance. An error wrapping
// snapshot.ErrNotFound is returned when the id no longer resolves.
func describeInstance(ctx context.Context, client ec2API, instanceID string) (types.Instance, error) {
	out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if hasErrorCode(err, instanceNotFoundCodes...) {
		return types.Instance{}, fmt.Errorf("instance %s: %w", instanceID, snapshot.ErrNotFound)
	}
	if err != nil {
		return types.Instance{}, fmt.Errorf("error describing instance %s: %w", instanceID, err)
	}

	for _, reservation := range out.Reservations {
		if len(reservation.Instances) > 0 {
			return reservation.Instances[0], nil
		}
	}
	return types.Instance{}, fmt.Errorf("instance %s: %w", instanceID, snapshot.ErrNotFound)
}

// instanceState returns the instance's state name, e.g. "running"
func instanceState(instance types.Instance) string {
	if instance.State == nil {
		return ""
	}
	return string(instance.State.Name)
}
