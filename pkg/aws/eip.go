package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/utils"
)

// EIPClient struct for Elastic IP client
type EIPClient struct {
	client ec2API
	region string
}

// NewEIPClient creates a new EIPClient
func NewEIPClient(cfg aws.Config) *EIPClient {
	return &EIPClient{
		client: ec2.NewFromConfig(cfg),
		region: cfg.Region,
	}
}

// GetUnusedEIPs returns the Elastic IPs that are not associated with an
// instance or whose instance is not running. An address whose instance cannot
// be described is skipped.
func (c *EIPClient) GetUnusedEIPs(ctx context.Context) ([]models.EIPInfo, error) {
	result, err := c.client.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("error querying Elastic IPs: %w", err)
	}

	eips := []models.EIPInfo{}
	for _, address := range result.Addresses {
		eip := models.EIPInfo{
			AllocationID: aws.ToString(address.AllocationId),
			PublicIP:     aws.ToString(address.PublicIp),
			InstanceID:   aws.ToString(address.InstanceId),
			Region:       c.region,
		}

		if eip.Assigned() {
			instance, err := describeInstance(ctx, c.client, eip.InstanceID)
			if err != nil {
				log.Warn().Err(err).Str("address", eip.PublicIP).Msg("skipping Elastic IP, instance lookup failed")
				continue
			}
			eip.InstanceState = instanceState(instance)
			eip.InstanceName = utils.GetName(instance.Tags)
		}

		if eip.Assigned() && eip.InstanceState == string(types.InstanceStateNameRunning) {
			continue
		}
		eips = append(eips, eip)
	}

	return eips, nil
}
