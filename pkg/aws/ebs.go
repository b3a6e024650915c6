package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/pricing"
	"github.com/younsl/awsaudit/pkg/snapshot"
	"github.com/younsl/awsaudit/pkg/utils"
)

// ownerSelf restricts image and snapshot listings to the calling account
const ownerSelf = "self"

// ec2API is the part of the EC2 client used by the EBS, EC2 and EIP clients
type ec2API interface {
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	DeleteSnapshot(ctx context.Context, params *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error)
}

// EBSClient reads EBS volumes, snapshots and the images and instances that
// reference them. It implements snapshot.InventoryProvider.
type EBSClient struct {
	client    ec2API
	region    string
	estimator *pricing.Estimator
}

var _ snapshot.InventoryProvider = (*EBSClient)(nil)

// NewEBSClient creates a new EBSClient
func NewEBSClient(cfg aws.Config, estimator *pricing.Estimator) *EBSClient {
	return newEBSClient(ec2.NewFromConfig(cfg), cfg.Region, estimator)
}

func newEBSClient(client ec2API, region string, estimator *pricing.Estimator) *EBSClient {
	return &EBSClient{
		client:    client,
		region:    region,
		estimator: estimator,
	}
}

// ListImages returns every AMI owned by the account, disabled ones included
func (c *EBSClient) ListImages(ctx context.Context) ([]snapshot.Image, error) {
	paginator := ec2.NewDescribeImagesPaginator(c.client, &ec2.DescribeImagesInput{
		Owners:          []string{ownerSelf},
		IncludeDisabled: aws.Bool(true),
	})

	var images []snapshot.Image
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing images: %w", err)
		}
		for _, image := range page.Images {
			img := snapshot.Image{
				ID:   aws.ToString(image.ImageId),
				Name: aws.ToString(image.Name),
			}
			for _, mapping := range image.BlockDeviceMappings {
				bdm := snapshot.BlockDeviceMapping{DeviceName: aws.ToString(mapping.DeviceName)}
				if mapping.Ebs != nil {
					bdm.SnapshotID = aws.ToString(mapping.Ebs.SnapshotId)
				}
				img.BlockDeviceMappings = append(img.BlockDeviceMappings, bdm)
			}
			images = append(images, img)
		}
	}
	return images, nil
}

// ListSnapshots returns every EBS snapshot owned by the account, in listing order
func (c *EBSClient) ListSnapshots(ctx context.Context) ([]snapshot.Snapshot, error) {
	paginator := ec2.NewDescribeSnapshotsPaginator(c.client, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{ownerSelf},
	})

	var snapshots []snapshot.Snapshot
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing snapshots: %w", err)
		}
		for _, s := range page.Snapshots {
			snap := snapshot.Snapshot{
				ID:          aws.ToString(s.SnapshotId),
				Description: aws.ToString(s.Description),
				SizeGB:      int(aws.ToInt32(s.VolumeSize)),
				VolumeID:    aws.ToString(s.VolumeId),
			}
			if s.StartTime != nil {
				snap.StartTime = *s.StartTime
			}
			snapshots = append(snapshots, snap)
		}
	}
	return snapshots, nil
}

// DescribeVolume returns the volume's tags and attachments. An error wrapping
// snapshot.ErrNotFound is returned when the volume no longer exists.
func (c *EBSClient) DescribeVolume(ctx context.Context, volumeID string) (snapshot.Volume, error) {
	out, err := c.client.DescribeVolumes(ctx, &ec2.DescribeVolumesInput{
		VolumeIds: []string{volumeID},
	})
	if hasErrorCode(err, volumeNotFoundCodes...) {
		return snapshot.Volume{}, fmt.Errorf("volume %s: %w", volumeID, snapshot.ErrNotFound)
	}
	if err != nil {
		return snapshot.Volume{}, fmt.Errorf("error describing volume %s: %w", volumeID, err)
	}
	if len(out.Volumes) == 0 {
		return snapshot.Volume{}, fmt.Errorf("volume %s: %w", volumeID, snapshot.ErrNotFound)
	}

	volume := out.Volumes[0]
	result := snapshot.Volume{
		ID:   aws.ToString(volume.VolumeId),
		Tags: utils.GetTagsMap(volume.Tags),
	}
	for _, attachment := range volume.Attachments {
		result.Attachments = append(result.Attachments, snapshot.Attachment{
			InstanceID: aws.ToString(attachment.InstanceId),
		})
	}
	return result, nil
}

// DescribeInstance returns the instance's state and tags. An error wrapping
// snapshot.ErrNotFound is returned when the instance no longer exists.
func (c *EBSClient) DescribeInstance(ctx context.Context, instanceID string) (snapshot.Instance, error) {
	instance, err := describeInstance(ctx, c.client, instanceID)
	if err != nil {
		return snapshot.Instance{}, err
	}
	return snapshot.Instance{
		ID:    aws.ToString(instance.InstanceId),
		State: instanceState(instance),
		Tags:  utils.GetTagsMap(instance.Tags),
	}, nil
}

// GetAvailableVolumes returns every EBS volume in the available (unattached) state
func (c *EBSClient) GetAvailableVolumes(ctx context.Context) ([]models.VolumeInfo, error) {
	// Filter only volumes in 'available' state (unattached volumes)
	paginator := ec2.NewDescribeVolumesPaginator(c.client, &ec2.DescribeVolumesInput{
		Filters: []types.Filter{{
			Name:   aws.String("status"),
			Values: []string{"available"},
		}},
	})

	volumes := []models.VolumeInfo{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EBS volumes: %w", err)
		}

		for _, volume := range page.Volumes {
			volumeType := string(volume.VolumeType)
			volumeSizeGB := int(aws.ToInt32(volume.Size))

			info := models.VolumeInfo{
				VolumeID:   aws.ToString(volume.VolumeId),
				Name:       utils.GetName(volume.Tags),
				Size:       volumeSizeGB,
				VolumeType: volumeType,
				State:      string(volume.State),
				Region:     c.region,
				SnapshotID: aws.ToString(volume.SnapshotId),
				Tags:       utils.FormatTags(volume.Tags),
			}
			if volume.CreateTime != nil {
				info.CreationTime = *volume.CreateTime
			}

			if c.estimator != nil {
				monthlyCost, source := c.estimator.VolumeMonthlyCost(ctx, volumeType, volumeSizeGB, c.region)
				info.EstimatedMonthlyCost = monthlyCost
				info.PricingSource = string(source)
			} else {
				info.PricingSource = string(pricing.PricingSourceNA)
			}

			volumes = append(volumes, info)
		}
	}

	return volumes, nil
}

// SnapshotMonthlyCost estimates the monthly storage cost of a snapshot in the client's region
func (c *EBSClient) SnapshotMonthlyCost(ctx context.Context, sizeGB int) (float64, pricing.PricingSource) {
	if c.estimator == nil {
		return 0, pricing.PricingSourceNA
	}
	return c.estimator.SnapshotMonthlyCost(ctx, sizeGB, c.region)
}

// DeleteSnapshot deletes a snapshot
func (c *EBSClient) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	_, err := c.client.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{
		SnapshotId: aws.String(snapshotID),
	})
	if err != nil {
		return fmt.Errorf("error deleting snapshot %s: %w", snapshotID, err)
	}
	return nil
}

// Region returns the region the client queries
func (c *EBSClient) Region() string {
	return c.region
}
