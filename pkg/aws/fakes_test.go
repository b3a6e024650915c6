package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

func ec2Tags(kv ...string) []types.Tag {
	var tags []types.Tag
	for i := 0; i+1 < len(kv); i += 2 {
		tags = append(tags, types.Tag{Key: aws.String(kv[i]), Value: aws.String(kv[i+1])})
	}
	return tags
}

// fakeEC2 serves paged snapshot listings and id-keyed volume and instance lookups
type fakeEC2 struct {
	images        []types.Image
	snapshotPages [][]types.Snapshot
	volumes       map[string]types.Volume
	volumeErr     error
	available     []types.Volume
	instances     map[string]types.Instance
	instanceErr   error
	addresses     []types.Address
	deleted       []string
	deleteErr     error

	imageOwners     []string
	includeDisabled bool
	snapshotOwners  []string
}

func (f *fakeEC2) DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	f.imageOwners = params.Owners
	f.includeDisabled = aws.ToBool(params.IncludeDisabled)
	return &ec2.DescribeImagesOutput{Images: f.images}, nil
}

func (f *fakeEC2) DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	f.snapshotOwners = params.OwnerIds
	page := 0
	if params.NextToken != nil {
		page = 1
	}
	out := &ec2.DescribeSnapshotsOutput{}
	if page < len(f.snapshotPages) {
		out.Snapshots = f.snapshotPages[page]
	}
	if page+1 < len(f.snapshotPages) {
		out.NextToken = aws.String("page2")
	}
	return out, nil
}

func (f *fakeEC2) DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if len(params.Filters) > 0 {
		return &ec2.DescribeVolumesOutput{Volumes: f.available}, nil
	}
	if f.volumeErr != nil {
		return nil, f.volumeErr
	}
	out := &ec2.DescribeVolumesOutput{}
	for _, id := range params.VolumeIds {
		if v, ok := f.volumes[id]; ok {
			out.Volumes = append(out.Volumes, v)
		}
	}
	return out, nil
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if f.instanceErr != nil {
		return nil, f.instanceErr
	}
	out := &ec2.DescribeInstancesOutput{}
	if len(params.InstanceIds) == 0 {
		var all []types.Instance
		for _, i := range f.instances {
			all = append(all, i)
		}
		out.Reservations = []types.Reservation{{Instances: all}}
		return out, nil
	}
	for _, id := range params.InstanceIds {
		if i, ok := f.instances[id]; ok {
			out.Reservations = append(out.Reservations, types.Reservation{Instances: []types.Instance{i}})
		}
	}
	return out, nil
}

func (f *fakeEC2) DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	return &ec2.DescribeAddressesOutput{Addresses: f.addresses}, nil
}

func (f *fakeEC2) DeleteSnapshot(ctx context.Context, params *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, aws.ToString(params.SnapshotId))
	return &ec2.DeleteSnapshotOutput{}, nil
}

var errThrottled = errors.New("throttled")
