package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
)

// ResourceTypeS3Bucket labels S3 buckets in tag audits and tag files
const ResourceTypeS3Bucket = "S3 Bucket"

// errNoSuchTagSet is returned by GetBucketTagging for buckets without tags
const errNoSuchTagSet = "NoSuchTagSet"

type s3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
}

// S3Client struct for S3 client
type S3Client struct {
	client s3API
}

// NewS3Client creates a new S3Client
func NewS3Client(cfg aws.Config) *S3Client {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3Client{client: client}
}

// ListTaggedResources returns every bucket with its tags. A bucket whose tags
// cannot be read is reported with no tags.
func (c *S3Client) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	paginator := s3.NewListBucketsPaginator(c.client, &s3.ListBucketsInput{})

	var resources []models.TaggedResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing S3 buckets: %w", err)
		}

		for _, bucket := range page.Buckets {
			name := aws.ToString(bucket.Name)
			tags, err := c.bucketTags(ctx, name)
			if err != nil {
				log.Warn().Err(err).Str("bucket", name).Msg("could not read bucket tags")
				tags = map[string]string{}
			}
			resources = append(resources, models.TaggedResource{
				Type: ResourceTypeS3Bucket,
				Name: name,
				Tags: tags,
			})
		}
	}
	return resources, nil
}

// bucketTags reads a bucket's tags from the bucket's own region
func (c *S3Client) bucketTags(ctx context.Context, bucketName string) (map[string]string, error) {
	region, err := c.getBucketRegion(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("error getting bucket location: %w", err)
	}

	out, err := c.client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
		Bucket: aws.String(bucketName),
	}, func(o *s3.Options) {
		o.Region = region
	})
	if hasErrorCode(err, errNoSuchTagSet) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting bucket tagging: %w", err)
	}

	tags := make(map[string]string, len(out.TagSet))
	for _, tag := range out.TagSet {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

// getBucketRegion determines the region for a bucket
func (c *S3Client) getBucketRegion(ctx context.Context, bucketName string) (string, error) {
	location, err := c.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return "", err
	}
	return bucketRegion(location.LocationConstraint), nil
}

// bucketRegion maps a location constraint to a region. Buckets in us-east-1
// have no constraint and old eu-west-1 buckets report the legacy "EU".
func bucketRegion(constraint s3types.BucketLocationConstraint) string {
	switch constraint {
	case "":
		return "us-east-1"
	case s3types.BucketLocationConstraintEu:
		return "eu-west-1"
	default:
		return string(constraint)
	}
}

// ResourceARN returns the ARN of the named bucket. Bucket ARNs carry neither
// region nor account, so no API call is needed.
func (c *S3Client) ResourceARN(ctx context.Context, name string) (string, error) {
	return BucketARN(name), nil
}

// BucketARN builds the ARN of a bucket
func BucketARN(name string) string {
	return "arn:aws:s3:::" + name
}
