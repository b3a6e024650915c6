package aws

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
)

// ResourceTypeKinesisStream labels Kinesis streams in tag audits and tag files
const ResourceTypeKinesisStream = "Kinesis Stream"

// shardListLimit caps the shards returned by one DescribeStream call
const shardListLimit = 100

type kinesisAPI interface {
	ListStreams(ctx context.Context, params *kinesis.ListStreamsInput, optFns ...func(*kinesis.Options)) (*kinesis.ListStreamsOutput, error)
	ListTagsForStream(ctx context.Context, params *kinesis.ListTagsForStreamInput, optFns ...func(*kinesis.Options)) (*kinesis.ListTagsForStreamOutput, error)
	DescribeStream(ctx context.Context, params *kinesis.DescribeStreamInput, optFns ...func(*kinesis.Options)) (*kinesis.DescribeStreamOutput, error)
}

// KinesisClient struct for Kinesis client
type KinesisClient struct {
	client kinesisAPI
}

// NewKinesisClient creates a new KinesisClient
func NewKinesisClient(cfg aws.Config) *KinesisClient {
	return &KinesisClient{client: kinesis.NewFromConfig(cfg)}
}

// ListTaggedResources returns every stream with its tags. Streams whose tags
// cannot be read are skipped.
func (c *KinesisClient) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	paginator := kinesis.NewListStreamsPaginator(c.client, &kinesis.ListStreamsInput{})

	var resources []models.TaggedResource
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing Kinesis streams: %w", err)
		}

		for _, name := range page.StreamNames {
			tags, err := c.tags(ctx, name)
			if err != nil {
				log.Warn().Err(err).Str("stream", name).Msg("skipping Kinesis stream, tags unavailable")
				continue
			}
			resources = append(resources, models.TaggedResource{
				Type: ResourceTypeKinesisStream,
				Name: name,
				Tags: tags,
			})
		}
	}
	return resources, nil
}

func (c *KinesisClient) tags(ctx context.Context, name string) (map[string]string, error) {
	tags := make(map[string]string)
	input := &kinesis.ListTagsForStreamInput{StreamName: aws.String(name)}
	for {
		out, err := c.client.ListTagsForStream(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, tag := range out.Tags {
			tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
		}
		if !aws.ToBool(out.HasMoreTags) || len(out.Tags) == 0 {
			return tags, nil
		}
		input.ExclusiveStartTagKey = out.Tags[len(out.Tags)-1].Key
	}
}

// ShardCount returns the number of shards of a stream as listed by a single
// DescribeStream call, suffixed with "+" when the stream has more
func (c *KinesisClient) ShardCount(ctx context.Context, name string) (string, error) {
	out, err := c.client.DescribeStream(ctx, &kinesis.DescribeStreamInput{
		StreamName: aws.String(name),
		Limit:      aws.Int32(shardListLimit),
	})
	if err != nil {
		return "", fmt.Errorf("error describing Kinesis stream %s: %w", name, err)
	}
	if out.StreamDescription == nil {
		return "0", nil
	}

	count := strconv.Itoa(len(out.StreamDescription.Shards))
	if aws.ToBool(out.StreamDescription.HasMoreShards) {
		count += "+"
	}
	return count, nil
}

// ResourceARN returns the ARN of the named stream
func (c *KinesisClient) ResourceARN(ctx context.Context, name string) (string, error) {
	out, err := c.client.DescribeStream(ctx, &kinesis.DescribeStreamInput{
		StreamName: aws.String(name),
		Limit:      aws.Int32(1),
	})
	if err != nil {
		return "", fmt.Errorf("error describing Kinesis stream %s: %w", name, err)
	}
	if out.StreamDescription == nil {
		return "", fmt.Errorf("Kinesis stream %s has no description", name)
	}
	return aws.ToString(out.StreamDescription.StreamARN), nil
}
