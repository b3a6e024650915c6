package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
)

// ResourceTypeFirehoseStream labels Firehose delivery streams in tag audits and tag files
const ResourceTypeFirehoseStream = "Firehose Delivery Stream"

type firehoseAPI interface {
	ListDeliveryStreams(ctx context.Context, params *firehose.ListDeliveryStreamsInput, optFns ...func(*firehose.Options)) (*firehose.ListDeliveryStreamsOutput, error)
	ListTagsForDeliveryStream(ctx context.Context, params *firehose.ListTagsForDeliveryStreamInput, optFns ...func(*firehose.Options)) (*firehose.ListTagsForDeliveryStreamOutput, error)
	DescribeDeliveryStream(ctx context.Context, params *firehose.DescribeDeliveryStreamInput, optFns ...func(*firehose.Options)) (*firehose.DescribeDeliveryStreamOutput, error)
}

// FirehoseClient struct for Firehose client
type FirehoseClient struct {
	client firehoseAPI
}

// NewFirehoseClient creates a new FirehoseClient
func NewFirehoseClient(cfg aws.Config) *FirehoseClient {
	return &FirehoseClient{client: firehose.NewFromConfig(cfg)}
}

// listDeliveryStreams pages by the last name seen, as the API has no token
func (c *FirehoseClient) listDeliveryStreams(ctx context.Context) ([]string, error) {
	var names []string
	input := &firehose.ListDeliveryStreamsInput{}
	for {
		out, err := c.client.ListDeliveryStreams(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("error listing Firehose delivery streams: %w", err)
		}
		names = append(names, out.DeliveryStreamNames...)
		if !aws.ToBool(out.HasMoreDeliveryStreams) || len(out.DeliveryStreamNames) == 0 {
			return names, nil
		}
		input.ExclusiveStartDeliveryStreamName = aws.String(names[len(names)-1])
	}
}

// ListTaggedResources returns every delivery stream with its tags. Streams
// whose tags cannot be read are skipped.
func (c *FirehoseClient) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	names, err := c.listDeliveryStreams(ctx)
	if err != nil {
		return nil, err
	}

	var resources []models.TaggedResource
	for _, name := range names {
		tags, err := c.tags(ctx, name)
		if err != nil {
			log.Warn().Err(err).Str("delivery_stream", name).Msg("skipping Firehose delivery stream, tags unavailable")
			continue
		}
		resources = append(resources, models.TaggedResource{
			Type: ResourceTypeFirehoseStream,
			Name: name,
			Tags: tags,
		})
	}
	return resources, nil
}

func (c *FirehoseClient) tags(ctx context.Context, name string) (map[string]string, error) {
	tags := make(map[string]string)
	input := &firehose.ListTagsForDeliveryStreamInput{DeliveryStreamName: aws.String(name)}
	for {
		out, err := c.client.ListTagsForDeliveryStream(ctx, input)
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

// ResourceARN returns the ARN of the named delivery stream
func (c *FirehoseClient) ResourceARN(ctx context.Context, name string) (string, error) {
	out, err := c.client.DescribeDeliveryStream(ctx, &firehose.DescribeDeliveryStreamInput{
		DeliveryStreamName: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("error describing Firehose delivery stream %s: %w", name, err)
	}
	if out.DeliveryStreamDescription == nil {
		return "", fmt.Errorf("Firehose delivery stream %s has no description", name)
	}
	return aws.ToString(out.DeliveryStreamDescription.DeliveryStreamARN), nil
}
