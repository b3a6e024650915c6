package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
)

const (
	// ResourceTypeLoadBalancer labels ALBs and NLBs in tag audits
	ResourceTypeLoadBalancer = "Load Balancer"

	// DescribeTags accepts at most 20 ARNs per call
	describeTagsBatchSize = 20
)

type elbv2API interface {
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
	DescribeTags(ctx context.Context, params *elbv2.DescribeTagsInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTagsOutput, error)
}

// ELBScanner reads Application and Network Load Balancers
type ELBScanner struct {
	client elbv2API
}

// NewELBScanner creates a new ELBScanner
func NewELBScanner(cfg aws.Config) *ELBScanner {
	return &ELBScanner{client: elbv2.NewFromConfig(cfg)}
}

// ListTaggedResources returns every ALB and NLB with its tags, labelled
// "<name> (ALB)" or "<name> (NLB)". A batch whose tags cannot be read is skipped.
func (s *ELBScanner) ListTaggedResources(ctx context.Context) ([]models.TaggedResource, error) {
	labels := make(map[string]string)
	var arns []string

	paginator := elbv2.NewDescribeLoadBalancersPaginator(s.client, &elbv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error describing v2 load balancers: %w", err)
		}

		for _, lb := range page.LoadBalancers {
			// Determine short type string
			var shortType string
			switch lb.Type {
			case elbv2types.LoadBalancerTypeEnumApplication:
				shortType = "ALB"
			case elbv2types.LoadBalancerTypeEnumNetwork:
				shortType = "NLB"
			default:
				continue
			}

			arn := aws.ToString(lb.LoadBalancerArn)
			labels[arn] = fmt.Sprintf("%s (%s)", aws.ToString(lb.LoadBalancerName), shortType)
			arns = append(arns, arn)
		}
	}

	var resources []models.TaggedResource
	for start := 0; start < len(arns); start += describeTagsBatchSize {
		batch := arns[start:min(start+describeTagsBatchSize, len(arns))]

		out, err := s.client.DescribeTags(ctx, &elbv2.DescribeTagsInput{ResourceArns: batch})
		if err != nil {
			log.Warn().Err(err).Int("load_balancers", len(batch)).Msg("skipping load balancers, tags unavailable")
			continue
		}

		for _, desc := range out.TagDescriptions {
			tags := make(map[string]string, len(desc.Tags))
			for _, tag := range desc.Tags {
				tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
			}
			resources = append(resources, models.TaggedResource{
				Type: ResourceTypeLoadBalancer,
				Name: labels[aws.ToString(desc.ResourceArn)],
				Tags: tags,
			})
		}
	}

	return resources, nil
}
