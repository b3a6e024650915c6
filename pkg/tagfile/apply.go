package tagfile

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/younsl/awsaudit/internal/models"
	"github.com/younsl/awsaudit/pkg/utils"
)

// DefaultBatchSize is the number of resources tagged between progress logs
const DefaultBatchSize = 20

// ARNResolver finds the ARN of a resource by name
type ARNResolver interface {
	ResourceARN(ctx context.Context, name string) (string, error)
}

// Tagger applies tags to one ARN
type Tagger interface {
	TagResource(ctx context.Context, arn string, tags map[string]string) error
}

// Applier resolves tag file rows to ARNs and tags them
type Applier struct {
	resolvers map[string]ARNResolver
	tagger    Tagger
	batchSize int
	dryRun    bool
}

// NewApplier creates an Applier. resolvers is keyed by the resource type
// used in the tag file. A batch size below one falls back to DefaultBatchSize.
func NewApplier(resolvers map[string]ARNResolver, tagger Tagger, batchSize int, dryRun bool) *Applier {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Applier{
		resolvers: resolvers,
		tagger:    tagger,
		batchSize: batchSize,
		dryRun:    dryRun,
	}
}

// ResourceTypes returns the resource types the applier can resolve, sorted
func (a *Applier) ResourceTypes() []string {
	return slices.Sorted(maps.Keys(a.resolvers))
}

// Resolve turns rows into tag requests. Rows with an unknown resource type
// or whose ARN cannot be found are logged and skipped.
func (a *Applier) Resolve(ctx context.Context, rows []Row) []models.TagRequest {
	var requests []models.TagRequest
	for _, row := range rows {
		resolver, ok := a.resolvers[row.ResourceType]
		if !ok {
			log.Warn().
				Int("line", row.Line).
				Str("resource_type", row.ResourceType).
				Str("supported", strings.Join(a.ResourceTypes(), ", ")).
				Msg("skipping row, unknown resource type")
			continue
		}

		arn, err := resolver.ResourceARN(ctx, row.Name)
		if err != nil {
			log.Warn().Err(err).Int("line", row.Line).Str("name", row.Name).Msg("skipping row, ARN not found")
			continue
		}

		requests = append(requests, models.TagRequest{
			ResourceType: row.ResourceType,
			Name:         row.Name,
			ARN:          arn,
			Tags:         row.Tags,
		})
	}
	return requests
}

// Result counts the outcome of Apply
type Result struct {
	Tagged  int
	Failed  int
	Skipped int
}

// Apply tags every request, one ARN per call, working through the requests in
// batches. A failed request is logged and does not stop the others. In dry
// run mode nothing is tagged and every request counts as skipped.
func (a *Applier) Apply(ctx context.Context, requests []models.TagRequest) (Result, error) {
	var result Result
	for start := 0; start < len(requests); start += a.batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch := requests[start:min(start+a.batchSize, len(requests))]
		log.Info().Int("from", start+1).Int("to", start+len(batch)).Int("total", len(requests)).Msg("tagging batch")

		for _, req := range batch {
			if a.dryRun {
				log.Info().Str("arn", req.ARN).Str("tags", formatTags(req.Tags)).Msg("dry run, would tag")
				result.Skipped++
				continue
			}

			if err := a.tagger.TagResource(ctx, req.ARN, req.Tags); err != nil {
				log.Error().Err(err).Str("arn", req.ARN).Msg("tagging failed")
				result.Failed++
				continue
			}
			log.Info().Str("arn", req.ARN).Msg("tagged")
			result.Tagged++
		}
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("%d of %d resources could not be tagged", result.Failed, len(requests))
	}
	return result, nil
}

// formatTags renders tags as "key=value" pairs in key order
func formatTags(tags map[string]string) string {
	pairs := make([]string, 0, len(tags))
	for _, key := range utils.SortedKeys(tags) {
		pairs = append(pairs, key+"="+tags[key])
	}
	return strings.Join(pairs, ", ")
}
