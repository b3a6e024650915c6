package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/younsl/awsaudit/pkg/aws"
	"github.com/younsl/awsaudit/pkg/tagfile"
)

const defaultTagFile = "to_tag.csv"

func newTagCmd(opts *globalOptions) *cobra.Command {
	var (
		file      string
		batchSize int
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag resources listed in a CSV file",
		Long: `Reads a CSV file with the header Resource,Name,Tag:<key1>,Tag:<key2>,...
and applies the tag values on each row to the named resource.

Supported resource types: DynamoDB Table, Firehose Delivery Stream,
Kinesis Stream, S3 Bucket, Lambda Function.`,
		Example: `  awsaudit tag --file to_tag.csv
  awsaudit tag --file to_tag.csv --batch-size 50 --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("error opening tag file: %w", err)
			}
			defer f.Close()

			keys, rows, err := tagfile.Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			log.Info().Str("tags", strings.Join(keys, ",")).Int("rows", len(rows)).Msg("tags to be added")

			awsCfg, err := aws.LoadConfig(ctx, opts.resolveRegion())
			if err != nil {
				return err
			}

			resolvers := map[string]tagfile.ARNResolver{
				aws.ResourceTypeDynamoDBTable:  aws.NewDynamoDBClient(awsCfg),
				aws.ResourceTypeFirehoseStream: aws.NewFirehoseClient(awsCfg),
				aws.ResourceTypeKinesisStream:  aws.NewKinesisClient(awsCfg),
				aws.ResourceTypeS3Bucket:       aws.NewS3Client(awsCfg),
				aws.ResourceTypeLambdaFunction: aws.NewLambdaClient(awsCfg),
			}
			applier := tagfile.NewApplier(resolvers, aws.NewTaggingClient(awsCfg), batchSize, dryRun)

			requests := applier.Resolve(ctx, rows)
			log.Info().Int("resources", len(requests)).Int("skipped", len(rows)-len(requests)).Msg("resolved ARNs")

			result, err := applier.Apply(ctx, requests)
			fmt.Printf("Tagged: %d, Failed: %d, Skipped: %d, Unresolved: %d\n",
				result.Tagged, result.Failed, result.Skipped, len(rows)-len(requests))
			return err
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", defaultTagFile, "CSV file listing the resources and tags")
	cmd.Flags().IntVar(&batchSize, "batch-size", tagfile.DefaultBatchSize, "Number of resources tagged per batch")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve ARNs and log the tags without applying them")
	return cmd
}
