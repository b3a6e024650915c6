package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/younsl/awsaudit/internal/config"
	"github.com/younsl/awsaudit/pkg/aws"
	"github.com/younsl/awsaudit/pkg/formatter"
	"github.com/younsl/awsaudit/pkg/pricing"
	"github.com/younsl/awsaudit/pkg/report"
	"github.com/younsl/awsaudit/pkg/snapshot"
)

func newReportCmd(opts *globalOptions) *cobra.Command {
	var configPath, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the cost and hygiene report workbook",
		Long: `Runs every report section enabled in the config file and writes one sheet
per section to an xlsx workbook. A section that fails is logged and listed in
the "Report Summary" sheet; the other sections still run.`,
		Example: `  awsaudit report
  awsaudit report --config config.yaml --output audit.xlsx --region ap-northeast-2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			startTime := time.Now()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("region") {
				cfg.Region = opts.resolveRegion()
			}
			if output != "" {
				cfg.Output = output
			}

			awsCfg, err := aws.LoadConfig(ctx, cfg.Region)
			if err != nil {
				return err
			}
			log.Info().Str("region", cfg.Region).Str("output", cfg.Output).Msg("generating report")

			estimator := pricing.NewEstimatorFromConfig(awsCfg)
			ebs := aws.NewEBSClient(awsCfg, estimator)
			dynamo := aws.NewDynamoDBClient(awsCfg)
			kinesis := aws.NewKinesisClient(awsCfg)

			src := report.Sources{
				Costs:     aws.NewCostExplorerClient(awsCfg),
				Snapshots: snapshot.NewResolver(ebs),
				Volumes:   ebs,
				Tagged: []report.TaggedSource{
					aws.NewLambdaClient(awsCfg),
					dynamo,
					aws.NewEC2Client(awsCfg),
					kinesis,
					aws.NewFirehoseClient(awsCfg),
					aws.NewS3Client(awsCfg),
					aws.NewECRClient(awsCfg),
					aws.NewELBScanner(awsCfg),
				},
				Kinesis:    kinesis,
				DynamoDB:   dynamo,
				Logs:       aws.NewLogsClient(awsCfg),
				APIGateway: aws.NewAPIGatewayClient(awsCfg),
				EIPs:       aws.NewEIPClient(awsCfg),
			}

			results, err := report.New(cfg, src, opts.progress()).Generate(ctx)
			if err != nil {
				return err
			}

			formatter.PrintSectionSummary(os.Stdout, results)
			formatter.PrintPricingAPIStats(os.Stdout, estimator.Stats())
			formatter.PrintTimestamp(os.Stdout, startTime, time.Since(startTime))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default "+config.DefaultPath+" if present)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output workbook path (overrides the config file)")
	return cmd
}
