package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/younsl/awsaudit/internal/version"
	"github.com/younsl/awsaudit/pkg/report"
	"github.com/younsl/awsaudit/pkg/utils"
)

// globalOptions are the flags shared by every command
type globalOptions struct {
	region    string
	logLevel  string
	logJSON   bool
	noSpinner bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "awsaudit",
		Short: "Audit an AWS account for cost and hygiene issues",
		Long: `awsaudit inspects an AWS account for unreferenced EBS snapshots, unattached
volumes, untagged resources, top-cost services and unused Elastic IPs, and
writes the findings to a spreadsheet. It can also delete orphaned snapshots
and bulk-tag resources from a CSV file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.logLevel, opts.logJSON)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.region, "region", "r", "", "AWS region (default $AWS_REGION, $AWS_DEFAULT_REGION or us-east-1)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.logJSON, "log-json", false, "Write logs as JSON")
	flags.BoolVar(&opts.noSpinner, "no-spinner", false, "Disable progress spinners")

	rootCmd.AddCommand(
		newReportCmd(opts),
		newCleanupSnapshotsCmd(opts),
		newTagCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

// setupLogging configures the global zerolog logger on stderr
func setupLogging(level string, jsonOutput bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)

	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}

// progress returns a spinner unless spinners are off or logs are JSON
func (o *globalOptions) progress() report.Progress {
	if o.noSpinner || o.logJSON {
		return report.NopProgress{}
	}
	return report.NewSpinnerProgress(os.Stderr)
}

// resolveRegion returns the region flag, falling back to the environment
func (o *globalOptions) resolveRegion() string {
	region := o.region
	if region == "" {
		region = utils.GetDefaultRegion()
	}
	if !utils.IsValidRegion(region) {
		log.Warn().Str("region", region).Msg("region is not in the known region list")
	}
	return region
}
