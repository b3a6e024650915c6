// Package config loads the report configuration.
//
// Values are resolved in this order: AWSAUDIT_* environment variables, the
// config file, defaults. Nested keys map to variables with dots replaced by
// underscores, e.g. AWSAUDIT_EXPENSIVE_SERVICES_PAST_DAYS.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/younsl/awsaudit/pkg/utils"
)

const (
	// DefaultPath is read when no config file is given. A missing default
	// file is not an error.
	DefaultPath = "config.json"

	envPrefix = "awsaudit"

	defaultCostPercentage = 80.0
	defaultPastDays       = 30
	defaultTopN           = 10
	defaultNameTagKey     = "Name"
	defaultOutput         = "report.xlsx"
)

// Config is the report configuration. Each section enables one worksheet.
type Config struct {
	Region string `mapstructure:"region"`
	Output string `mapstructure:"output"`

	ExpensiveServices        CostSection       `mapstructure:"expensive_services"`
	UntaggedResources        UntaggedSection   `mapstructure:"untagged_resources"`
	UnreferencedSnapshots    Toggle            `mapstructure:"unreferenced_snapshots"`
	UnattachedVolumes        Toggle            `mapstructure:"unattached_volumes"`
	ExpensiveLambdaFunctions NamedCostSection  `mapstructure:"expensive_lambda_functions"`
	ExpensiveKinesisStreams  NamedCostSection  `mapstructure:"expensive_kinesis_streams"`
	ExpensiveDynamoDB        NamedCostSection  `mapstructure:"expensive_ddb"`
	OnDemandDynamoDB         Toggle            `mapstructure:"on_demand_ddb"`
	LogGroups                LogGroupsSection  `mapstructure:"storage_cloudwatch_log_groups"`
	APIGateway               APIGatewaySection `mapstructure:"api_gateway_cloudwatch"`
	UnusedElasticIPs         Toggle            `mapstructure:"unused_elastic_ips"`
}

// Toggle is a section with no settings besides being on or off
type Toggle struct {
	Enabled bool `mapstructure:"enabled"`
}

// CostSection ranks services by cost
type CostSection struct {
	Enabled        bool    `mapstructure:"enabled"`
	CostPercentage float64 `mapstructure:"cost_percentage"`
	PastDays       int     `mapstructure:"past_days"`
}

// NamedCostSection ranks the resources of one service by cost, using a tag to
// tell resources apart
type NamedCostSection struct {
	Enabled        bool    `mapstructure:"enabled"`
	CostPercentage float64 `mapstructure:"cost_percentage"`
	NameTagKey     string  `mapstructure:"name_tag_key"`
	PastDays       int     `mapstructure:"past_days"`
}

// UntaggedSection lists resources missing any of Tags
type UntaggedSection struct {
	Enabled bool     `mapstructure:"enabled"`
	Tags    []string `mapstructure:"tags"`
}

// LogGroupsSection ranks log groups by ingested bytes
type LogGroupsSection struct {
	Enabled  bool `mapstructure:"enabled"`
	TopN     int  `mapstructure:"top_n"`
	PastDays int  `mapstructure:"past_days"`
}

// APIGatewaySection ranks REST API stages by log ingestion. It reuses the
// log group usage collected for LogGroupsSection.
type APIGatewaySection struct {
	Enabled bool `mapstructure:"enabled"`
	TopN    int  `mapstructure:"top_n"`
}

// New returns a viper instance with every key defaulted and environment
// overrides enabled
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("region", "")
	v.SetDefault("output", defaultOutput)

	v.SetDefault("expensive_services.enabled", false)
	v.SetDefault("expensive_services.cost_percentage", defaultCostPercentage)
	v.SetDefault("expensive_services.past_days", defaultPastDays)

	v.SetDefault("untagged_resources.enabled", false)
	v.SetDefault("untagged_resources.tags", []string{})

	v.SetDefault("unreferenced_snapshots.enabled", true)
	v.SetDefault("unattached_volumes.enabled", true)

	for _, section := range []string{"expensive_lambda_functions", "expensive_kinesis_streams", "expensive_ddb"} {
		v.SetDefault(section+".enabled", false)
		v.SetDefault(section+".cost_percentage", defaultCostPercentage)
		v.SetDefault(section+".name_tag_key", defaultNameTagKey)
		v.SetDefault(section+".past_days", defaultPastDays)
	}

	v.SetDefault("on_demand_ddb.enabled", false)

	v.SetDefault("storage_cloudwatch_log_groups.enabled", false)
	v.SetDefault("storage_cloudwatch_log_groups.top_n", defaultTopN)
	v.SetDefault("storage_cloudwatch_log_groups.past_days", defaultPastDays)

	v.SetDefault("api_gateway_cloudwatch.enabled", false)
	v.SetDefault("api_gateway_cloudwatch.top_n", defaultTopN)

	v.SetDefault("unused_elastic_ips.enabled", true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file at path into a validated Config. An empty path
// reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	v := New()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	v.SetConfigFile(path)

	if _, err := os.Stat(path); err == nil || explicit {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		log.Debug().Str("config", v.ConfigFileUsed()).Msg("loaded config file")
	} else {
		log.Debug().Str("config", path).Msg("no config file found, using defaults")
	}

	return Decode(v)
}

// Decode unmarshals v into a Config, fills in the region and validates the result
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if cfg.Region == "" {
		cfg.Region = utils.GetDefaultRegion()
	}
	if !utils.IsValidRegion(cfg.Region) {
		log.Warn().Str("region", cfg.Region).Msg("region is not in the known region list")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting of the enabled sections
func (c *Config) Validate() error {
	var errs []error

	if c.Output == "" {
		errs = append(errs, errors.New("output must not be empty"))
	}

	if c.ExpensiveServices.Enabled {
		errs = append(errs, validateCost("expensive_services", c.ExpensiveServices.CostPercentage, c.ExpensiveServices.PastDays)...)
	}

	if c.UntaggedResources.Enabled && len(c.UntaggedResources.Tags) == 0 {
		errs = append(errs, errors.New("untagged_resources.tags must list at least one tag key"))
	}

	named := map[string]NamedCostSection{
		"expensive_lambda_functions": c.ExpensiveLambdaFunctions,
		"expensive_kinesis_streams":  c.ExpensiveKinesisStreams,
		"expensive_ddb":              c.ExpensiveDynamoDB,
	}
	for _, name := range []string{"expensive_lambda_functions", "expensive_kinesis_streams", "expensive_ddb"} {
		section := named[name]
		if !section.Enabled {
			continue
		}
		errs = append(errs, validateCost(name, section.CostPercentage, section.PastDays)...)
		if section.NameTagKey == "" {
			errs = append(errs, fmt.Errorf("%s.name_tag_key must not be empty", name))
		}
	}

	if c.LogGroups.Enabled {
		if c.LogGroups.TopN <= 0 {
			errs = append(errs, fmt.Errorf("storage_cloudwatch_log_groups.top_n must be positive, got %d", c.LogGroups.TopN))
		}
		if c.LogGroups.PastDays <= 0 {
			errs = append(errs, fmt.Errorf("storage_cloudwatch_log_groups.past_days must be positive, got %d", c.LogGroups.PastDays))
		}
	}

	if c.APIGateway.Enabled {
		if !c.LogGroups.Enabled {
			errs = append(errs, errors.New("api_gateway_cloudwatch requires storage_cloudwatch_log_groups to be enabled"))
		}
		if c.APIGateway.TopN <= 0 {
			errs = append(errs, fmt.Errorf("api_gateway_cloudwatch.top_n must be positive, got %d", c.APIGateway.TopN))
		}
	}

	return errors.Join(errs...)
}

func validateCost(section string, percentage float64, pastDays int) []error {
	var errs []error
	if percentage <= 0 || percentage > 100 {
		errs = append(errs, fmt.Errorf("%s.cost_percentage must be in (0, 100], got %v", section, percentage))
	}
	if pastDays <= 0 {
		errs = append(errs, fmt.Errorf("%s.past_days must be positive, got %d", section, pastDays))
	}
	return errs
}
