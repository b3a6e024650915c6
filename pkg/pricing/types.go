package pricing

// PricingSource represents the source of pricing information
type PricingSource string

const (
	// PricingSourceAPI indicates pricing data came from AWS API
	PricingSourceAPI PricingSource = "API"

	// PricingSourceCache indicates pricing data came from cache
	PricingSourceCache PricingSource = "Cache"

	// PricingSourceDefault indicates pricing data came from hardcoded defaults
	PricingSourceDefault PricingSource = "Default"

	// PricingSourceNA indicates pricing data is not available
	PricingSourceNA PricingSource = "N/A"
)

// Services tracked in the API statistics
const (
	serviceEBS      = "EBS"
	serviceSnapshot = "Snapshot"
)

// DefaultEBSPrices are fallback volume prices in USD per GB-month, used when
// the Pricing API is unreachable or has no exact match
var DefaultEBSPrices = map[string]map[string]float64{
	"us-east-1": { // US East (N. Virginia)
		"gp2":      0.10,
		"gp3":      0.08,
		"io1":      0.125,
		"io2":      0.125,
		"st1":      0.045,
		"sc1":      0.015,
		"standard": 0.05,
	},
	"ap-northeast-2": { // Asia Pacific (Seoul)
		"gp2":      0.114,
		"gp3":      0.0912,
		"io1":      0.142,
		"io2":      0.142,
		"st1":      0.051,
		"sc1":      0.029,
		"standard": 0.08,
	},
	"eu-west-1": { // EU (Ireland)
		"gp2":      0.11,
		"gp3":      0.088,
		"io1":      0.138,
		"io2":      0.138,
		"st1":      0.05,
		"sc1":      0.0168,
		"standard": 0.055,
	},
}

// DefaultSnapshotPrices are fallback standard-tier snapshot prices in USD per GB-month
var DefaultSnapshotPrices = map[string]float64{
	"us-east-1":      0.05,
	"ap-northeast-2": 0.05,
	"eu-west-1":      0.05,
}

// defaultSnapshotPrice applies to regions missing from DefaultSnapshotPrices
const defaultSnapshotPrice = 0.05
