package pricing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rs/zerolog/log"
)

// VolumeMonthlyCost returns the estimated monthly cost of an EBS volume and the
// source of the price
func (e *Estimator) VolumeMonthlyCost(ctx context.Context, volumeType string, sizeGB int, region string) (float64, PricingSource) {
	price, source := e.volumePrice(ctx, volumeType, region)
	if source == PricingSourceNA {
		return 0, source
	}
	return float64(sizeGB) * price, source
}

// volumePrice returns the price per GB-month for a volume type and region
func (e *Estimator) volumePrice(ctx context.Context, volumeType, region string) (float64, PricingSource) {
	cacheKey := fmt.Sprintf("ebs:%s:%s", volumeType, region)

	if price, found := e.cached(cacheKey); found {
		e.record(serviceEBS, region, statCache)
		return price, PricingSourceCache
	}

	if e.client != nil {
		price, err := e.volumePriceFromAPI(ctx, volumeType, region)
		if err == nil {
			e.record(serviceEBS, region, statSuccess)
			e.store(cacheKey, price)
			return price, PricingSourceAPI
		}
		e.record(serviceEBS, region, statFailure)
		log.Debug().Err(err).Str("volume_type", volumeType).Str("region", region).Msg("using fallback EBS pricing")
	}

	price, ok := defaultVolumePrice(volumeType, region)
	if !ok {
		return 0, PricingSourceNA
	}
	// Fallback prices are cached too; each key reaches the API at most once
	e.store(cacheKey, price)
	return price, PricingSourceDefault
}

// volumePriceFromAPI retrieves EBS volume pricing from the AWS Pricing API
func (e *Estimator) volumePriceFromAPI(ctx context.Context, volumeType, region string) (float64, error) {
	filters := []types.Filter{
		termFilter("volumeType", mapVolumeTypeToAPIValue(volumeType)),
		termFilter("location", GetRegionDescriptiveName(region)),
		termFilter("productFamily", "Storage"),
		termFilter("regionCode", region),
	}

	products, err := e.getPricingProducts(ctx, filters, volumeType, region)
	if err != nil {
		return 0, err
	}

	// Several volume types share a volumeType family, so match the API name exactly
	priceData, ok := findProduct(products, "volumeApiName", func(name string) bool {
		return name == volumeType
	})
	if !ok {
		return 0, fmt.Errorf("no exact match found for EBS volume type %s in region %s", volumeType, region)
	}

	return ExtractGBMonthPrice(priceData)
}

// mapVolumeTypeToAPIValue maps EBS volume types to their API filter values
func mapVolumeTypeToAPIValue(volumeType string) string {
	switch volumeType {
	case "gp2", "gp3":
		return "General Purpose"
	case "io1", "io2":
		return "Provisioned IOPS"
	case "st1":
		return "Throughput Optimized HDD"
	case "sc1":
		return "Cold HDD"
	case "standard":
		return "Magnetic"
	default:
		return "General Purpose"
	}
}

// defaultVolumePrice looks the volume type up in DefaultEBSPrices, using gp2
// for unknown types and us-east-1 for unknown regions
func defaultVolumePrice(volumeType, region string) (float64, bool) {
	regionPrices, found := DefaultEBSPrices[region]
	if !found {
		regionPrices, found = DefaultEBSPrices["us-east-1"]
		if !found {
			return 0, false
		}
	}
	if price, found := regionPrices[volumeType]; found {
		return price, true
	}
	price, found := regionPrices["gp2"]
	return price, found
}
