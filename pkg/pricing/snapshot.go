package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/rs/zerolog/log"
)

// snapshotUsageSuffix identifies standard-tier snapshot storage. The usage type
// carries a region prefix everywhere except us-east-1 ("APN2-EBS:SnapshotUsage").
const snapshotUsageSuffix = "EBS:SnapshotUsage"

// SnapshotMonthlyCost returns the estimated monthly cost of storing a snapshot
// of sizeGB in the standard tier. The size is the source volume size, so this
// is an upper bound for incremental snapshots.
func (e *Estimator) SnapshotMonthlyCost(ctx context.Context, sizeGB int, region string) (float64, PricingSource) {
	price, source := e.snapshotPrice(ctx, region)
	return float64(sizeGB) * price, source
}

func (e *Estimator) snapshotPrice(ctx context.Context, region string) (float64, PricingSource) {
	cacheKey := "snapshot:" + region

	if price, found := e.cached(cacheKey); found {
		e.record(serviceSnapshot, region, statCache)
		return price, PricingSourceCache
	}

	if e.client != nil {
		price, err := e.snapshotPriceFromAPI(ctx, region)
		if err == nil {
			e.record(serviceSnapshot, region, statSuccess)
			e.store(cacheKey, price)
			return price, PricingSourceAPI
		}
		e.record(serviceSnapshot, region, statFailure)
		log.Debug().Err(err).Str("region", region).Msg("using fallback snapshot pricing")
	}

	price, found := DefaultSnapshotPrices[region]
	if !found {
		price = defaultSnapshotPrice
	}
	e.store(cacheKey, price)
	return price, PricingSourceDefault
}

func (e *Estimator) snapshotPriceFromAPI(ctx context.Context, region string) (float64, error) {
	filters := []types.Filter{
		termFilter("productFamily", "Storage Snapshot"),
		termFilter("location", GetRegionDescriptiveName(region)),
		termFilter("regionCode", region),
	}

	products, err := e.getPricingProducts(ctx, filters, "snapshot", region)
	if err != nil {
		return 0, err
	}

	priceData, ok := findProduct(products, "usagetype", func(usageType string) bool {
		return strings.HasSuffix(usageType, snapshotUsageSuffix)
	})
	if !ok {
		return 0, fmt.Errorf("no standard snapshot storage price found in region %s", region)
	}

	return ExtractGBMonthPrice(priceData)
}
