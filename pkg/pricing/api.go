// Package pricing estimates the monthly cost of EBS volumes and snapshots from
// the AWS Pricing API, caching every lookup and falling back to built-in
// price tables when the API has no answer.
package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
)

// The AWS Pricing API is only available in us-east-1 and ap-south-1
const pricingRegion = "us-east-1"

// apiTimeout bounds a single GetProducts call
const apiTimeout = 5 * time.Second

// productsAPI is the part of the Pricing client the estimator uses
type productsAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Estimator prices EBS storage. It is safe for concurrent use.
type Estimator struct {
	client productsAPI

	cacheLock sync.RWMutex
	cache     map[string]float64

	statsLock sync.Mutex
	stats     map[statsKey]*APIStats
}

// NewEstimator creates an Estimator backed by client. A nil client makes every
// lookup use the fallback tables.
func NewEstimator(client productsAPI) *Estimator {
	return &Estimator{
		client: client,
		cache:  make(map[string]float64),
		stats:  make(map[statsKey]*APIStats),
	}
}

// NewEstimatorFromConfig creates an Estimator with a Pricing client pinned to
// the Pricing API region, reusing the credentials of cfg
func NewEstimatorFromConfig(cfg aws.Config) *Estimator {
	pricingCfg := cfg.Copy()
	pricingCfg.Region = pricingRegion
	return NewEstimator(pricing.NewFromConfig(pricingCfg))
}

// getPricingProducts gets up to 100 pricing documents for the AmazonEC2 service code
func (e *Estimator) getPricingProducts(ctx context.Context, filters []types.Filter, resourceType, region string) ([]string, error) {
	if e.client == nil {
		return nil, fmt.Errorf("AWS pricing client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	input := &pricing.GetProductsInput{
		ServiceCode: aws.String("AmazonEC2"),
		Filters:     filters,
		MaxResults:  aws.Int32(100),
	}

	resp, err := e.client.GetProducts(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("error calling AWS Pricing API: %w", err)
	}

	if len(resp.PriceList) == 0 {
		return nil, fmt.Errorf("no pricing found for %s in region %s", resourceType, region)
	}

	return resp.PriceList, nil
}

// cached returns a previously resolved price
func (e *Estimator) cached(key string) (float64, bool) {
	e.cacheLock.RLock()
	defer e.cacheLock.RUnlock()
	price, ok := e.cache[key]
	return price, ok
}

func (e *Estimator) store(key string, price float64) {
	e.cacheLock.Lock()
	e.cache[key] = price
	e.cacheLock.Unlock()
}

// termFilter builds an exact-match filter on a product attribute
func termFilter(field, value string) types.Filter {
	return types.Filter{
		Type:  types.FilterTypeTermMatch,
		Field: aws.String(field),
		Value: aws.String(value),
	}
}
