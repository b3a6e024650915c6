package pricing

import (
	"fmt"
	"strconv"

	"github.com/younsl/awsaudit/pkg/utils"
)

// GetRegionDescriptiveName returns the human-readable region name used in AWS Pricing API
func GetRegionDescriptiveName(region string) string {
	return utils.GetRegionDescriptiveName(region)
}

// productAttributes returns product.attributes of a pricing document
func productAttributes(priceData map[string]interface{}) (map[string]interface{}, bool) {
	product, ok := priceData["product"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	attributes, ok := product["attributes"].(map[string]interface{})
	return attributes, ok
}

// findProduct returns the first pricing document whose attribute field
// satisfies match
func findProduct(products []string, field string, match func(string) bool) (map[string]interface{}, bool) {
	for _, product := range products {
		priceData, err := utils.ParseJSON(product)
		if err != nil {
			continue
		}
		attributes, ok := productAttributes(priceData)
		if !ok {
			continue
		}
		if value, ok := attributes[field].(string); ok && match(value) {
			return priceData, true
		}
	}
	return nil, false
}

// ExtractGBMonthPrice extracts the on-demand USD price per GB-month from a parsed pricing document
func ExtractGBMonthPrice(priceData map[string]interface{}) (float64, error) {
	// The structure of the pricing data can be complex and may change
	terms, ok := priceData["terms"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("terms field not found or invalid")
	}

	onDemand, ok := terms["OnDemand"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("OnDemand field not found or invalid")
	}

	skuOffer, err := utils.GetFirstMapValue(onDemand)
	if err != nil {
		return 0, fmt.Errorf("no SKU offer found")
	}

	skuOfferMap, ok := skuOffer.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("SKU offer is not a map")
	}

	priceDimensions, ok := skuOfferMap["priceDimensions"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("priceDimensions field not found or invalid")
	}

	dimension, err := utils.GetFirstMapValue(priceDimensions)
	if err != nil {
		return 0, fmt.Errorf("no price dimension found")
	}

	dimensionMap, ok := dimension.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("price dimension is not a map")
	}

	unit, _ := dimensionMap["unit"].(string)
	if unit != "GB-Mo" && unit != "GB-month" {
		return 0, fmt.Errorf("unexpected pricing unit: %s", unit)
	}

	pricePerUnit, ok := dimensionMap["pricePerUnit"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("pricePerUnit field not found or invalid")
	}

	usd, ok := pricePerUnit["USD"].(string)
	if !ok {
		return 0, fmt.Errorf("USD price not found or invalid")
	}

	price, err := strconv.ParseFloat(usd, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing price: %w", err)
	}

	return price, nil
}
