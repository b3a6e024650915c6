package audit

import (
	"sort"
	"strings"

	"github.com/younsl/awsaudit/internal/models"
)

// TopCostShare sorts costs in descending order and keeps items until their
// running sum exceeds percentage% of the total. The item that crosses the
// threshold is kept. Total covers every item, not only the kept ones.
func TopCostShare(costs map[string]float64, percentage float64) models.CostShare {
	share := RankCosts(costs)
	kept := make([]models.ResourceCost, 0, len(share.Items))
	WalkCostShare(share, percentage, func(item models.ResourceCost) bool {
		kept = append(kept, item)
		return true
	})
	share.Items = kept
	return share
}

// RankCosts returns every item sorted by cost, highest first, with ties
// ordered by name
func RankCosts(costs map[string]float64) models.CostShare {
	items := make([]models.ResourceCost, 0, len(costs))
	var total float64
	for name, cost := range costs {
		items = append(items, models.ResourceCost{Name: name, Cost: cost})
		total += cost
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Cost != items[j].Cost {
			return items[i].Cost > items[j].Cost
		}
		return items[i].Name < items[j].Name
	})

	return models.CostShare{Items: items, Total: total}
}

// WalkCostShare calls visit for the ranked items in order until the running
// sum of accepted items exceeds percentage% of share.Total. Items visit
// rejects do not count toward the sum.
func WalkCostShare(share models.CostShare, percentage float64, visit func(models.ResourceCost) bool) {
	target := percentage / 100 * share.Total
	var current float64
	for _, item := range share.Items {
		if !visit(item) {
			continue
		}
		current += item.Cost
		if current > target {
			return
		}
	}
}

// TagCosts converts Cost Explorer tag groups keyed "<tagKey>$<value>" into
// costs keyed by the tag value. Groups with an empty value (resources without
// the tag) are dropped.
func TagCosts(groups map[string]float64, tagKey string) map[string]float64 {
	costs := make(map[string]float64, len(groups))
	for key, cost := range groups {
		name := strings.TrimPrefix(key, tagKey+"$")
		if name == "" {
			continue
		}
		costs[name] += cost
	}
	return costs
}
