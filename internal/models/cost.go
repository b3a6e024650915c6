package models

// ResourceCost is the cost of one Cost Explorer group (a service, or a resource
// identified by its name tag) summed over the report window
type ResourceCost struct {
	Name string
	Cost float64
}

// CostShare is the most expensive slice of a cost breakdown: items sorted by
// cost, cut off once their running sum exceeds the requested share of Total
type CostShare struct {
	Items []ResourceCost
	Total float64
}

// StreamCost is a Kinesis stream in the top cost share
type StreamCost struct {
	Name   string
	Shards string // "N", or "N+" when the stream has more shards than were listed
	Cost   float64
}

// TableCost is a DynamoDB table in the top cost share
type TableCost struct {
	Name        string
	BillingMode string
	ItemCount   int64
	StorageGB   float64
	Cost        float64
}
