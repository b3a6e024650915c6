package models

// LogGroupUsage holds the bytes ingested by a CloudWatch Log Group over the report window
type LogGroupUsage struct {
	Name       string
	IncomingGB float64
}

// APIGatewayStageUsage pairs a REST API stage with the usage of its execution
// and access log groups
type APIGatewayStageUsage struct {
	APIName           string
	Stage             string
	ExecutionLogGroup string
	ExecutionGB       float64
	AccessLogGroup    string
	AccessGB          float64
}

// TotalGB returns the combined ingestion of both log groups
func (u APIGatewayStageUsage) TotalGB() float64 {
	return u.ExecutionGB + u.AccessGB
}
