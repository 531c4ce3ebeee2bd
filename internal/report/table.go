// Package report materializes aggregation results into named export sinks.
package report

// Fixed report names emitted by every analysis run.
const (
	TotalWebRequests      = "total_web_requests"
	StatusCodeAnalysis    = "status_code_analysis"
	MostVisitedPages      = "most_visited_pages"
	TrafficSourceAnalysis = "traffic_source_analysis"
	SuspiciousIPAddresses = "suspicious_ip_addresses"
	TrafficTrendOverTime  = "traffic_trend_over_time"
)

// Table is one named, ordered record set awaiting export. Row ordering is
// significant and must be preserved by every sink.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}
