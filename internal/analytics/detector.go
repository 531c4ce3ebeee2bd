package analytics

import (
	"fmt"
	"sort"

	"github.com/telhawk-systems/loglens/internal/store"
)

// Default anomaly configuration, matching the stock suspicious-IP report.
var DefaultFailureStatuses = []int{404, 500}

const DefaultMinFailures = 3

// SuspiciousIP is a client address whose failing-request count exceeded
// the configured threshold.
type SuspiciousIP struct {
	IP             string `json:"ip"`
	FailedRequests int    `json:"failed_requests"`
}

// InvalidThresholdError reports unusable detector configuration. It is
// raised at configuration time, before any records are processed.
type InvalidThresholdError struct {
	Reason string
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid anomaly threshold: %s", e.Reason)
}

// Detector finds IPs whose count of failing requests exceeds MinFailures.
// Statuses defines which status codes count as failures, so the detector
// is reusable for other anomaly definitions.
type Detector struct {
	statuses    []int
	minFailures int
}

// NewDetector validates the configuration and builds a detector.
func NewDetector(statuses []int, minFailures int) (*Detector, error) {
	if minFailures < 0 {
		return nil, &InvalidThresholdError{Reason: fmt.Sprintf("min failures must not be negative, got %d", minFailures)}
	}
	if len(statuses) == 0 {
		return nil, &InvalidThresholdError{Reason: "at least one failure status code is required"}
	}
	for _, status := range statuses {
		if status <= 0 {
			return nil, &InvalidThresholdError{Reason: fmt.Sprintf("status code %d is not positive", status)}
		}
	}
	return &Detector{statuses: statuses, minFailures: minFailures}, nil
}

// SuspiciousIPs scans only the failure-status partitions, counts failing
// requests per IP in one fused pass, and keeps IPs with strictly more
// than minFailures. The result is ordered by failed count descending;
// ties keep the first-encounter order of the pruned scan.
func (d *Detector) SuspiciousIPs(s *store.Store) []SuspiciousIP {
	counts := make(map[string]int)
	var order []string
	for r := range s.Scan(d.statuses...) {
		if _, seen := counts[r.IP]; !seen {
			order = append(order, r.IP)
		}
		counts[r.IP]++
	}

	suspicious := make([]SuspiciousIP, 0)
	for _, ip := range order {
		if counts[ip] > d.minFailures {
			suspicious = append(suspicious, SuspiciousIP{IP: ip, FailedRequests: counts[ip]})
		}
	}
	sort.SliceStable(suspicious, func(i, j int) bool {
		return suspicious[i].FailedRequests > suspicious[j].FailedRequests
	})
	return suspicious
}
