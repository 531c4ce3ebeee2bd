// Package analytics computes aggregate reports over the partitioned store.
package analytics

import (
	"iter"
	"sort"

	"github.com/telhawk-systems/loglens/internal/store"
	"github.com/telhawk-systems/loglens/pkg/accesslog"
)

// StatusCount is one row of the status distribution report.
type StatusCount struct {
	Status int `json:"status"`
	Count  int `json:"count"`
}

// PageCount is one row of the top-pages report.
type PageCount struct {
	URL    string `json:"url"`
	Visits int    `json:"visits"`
}

// SourceCount is one row of the traffic-source report.
type SourceCount struct {
	UserAgent string `json:"user_agent"`
	Count     int    `json:"count"`
}

// MinuteCount is one row of the per-minute traffic trend.
type MinuteCount struct {
	Minute string `json:"minute"`
	Count  int    `json:"count"`
}

// Engine answers aggregate queries over an immutable store. Every query
// is pure, so all of them may run concurrently against the same store.
type Engine struct {
	store *store.Store
}

// NewEngine creates an engine over the given store.
func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s}
}

// TotalCount returns the number of records in the store.
func (e *Engine) TotalCount() int {
	return e.store.Len()
}

// CountByStatus groups records by status code, ordered by status
// ascending. The counts are the partition sizes, so no record scan is
// needed at all.
func (e *Engine) CountByStatus() []StatusCount {
	partitions := e.store.Partitions()
	counts := make([]StatusCount, 0, len(partitions))
	for _, p := range partitions {
		counts = append(counts, StatusCount{Status: p.Status, Count: p.Records})
	}
	return counts
}

// TopPages returns at most n URLs ordered by visit count descending.
// URLs with equal visit counts keep their first-encounter order from the
// input, which a stable sort over the encounter-ordered groups guarantees.
func (e *Engine) TopPages(n int) []PageCount {
	if n <= 0 {
		return nil
	}

	order, counts := groupCounts(e.store.Scan(), func(r accesslog.Record) string {
		return r.URL
	})

	pages := make([]PageCount, 0, len(order))
	for _, url := range order {
		pages = append(pages, PageCount{URL: url, Visits: counts[url]})
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Visits > pages[j].Visits
	})

	if len(pages) > n {
		pages = pages[:n]
	}
	return pages
}

// TrafficBySource groups records by user agent, ordered by count
// descending with the same stable tie-break as TopPages.
func (e *Engine) TrafficBySource() []SourceCount {
	order, counts := groupCounts(e.store.Scan(), func(r accesslog.Record) string {
		return r.UserAgent
	})

	sources := make([]SourceCount, 0, len(order))
	for _, agent := range order {
		sources = append(sources, SourceCount{UserAgent: agent, Count: counts[agent]})
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Count > sources[j].Count
	})
	return sources
}

// TrafficTrend buckets records into minutes by truncating the timestamp
// string and returns the buckets in ascending lexicographic order, which
// for the "YYYY-MM-DD HH:MM" key equals chronological order.
func (e *Engine) TrafficTrend() []MinuteCount {
	order, counts := groupCounts(e.store.Scan(), func(r accesslog.Record) string {
		return r.Minute()
	})
	sort.Strings(order)

	trend := make([]MinuteCount, 0, len(order))
	for _, minute := range order {
		trend = append(trend, MinuteCount{Minute: minute, Count: counts[minute]})
	}
	return trend
}

// groupCounts reduces a record sequence to one count per distinct key in a
// single pass, remembering first-encounter order of the keys.
func groupCounts(seq iter.Seq[accesslog.Record], key func(accesslog.Record) string) ([]string, map[string]int) {
	counts := make(map[string]int)
	var order []string
	for r := range seq {
		k := key(r)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	return order, counts
}
