// Package store holds parsed access log records partitioned by status code.
package store

import (
	"iter"
	"sort"

	"github.com/telhawk-systems/loglens/pkg/accesslog"
)

// Store is an in-memory record set bucketed by status code. It is built
// once by Load and read-only afterwards, so any number of queries may scan
// it concurrently without locking.
type Store struct {
	records []accesslog.Record // load order
	// partitions maps each status code to the positions of its records
	// within the load-order slice. Every record belongs to exactly one
	// partition, keyed by its own status.
	partitions map[int][]int
}

// PartitionInfo describes one status partition for listings.
type PartitionInfo struct {
	Status  int `json:"status"`
	Records int `json:"records"`
}

// Load bulk-builds the store, grouping records by status in a single pass.
// Partition keys are inferred from the data; nothing needs predeclaring.
func Load(records []accesslog.Record) *Store {
	s := &Store{
		records:    records,
		partitions: make(map[int][]int),
	}
	for i, r := range records {
		s.partitions[r.Status] = append(s.partitions[r.Status], i)
	}
	return s
}

// Len returns the total number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Scan lazily yields records. With no arguments it yields every record in
// load order. With statuses it touches only the matching partitions, in
// the order given; unknown statuses yield nothing. Duplicate statuses are
// scanned once.
func (s *Store) Scan(statuses ...int) iter.Seq[accesslog.Record] {
	if len(statuses) == 0 {
		return func(yield func(accesslog.Record) bool) {
			for _, r := range s.records {
				if !yield(r) {
					return
				}
			}
		}
	}

	return func(yield func(accesslog.Record) bool) {
		seen := make(map[int]bool, len(statuses))
		for _, status := range statuses {
			if seen[status] {
				continue
			}
			seen[status] = true
			for _, i := range s.partitions[status] {
				if !yield(s.records[i]) {
					return
				}
			}
		}
	}
}

// PartitionKeys returns the distinct status values present, ascending.
func (s *Store) PartitionKeys() []int {
	keys := make([]int, 0, len(s.partitions))
	for status := range s.partitions {
		keys = append(keys, status)
	}
	sort.Ints(keys)
	return keys
}

// Partitions lists every partition with its record count, ordered by
// status ascending. This is the "show partitions" view.
func (s *Store) Partitions() []PartitionInfo {
	infos := make([]PartitionInfo, 0, len(s.partitions))
	for _, status := range s.PartitionKeys() {
		infos = append(infos, PartitionInfo{
			Status:  status,
			Records: len(s.partitions[status]),
		})
	}
	return infos
}
