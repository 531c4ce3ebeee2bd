package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/loglens/pkg/accesslog"
)

func sampleRecords() []accesslog.Record {
	return []accesslog.Record{
		{IP: "10.0.0.1", Timestamp: "2025-02-25 12:00:00", URL: "/a", UserAgent: "Chrome/91", Status: 200},
		{IP: "10.0.0.2", Timestamp: "2025-02-25 12:00:05", URL: "/b", UserAgent: "Safari/13", Status: 404},
		{IP: "10.0.0.1", Timestamp: "2025-02-25 12:01:00", URL: "/a", UserAgent: "Chrome/91", Status: 500},
		{IP: "10.0.0.3", Timestamp: "2025-02-25 12:01:30", URL: "/c", UserAgent: "curl/8", Status: 200},
		{IP: "10.0.0.2", Timestamp: "2025-02-25 12:02:00", URL: "/b", UserAgent: "Safari/13", Status: 404},
	}
}

func collect(s *Store, statuses ...int) []accesslog.Record {
	var out []accesslog.Record
	for r := range s.Scan(statuses...) {
		out = append(out, r)
	}
	return out
}

func TestLoad_PartitionKeys(t *testing.T) {
	s := Load(sampleRecords())

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []int{200, 404, 500}, s.PartitionKeys())
}

func TestScan_AllPreservesLoadOrder(t *testing.T) {
	records := sampleRecords()
	s := Load(records)

	assert.Equal(t, records, collect(s))
}

func TestScan_PrunedMatchesFilteredFullScan(t *testing.T) {
	s := Load(sampleRecords())

	// Partition-pruned scan must return exactly the records a full scan
	// would return after filtering by status.
	var filtered []accesslog.Record
	for r := range s.Scan() {
		if r.Status == 404 {
			filtered = append(filtered, r)
		}
	}

	assert.Equal(t, filtered, collect(s, 404))
}

func TestScan_MultiStatus(t *testing.T) {
	s := Load(sampleRecords())

	got := collect(s, 404, 500)
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Contains(t, []int{404, 500}, r.Status)
	}
}

func TestScan_DuplicateStatusScannedOnce(t *testing.T) {
	s := Load(sampleRecords())

	assert.Len(t, collect(s, 404, 404), 2)
}

func TestScan_UnknownStatus(t *testing.T) {
	s := Load(sampleRecords())

	assert.Empty(t, collect(s, 302))
}

func TestScan_EarlyStop(t *testing.T) {
	s := Load(sampleRecords())

	var count int
	for range s.Scan() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestPartitions(t *testing.T) {
	s := Load(sampleRecords())

	assert.Equal(t, []PartitionInfo{
		{Status: 200, Records: 2},
		{Status: 404, Records: 2},
		{Status: 500, Records: 1},
	}, s.Partitions())
}

func TestLoad_Empty(t *testing.T) {
	s := Load(nil)

	assert.Zero(t, s.Len())
	assert.Empty(t, s.PartitionKeys())
	assert.Empty(t, s.Partitions())
	assert.Empty(t, collect(s))
}
