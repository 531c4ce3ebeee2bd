package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/loglens/internal/store"
	"github.com/telhawk-systems/loglens/pkg/accesslog"
)

func record(ip, ts, url, agent string, status int) accesslog.Record {
	return accesslog.Record{IP: ip, Timestamp: ts, URL: url, UserAgent: agent, Status: status}
}

// The two sample lines from the input format documentation.
func sampleStore() *store.Store {
	return store.Load([]accesslog.Record{
		record("192.168.1.1", "2025-02-25 12:34:56", "/index.html", "Chrome/91", 200),
		record("192.168.1.2", "2025-02-25 12:35:01", "/about.html", "Safari/13", 404),
	})
}

func TestTotalCount(t *testing.T) {
	e := NewEngine(sampleStore())
	assert.Equal(t, 2, e.TotalCount())
}

func TestCountByStatus(t *testing.T) {
	e := NewEngine(sampleStore())

	assert.Equal(t, []StatusCount{
		{Status: 200, Count: 1},
		{Status: 404, Count: 1},
	}, e.CountByStatus())
}

func TestCountByStatus_SumsToTotal(t *testing.T) {
	s := store.Load([]accesslog.Record{
		record("1.1.1.1", "2025-02-25 10:00:00", "/a", "Chrome/91", 200),
		record("1.1.1.2", "2025-02-25 10:00:10", "/b", "Chrome/91", 200),
		record("1.1.1.3", "2025-02-25 10:00:20", "/c", "curl/8", 404),
		record("1.1.1.4", "2025-02-25 10:00:30", "/d", "curl/8", 500),
	})
	e := NewEngine(s)

	sum := 0
	for _, sc := range e.CountByStatus() {
		sum += sc.Count
	}
	assert.Equal(t, e.TotalCount(), sum)
}

func TestTopPages_TieKeepsInputOrder(t *testing.T) {
	e := NewEngine(sampleStore())

	// Both pages have one visit; input-encounter order must survive.
	assert.Equal(t, []PageCount{
		{URL: "/index.html", Visits: 1},
		{URL: "/about.html", Visits: 1},
	}, e.TopPages(3))
}

func TestTopPages_OrderAndLimit(t *testing.T) {
	s := store.Load([]accesslog.Record{
		record("1.1.1.1", "2025-02-25 10:00:00", "/rare", "Chrome/91", 200),
		record("1.1.1.1", "2025-02-25 10:00:05", "/hot", "Chrome/91", 200),
		record("1.1.1.2", "2025-02-25 10:00:10", "/hot", "Safari/13", 200),
		record("1.1.1.3", "2025-02-25 10:00:15", "/hot", "curl/8", 404),
		record("1.1.1.1", "2025-02-25 10:00:20", "/warm", "Chrome/91", 200),
		record("1.1.1.2", "2025-02-25 10:00:25", "/warm", "Safari/13", 200),
		record("1.1.1.4", "2025-02-25 10:00:30", "/other", "curl/8", 500),
	})
	e := NewEngine(s)

	top := e.TopPages(3)
	require.Len(t, top, 3)
	assert.Equal(t, PageCount{URL: "/hot", Visits: 3}, top[0])
	assert.Equal(t, PageCount{URL: "/warm", Visits: 2}, top[1])
	// /rare was seen before /other; equal visits keep encounter order.
	assert.Equal(t, PageCount{URL: "/rare", Visits: 1}, top[2])
}

func TestTopPages_NonPositiveLimit(t *testing.T) {
	e := NewEngine(sampleStore())
	assert.Empty(t, e.TopPages(0))
	assert.Empty(t, e.TopPages(-1))
}

func TestTrafficBySource(t *testing.T) {
	s := store.Load([]accesslog.Record{
		record("1.1.1.1", "2025-02-25 10:00:00", "/a", "Chrome/91", 200),
		record("1.1.1.2", "2025-02-25 10:00:10", "/b", "Safari/13", 200),
		record("1.1.1.3", "2025-02-25 10:00:20", "/c", "Chrome/91", 404),
	})
	e := NewEngine(s)

	assert.Equal(t, []SourceCount{
		{UserAgent: "Chrome/91", Count: 2},
		{UserAgent: "Safari/13", Count: 1},
	}, e.TrafficBySource())
}

func TestTrafficTrend(t *testing.T) {
	s := store.Load([]accesslog.Record{
		// Out of chronological order on purpose.
		record("1.1.1.2", "2025-02-25 12:35:01", "/b", "Safari/13", 404),
		record("1.1.1.1", "2025-02-25 12:34:56", "/a", "Chrome/91", 200),
		record("1.1.1.3", "2025-02-25 12:34:10", "/c", "curl/8", 200),
	})
	e := NewEngine(s)

	trend := e.TrafficTrend()
	assert.Equal(t, []MinuteCount{
		{Minute: "2025-02-25 12:34", Count: 2},
		{Minute: "2025-02-25 12:35", Count: 1},
	}, trend)

	for i := 1; i < len(trend); i++ {
		assert.LessOrEqual(t, trend[i-1].Minute, trend[i].Minute)
	}
}

func TestEngine_EmptyStore(t *testing.T) {
	e := NewEngine(store.Load(nil))

	assert.Zero(t, e.TotalCount())
	assert.Empty(t, e.CountByStatus())
	assert.Empty(t, e.TopPages(3))
	assert.Empty(t, e.TrafficBySource())
	assert.Empty(t, e.TrafficTrend())
}
