// Package pipeline orchestrates the batch run: parse, load, aggregate,
// detect, export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/telhawk-systems/loglens/internal/analytics"
	"github.com/telhawk-systems/loglens/internal/logging"
	"github.com/telhawk-systems/loglens/internal/metrics"
	"github.com/telhawk-systems/loglens/internal/parser"
	"github.com/telhawk-systems/loglens/internal/report"
	"github.com/telhawk-systems/loglens/internal/store"
)

// ErrEmptyDataset means no valid record survived parsing; every report
// would be vacuous, so the run fails.
var ErrEmptyDataset = errors.New("no valid records in dataset")

// Pipeline wires the parser, store, queries and exporter into one run.
type Pipeline struct {
	parser   *parser.Parser
	detector *analytics.Detector
	topPages int
	exporter *report.Exporter
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// Summary is the user-visible outcome of a run.
type Summary struct {
	RunID     string                `json:"run_id"`
	Processed int                   `json:"records_processed"`
	Skipped   int                   `json:"lines_skipped"`
	Duration  time.Duration         `json:"duration"`
	Reports   []report.ExportStatus `json:"-"`
}

// FailedReports counts reports that no sink fully accepted.
func (s *Summary) FailedReports() int {
	failed := 0
	for _, r := range s.Reports {
		if !r.OK() {
			failed++
		}
	}
	return failed
}

// Outcome carries the summary plus the materials later stages may want:
// the loaded store for partition indexing and the suspicious IPs for
// blocklist publishing.
type Outcome struct {
	Summary    Summary
	Store      *store.Store
	Tables     []report.Table
	Suspicious []analytics.SuspiciousIP
}

// New builds a pipeline. The detector must already be validated.
func New(p *parser.Parser, detector *analytics.Detector, topPages int, exporter *report.Exporter, m *metrics.Metrics, logger *logging.Logger) *Pipeline {
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		parser:   p,
		detector: detector,
		topPages: topPages,
		exporter: exporter,
		metrics:  m,
		logger:   logger,
	}
}

// Run executes the whole batch: ingest raw lines from r, bulk-load the
// partitioned store, answer every aggregate query concurrently against
// the immutable store, and export the named reports.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) (*Outcome, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	records, skipped, err := p.parser.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	p.metrics.LinesRead.Add(float64(len(records) + skipped))
	p.metrics.RecordsParsed.Add(float64(len(records)))
	p.metrics.LinesSkipped.Add(float64(skipped))
	if skipped > 0 {
		logger.Warn("skipped malformed lines", "skipped", skipped)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w (%d lines skipped)", ErrEmptyDataset, skipped)
	}

	st := store.Load(records)
	logger.Info("store loaded",
		"records", st.Len(),
		"partitions", len(st.PartitionKeys()))

	engine := analytics.NewEngine(st)

	// The store is read-only from here on, so the queries fan out
	// without locking.
	var (
		total      int
		byStatus   []analytics.StatusCount
		topPages   []analytics.PageCount
		bySource   []analytics.SourceCount
		trend      []analytics.MinuteCount
		suspicious []analytics.SuspiciousIP
	)
	queryStart := time.Now()
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { total = engine.TotalCount(); return nil })
	g.Go(func() error { byStatus = engine.CountByStatus(); return nil })
	g.Go(func() error { topPages = engine.TopPages(p.topPages); return nil })
	g.Go(func() error { bySource = engine.TrafficBySource(); return nil })
	g.Go(func() error { trend = engine.TrafficTrend(); return nil })
	g.Go(func() error { suspicious = p.detector.SuspiciousIPs(st); return nil })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	p.metrics.QueryDuration.Observe(time.Since(queryStart).Seconds())

	tables := buildTables(total, byStatus, topPages, bySource, suspicious, trend)

	statuses := p.exporter.Export(ctx, tables)
	for _, s := range statuses {
		outcome := "ok"
		if !s.OK() {
			outcome = "error"
		}
		p.metrics.ReportsTotal.WithLabelValues(s.Report, outcome).Inc()
	}

	summary := Summary{
		RunID:     runID,
		Processed: len(records),
		Skipped:   skipped,
		Duration:  time.Since(start),
		Reports:   statuses,
	}
	logger.Info("run complete",
		"records", summary.Processed,
		"skipped", summary.Skipped,
		"failed_reports", summary.FailedReports(),
		"duration", summary.Duration)

	return &Outcome{
		Summary:    summary,
		Store:      st,
		Tables:     tables,
		Suspicious: suspicious,
	}, nil
}

// buildTables materializes the query results as the six named reports.
func buildTables(total int, byStatus []analytics.StatusCount, pages []analytics.PageCount, sources []analytics.SourceCount, suspicious []analytics.SuspiciousIP, trend []analytics.MinuteCount) []report.Table {
	tables := []report.Table{
		{
			Name:    report.TotalWebRequests,
			Columns: []string{"total_requests"},
			Rows:    [][]any{{total}},
		},
		{
			Name:    report.StatusCodeAnalysis,
			Columns: []string{"status", "count"},
		},
		{
			Name:    report.MostVisitedPages,
			Columns: []string{"url", "visits"},
		},
		{
			Name:    report.TrafficSourceAnalysis,
			Columns: []string{"user_agent", "count"},
		},
		{
			Name:    report.SuspiciousIPAddresses,
			Columns: []string{"ip", "failed_requests"},
		},
		{
			Name:    report.TrafficTrendOverTime,
			Columns: []string{"minute", "count"},
		},
	}

	for _, sc := range byStatus {
		tables[1].Rows = append(tables[1].Rows, []any{sc.Status, sc.Count})
	}
	for _, pc := range pages {
		tables[2].Rows = append(tables[2].Rows, []any{pc.URL, pc.Visits})
	}
	for _, sc := range sources {
		tables[3].Rows = append(tables[3].Rows, []any{sc.UserAgent, sc.Count})
	}
	for _, s := range suspicious {
		tables[4].Rows = append(tables[4].Rows, []any{s.IP, s.FailedRequests})
	}
	for _, mc := range trend {
		tables[5].Rows = append(tables[5].Rows, []any{mc.Minute, mc.Count})
	}

	return tables
}
