package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/telhawk-systems/loglens/internal/logging"
)

// Sink accepts named ordered record sets.
type Sink interface {
	Name() string
	Write(ctx context.Context, t Table) error
}

// ExportStatus reports the outcome of exporting one table.
type ExportStatus struct {
	Report string
	Rows   int
	Err    error
}

// OK reports whether every sink accepted the table.
func (s ExportStatus) OK() bool {
	return s.Err == nil
}

// Exporter fans each table out to every configured sink. A failing sink or
// report never aborts the siblings; failures are collected per report.
type Exporter struct {
	sinks  []Sink
	logger *logging.Logger
}

// NewExporter creates an exporter over the given sinks.
func NewExporter(logger *logging.Logger, sinks ...Sink) *Exporter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Exporter{sinks: sinks, logger: logger}
}

// Export writes every table to every sink and returns one status per
// table, in input order.
func (e *Exporter) Export(ctx context.Context, tables []Table) []ExportStatus {
	statuses := make([]ExportStatus, 0, len(tables))
	for _, t := range tables {
		status := ExportStatus{Report: t.Name, Rows: len(t.Rows)}
		var errs []error
		for _, sink := range e.sinks {
			if err := sink.Write(ctx, t); err != nil {
				e.logger.Error("report export failed",
					"report", t.Name,
					"sink", sink.Name(),
					"error", err)
				errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
				continue
			}
			e.logger.Debug("report exported",
				"report", t.Name,
				"sink", sink.Name(),
				"rows", len(t.Rows))
		}
		status.Err = errors.Join(errs...)
		statuses = append(statuses, status)
	}
	return statuses
}
