package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// partFile is the file name used inside each report directory, one
// directory per report.
const partFile = "part-0000.csv"

// CSVDir writes each report into its own directory under a base path:
// <base>/<report_name>/part-0000.csv, header row first.
type CSVDir struct {
	base string
}

// NewCSVDir creates a CSV directory sink rooted at base.
func NewCSVDir(base string) *CSVDir {
	return &CSVDir{base: base}
}

func (s *CSVDir) Name() string {
	return "csv"
}

// Write materializes the table, replacing any previous run's output for
// the same report.
func (s *CSVDir) Write(ctx context.Context, t Table) error {
	_ = ctx
	dir := filepath.Join(s.base, t.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, partFile))
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	w := csv.NewWriter(f)
	writeErr := w.Write(t.Columns)
	row := make([]string, len(t.Columns))
	for _, cells := range t.Rows {
		if writeErr != nil {
			break
		}
		for i, cell := range cells {
			row[i] = fmt.Sprint(cell)
		}
		writeErr = w.Write(row)
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if writeErr != nil {
		f.Close()
		return fmt.Errorf("write report: %w", writeErr)
	}

	return f.Close()
}
