package cli

import (
	"fmt"

	"github.com/telhawk-systems/loglens/internal/pipeline"
	"github.com/telhawk-systems/loglens/internal/report"
	"github.com/telhawk-systems/loglens/internal/store"
	"github.com/telhawk-systems/loglens/pkg/output"
)

type tableDoc struct {
	Name    string     `json:"name" yaml:"name"`
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

type runDoc struct {
	RunID    string     `json:"run_id" yaml:"run_id"`
	Records  int        `json:"records_processed" yaml:"records_processed"`
	Skipped  int        `json:"lines_skipped" yaml:"lines_skipped"`
	Duration string     `json:"duration" yaml:"duration"`
	Reports  []tableDoc `json:"reports" yaml:"reports"`
}

func tableDocs(tables []report.Table) []tableDoc {
	docs := make([]tableDoc, 0, len(tables))
	for _, t := range tables {
		docs = append(docs, tableDoc{Name: t.Name, Columns: t.Columns, Rows: stringRows(t.Rows)})
	}
	return docs
}

func stringRows(rows [][]any) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, fmt.Sprint(c))
		}
		out = append(out, cells)
	}
	return out
}

func renderOutcome(outcome *pipeline.Outcome) error {
	doc := runDoc{
		RunID:    outcome.Summary.RunID,
		Records:  outcome.Summary.Processed,
		Skipped:  outcome.Summary.Skipped,
		Duration: outcome.Summary.Duration.String(),
		Reports:  tableDocs(outcome.Tables),
	}

	switch outputFormat {
	case "json":
		return output.JSON(doc)
	case "yaml":
		return output.YAML(doc)
	}

	for _, t := range doc.Reports {
		output.Info("%s", t.Name)
		tbl := output.NewTable(t.Columns)
		for _, row := range t.Rows {
			tbl.AddRow(row)
		}
		tbl.Render()
		fmt.Println()
	}

	for _, r := range outcome.Summary.Reports {
		if !r.OK() {
			output.Warn("report %s failed to export: %v", r.Report, r.Err)
		}
	}

	output.Success("Processed %d records (%d lines skipped) in %s",
		doc.Records, doc.Skipped, doc.Duration)
	return nil
}

func renderPartitions(parts []store.PartitionInfo) error {
	switch outputFormat {
	case "json":
		return output.JSON(parts)
	case "yaml":
		return output.YAML(parts)
	}

	tbl := output.NewTable([]string{"status", "records"})
	for _, p := range parts {
		tbl.AddRow([]string{fmt.Sprint(p.Status), fmt.Sprint(p.Records)})
	}
	tbl.Render()
	return nil
}
