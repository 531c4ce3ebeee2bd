package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/loglens/internal/blocklist"
	"github.com/telhawk-systems/loglens/internal/indexer"
	"github.com/telhawk-systems/loglens/internal/metrics"
	"github.com/telhawk-systems/loglens/internal/parser"
	"github.com/telhawk-systems/loglens/internal/pipeline"
	"github.com/telhawk-systems/loglens/internal/report"
	"github.com/telhawk-systems/loglens/pkg/output"
)

var (
	analyzeTop         int
	analyzeMinFailures int
	analyzeStatuses    string
	analyzeOut         string
	analyzeMetricsFile string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [logfile]",
	Short: "Run the full report suite over an access log",
	Long: `Parse an access-log file, load it into the partitioned store, run
every aggregate report plus suspicious-IP detection, and export the
results to the configured sinks (CSV always, Postgres, OpenSearch and
the Redis blocklist when enabled).`,
	Example: `  # Analyze with defaults, reports land in ./reports
  loglens analyze access.log

  # Top 10 pages, stricter anomaly threshold
  loglens analyze access.log --top 10 --min-failures 5

  # Machine-readable output
  loglens analyze access.log --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVarP(&analyzeTop, "top", "t", 0, "Number of top pages to report")
	analyzeCmd.Flags().IntVar(&analyzeMinFailures, "min-failures", 0, "Failure count an IP must exceed to be flagged")
	analyzeCmd.Flags().StringVar(&analyzeStatuses, "statuses", "", "Comma-separated failure status codes (e.g. 404,500)")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "Directory for CSV report output")
	analyzeCmd.Flags().StringVar(&analyzeMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Flags override the config file where provided.
	if cmd.Flags().Changed("top") {
		cfg.Reports.TopPagesLimit = analyzeTop
	}
	if cmd.Flags().Changed("out") {
		cfg.Reports.OutputDir = analyzeOut
	}
	if cmd.Flags().Changed("min-failures") {
		cfg.Anomaly.MinFailures = analyzeMinFailures
	}
	if cmd.Flags().Changed("statuses") {
		statuses, err := parseStatuses(analyzeStatuses)
		if err != nil {
			return fmt.Errorf("invalid --statuses: %w", err)
		}
		cfg.Anomaly.Statuses = statuses
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.Metrics.TextfilePath = analyzeMetricsFile
	}

	detector, err := cfg.Detector()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	sinks := []report.Sink{report.NewCSVDir(cfg.Reports.OutputDir)}
	if cfg.Sinks.Postgres.Enabled {
		if err := report.Migrate(cfg.Sinks.Postgres.MigrationsURL, cfg.Sinks.Postgres.DSN); err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
		pg, err := report.NewPostgresSink(ctx, cfg.Sinks.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()
		sinks = append(sinks, pg)
	}

	m := metrics.New()
	exporter := report.NewExporter(logger, sinks...)
	pipe := pipeline.New(parser.New(cfg.Input.Delimiter), detector, cfg.Reports.TopPagesLimit, exporter, m, logger)

	outcome, err := pipe.Run(ctx, f)
	if err != nil {
		return err
	}

	if cfg.Sinks.OpenSearch.Enabled {
		ix, err := indexer.New(indexer.Config{
			URL:           cfg.Sinks.OpenSearch.URL,
			Username:      cfg.Sinks.OpenSearch.Username,
			Password:      cfg.Sinks.OpenSearch.Password,
			TLSSkipVerify: cfg.Sinks.OpenSearch.TLSSkipVerify,
			IndexPrefix:   cfg.Sinks.OpenSearch.IndexPrefix,
		}, logger)
		if err != nil {
			output.Warn("opensearch indexing skipped: %v", err)
		} else if docs, err := ix.IndexPartitions(ctx, outcome.Store); err != nil {
			output.Warn("opensearch indexing incomplete: %v", err)
		} else {
			output.Info("Indexed %d documents to OpenSearch", docs)
		}
	}

	if cfg.Sinks.Blocklist.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Sinks.Blocklist.Addr,
			Password: cfg.Sinks.Blocklist.Password,
			DB:       cfg.Sinks.Blocklist.DB,
		})
		pub := blocklist.NewPublisher(client, cfg.Sinks.Blocklist.Key, cfg.Sinks.Blocklist.TTL)
		added, err := pub.Publish(ctx, outcome.Suspicious)
		if cerr := client.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			output.Warn("blocklist publish failed: %v", err)
		} else if added > 0 {
			output.Info("Added %d new IPs to blocklist %s", added, cfg.Sinks.Blocklist.Key)
		}
	}

	if cfg.Metrics.TextfilePath != "" {
		if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			output.Warn("metrics textfile write failed: %v", err)
		}
	}

	if err := renderOutcome(outcome); err != nil {
		return err
	}

	if failed := outcome.Summary.FailedReports(); failed > 0 {
		return fmt.Errorf("%d report(s) failed to export", failed)
	}
	return nil
}

func parseStatuses(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	statuses := make([]int, 0, len(parts))
	for _, p := range parts {
		code, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad status code %q", p)
		}
		statuses = append(statuses, code)
	}
	return statuses, nil
}
