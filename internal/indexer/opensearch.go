// Package indexer ships status partitions to OpenSearch for repeated
// ad-hoc querying, one index per partition.
package indexer

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"

	"github.com/telhawk-systems/loglens/internal/logging"
	"github.com/telhawk-systems/loglens/internal/store"
)

// Config holds OpenSearch connection settings.
type Config struct {
	URL           string
	Username      string
	Password      string
	TLSSkipVerify bool
	IndexPrefix   string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:         "https://localhost:9200",
		Username:    "admin",
		IndexPrefix: "loglens",
	}
}

// Indexer bulk-indexes access log records, keeping the store's
// status-partition layout: partition N lands in "<prefix>-N".
type Indexer struct {
	client *opensearch.Client
	config Config
	logger *logging.Logger
}

// New creates an indexer for the given configuration.
func New(cfg Config, logger *logging.Logger) (*Indexer, error) {
	if cfg.IndexPrefix == "" {
		cfg.IndexPrefix = "loglens"
	}
	if logger == nil {
		logger = logging.Default()
	}

	osCfg := opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.TLSSkipVerify,
			},
		},
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}

	return &Indexer{client: client, config: cfg, logger: logger}, nil
}

// IndexName returns the target index for a status partition.
func (ix *Indexer) IndexName(status int) string {
	return fmt.Sprintf("%s-%d", ix.config.IndexPrefix, status)
}

// IndexPartitions bulk-indexes every partition into its own index and
// returns the number of successfully indexed records. A failing partition
// does not stop the remaining ones.
func (ix *Indexer) IndexPartitions(ctx context.Context, s *store.Store) (int, error) {
	var (
		indexed int
		failed  int
	)

	for _, status := range s.PartitionKeys() {
		n, err := ix.indexPartition(ctx, s, status)
		indexed += n
		if err != nil {
			failed++
			ix.logger.Error("partition indexing failed",
				"index", ix.IndexName(status),
				"error", err)
		}
	}

	if failed > 0 {
		return indexed, fmt.Errorf("%d partition(s) failed to index", failed)
	}
	return indexed, nil
}

func (ix *Indexer) indexPartition(ctx context.Context, s *store.Store, status int) (int, error) {
	bi, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Client: ix.client,
		Index:  ix.IndexName(status),
	})
	if err != nil {
		return 0, fmt.Errorf("create bulk indexer: %w", err)
	}

	var addErr error
	for r := range s.Scan(status) {
		data, err := json.Marshal(r)
		if err != nil {
			addErr = fmt.Errorf("marshal record: %w", err)
			break
		}
		if err := bi.Add(ctx, opensearchutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(data),
		}); err != nil {
			addErr = fmt.Errorf("add to bulk indexer: %w", err)
			break
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("close bulk indexer: %w", err)
	}
	if addErr != nil {
		return 0, addErr
	}

	stats := bi.Stats()
	if stats.NumFailed > 0 {
		return int(stats.NumIndexed), fmt.Errorf("%d record(s) rejected", stats.NumFailed)
	}
	return int(stats.NumIndexed), nil
}
