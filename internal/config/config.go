// Package config loads and validates the loglens run configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/telhawk-systems/loglens/internal/analytics"
)

type Config struct {
	Input   InputConfig   `mapstructure:"input"`
	Reports ReportsConfig `mapstructure:"reports"`
	Anomaly AnomalyConfig `mapstructure:"anomaly"`
	Sinks   SinksConfig   `mapstructure:"sinks"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type InputConfig struct {
	Delimiter string `mapstructure:"delimiter"`
}

type ReportsConfig struct {
	TopPagesLimit int    `mapstructure:"top_pages_limit"`
	OutputDir     string `mapstructure:"output_dir"`
}

type AnomalyConfig struct {
	Statuses    []int `mapstructure:"statuses"`
	MinFailures int   `mapstructure:"min_failures"`
}

type SinksConfig struct {
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Blocklist  BlocklistConfig  `mapstructure:"blocklist"`
}

type PostgresConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	DSN           string `mapstructure:"dsn"`
	MigrationsURL string `mapstructure:"migrations_url"`
}

type OpenSearchConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	TLSSkipVerify bool   `mapstructure:"tls_skip_verify"`
	IndexPrefix   string `mapstructure:"index_prefix"`
}

type BlocklistConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("reports.top_pages_limit", 3)
	v.SetDefault("reports.output_dir", "./reports")
	v.SetDefault("anomaly.statuses", analytics.DefaultFailureStatuses)
	v.SetDefault("anomaly.min_failures", analytics.DefaultMinFailures)
	v.SetDefault("sinks.postgres.enabled", false)
	v.SetDefault("sinks.postgres.migrations_url", "file://migrations")
	v.SetDefault("sinks.opensearch.enabled", false)
	v.SetDefault("sinks.opensearch.url", "https://localhost:9200")
	v.SetDefault("sinks.opensearch.username", "admin")
	v.SetDefault("sinks.opensearch.tls_skip_verify", true)
	v.SetDefault("sinks.opensearch.index_prefix", "loglens")
	v.SetDefault("sinks.blocklist.enabled", false)
	v.SetDefault("sinks.blocklist.addr", "localhost:6379")
	v.SetDefault("sinks.blocklist.key", "loglens:blocklist")
	v.SetDefault("sinks.blocklist.ttl", "24h")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("metrics.textfile_path", "")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/loglens")
	}

	// Environment variables override
	v.SetEnvPrefix("LOGLENS")
	v.AutomaticEnv()

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate fails fast on unusable configuration so a bad setup aborts
// before any records are read.
func (c *Config) Validate() error {
	if c.Input.Delimiter == "" {
		return fmt.Errorf("input.delimiter must not be empty")
	}
	if c.Reports.TopPagesLimit <= 0 {
		return fmt.Errorf("reports.top_pages_limit must be positive, got %d", c.Reports.TopPagesLimit)
	}
	if c.Reports.OutputDir == "" {
		return fmt.Errorf("reports.output_dir must not be empty")
	}
	if _, err := analytics.NewDetector(c.Anomaly.Statuses, c.Anomaly.MinFailures); err != nil {
		return fmt.Errorf("anomaly config: %w", err)
	}
	if c.Sinks.Postgres.Enabled && c.Sinks.Postgres.DSN == "" {
		return fmt.Errorf("sinks.postgres.dsn is required when the postgres sink is enabled")
	}
	if c.Sinks.OpenSearch.Enabled && c.Sinks.OpenSearch.URL == "" {
		return fmt.Errorf("sinks.opensearch.url is required when the opensearch sink is enabled")
	}
	if c.Sinks.Blocklist.Enabled && c.Sinks.Blocklist.Addr == "" {
		return fmt.Errorf("sinks.blocklist.addr is required when the blocklist sink is enabled")
	}
	return nil
}

// Detector builds the anomaly detector from the validated configuration.
func (c *Config) Detector() (*analytics.Detector, error) {
	return analytics.NewDetector(c.Anomaly.Statuses, c.Anomaly.MinFailures)
}
