// Package cli implements the loglens command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/loglens/internal/config"
	"github.com/telhawk-systems/loglens/internal/logging"
)

var (
	cfgFile      string
	outputFormat string
	cfg          *config.Config
	logger       *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "loglens",
	Short: "Web access log analytics",
	Long: `loglens is a batch analytics tool for web server access logs.

Parse delimited access-log files, partition records by HTTP status,
run the standard aggregate reports, flag suspicious client IPs, and
export everything to CSV, Postgres or OpenSearch.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger = logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
		logging.SetDefault(logger)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or /etc/loglens/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
}
