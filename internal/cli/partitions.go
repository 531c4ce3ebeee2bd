package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/loglens/internal/parser"
	"github.com/telhawk-systems/loglens/internal/store"
	"github.com/telhawk-systems/loglens/pkg/output"
)

var partitionsCmd = &cobra.Command{
	Use:   "partitions [logfile]",
	Short: "Show the status partitions of an access log",
	Long:  "Parse a log file and list each HTTP status partition with its record count.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()

		records, skipped, err := parser.New(cfg.Input.Delimiter).ReadAll(f)
		if err != nil {
			return fmt.Errorf("read log file: %w", err)
		}
		if skipped > 0 {
			output.Warn("Skipped %d malformed lines", skipped)
		}

		return renderPartitions(store.Load(records).Partitions())
	},
}

func init() {
	rootCmd.AddCommand(partitionsCmd)
}
