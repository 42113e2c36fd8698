package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crosscheck/internal/config"
	"crosscheck/internal/logging"

	"go.uber.org/zap"
)

var (
	cfg    *config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "crosscheck",
	Short: "Validate XBRL mapper output against the filing's taxonomy",
	Long: `Crosscheck grades two XBRL mapping pipelines against the parsed
taxonomy for a filing: concept placement per statement, extension
resolution, and duplicate-fact integrity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, _, err = config.LoadConfigWithInfo()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Server.DevMode)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func main() {
	rootCmd.AddCommand(serveCmd, runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "crosscheck: %v\n", err)
		os.Exit(1)
	}
}
