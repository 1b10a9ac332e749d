package cmd

import (
	"fmt"
	"os"

	"bulkdozer/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// configDir holds the .env file read by every command.
	configDir string
	// logLevel overrides log.level when set.
	logLevel string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "bulkdozer",
	Short: "Campaign Manager bulk sync",
	Long: `Bulkdozer keeps a tabular workbook and Campaign Manager in sync.
It loads campaign trees into the workbook and pushes edited rows back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err on a console logger, falling back to stdout.
func reportError(err error) {
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Println(err)
		return
	}
	l.Error("command failed", zap.Error(err))
	_ = l.Sync()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}
