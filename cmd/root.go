package cmd

import (
	"fmt"
	"os"

	"gyrinx-content/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gyrinx-content",
	Short: "Gyrinx content importer",
	Long: `gyrinx-content reconciles a ruleset's YAML content with the content database.
Identities are stable across imports, structural changes are checked before any write,
and every import can be previewed as a dry run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with development timestamps, whatever the configured log format.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
