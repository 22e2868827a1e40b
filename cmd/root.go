package cmd

import (
	"fmt"
	"os"

	"patch-tracker/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "patch-tracker",
	Short: "Patch Tracker Service",
	Long: `Patch Tracker crawls the official patch note pages, classifies every
balance change per champion, item, trait or augment, and keeps the result in
a relational store for downstream views.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with a debug-level config so CLI errors come out
		// human readable with ISO8601 timestamps.
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
