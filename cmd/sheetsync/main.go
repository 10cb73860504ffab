// Package main provides the sheetsync CLI, which publishes a spreadsheet song
// catalogue as per-song JSON files and a TypeScript manifest.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version        = "0.1.0-dev"
	globalConfig   string
	globalLogLevel string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := newRootCmd()

	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sheetsync",
		Short:         "Sync a Google Sheets song catalogue into front-end data files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfig, "config", "c", "",
		"Path to the YAML config (default "+defaultConfigHint+")")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "",
		"Override the log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newSyncCmd(),
		newValidateCmd(),
		newStateCmd(),
		newConfigCmd(),
	)

	return rootCmd
}
