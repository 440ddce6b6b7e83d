// Package cli implements the ledgerctl operations tool: enqueue statement
// jobs and inspect the background queue without going through the HTTP API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var redisAddr string

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operations helper for vendor statement jobs",
	Long: `ledgerctl enqueues statement warmup and export jobs and inspects the
background queue. It talks to the same Redis instance the worker consumes
from, so anything enqueued here is picked up by a running worker.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	defaultAddr := os.Getenv("REDIS_ADDR")
	if defaultAddr == "" {
		defaultAddr = "127.0.0.1:6379"
	}
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", defaultAddr, "Redis address the worker consumes from")
}
