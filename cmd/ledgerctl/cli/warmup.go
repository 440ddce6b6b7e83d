package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/procureflow/procureflow/jobs"
)

var warmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Enqueue a statement cache warmup",
	Long: `Enqueue a statement warmup job. With --vendor it warms a single vendor;
without it the worker sweeps every vendor, which is what the nightly cron
does.`,
	Example: `  # Warm one vendor
  ledgerctl warmup --vendor 7

  # Warm every vendor
  ledgerctl warmup`,
	RunE: runWarmup,
}

func init() {
	rootCmd.AddCommand(warmupCmd)
	warmupCmd.Flags().Int64("vendor", 0, "Vendor ID to warm (0 warms all vendors)")
}

func runWarmup(cmd *cobra.Command, args []string) error {
	vendorID, _ := cmd.Flags().GetInt64("vendor")

	task, err := jobs.NewStatementWarmupTask(vendorID)
	if err != nil {
		return fmt.Errorf("build warmup task: %w", err)
	}

	client := newJobsClient(redisAddr)
	defer func() { _ = client.Close() }()

	info, err := client.Enqueue(cmd.Context(), task)
	if err != nil {
		return fmt.Errorf("enqueue warmup: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	return nil
}
