package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/procureflow/procureflow/internal/ledger"
	"github.com/procureflow/procureflow/jobs"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Enqueue a statement file export",
	Long: `Enqueue a background statement export. The worker writes the file into
its spool directory, named after the export id printed here.`,
	Example: `  # Export the PO-projected statement of vendor 7 as CSV
  ledgerctl export --vendor 7

  # Invoice projection as a spreadsheet
  ledgerctl export --vendor 7 --projection invoice --format xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Int64("vendor", 0, "Vendor ID to export (required)")
	exportCmd.Flags().String("projection", string(ledger.ProjectionPO), "Ledger projection: po or invoice")
	exportCmd.Flags().String("format", "csv", "Output format: csv or xlsx")
	_ = exportCmd.MarkFlagRequired("vendor")
}

func runExport(cmd *cobra.Command, args []string) error {
	vendorID, _ := cmd.Flags().GetInt64("vendor")
	projection, _ := cmd.Flags().GetString("projection")
	format, _ := cmd.Flags().GetString("format")

	if vendorID <= 0 {
		return fmt.Errorf("vendor id must be positive, got %d", vendorID)
	}
	switch ledger.Projection(projection) {
	case ledger.ProjectionPO, ledger.ProjectionInvoice:
	default:
		return fmt.Errorf("unknown projection %q, want po or invoice", projection)
	}
	if format != "csv" && format != "xlsx" {
		return fmt.Errorf("unknown format %q, want csv or xlsx", format)
	}

	task, err := jobs.NewStatementExportTask(jobs.StatementExportPayload{
		VendorID:   vendorID,
		Projection: projection,
		Format:     format,
	})
	if err != nil {
		return fmt.Errorf("build export task: %w", err)
	}

	client := newJobsClient(redisAddr)
	defer func() { _ = client.Close() }()

	info, err := client.Enqueue(cmd.Context(), task)
	if err != nil {
		return fmt.Errorf("enqueue export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	return nil
}
