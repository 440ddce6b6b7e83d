package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/procureflow/procureflow/internal/ledger"
	"github.com/procureflow/procureflow/internal/ledger/export"
	"github.com/procureflow/procureflow/internal/statement"
)

// StatementReader produces a statement view for export.
type StatementReader interface {
	Statement(ctx context.Context, vendorID int64, q statement.Query) (statement.View, error)
}

// StatementExportJob writes vendor statement files into a spool directory
// for later pickup, keeping big exports out of the request path.
type StatementExportJob struct {
	statements StatementReader
	dir        string
	logger     *slog.Logger
}

// NewStatementExportJob wires dependencies for the export handler.
func NewStatementExportJob(statements StatementReader, dir string, logger *slog.Logger) *StatementExportJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementExportJob{statements: statements, dir: dir, logger: logger}
}

// Handle processes TaskStatementExport tasks.
func (j *StatementExportJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.statements == nil {
		return errors.New("statement export: handler not configured")
	}
	var payload StatementExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Format != "csv" && payload.Format != "xlsx" {
		j.logger.Warn("statement export: unsupported format", slog.String("format", payload.Format))
		return asynq.SkipRetry
	}

	view, err := j.statements.Statement(ctx, payload.VendorID, statement.Query{
		Projection: ledger.Projection(payload.Projection),
	})
	if err != nil {
		return fmt.Errorf("statement export: build: %w", err)
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return fmt.Errorf("statement export: spool dir: %w", err)
	}
	name := payload.ExportID + "-" + export.FileName(view.VendorID, view.Projection, payload.Format, time.Now().UTC())
	path := filepath.Join(j.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("statement export: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch payload.Format {
	case "csv":
		err = export.WriteStatementCSV(f, view.Entries, view.OpeningBalance, view.Totals)
	case "xlsx":
		err = export.WriteStatementXLSX(f, view.Entries, view.OpeningBalance, view.Totals)
	}
	if err != nil {
		return fmt.Errorf("statement export: write %s: %w", path, err)
	}
	j.logger.Info("statement exported",
		slog.Int64("vendor_id", view.VendorID),
		slog.String("projection", string(view.Projection)),
		slog.String("path", path))
	return nil
}
