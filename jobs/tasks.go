// Package jobs defines the background task types and the Asynq worker glue.
package jobs

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatementWarmup rebuilds and caches vendor statements.
	TaskStatementWarmup = "statement:warmup"
	// TaskStatementExport writes a vendor statement file to the spool dir.
	TaskStatementExport = "statement:export"
)

// StatementWarmupPayload scopes a warmup run. VendorID 0 warms every vendor.
type StatementWarmupPayload struct {
	VendorID int64 `json:"vendor_id"`
}

// NewStatementWarmupTask constructs a warmup task.
func NewStatementWarmupTask(vendorID int64) (*asynq.Task, error) {
	data, err := json.Marshal(StatementWarmupPayload{VendorID: vendorID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatementWarmup, data), nil
}

// StatementExportPayload describes one background statement export.
type StatementExportPayload struct {
	ExportID   string `json:"export_id"`
	VendorID   int64  `json:"vendor_id"`
	Projection string `json:"projection"`
	Format     string `json:"format"`
}

// NewStatementExportTask constructs an export task, assigning an export id
// when the caller did not.
func NewStatementExportTask(payload StatementExportPayload) (*asynq.Task, error) {
	if payload.ExportID == "" {
		payload.ExportID = uuid.NewString()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatementExport, data), nil
}
