package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/procureflow/procureflow/internal/vendors"
)

// StatementWarmer rebuilds and caches the statements of one vendor.
type StatementWarmer interface {
	Warm(ctx context.Context, vendorID int64) error
}

// VendorLister enumerates vendors for the all-vendor warmup sweep.
type VendorLister interface {
	List(ctx context.Context, search string) ([]vendors.Vendor, error)
}

// StatementWarmupJob pre-populates the statement cache so the first morning
// read of a big vendor history is served warm.
type StatementWarmupJob struct {
	statements StatementWarmer
	vendors    VendorLister
	logger     *slog.Logger
}

// NewStatementWarmupJob wires dependencies for the warmup handler.
func NewStatementWarmupJob(statements StatementWarmer, lister VendorLister, logger *slog.Logger) *StatementWarmupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatementWarmupJob{statements: statements, vendors: lister, logger: logger}
}

// Handle processes TaskStatementWarmup tasks. A vendor that fails to warm is
// logged and skipped; the sweep continues and the task fails at the end so
// Asynq retries the stragglers.
func (j *StatementWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.statements == nil {
		return errors.New("statement warmup: handler not configured")
	}
	var payload StatementWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	if payload.VendorID > 0 {
		return j.statements.Warm(ctx, payload.VendorID)
	}

	if j.vendors == nil {
		return errors.New("statement warmup: vendor lister not configured")
	}
	all, err := j.vendors.List(ctx, "")
	if err != nil {
		return err
	}
	var failed error
	for _, v := range all {
		if err := j.statements.Warm(ctx, v.ID); err != nil {
			j.logger.Warn("statement warmup failed", slog.Int64("vendor_id", v.ID), slog.Any("error", err))
			failed = errors.Join(failed, err)
		}
	}
	return failed
}
