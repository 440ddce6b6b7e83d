package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/procureflow/procureflow/internal/ledger"
	"github.com/procureflow/procureflow/internal/platform/httpx"
)

// Source supplies a vendor's complete purchase-order history.
type Source interface {
	VendorHistory(ctx context.Context, vendorID int64) ([]ledger.PurchaseOrderAggregate, error)
}

// OpeningBalances reads the persisted opening balance for a vendor.
type OpeningBalances interface {
	OpeningBalance(ctx context.Context, vendorID int64) (decimal.Decimal, error)
}

// Query scopes a statement request: which projection to build and which
// display filters to apply over the built sequence.
type Query struct {
	Projection    ledger.Projection
	Date          *ledger.DateFilter
	Text          string
	TextThreshold int
	Projects      []string
}

// View is a ready-to-present statement window.
type View struct {
	VendorID       int64             `json:"vendor_id"`
	Projection     ledger.Projection `json:"projection"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	Entries        []ledger.Entry    `json:"entries"`
	Totals         ledger.Totals     `json:"totals"`
}

// snapshot is the cached unit: the full built statement plus the opening
// balance it started from.
type snapshot struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Entries        []ledger.Entry  `json:"entries"`
}

// Service rebuilds vendor statements from source aggregates. The build is a
// pure function of the fetched snapshot; the cache only skips refetching.
type Service struct {
	source   Source
	balances OpeningBalances
	cache    *Cache
	logger   *slog.Logger
}

// NewService wires the statement orchestrator. cache may be nil.
func NewService(source Source, balances OpeningBalances, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, balances: balances, cache: cache, logger: logger}
}

// Statement produces the filtered statement window for one vendor. Filters
// narrow the display only: the running balances on the surviving entries are
// the ones computed over the full history.
func (s *Service) Statement(ctx context.Context, vendorID int64, q Query) (View, error) {
	if vendorID <= 0 {
		return View{}, fmt.Errorf("statement: invalid vendor id: %w", httpx.ErrValidation)
	}
	if q.Projection == "" {
		q.Projection = ledger.ProjectionPO
	}
	if q.Projection != ledger.ProjectionPO && q.Projection != ledger.ProjectionInvoice {
		return View{}, fmt.Errorf("statement: unknown projection %q: %w", q.Projection, httpx.ErrValidation)
	}

	snap, err := s.loadSnapshot(ctx, vendorID, q.Projection)
	if err != nil {
		return View{}, err
	}

	preds := make([]ledger.Predicate, 0, 3)
	if q.Date != nil {
		pred, err := q.Date.Predicate()
		if err != nil {
			return View{}, fmt.Errorf("statement: %v: %w", err, httpx.ErrValidation)
		}
		preds = append(preds, pred)
	}
	preds = append(preds, ledger.TextPredicate(q.Text, q.TextThreshold), ledger.ProjectPredicate(q.Projects))

	window := ledger.Filter(snap.Entries, preds...)
	return View{
		VendorID:       vendorID,
		Projection:     q.Projection,
		OpeningBalance: snap.OpeningBalance,
		Entries:        window,
		Totals:         ledger.Aggregate(window, snap.OpeningBalance),
	}, nil
}

// Warm rebuilds and caches both projections for a vendor. Used by the
// background warmup job.
func (s *Service) Warm(ctx context.Context, vendorID int64) error {
	for _, projection := range []ledger.Projection{ledger.ProjectionPO, ledger.ProjectionInvoice} {
		if _, err := s.loadSnapshot(ctx, vendorID, projection); err != nil {
			return err
		}
	}
	return nil
}

// Bump invalidates all cached statements. Satisfies the write-side
// invalidator interfaces of the vendors and procurement services.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) loadSnapshot(ctx context.Context, vendorID int64, projection ledger.Projection) (snapshot, error) {
	loader := func(ctx context.Context) (interface{}, error) {
		aggregates, err := s.source.VendorHistory(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		opening, err := s.balances.OpeningBalance(ctx, vendorID)
		if err != nil {
			return nil, err
		}
		entries, err := ledger.Build(aggregates, projection, opening)
		if err != nil {
			// Source data broke the contract. No partial statement: either
			// the full sequence builds or the caller sees the error.
			return nil, fmt.Errorf("statement: %w: %w", httpx.ErrContract, err)
		}
		return snapshot{OpeningBalance: opening, Entries: entries}, nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return snapshot{}, err
		}
		return value.(snapshot), nil
	}

	key, err := s.cache.SnapshotKey(ctx, vendorID, string(projection))
	if err != nil {
		s.logger.Warn("statement cache unavailable, building directly", slog.Any("error", err))
		value, lerr := loader(ctx)
		if lerr != nil {
			return snapshot{}, lerr
		}
		return value.(snapshot), nil
	}
	var snap snapshot
	if err := s.cache.FetchJSON(ctx, key, &snap, loader); err != nil {
		if errors.Is(err, httpx.ErrContract) || errors.Is(err, httpx.ErrNotFound) {
			return snapshot{}, err
		}
		return snapshot{}, fmt.Errorf("statement: load snapshot: %w", err)
	}
	if snap.Entries == nil {
		snap.Entries = []ledger.Entry{}
	}
	return snap, nil
}
