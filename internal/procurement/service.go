package procurement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/procureflow/procureflow/internal/ledger"
	"github.com/procureflow/procureflow/internal/platform/httpx"
)

// StatementInvalidator bumps the cached statement version after a write.
type StatementInvalidator interface {
	Bump(ctx context.Context) error
}

// Service owns purchase-order writes and assembles the ledger source
// snapshot for one vendor.
type Service struct {
	repo        Repository
	invalidator StatementInvalidator
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewService builds a procurement service. invalidator may be nil in tests.
func NewService(repo Repository, invalidator StatementInvalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// VendorHistory fetches the vendor's complete purchase-order history in one
// round trip per table and stitches it into per-PO aggregates. Aggregates
// come back ordered by PO creation; nested records by their own dates. This
// ordering is what makes the statement tie-break deterministic.
func (s *Service) VendorHistory(ctx context.Context, vendorID int64) ([]ledger.PurchaseOrderAggregate, error) {
	var (
		orders   []PurchaseOrder
		invoices []Invoice
		payments []Payment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.repo.ListPurchaseOrders(gctx, vendorID)
		return err
	})
	g.Go(func() error {
		var err error
		invoices, err = s.repo.ListInvoices(gctx, vendorID)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.repo.ListPayments(gctx, vendorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byPO := make(map[int64]int, len(orders))
	aggregates := make([]ledger.PurchaseOrderAggregate, len(orders))
	for i, po := range orders {
		byPO[po.ID] = i
		aggregates[i] = ledger.PurchaseOrderAggregate{
			ID:          po.Number,
			CreatedAt:   po.CreatedAt,
			TotalAmount: po.TotalAmount,
			Project:     po.Project,
		}
	}
	for _, inv := range invoices {
		i, ok := byPO[inv.POID]
		if !ok {
			continue
		}
		aggregates[i].Invoices = append(aggregates[i].Invoices, ledger.InvoiceRecord{
			Date:   inv.Date,
			Number: inv.Number,
			Amount: inv.Amount,
		})
	}
	for _, pay := range payments {
		i, ok := byPO[pay.POID]
		if !ok {
			continue
		}
		aggregates[i].Payments = append(aggregates[i].Payments, ledger.PaymentRecord{
			Date:      pay.Date,
			Reference: pay.Reference,
			Amount:    pay.Amount,
			Status:    pay.Status,
		})
	}
	return aggregates, nil
}

// GetPurchaseOrder looks up one order header.
func (s *Service) GetPurchaseOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	if id <= 0 {
		return PurchaseOrder{}, fmt.Errorf("procurement: invalid id: %w", httpx.ErrValidation)
	}
	return s.repo.GetPurchaseOrder(ctx, id)
}

// CreatePurchaseOrder validates and stores a new order. The PO face value
// must not be negative; negative adjustments enter the ledger as credit
// notes, not as negative orders.
func (s *Service) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput) (PurchaseOrder, error) {
	if err := s.validate.Struct(input); err != nil {
		return PurchaseOrder{}, fmt.Errorf("procurement: %v: %w", err, httpx.ErrValidation)
	}
	if input.TotalAmount.IsNegative() {
		return PurchaseOrder{}, fmt.Errorf("procurement: total amount must not be negative: %w", httpx.ErrValidation)
	}
	number := input.Number
	if number == "" {
		number = generateNumber()
	}
	po, err := s.repo.CreatePurchaseOrder(ctx, input, number)
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.bump(ctx)
	return po, nil
}

// RecordInvoice stores an invoice or credit note. Dates are mandatory here so
// the statement builder never sees a record it must refuse.
func (s *Service) RecordInvoice(ctx context.Context, poID int64, input RecordInvoiceInput) (Invoice, error) {
	if err := s.validate.Struct(input); err != nil {
		return Invoice{}, fmt.Errorf("procurement: %v: %w", err, httpx.ErrValidation)
	}
	if input.Date.IsZero() {
		return Invoice{}, fmt.Errorf("procurement: invoice date required: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetPurchaseOrder(ctx, poID); err != nil {
		return Invoice{}, err
	}
	inv, err := s.repo.CreateInvoice(ctx, poID, input)
	if err != nil {
		return Invoice{}, err
	}
	s.bump(ctx)
	return inv, nil
}

// RecordPayment stores a payment or refund.
func (s *Service) RecordPayment(ctx context.Context, poID int64, input RecordPaymentInput) (Payment, error) {
	if err := s.validate.Struct(input); err != nil {
		return Payment{}, fmt.Errorf("procurement: %v: %w", err, httpx.ErrValidation)
	}
	if input.Date.IsZero() {
		return Payment{}, fmt.Errorf("procurement: payment date required: %w", httpx.ErrValidation)
	}
	if input.Status == "" {
		input.Status = "Paid"
	}
	if _, err := s.repo.GetPurchaseOrder(ctx, poID); err != nil {
		return Payment{}, err
	}
	pay, err := s.repo.CreatePayment(ctx, poID, input)
	if err != nil {
		return Payment{}, err
	}
	s.bump(ctx)
	return pay, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Bump(ctx); err != nil {
		s.logger.Warn("statement cache bump failed", slog.Any("error", err))
	}
}

func generateNumber() string {
	return "PO-" + strings.ToUpper(uuid.NewString()[:8])
}
