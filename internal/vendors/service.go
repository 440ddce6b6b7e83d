package vendors

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/procureflow/procureflow/internal/platform/httpx"
)

// StatementInvalidator bumps the cached statement version after a write that
// changes ledger inputs.
type StatementInvalidator interface {
	Bump(ctx context.Context) error
}

// Service owns vendor master data and the opening-balance lifecycle.
type Service struct {
	repo        Repository
	invalidator StatementInvalidator
	logger      *slog.Logger
	validate    *validator.Validate
}

// NewService builds a vendor service. invalidator may be nil in tests.
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

func (s *Service) List(ctx context.Context, search string) ([]Vendor, error) {
	return s.repo.List(ctx, search)
}

func (s *Service) Get(ctx context.Context, id int64) (Vendor, error) {
	if id <= 0 {
		return Vendor{}, fmt.Errorf("vendors: invalid id: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateVendorInput) (Vendor, error) {
	if err := s.validate.Struct(input); err != nil {
		return Vendor{}, fmt.Errorf("vendors: %v: %w", err, httpx.ErrValidation)
	}
	return s.repo.Create(ctx, input)
}

// OpeningBalance reads the persisted opening balance, defaulting to zero when
// never set.
func (s *Service) OpeningBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	if id <= 0 {
		return decimal.Decimal{}, fmt.Errorf("vendors: invalid id: %w", httpx.ErrValidation)
	}
	return s.repo.GetOpeningBalance(ctx, id)
}

// SaveOpeningBalance persists an edited opening balance and invalidates
// cached statements. A failed cache bump does not fail the save: the cache is
// an optimization, the database is the truth.
func (s *Service) SaveOpeningBalance(ctx context.Context, id int64, input UpdateOpeningBalanceInput) error {
	if id <= 0 {
		return fmt.Errorf("vendors: invalid id: %w", httpx.ErrValidation)
	}
	if err := s.repo.SetOpeningBalance(ctx, id, input.OpeningBalance); err != nil {
		return err
	}
	if s.invalidator != nil {
		if err := s.invalidator.Bump(ctx); err != nil {
			s.logger.Warn("statement cache bump failed", slog.Int64("vendor_id", id), slog.Any("error", err))
		}
	}
	return nil
}
