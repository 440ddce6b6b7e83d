package vendors

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor is a supplier the ledger is kept against. OpeningBalance is the
// manually entered dues carried from before the tracked history begins; it is
// the only statement input with its own lifecycle (read once, edited via an
// explicit save).
type Vendor struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Contact        string          `json:"contact"`
	Email          string          `json:"email"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CreateVendorInput carries a new vendor record.
type CreateVendorInput struct {
	Code    string `json:"code" validate:"required,max=32"`
	Name    string `json:"name" validate:"required,max=140"`
	Contact string `json:"contact" validate:"max=140"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// UpdateOpeningBalanceInput carries an opening-balance save. The value may be
// any sign.
type UpdateOpeningBalanceInput struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}
