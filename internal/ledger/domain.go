package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType labels a statement line. Classification is driven purely by the
// sign of the source amount: a negative invoice is a credit note, a negative
// payment is a refund.
type EntryType string

const (
	TypePOCreated  EntryType = "PO Created"
	TypeInvoice    EntryType = "Invoice Recorded"
	TypeCreditNote EntryType = "Credit Note Recorded"
	TypePayment    EntryType = "Payment Made"
	TypeRefund     EntryType = "Refund Received"
)

// Projection selects which source records become the amount-bearing entries
// of a statement. Payments are included in both projections.
type Projection string

const (
	// ProjectionPO emits one entry per purchase order at its face value.
	ProjectionPO Projection = "po"
	// ProjectionInvoice emits one entry per invoice or credit note.
	ProjectionInvoice Projection = "invoice"
)

var (
	// ErrMissingDate indicates a source record without a usable date. The
	// builder refuses to guess: a coerced date would silently corrupt every
	// balance after it.
	ErrMissingDate = errors.New("ledger: record date missing")
	// ErrUnknownProjection indicates an unsupported projection value.
	ErrUnknownProjection = errors.New("ledger: unknown projection")
)

// PurchaseOrderAggregate is the raw per-PO history fetched for one vendor:
// the order itself plus its recorded invoices and payments.
type PurchaseOrderAggregate struct {
	ID          string
	CreatedAt   time.Time
	TotalAmount decimal.Decimal
	Project     string
	Invoices    []InvoiceRecord
	Payments    []PaymentRecord
}

// InvoiceRecord is an invoice or, when Amount is negative, a credit note.
type InvoiceRecord struct {
	Date   time.Time
	Number string
	Amount decimal.Decimal
}

// PaymentRecord is a payment or, when Amount is negative, a refund.
// Reference is the bank reference (UTR) and may be empty. Status is carried
// for display only and never participates in balance math.
type PaymentRecord struct {
	Date      time.Time
	Reference string
	Amount    decimal.Decimal
	Status    string
}

// Entry is one line of a vendor statement. Entries are never mutated after
// Build returns them; any change to source data rebuilds the whole sequence.
type Entry struct {
	Date    time.Time       `json:"date"`
	Type    EntryType       `json:"type"`
	Project string          `json:"project"`
	Details string          `json:"details"`
	Amount  decimal.Decimal `json:"amount"`
	Payment decimal.Decimal `json:"payment"`
	Balance decimal.Decimal `json:"balance"`
}

// Totals summarises a (possibly filtered) statement window.
type Totals struct {
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalPayment   decimal.Decimal `json:"total_payment"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}
