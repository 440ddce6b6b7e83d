package procurement

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder is the stored order header. TotalAmount is the PO face value
// and is non-negative by construction.
type PurchaseOrder struct {
	ID          int64           `json:"id"`
	Number      string          `json:"number"`
	VendorID    int64           `json:"vendor_id"`
	Project     string          `json:"project"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Invoice is a recorded vendor invoice. A negative amount is a credit note.
type Invoice struct {
	ID     int64           `json:"id"`
	POID   int64           `json:"po_id"`
	Number string          `json:"number"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// Payment is a recorded payment against an order. A negative amount is a
// refund. Reference is the bank UTR and may be empty; Status is display only.
type Payment struct {
	ID        int64           `json:"id"`
	POID      int64           `json:"po_id"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Date      time.Time       `json:"date"`
}

// CreatePurchaseOrderInput creates an order. Number is generated when empty.
type CreatePurchaseOrderInput struct {
	VendorID    int64           `json:"vendor_id" validate:"required,gt=0"`
	Number      string          `json:"number" validate:"max=40"`
	Project     string          `json:"project" validate:"required,max=140"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// RecordInvoiceInput records an invoice or credit note against an order.
type RecordInvoiceInput struct {
	Number string          `json:"number" validate:"required,max=40"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// RecordPaymentInput records a payment or refund against an order.
type RecordPaymentInput struct {
	Reference string          `json:"reference" validate:"max=64"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status" validate:"max=32"`
	Date      time.Time       `json:"date"`
}
