package procurement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procureflow/procureflow/internal/platform/db"
	"github.com/procureflow/procureflow/internal/platform/httpx"
)

// Repository defines purchase-order data access. The vendor-scoped list
// queries return the whole history at once; statements are rebuilt from the
// full snapshot, never incrementally.
type Repository interface {
	ListPurchaseOrders(ctx context.Context, vendorID int64) ([]PurchaseOrder, error)
	ListInvoices(ctx context.Context, vendorID int64) ([]Invoice, error)
	ListPayments(ctx context.Context, vendorID int64) ([]Payment, error)
	GetPurchaseOrder(ctx context.Context, id int64) (PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput, number string) (PurchaseOrder, error)
	CreateInvoice(ctx context.Context, poID int64, input RecordInvoiceInput) (Invoice, error)
	CreatePayment(ctx context.Context, poID int64, input RecordPaymentInput) (Payment, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository wires procurement storage on the shared pool.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const uniqueViolation = "23505"

func (r *repository) ListPurchaseOrders(ctx context.Context, vendorID int64) ([]PurchaseOrder, error) {
	const query = `SELECT id, number, vendor_id, project, total_amount, created_at
		FROM purchase_orders WHERE vendor_id = $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("procurement: list orders: %w", err)
	}
	defer rows.Close()

	var out []PurchaseOrder
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(&po.ID, &po.Number, &po.VendorID, &po.Project, &po.TotalAmount, &po.CreatedAt); err != nil {
			return nil, fmt.Errorf("procurement: scan order: %w", err)
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

func (r *repository) ListInvoices(ctx context.Context, vendorID int64) ([]Invoice, error) {
	const query = `SELECT i.id, i.po_id, i.number, i.amount, i.invoice_date
		FROM po_invoices i
		JOIN purchase_orders p ON p.id = i.po_id
		WHERE p.vendor_id = $1 ORDER BY i.invoice_date, i.id`
	rows, err := r.db.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("procurement: list invoices: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.POID, &inv.Number, &inv.Amount, &inv.Date); err != nil {
			return nil, fmt.Errorf("procurement: scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *repository) ListPayments(ctx context.Context, vendorID int64) ([]Payment, error) {
	const query = `SELECT pay.id, pay.po_id, COALESCE(pay.reference, ''), pay.amount, pay.status, pay.paid_at
		FROM po_payments pay
		JOIN purchase_orders p ON p.id = pay.po_id
		WHERE p.vendor_id = $1 ORDER BY pay.paid_at, pay.id`
	rows, err := r.db.Query(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("procurement: list payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var pay Payment
		if err := rows.Scan(&pay.ID, &pay.POID, &pay.Reference, &pay.Amount, &pay.Status, &pay.Date); err != nil {
			return nil, fmt.Errorf("procurement: scan payment: %w", err)
		}
		out = append(out, pay)
	}
	return out, rows.Err()
}

func (r *repository) GetPurchaseOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	const query = `SELECT id, number, vendor_id, project, total_amount, created_at
		FROM purchase_orders WHERE id = $1`
	var po PurchaseOrder
	err := r.db.QueryRow(ctx, query, id).Scan(&po.ID, &po.Number, &po.VendorID, &po.Project, &po.TotalAmount, &po.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, fmt.Errorf("procurement: order %d: %w", id, httpx.ErrNotFound)
	}
	if err != nil {
		return PurchaseOrder{}, fmt.Errorf("procurement: get order: %w", err)
	}
	return po, nil
}

func (r *repository) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput, number string) (PurchaseOrder, error) {
	const query = `INSERT INTO purchase_orders (number, vendor_id, project, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	po := PurchaseOrder{
		Number:      number,
		VendorID:    input.VendorID,
		Project:     input.Project,
		TotalAmount: input.TotalAmount,
		CreatedAt:   time.Now().UTC(),
	}
	err := r.db.QueryRow(ctx, query, po.Number, po.VendorID, po.Project, po.TotalAmount, po.CreatedAt).Scan(&po.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return PurchaseOrder{}, fmt.Errorf("procurement: number %s: %w", number, httpx.ErrDuplicate)
		}
		return PurchaseOrder{}, fmt.Errorf("procurement: create order: %w", err)
	}
	return po, nil
}

func (r *repository) CreateInvoice(ctx context.Context, poID int64, input RecordInvoiceInput) (Invoice, error) {
	const query = `INSERT INTO po_invoices (po_id, number, amount, invoice_date)
		VALUES ($1, $2, $3, $4) RETURNING id`
	inv := Invoice{POID: poID, Number: input.Number, Amount: input.Amount, Date: input.Date}
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPurchaseOrder(ctx, tx, poID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, query, poID, input.Number, input.Amount, input.Date).Scan(&inv.ID); err != nil {
			return fmt.Errorf("procurement: create invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (r *repository) CreatePayment(ctx context.Context, poID int64, input RecordPaymentInput) (Payment, error) {
	const query = `INSERT INTO po_payments (po_id, reference, amount, status, paid_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5) RETURNING id`
	pay := Payment{POID: poID, Reference: input.Reference, Amount: input.Amount, Status: input.Status, Date: input.Date}
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockPurchaseOrder(ctx, tx, poID); err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, query, poID, input.Reference, input.Amount, input.Status, input.Date).Scan(&pay.ID); err != nil {
			return fmt.Errorf("procurement: create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	return pay, nil
}

// lockPurchaseOrder takes a row lock so invoices and payments never land on a
// purchase order deleted mid-flight.
func lockPurchaseOrder(ctx context.Context, tx pgx.Tx, poID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM purchase_orders WHERE id = $1 FOR UPDATE`, poID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("procurement: order %d: %w", poID, httpx.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("procurement: lock order: %w", err)
	}
	return nil
}
