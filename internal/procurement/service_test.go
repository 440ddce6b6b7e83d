package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/procureflow/internal/ledger"
	"github.com/procureflow/procureflow/internal/platform/httpx"
)

type memoryProcRepo struct {
	orders   map[int64]PurchaseOrder
	invoices []Invoice
	payments []Payment
	nextID   int64
}

func newMemoryProcRepo() *memoryProcRepo {
	return &memoryProcRepo{orders: make(map[int64]PurchaseOrder)}
}

func (r *memoryProcRepo) ListPurchaseOrders(ctx context.Context, vendorID int64) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	for id := int64(1); id <= r.nextID; id++ {
		if po, ok := r.orders[id]; ok && po.VendorID == vendorID {
			out = append(out, po)
		}
	}
	return out, nil
}

func (r *memoryProcRepo) ListInvoices(ctx context.Context, vendorID int64) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range r.invoices {
		if po, ok := r.orders[inv.POID]; ok && po.VendorID == vendorID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memoryProcRepo) ListPayments(ctx context.Context, vendorID int64) ([]Payment, error) {
	var out []Payment
	for _, pay := range r.payments {
		if po, ok := r.orders[pay.POID]; ok && po.VendorID == vendorID {
			out = append(out, pay)
		}
	}
	return out, nil
}

func (r *memoryProcRepo) GetPurchaseOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	po, ok := r.orders[id]
	if !ok {
		return PurchaseOrder{}, httpx.ErrNotFound
	}
	return po, nil
}

func (r *memoryProcRepo) CreatePurchaseOrder(ctx context.Context, input CreatePurchaseOrderInput, number string) (PurchaseOrder, error) {
	r.nextID++
	po := PurchaseOrder{
		ID:          r.nextID,
		Number:      number,
		VendorID:    input.VendorID,
		Project:     input.Project,
		TotalAmount: input.TotalAmount,
		CreatedAt:   time.Now().UTC(),
	}
	r.orders[po.ID] = po
	return po, nil
}

func (r *memoryProcRepo) CreateInvoice(ctx context.Context, poID int64, input RecordInvoiceInput) (Invoice, error) {
	inv := Invoice{ID: int64(len(r.invoices) + 1), POID: poID, Number: input.Number, Amount: input.Amount, Date: input.Date}
	r.invoices = append(r.invoices, inv)
	return inv, nil
}

func (r *memoryProcRepo) CreatePayment(ctx context.Context, poID int64, input RecordPaymentInput) (Payment, error) {
	pay := Payment{ID: int64(len(r.payments) + 1), POID: poID, Reference: input.Reference, Amount: input.Amount, Status: input.Status, Date: input.Date}
	r.payments = append(r.payments, pay)
	return pay, nil
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(ctx context.Context) error {
	c.bumps++
	return nil
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	svc := NewService(newMemoryProcRepo(), nil, nil)

	_, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{Project: "Tower A"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		VendorID: 1, Project: "Tower A", TotalAmount: decimal.RequireFromString("-10"),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	po, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		VendorID: 1, Project: "Tower A", TotalAmount: decimal.RequireFromString("5000"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, po.Number)
}

func TestRecordInvoiceRequiresDate(t *testing.T) {
	repo := newMemoryProcRepo()
	svc := NewService(repo, nil, nil)

	po, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		VendorID: 1, Project: "Tower A", TotalAmount: decimal.RequireFromString("100"),
	})
	require.NoError(t, err)

	_, err = svc.RecordInvoice(context.Background(), po.ID, RecordInvoiceInput{
		Number: "INV-1", Amount: decimal.RequireFromString("50"),
	})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.RecordInvoice(context.Background(), 99, RecordInvoiceInput{
		Number: "INV-1", Amount: decimal.RequireFromString("50"), Date: time.Now(),
	})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestRecordPaymentDefaultsStatus(t *testing.T) {
	repo := newMemoryProcRepo()
	inv := &countingInvalidator{}
	svc := NewService(repo, inv, nil)

	po, err := svc.CreatePurchaseOrder(context.Background(), CreatePurchaseOrderInput{
		VendorID: 1, Project: "Tower A", TotalAmount: decimal.RequireFromString("100"),
	})
	require.NoError(t, err)

	pay, err := svc.RecordPayment(context.Background(), po.ID, RecordPaymentInput{
		Amount: decimal.RequireFromString("40"), Date: time.Now(),
	})
	require.NoError(t, err)
	require.Equal(t, "Paid", pay.Status)
	require.Empty(t, pay.Reference)
	// One bump for the order, one for the payment.
	require.Equal(t, 2, inv.bumps)
}

func TestVendorHistoryStitching(t *testing.T) {
	repo := newMemoryProcRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	po1, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		VendorID: 7, Number: "PO-1", Project: "Tower A", TotalAmount: decimal.RequireFromString("5000"),
	})
	require.NoError(t, err)
	po2, err := svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		VendorID: 7, Number: "PO-2", Project: "Tower B", TotalAmount: decimal.RequireFromString("3000"),
	})
	require.NoError(t, err)
	_, err = svc.CreatePurchaseOrder(ctx, CreatePurchaseOrderInput{
		VendorID: 8, Number: "PO-OTHER", Project: "Elsewhere", TotalAmount: decimal.RequireFromString("1"),
	})
	require.NoError(t, err)

	_, err = svc.RecordInvoice(ctx, po1.ID, RecordInvoiceInput{
		Number: "INV-1", Amount: decimal.RequireFromString("2500"), Date: time.Now(),
	})
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, po2.ID, RecordPaymentInput{
		Reference: "UTR9", Amount: decimal.RequireFromString("1000"), Date: time.Now(),
	})
	require.NoError(t, err)

	aggregates, err := svc.VendorHistory(ctx, 7)
	require.NoError(t, err)
	require.Len(t, aggregates, 2)

	require.Equal(t, "PO-1", aggregates[0].ID)
	require.Len(t, aggregates[0].Invoices, 1)
	require.Empty(t, aggregates[0].Payments)

	require.Equal(t, "PO-2", aggregates[1].ID)
	require.Empty(t, aggregates[1].Invoices)
	require.Len(t, aggregates[1].Payments, 1)
	require.Equal(t, "UTR9", aggregates[1].Payments[0].Reference)

	// The stitched snapshot feeds the builder directly.
	entries, err := ledger.Build(aggregates, ledger.ProjectionPO, decimal.Zero)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}
