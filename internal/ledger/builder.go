package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Build transforms a vendor's purchase-order history into a chronological,
// running-balance statement in the requested projection.
//
// The running balance starts from openingBalance, which always precedes every
// transaction regardless of dates. Sorting is stable, so records sharing a
// timestamp keep input order: aggregates in the order given, and within one
// aggregate the amount-bearing entry before its payments. Build is pure;
// identical inputs yield identical output, balances included.
func Build(aggregates []PurchaseOrderAggregate, projection Projection, openingBalance decimal.Decimal) ([]Entry, error) {
	if projection != ProjectionPO && projection != ProjectionInvoice {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProjection, projection)
	}

	entries := make([]Entry, 0, len(aggregates))
	for _, agg := range aggregates {
		switch projection {
		case ProjectionPO:
			if agg.CreatedAt.IsZero() {
				return nil, fmt.Errorf("purchase order %s: %w", agg.ID, ErrMissingDate)
			}
			entries = append(entries, Entry{
				Date:    agg.CreatedAt,
				Type:    TypePOCreated,
				Project: agg.Project,
				Details: "PO " + agg.ID,
				Amount:  agg.TotalAmount,
			})
		case ProjectionInvoice:
			for _, inv := range agg.Invoices {
				if inv.Date.IsZero() {
					return nil, fmt.Errorf("invoice %s on purchase order %s: %w", displayRef(inv.Number), agg.ID, ErrMissingDate)
				}
				typ := TypeInvoice
				if inv.Amount.IsNegative() {
					typ = TypeCreditNote
				}
				entries = append(entries, Entry{
					Date:    inv.Date,
					Type:    typ,
					Project: agg.Project,
					Details: fmt.Sprintf("Invoice %s against PO %s", displayRef(inv.Number), agg.ID),
					Amount:  inv.Amount,
				})
			}
		}

		for _, pay := range agg.Payments {
			if pay.Date.IsZero() {
				return nil, fmt.Errorf("payment %s on purchase order %s: %w", displayRef(pay.Reference), agg.ID, ErrMissingDate)
			}
			typ := TypePayment
			if pay.Amount.IsNegative() {
				typ = TypeRefund
			}
			entries = append(entries, Entry{
				Date:    pay.Date,
				Type:    typ,
				Project: agg.Project,
				Details: fmt.Sprintf("UTR %s against PO %s", displayRef(pay.Reference), agg.ID),
				Payment: pay.Amount,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	balance := openingBalance
	for i := range entries {
		balance = balance.Add(entries[i].Amount).Sub(entries[i].Payment)
		entries[i].Balance = balance
	}
	return entries, nil
}

// Aggregate computes display totals over a statement window. The closing
// balance is taken from the last entry's already-computed balance, never
// recomputed from the window's sums: filters narrow what is displayed, not
// what the balance means.
func Aggregate(entries []Entry, openingBalance decimal.Decimal) Totals {
	totals := Totals{ClosingBalance: openingBalance}
	for _, e := range entries {
		totals.TotalAmount = totals.TotalAmount.Add(e.Amount)
		totals.TotalPayment = totals.TotalPayment.Add(e.Payment)
	}
	if len(entries) > 0 {
		totals.ClosingBalance = entries[len(entries)-1].Balance
	}
	return totals
}

func displayRef(ref string) string {
	if ref == "" {
		return "N/A"
	}
	return ref
}
