// Package export serialises vendor statements for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/procureflow/procureflow/internal/ledger"
)

// statementHeader is the column layout downstream consumers parse by
// position. Do not reorder.
var statementHeader = []string{"Date", "Transaction", "Project", "Details", "Amount", "Payment", "Balance"}

const dateLayout = "2006-01-02"

// WriteStatementCSV emits a filtered statement window as CSV: a synthetic
// opening-balance first row, one row per entry, and a synthetic totals row
// carrying the closing balance.
func WriteStatementCSV(w io.Writer, entries []ledger.Entry, opening decimal.Decimal, totals ledger.Totals) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(statementHeader); err != nil {
		return err
	}
	if err := writer.Write(openingRow(opening)); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writer.Write(entryRow(entry)); err != nil {
			return err
		}
	}
	if err := writer.Write(totalsRow(totals)); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func openingRow(opening decimal.Decimal) []string {
	return []string{"", "Opening Balance", "", "", "", "", formatAmount(opening)}
}

func entryRow(entry ledger.Entry) []string {
	return []string{
		entry.Date.Format(dateLayout),
		string(entry.Type),
		entry.Project,
		entry.Details,
		formatAmount(entry.Amount),
		formatAmount(entry.Payment),
		formatAmount(entry.Balance),
	}
}

func totalsRow(totals ledger.Totals) []string {
	return []string{
		"",
		"Total",
		"",
		"",
		formatAmount(totals.TotalAmount),
		formatAmount(totals.TotalPayment),
		formatAmount(totals.ClosingBalance),
	}
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FileName builds a download name like vendor-7-po-20250301.csv.
func FileName(vendorID int64, projection ledger.Projection, ext string, now time.Time) string {
	return "vendor-" + strconv.FormatInt(vendorID, 10) + "-" + string(projection) + "-" + now.Format("20060102") + "." + ext
}
