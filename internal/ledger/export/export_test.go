package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/procureflow/procureflow/internal/ledger"
)

func fixture(t *testing.T) ([]ledger.Entry, decimal.Decimal, ledger.Totals) {
	t.Helper()
	opening := decimal.RequireFromString("1000")
	aggregates := []ledger.PurchaseOrderAggregate{{
		ID:          "PO-001",
		CreatedAt:   time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.RequireFromString("5000"),
		Project:     "Tower A",
		Payments: []ledger.PaymentRecord{{
			Date:      time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
			Reference: "UTR123",
			Amount:    decimal.RequireFromString("2000"),
		}},
	}}
	entries, err := ledger.Build(aggregates, ledger.ProjectionPO, opening)
	require.NoError(t, err)
	return entries, opening, ledger.Aggregate(entries, opening)
}

func TestWriteStatementCSVLayout(t *testing.T) {
	entries, opening, totals := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteStatementCSV(&buf, entries, opening, totals))

	want := "Date,Transaction,Project,Details,Amount,Payment,Balance\n" +
		",Opening Balance,,,,,1000.00\n" +
		"2025-03-01,PO Created,Tower A,PO PO-001,5000.00,0.00,6000.00\n" +
		"2025-03-02,Payment Made,Tower A,UTR UTR123 against PO PO-001,0.00,2000.00,4000.00\n" +
		",Total,,,5000.00,2000.00,4000.00\n"
	require.Equal(t, want, buf.String())
}

func TestWriteStatementCSVEmptyWindow(t *testing.T) {
	opening := decimal.RequireFromString("-50")
	totals := ledger.Aggregate(nil, opening)

	var buf bytes.Buffer
	require.NoError(t, WriteStatementCSV(&buf, nil, opening, totals))

	want := "Date,Transaction,Project,Details,Amount,Payment,Balance\n" +
		",Opening Balance,,,,,-50.00\n" +
		",Total,,,0.00,0.00,-50.00\n"
	require.Equal(t, want, buf.String())
}

func TestWriteStatementXLSX(t *testing.T) {
	entries, opening, totals := fixture(t)

	var buf bytes.Buffer
	require.NoError(t, WriteStatementXLSX(&buf, entries, opening, totals))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(statementSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(entries)+3)
	require.Equal(t, statementHeader, rows[0])
	require.Equal(t, "Opening Balance", rows[1][1])
	require.Equal(t, "Total", rows[len(rows)-1][1])
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "vendor-7-po-20250301.csv", FileName(7, ledger.ProjectionPO, "csv", now))
}
