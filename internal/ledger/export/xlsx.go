package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/procureflow/procureflow/internal/ledger"
)

const statementSheet = "Statement"

// WriteStatementXLSX emits the same layout as WriteStatementCSV as a
// spreadsheet: header, opening-balance row, entries, totals row.
func WriteStatementXLSX(w io.Writer, entries []ledger.Entry, opening decimal.Decimal, totals ledger.Totals) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(statementSheet)
	if err != nil {
		return fmt.Errorf("export: new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export: delete default sheet: %w", err)
	}

	rows := make([][]string, 0, len(entries)+3)
	rows = append(rows, statementHeader, openingRow(opening))
	for _, entry := range entries {
		rows = append(rows, entryRow(entry))
	}
	rows = append(rows, totalsRow(totals))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(statementSheet, cell, &values); err != nil {
			return fmt.Errorf("export: set row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
