package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// SheetName is the worksheet the XLSX writer fills.
const SheetName = "Transactions"

// XLSXWriter writes a single-sheet workbook with numeric amounts.
type XLSXWriter struct{}

// Format returns the writer name.
func (w *XLSXWriter) Format() string { return "xlsx" }

// Write builds the workbook and streams it to out.
func (w *XLSXWriter) Write(out io.Writer, txns []model.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := strings.Split(Header, ",")
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, txn := range txns {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, _ := txn.Amount.Float64()
		row := []any{txn.ID, txn.Date, txn.Description, amount, txn.Source, txn.EmailID}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
