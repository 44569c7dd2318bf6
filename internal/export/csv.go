package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// Header is the CSV header row.
const Header = "id,date,description,amount,source,emailId"

const (
	numFields  = 6
	colID      = 0
	colDate    = 1
	colDesc    = 2
	colAmount  = 3
	colSource  = 4
	colEmailID = 5
)

// CSVWriter writes one row per transaction.
type CSVWriter struct{}

// Format returns the writer name.
func (w *CSVWriter) Format() string { return "csv" }

// Write writes the header and all rows.
func (w *CSVWriter) Write(out io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, txn := range txns {
		if err := cw.Write(MarshalRow(txn)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a Transaction to a CSV row.
func MarshalRow(txn model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = txn.ID
	row[colDate] = txn.Date
	row[colDesc] = txn.Description
	row[colAmount] = txn.Amount.StringFixed(2)
	row[colSource] = txn.Source
	row[colEmailID] = txn.EmailID
	return row
}
