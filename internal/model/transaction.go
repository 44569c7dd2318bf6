package model

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// SourceMonzo tags every transaction produced from Monzo notifications.
const SourceMonzo = "monzo"

// Transaction is one row of the dashboard transaction log.
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // negative = debit, positive = credit
	Source      string          `json:"source"`
	EmailID     string          `json:"emailId"`
}

// MarshalJSON writes Amount as a bare JSON number rather than decimal's
// default quoted string. Merchant names are not HTML-escaped.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID          string      `json:"id"`
		Date        string      `json:"date"`
		Description string      `json:"description"`
		Amount      json.Number `json:"amount"`
		Source      string      `json:"source"`
		EmailID     string      `json:"emailId"`
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(wire{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      json.Number(t.Amount.String()),
		Source:      t.Source,
		EmailID:     t.EmailID,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// IsDebit reports whether money left the account.
func (t Transaction) IsDebit() bool { return t.Amount.IsNegative() }

// SortByDateDesc orders transactions newest first. Ties keep their order.
func SortByDateDesc(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date > txns[j].Date
	})
}
