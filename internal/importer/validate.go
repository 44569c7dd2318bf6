package importer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-dashboard/monzo-mail/internal/dates"
	"github.com/finance-dashboard/monzo-mail/internal/id"
	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant     int
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.TransactionID, e.Description)
}

// Validate checks 6 invariants on an assembled transaction log.
func Validate(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	hundred := decimal.NewFromInt(100)
	seen := make(map[string]bool, len(txns))

	for i, txn := range txns {
		// Invariant 1: Non-empty description.
		if txn.Description == "" {
			errs = append(errs, ValidationError{Invariant: 1, TransactionID: txn.ID, Description: "empty description"})
		}

		// Invariant 2: Canonical date.
		if d, err := time.Parse(dates.Layout, txn.Date); err != nil || d.Format(dates.Layout) != txn.Date {
			errs = append(errs, ValidationError{Invariant: 2, TransactionID: txn.ID, Description: fmt.Sprintf("date %q is not YYYY-MM-DD", txn.Date)})
		}

		// Invariant 3: ID derived from the email ID, Monzo source.
		if txn.ID != id.TransactionID(txn.EmailID) {
			errs = append(errs, ValidationError{Invariant: 3, TransactionID: txn.ID, Description: fmt.Sprintf("id does not match email %q", txn.EmailID)})
		}
		if txn.Source != model.SourceMonzo {
			errs = append(errs, ValidationError{Invariant: 3, TransactionID: txn.ID, Description: fmt.Sprintf("unexpected source %q", txn.Source)})
		}

		// Invariant 4: Pence precision.
		scaled := txn.Amount.Mul(hundred)
		if !scaled.Equal(scaled.Truncate(0)) {
			errs = append(errs, ValidationError{Invariant: 4, TransactionID: txn.ID, Description: fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount)})
		}

		// Invariant 5: Unique IDs.
		if seen[txn.ID] {
			errs = append(errs, ValidationError{Invariant: 5, TransactionID: txn.ID, Description: "duplicate transaction id"})
		}
		seen[txn.ID] = true

		// Invariant 6: Newest first.
		if i > 0 && txns[i-1].Date < txn.Date {
			errs = append(errs, ValidationError{Invariant: 6, TransactionID: txn.ID, Description: fmt.Sprintf("date %s after previous %s", txn.Date, txns[i-1].Date)})
		}
	}
	return errs
}
