package export

import (
	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// Merge combines a previously exported log with a fresh import. Records
// already present (by ID) are kept as they are, so edits made in the
// dashboard survive a reimport. The result is sorted newest first.
func Merge(existing, incoming []model.Transaction) (merged []model.Transaction, added int) {
	seen := make(map[string]bool, len(existing)+len(incoming))
	merged = make([]model.Transaction, 0, len(existing)+len(incoming))
	for _, txn := range existing {
		if seen[txn.ID] {
			continue
		}
		seen[txn.ID] = true
		merged = append(merged, txn)
	}
	for _, txn := range incoming {
		if seen[txn.ID] {
			continue
		}
		seen[txn.ID] = true
		merged = append(merged, txn)
		added++
	}
	model.SortByDateDesc(merged)
	return merged, added
}
