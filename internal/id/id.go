package id

import (
	"fmt"
	"strings"
)

// TransactionPrefix namespaces transaction IDs derived from Monzo emails.
const TransactionPrefix = "monzo-"

// TransactionID returns the transaction ID for an email, e.g. "monzo-abc123".
// The mapping is pure so reimports produce identical IDs.
func TransactionID(emailID string) string {
	return TransactionPrefix + emailID
}

// EmailID parses "monzo-abc123" back into "abc123".
func EmailID(txnID string) (string, error) {
	emailID, ok := strings.CutPrefix(txnID, TransactionPrefix)
	if !ok {
		return "", fmt.Errorf("invalid transaction ID %q: missing %q prefix", txnID, TransactionPrefix)
	}
	if emailID == "" {
		return "", fmt.Errorf("invalid transaction ID %q: empty email ID", txnID)
	}
	return emailID, nil
}
