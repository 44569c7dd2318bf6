package model

// RawNotification is a Monzo alert email as handed over by an email source.
// Date is the raw Date header and may be empty or malformed.
type RawNotification struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}
