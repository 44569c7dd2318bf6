// Package subject classifies Monzo notification email subjects and extracts
// the signed amount and counterparty they describe.
package subject

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Glyphs Monzo puts at the start of its alert subjects.
const (
	CardPaymentMarker   = "💳"
	MoneyReceivedMarker = "💰"
	DeclinedMarker      = "❌"
	CurrencySymbol      = "£"
)

// Kind is the outcome of classifying a subject.
type Kind int

const (
	Unparseable Kind = iota
	Debit
	Credit
	Ignored
	FallbackDebit
)

func (k Kind) String() string {
	switch k {
	case Debit:
		return "debit"
	case Credit:
		return "credit"
	case Ignored:
		return "ignored"
	case FallbackDebit:
		return "fallback-debit"
	default:
		return "unparseable"
	}
}

// Result carries the classification and, for Debit, Credit and
// FallbackDebit, the extracted payload.
type Result struct {
	Kind        Kind
	Amount      decimal.Decimal // negative = debit, positive = credit
	Description string
}

// OK reports whether the subject produced a transaction.
func (r Result) OK() bool {
	return r.Kind == Debit || r.Kind == Credit || r.Kind == FallbackDebit
}

// ErrInvalidAmount is returned by ParseAmount for strings that are not a
// plain decimal once thousands separators are removed.
var ErrInvalidAmount = errors.New("invalid amount")

const (
	// Monzo sometimes appends U+FE0F to the glyph.
	variation = `\x{FE0F}?`
	ws        = `[\s\p{Z}]`
	amount    = CurrencySymbol + `([\d,]+\.?\d*)`
)

var (
	debitRe    = regexp.MustCompile(`^` + CardPaymentMarker + variation + ws + `*` + amount + ws + `+at` + ws + `+(.+)`)
	creditRe   = regexp.MustCompile(`^` + MoneyReceivedMarker + variation + ws + `*` + amount + ws + `+from` + ws + `+(.+)`)
	anyAmount  = regexp.MustCompile(amount)
	plainDigit = regexp.MustCompile(`^\d+(?:\.\d*)?$`)
)

// line is one anchored "<glyph> £N <keyword> <name>" pattern.
type line struct {
	kind Kind
	re   *regexp.Regexp
	neg  bool
}

// lines are tried in order; the first that yields a result wins.
var lines = []line{
	{kind: Debit, re: debitRe, neg: true},
	{kind: Credit, re: creditRe},
}

// Parse classifies a notification subject. Rules are applied in priority
// order: card payment, money received, declined, any £ amount, nothing.
func Parse(subject string) Result {
	for _, l := range lines {
		if r, ok := l.match(subject); ok {
			return r
		}
	}

	if IsDeclined(subject) {
		return Result{Kind: Ignored}
	}

	m := anyAmount.FindStringSubmatch(subject)
	if m == nil {
		return Result{Kind: Unparseable}
	}
	amt, err := ParseAmount(m[1])
	if err != nil {
		return Result{Kind: Unparseable}
	}
	// No merchant delimiter here, so the whole subject is kept. Direction is
	// assumed to be outgoing; nothing in the subject confirms it.
	return Result{Kind: FallbackDebit, Amount: amt.Neg(), Description: subject}
}

func (l line) match(subject string) (Result, bool) {
	m := l.re.FindStringSubmatch(subject)
	if m == nil {
		return Result{}, false
	}
	amt, err := ParseAmount(m[1])
	if err != nil {
		return Result{}, false
	}
	name := strings.TrimSpace(m[2])
	if name == "" {
		return Result{}, false
	}
	if l.neg {
		amt = amt.Neg()
	}
	return Result{Kind: l.kind, Amount: amt, Description: name}, true
}

// IsDeclined reports whether the subject is a declined-payment alert.
func IsDeclined(subject string) bool {
	return strings.Contains(subject, DeclinedMarker) ||
		strings.Contains(strings.ToLower(subject), "declined")
}

// ParseAmount strips thousands separators and parses the remainder as an
// unsigned decimal: "1,500.00" -> 1500, "12" -> 12, "12." -> 12.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(raw, ",", "")
	if !plainDigit.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	s = strings.TrimSuffix(s, ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, raw, err)
	}
	return d, nil
}
