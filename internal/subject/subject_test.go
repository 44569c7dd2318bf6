package subject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		kind    Kind
		amount  string
		desc    string
	}{
		{"card payment", "💳 £12.50 at Tesco Express", Debit, "-12.50", "Tesco Express"},
		{"card payment no space", "💳£5.00 at Transport for London", Debit, "-5.00", "Transport for London"},
		{"card payment integer", "💳 £12 at Pret A Manger", Debit, "-12.00", "Pret A Manger"},
		{"card payment trailing dot", "💳 £7. at Boots", Debit, "-7.00", "Boots"},
		{"card payment thousands", "💳 £1,234.56 at Apple Store", Debit, "-1234.56", "Apple Store"},
		{"card payment trims merchant", "💳 £3.20 at   Costa Coffee  ", Debit, "-3.20", "Costa Coffee"},
		{"card payment variation selector", "\U0001F4B3\uFE0F £9.99 at Netflix", Debit, "-9.99", "Netflix"},
		{"card payment merchant mentions declined", "💳 £4.00 at Declined Records Ltd", Debit, "-4.00", "Declined Records Ltd"},
		{"money received", "💰 £1,500.00 from LAWRENCE LUNDY-BRYAN", Credit, "1500.00", "LAWRENCE LUNDY-BRYAN"},
		{"interest", "💰 £50.00 from Monzo Interest", Credit, "50.00", "Monzo Interest"},
		{"credit source mentions declined", "💰 £20.00 from Refund for declined order", Credit, "20.00", "Refund for declined order"},
		{"declined glyph", "❌ Payment declined at Amazon", Ignored, "", ""},
		{"declined glyph with amount", "❌ £12.00 at Amazon", Ignored, "", ""},
		{"declined word", "Your payment of £8.00 was DECLINED", Ignored, "", ""},
		{"fallback", "You spent £45.00 somewhere", FallbackDebit, "-45.00", "You spent £45.00 somewhere"},
		{"fallback keeps whitespace", "  Pot transfer £1,000 ", FallbackDebit, "-1000.00", "  Pot transfer £1,000 "},
		{"debit keyword missing", "💳 £12.50 to Tesco", FallbackDebit, "-12.50", "💳 £12.50 to Tesco"},
		{"empty merchant falls back", "💳 £12.50 at   ", FallbackDebit, "-12.50", "💳 £12.50 at   "},
		{"no amount", "Your Monzo statement is ready", Unparseable, "", ""},
		{"empty", "", Unparseable, "", ""},
		{"separators only", "💳 £,,, at Shop", Unparseable, "", ""},
		{"dollar not pound", "💳 $12.00 at Shop", Unparseable, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.subject)
			assert.Equal(t, tt.kind, got.Kind)
			if tt.amount == "" {
				assert.False(t, got.OK())
				return
			}
			require.True(t, got.OK())
			assert.Equal(t, tt.amount, got.Amount.StringFixed(2))
			assert.Equal(t, tt.desc, got.Description)
		})
	}
}

func TestParse_DebitIsNegative(t *testing.T) {
	subjects := []string{
		"💳 £0.01 at A",
		"💳 £12.50 at Tesco Express",
		"💳 £99,999.99 at Car Dealer",
	}
	for _, s := range subjects {
		got := Parse(s)
		require.Equal(t, Debit, got.Kind, s)
		assert.True(t, got.Amount.IsNegative(), s)
	}
}

func TestParse_CreditIsPositive(t *testing.T) {
	subjects := []string{
		"💰 £0.01 from A",
		"💰 £2,500 from Employer Ltd",
	}
	for _, s := range subjects {
		got := Parse(s)
		require.Equal(t, Credit, got.Kind, s)
		assert.True(t, got.Amount.IsPositive(), s)
	}
}

func TestParse_Deterministic(t *testing.T) {
	s := "💳 £12.50 at Tesco Express"
	assert.Equal(t, Parse(s), Parse(s))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1,234.56", "1234.56"},
		{"1,500.00", "1500"},
		{"12", "12"},
		{"12.", "12"},
		{"0.5", "0.5"},
		{",5", "5"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got.String(), "input: %s", tt.input)
	}
}

func TestParseAmount_Errors(t *testing.T) {
	badInputs := []string{"", ",", ",,,", ".5", "1.2.3", "abc", "-5", "1e5"}
	for _, input := range badInputs {
		_, err := ParseAmount(input)
		require.Error(t, err, "expected error for input: %s", input)
		assert.True(t, errors.Is(err, ErrInvalidAmount))
	}
}

func TestIsDeclined(t *testing.T) {
	assert.True(t, IsDeclined("❌ Payment failed"))
	assert.True(t, IsDeclined("Payment Declined at Amazon"))
	assert.False(t, IsDeclined("💳 £1.00 at Shop"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "debit", Debit.String())
	assert.Equal(t, "credit", Credit.String())
	assert.Equal(t, "ignored", Ignored.String())
	assert.Equal(t, "fallback-debit", FallbackDebit.String())
	assert.Equal(t, "unparseable", Unparseable.String())
}
