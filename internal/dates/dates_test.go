package dates

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canonical = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func fixedClock() time.Time {
	return time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)
}

func TestNormalize_EmailLayouts(t *testing.T) {
	n := New(WithClock(fixedClock))
	tests := []struct {
		input    string
		want     string
		strategy string
	}{
		{"Thu, 5 Dec 2024 12:34:56 +0000", "2024-12-05", EmailLayouts[0]},
		{"Thu, 05 Dec 2024 12:34:56 +0000", "2024-12-05", EmailLayouts[0]},
		{"5 Dec 2024 12:34:56 +0000", "2024-12-05", EmailLayouts[1]},
		{"Thu, 5 Dec 2024 12:34:56 GMT", "2024-12-05", EmailLayouts[2]},
		{"5 Dec 2024 12:34:56 UTC", "2024-12-05", EmailLayouts[3]},
		{"Thu, 5 Dec 2024 12:34:56 +0000 (UTC)", "2024-12-05", EmailLayouts[4]},
		{"  Thu, 5 Dec 2024 12:34:56 +0000\n", "2024-12-05", EmailLayouts[0]},
	}
	for _, tt := range tests {
		got := n.Resolve(tt.input)
		assert.Equal(t, tt.want, got.Date, "input: %q", tt.input)
		assert.Equal(t, tt.strategy, got.Strategy, "input: %q", tt.input)
		assert.False(t, got.Fallback, "input: %q", tt.input)
	}
}

func TestNormalize_KeepsSenderCalendarDay(t *testing.T) {
	n := New(WithClock(fixedClock))
	// 23:30 in California is already the 6th in UTC; the header's own day wins.
	assert.Equal(t, "2024-12-05", n.Normalize("Thu, 5 Dec 2024 23:30:00 -0800"))
	assert.Equal(t, "2024-12-06", n.Normalize("Fri, 6 Dec 2024 00:15:00 +0100"))
}

func TestNormalize_Lenient(t *testing.T) {
	n := New(WithClock(fixedClock))
	tests := []struct {
		input string
		want  string
	}{
		{"2024-12-05", "2024-12-05"},
		{"2024-12-05T12:34:56Z", "2024-12-05"},
		{"2024/12/05", "2024-12-05"},
		{"20241205", "2024-12-05"},
		{"05/12/2024", "2024-12-05"},
		{"5 December 2024", "2024-12-05"},
		{"December 5, 2024", "2024-12-05"},
		{"Thu Dec  5 12:34:56 2024", "2024-12-05"},
		{"5 Dec 2024 12:34 +0000", "2024-12-05"},
		{"Thu, 5 Dec 2024 12:34", "2024-12-05"},
		{"Thu, 5 Dec 2024 12:34:56", "2024-12-05"},
		{"Thu, 5 Dec 2024 12:34:56 +00:00", "2024-12-05"},
		{"5 Dec 24", "2024-12-05"},
		{"Thu, 5 Dec 24 12:34:56 +0000", "2024-12-05"},
		{"Dec 5 2024", "2024-12-05"},
		{"December 5 2024", "2024-12-05"},
		{"Thursday, December 5, 2024", "2024-12-05"},
		{"2024-12-05 12:34:56 +0000", "2024-12-05"},
		{"2024-12-05 12:34:56 +00:00", "2024-12-05"},
		{"2024-12-05 12:34:56", "2024-12-05"},
		{"Thu, 5 Dec 2024 12:34:56 +0000 (Coordinated Universal Time)", "2024-12-05"},
		{"5 Dec 2024 23:30:00 -08:00", "2024-12-05"},
		{"Thu,  5   Dec 2024 12:34:56", "2024-12-05"},
	}
	for _, tt := range tests {
		got := n.Resolve(tt.input)
		assert.Equal(t, tt.want, got.Date, "input: %q", tt.input)
		assert.Equal(t, "lenient", got.Strategy, "input: %q", tt.input)
		assert.False(t, got.Fallback, "input: %q", tt.input)
	}
}

func TestNormalize_SlashedDatesAreDayFirst(t *testing.T) {
	// UK bank: 05/12/2024 is 5 December. A month-first reader would say 12 May.
	n := New(WithClock(fixedClock))
	assert.Equal(t, "2024-12-05", n.Normalize("05/12/2024"))
	assert.Equal(t, "2024-02-01", n.Normalize("1/2/2024"))
	assert.Equal(t, "2024-12-05", n.Normalize("5/12/24"))
}

func TestParseLenient_IgnoresWallClock(t *testing.T) {
	_, err := parseLenient("0000-01-01")
	assert.Error(t, err)

	got, err := parseLenient("5 Dec 2024")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC)), "got %s", got)
}

func TestNormalize_FallsBackToToday(t *testing.T) {
	n := New(WithClock(fixedClock))
	inputs := []string{
		"",
		"   ",
		"not a date",
		"Thu, 32 Dec 2024 12:34:56 +0000",
		"12:34",
		"💳 £12.50",
		"0000-01-01",
		"0001-01-01",
		"()",
	}
	for _, input := range inputs {
		got := n.Resolve(input)
		assert.Equal(t, "2026-10-18", got.Date, "input: %q", input)
		assert.Equal(t, StrategyToday, got.Strategy, "input: %q", input)
		assert.True(t, got.Fallback, "input: %q", input)
	}
}

func TestNormalize_DefaultClock(t *testing.T) {
	got := New().Normalize("")
	assert.Regexp(t, canonical, got)
}

func TestStrategies_Order(t *testing.T) {
	n := New()
	strategies := n.Strategies()
	require.Len(t, strategies, len(EmailLayouts)+1)
	for i, layout := range EmailLayouts {
		assert.Equal(t, layout, strategies[i].Name)
	}
	assert.Equal(t, "lenient", strategies[len(strategies)-1].Name)

	// Callers get a copy.
	strategies[0].Name = "changed"
	assert.Equal(t, EmailLayouts[0], n.Strategies()[0].Name)
}

func TestWithStrategies_FirstSuccessWins(t *testing.T) {
	var calls []string
	fail := Strategy{Name: "fail", Parse: func(string) (time.Time, error) {
		calls = append(calls, "fail")
		return time.Time{}, errors.New("no")
	}}
	hit := Strategy{Name: "hit", Parse: func(string) (time.Time, error) {
		calls = append(calls, "hit")
		return time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), nil
	}}
	never := Strategy{Name: "never", Parse: func(string) (time.Time, error) {
		calls = append(calls, "never")
		return time.Time{}, nil
	}}

	n := New(WithStrategies([]Strategy{fail, hit, never}), WithClock(fixedClock))
	got := n.Resolve("anything")
	assert.Equal(t, Resolution{Date: "2020-02-29", Strategy: "hit"}, got)
	assert.Equal(t, []string{"fail", "hit"}, calls)
}

func FuzzNormalize(f *testing.F) {
	seeds := []string{
		"",
		"Thu, 5 Dec 2024 12:34:56 +0000",
		"2024-12-05",
		"garbage",
		"\x00\xff",
		"0000-01-01",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	n := New(WithClock(fixedClock))
	f.Fuzz(func(t *testing.T, s string) {
		assert.Regexp(t, canonical, n.Normalize(s))
	})
}
