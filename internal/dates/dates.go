// Package dates turns loosely formatted email Date headers into canonical
// YYYY-MM-DD calendar dates.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jinzhu/now"
)

// Layout is the canonical output format.
const Layout = "2006-01-02"

// StrategyToday names the last-resort fallback.
const StrategyToday = "today"

// EmailLayouts are the Date header shapes seen on Monzo alerts, most common
// first.
var EmailLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
}

// lenientFormats is handed to jinzhu/now. Only date-bearing formats are
// listed so a bare clock time never resolves to an arbitrary day.
var lenientFormats = []string{
	"2006-01-02",
	"2006-1-2",
	"2006-1-2 15:4:5",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006.01.02",
	"20060102",
	// Slashed dates are day-first (UK). 05/12/2024 is 5 December, not 12 May.
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/06",
	"2 January 2006",
	"2 Jan 2006",
	"2 Jan 06",
	"Monday, 2 January 2006",
	"Mon, 2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"Mon, 2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04",
	"2 Jan 2006 15:04",
	"Mon, 2 Jan 2006 15:04 -0700",
	"2 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 2006 15:04:05 -07:00",
	"2 Jan 2006 15:04:05 -07:00",
	"Mon, 2 Jan 06 15:04:05 -0700",
	"2 Jan 06 15:04:05 -0700",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	time.RubyDate,
}

// minYear bounds what the lenient parsers may return. jinzhu/now swaps a
// zero year for its reference year, and no mail predates it anyway.
const minYear = 1970

var (
	zoneComment = regexp.MustCompile(`\s*\([^()]*\)$`)
	errTooEarly = errors.New("date before 1970")
)

var errEmpty = errors.New("empty date")

// Strategy is one named step of the fallback chain.
type Strategy struct {
	Name  string
	Parse func(s string) (time.Time, error)
}

// Resolution reports how a date string was normalized.
type Resolution struct {
	Date     string
	Strategy string
	// Fallback is set when nothing parsed and the current date was used.
	// The original value is lost, so callers should surface it.
	Fallback bool
}

// Normalizer runs the strategy chain. It is safe for concurrent use.
type Normalizer struct {
	strategies []Strategy
	clock      func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the source of "today" for the final fallback.
func WithClock(clock func() time.Time) Option {
	return func(n *Normalizer) { n.clock = clock }
}

// WithStrategies replaces the default chain.
func WithStrategies(s []Strategy) Option {
	return func(n *Normalizer) { n.strategies = s }
}

// New returns a Normalizer using DefaultStrategies and the wall clock.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		strategies: DefaultStrategies(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// DefaultStrategies returns the exact email layouts followed by the lenient
// parser.
func DefaultStrategies() []Strategy {
	strategies := make([]Strategy, 0, len(EmailLayouts)+1)
	for _, layout := range EmailLayouts {
		strategies = append(strategies, Strategy{Name: layout, Parse: layoutParser(layout)})
	}
	return append(strategies, Strategy{Name: "lenient", Parse: parseLenient})
}

// Strategies returns the chain in the order it is tried.
func (n *Normalizer) Strategies() []Strategy {
	out := make([]Strategy, len(n.strategies))
	copy(out, n.strategies)
	return out
}

// Normalize returns the calendar date in s, or today's date if s cannot be
// parsed. It never fails.
func (n *Normalizer) Normalize(s string) string {
	return n.Resolve(s).Date
}

// Resolve is Normalize with the matching strategy reported.
func (n *Normalizer) Resolve(s string) Resolution {
	s = strings.TrimSpace(s)
	if s != "" {
		for _, st := range n.strategies {
			t, err := st.Parse(s)
			if err != nil {
				continue
			}
			return Resolution{Date: t.Format(Layout), Strategy: st.Name}
		}
	}
	return Resolution{
		Date:     n.clock().Format(Layout),
		Strategy: StrategyToday,
		Fallback: true,
	}
}

func layoutParser(layout string) func(string) (time.Time, error) {
	return func(s string) (time.Time, error) {
		return time.Parse(layout, s)
	}
}

// parseLenient tries the fixed lenient layouts through jinzhu/now, then
// dateparse for anything else. Trailing zone comments such as
// "(Coordinated Universal Time)" are dropped and runs of whitespace
// collapsed first. Results never depend on the wall clock.
func parseLenient(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(zoneComment.ReplaceAllString(s, "")), " ")
	if s == "" {
		return time.Time{}, errEmpty
	}

	t, err := parseFormats(s)
	if err != nil {
		t, err = parseAny(s)
	}
	if err != nil {
		return time.Time{}, err
	}
	if t.Year() < minYear {
		return time.Time{}, errTooEarly
	}
	return t, nil
}

// parseFormats pins jinzhu/now's reference time to the zero time so fields
// it fills in are never taken from today.
func parseFormats(s string) (time.Time, error) {
	ref := &now.Now{
		Time: time.Time{},
		Config: &now.Config{
			TimeLocation: time.UTC,
			TimeFormats:  lenientFormats,
		},
	}
	return ref.Parse(s)
}

// parseAny hands s to dateparse, day-first to match lenientFormats.
func parseAny(s string) (t time.Time, err error) {
	// dateparse can panic on some malformed input.
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, fmt.Errorf("parsing %q: %v", s, r)
		}
	}()
	return dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
}
