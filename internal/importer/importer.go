package importer

import (
	"context"
	"fmt"

	"github.com/finance-dashboard/monzo-mail/internal/dates"
	"github.com/finance-dashboard/monzo-mail/internal/id"
	"github.com/finance-dashboard/monzo-mail/internal/logger"
	"github.com/finance-dashboard/monzo-mail/internal/model"
	"github.com/finance-dashboard/monzo-mail/internal/subject"
)

// Source supplies Monzo notification emails.
type Source interface {
	// Fetch returns at most max notifications. max <= 0 means no cap.
	Fetch(ctx context.Context, max int) ([]model.RawNotification, error)
	Name() string
}

// DateResolver normalizes a raw Date header.
type DateResolver interface {
	Resolve(s string) dates.Resolution
}

// Result is the outcome of one import.
type Result struct {
	Transactions []model.Transaction
	Fetched      int
	Parsed       int
	Skipped      int
	// Email IDs whose date could not be parsed and was replaced by today.
	DateFallbacks []string
	// Email IDs classified by the catch-all £ rule and assumed to be debits.
	FallbackDebits []string
}

// Process turns raw notifications into transactions sorted by date,
// newest first. Unusable subjects are counted in Skipped; nothing here fails.
func Process(raws []model.RawNotification, resolver DateResolver) Result {
	res := Result{Fetched: len(raws)}
	for _, raw := range raws {
		parsed := subject.Parse(raw.Subject)
		if !parsed.OK() {
			res.Skipped++
			continue
		}
		if parsed.Kind == subject.FallbackDebit {
			res.FallbackDebits = append(res.FallbackDebits, raw.ID)
		}

		date := resolver.Resolve(raw.Date)
		if date.Fallback {
			res.DateFallbacks = append(res.DateFallbacks, raw.ID)
		}

		res.Transactions = append(res.Transactions, model.Transaction{
			ID:          id.TransactionID(raw.ID),
			Date:        date.Date,
			Description: parsed.Description,
			Amount:      parsed.Amount,
			Source:      model.SourceMonzo,
			EmailID:     raw.ID,
		})
	}
	res.Parsed = len(res.Transactions)
	model.SortByDateDesc(res.Transactions)
	return res
}

// Run fetches from src and processes the result.
func Run(ctx context.Context, src Source, max int, resolver DateResolver) (Result, error) {
	log := logger.FromContext(ctx).With().Str("source", src.Name()).Logger()

	raws, err := src.Fetch(ctx, max)
	if err != nil {
		return Result{}, fmt.Errorf("fetching from %s: %w", src.Name(), err)
	}
	log.Debug().Int("fetched", len(raws)).Msg("fetched notifications")

	res := Process(raws, resolver)
	for _, emailID := range res.DateFallbacks {
		log.Warn().Str("email_id", emailID).Msg("unparseable date, using today")
	}
	for _, emailID := range res.FallbackDebits {
		log.Debug().Str("email_id", emailID).Msg("no card/received marker, assumed debit")
	}
	log.Info().
		Int("fetched", res.Fetched).
		Int("parsed", res.Parsed).
		Int("skipped", res.Skipped).
		Int("date_fallbacks", len(res.DateFallbacks)).
		Msg("import complete")
	return res, nil
}
