package capgains

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/tkos/capgains/ratestore"
)

// BaseCurrency is the base of the published cross-rate table. The ECB
// publishes euro reference rates, so every stored rate is EUR→X.
const BaseCurrency = "EUR"

// MaxLookbackDays bounds the fallback to a prior date when no rate is
// published for the requested one (weekends, bank holidays).
const MaxLookbackDays = 7

// RateRecord is one calendar date's cross-rate table against the euro.
// At most one record exists per date; once published it never changes.
type RateRecord struct {
	Date  Date
	Rates map[string]decimal.Decimal // currency code -> EUR→code rate
}

// Rates answers historical exchange-rate queries from the ECB euro
// reference table. Records are resolved from an in-process table first,
// then from the configured store, and finally by downloading the full
// historical archive once per Rates instance. Safe for concurrent use.
type Rates struct {
	store  ratestore.Store
	url    string
	client *http.Client

	mu      sync.Mutex
	table   map[string]RateRecord // keyed by ISO date
	fetched bool                  // archive already downloaded by this instance
}

// NewRates returns a rate resolver backed by the given store. An empty
// url selects the official ECB historical archive.
func NewRates(store ratestore.Store, url string) *Rates {
	if url == "" {
		url = DefaultRatesURL
	}
	return &Rates{
		store:  store,
		url:    url,
		client: http.DefaultClient,
		table:  make(map[string]RateRecord),
	}
}

// NewStaticRates returns a resolver answering from the given records
// only, with no store and no remote fetch. Useful for offline runs and
// tests.
func NewStaticRates(records ...RateRecord) *Rates {
	r := &Rates{
		store:   ratestore.Disabled{},
		url:     DefaultRatesURL,
		client:  http.DefaultClient,
		table:   make(map[string]RateRecord, len(records)),
		fetched: true,
	}
	for _, rec := range records {
		r.table[rec.Date.String()] = rec
	}
	return r
}

// GetRate returns the multiplicative factor converting one unit of from
// into to on the given date. Identity conversions return 1 without any
// lookup. When no rate is published for the exact date, the most recent
// prior date within MaxLookbackDays is used.
//
// Errors wrap ErrRateUnavailable when no record resolves within the
// lookback window, and ErrRemoteFetch when the archive download fails
// with nothing cached to fall back on.
func (r *Rates) GetRate(ctx context.Context, from, to string, on Date) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if from == to {
		return one, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i <= MaxLookbackDays; i++ {
		day := on.Add(-i)
		rec, ok, err := r.record(ctx, day)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if !ok {
			continue
		}
		fromRate, ok := baseRate(rec, from)
		if !ok {
			continue
		}
		toRate, ok := baseRate(rec, to)
		if !ok {
			continue
		}
		// The table stores EUR→X, so from→to = (EUR→to) / (EUR→from).
		return toRate.Div(fromRate), nil
	}
	return decimal.Decimal{}, fmt.Errorf("no %s/%s rate within %d days before %s: %w",
		from, to, MaxLookbackDays, on, ErrRateUnavailable)
}

// baseRate returns the EUR→currency rate from a record.
func baseRate(rec RateRecord, currency string) (decimal.Decimal, bool) {
	if currency == BaseCurrency {
		return decimal.NewFromInt(1), true
	}
	rate, ok := rec.Rates[currency]
	return rate, ok
}

// record resolves the rate record for one date: in-process table, then
// store, then a one-time download of the full archive. The caller holds
// r.mu, which serializes the download so concurrent queries never fetch
// the archive twice.
func (r *Rates) record(ctx context.Context, day Date) (RateRecord, bool, error) {
	key := day.String()
	if rec, ok := r.table[key]; ok {
		return rec, true, nil
	}

	stored, ok, err := r.store.Get(ctx, key)
	if err != nil {
		// A broken cache must not fail the computation.
		log.Warn().Err(err).Str("date", key).Msg("rate store read failed")
	} else if ok {
		rec, err := decodeRecord(day, stored)
		if err != nil {
			return RateRecord{}, false, fmt.Errorf("corrupt rate record for %s: %w", key, err)
		}
		r.table[key] = rec
		return rec, true, nil
	}

	if r.fetched {
		return RateRecord{}, false, nil
	}
	if err := r.fill(ctx); err != nil {
		return RateRecord{}, false, err
	}
	rec, ok := r.table[key]
	return rec, ok, nil
}

// fill downloads the historical archive, merges it into the table, and
// publishes every record to the store before any query is answered.
func (r *Rates) fill(ctx context.Context) error {
	records, err := fetchRateHistory(ctx, r.client, r.url)
	if err != nil {
		return err
	}
	for key, rec := range records {
		if _, ok := r.table[key]; ok {
			continue // historical rates do not change retroactively
		}
		r.table[key] = rec
		if err := r.store.Put(ctx, key, encodeRecord(rec)); err != nil {
			log.Warn().Err(err).Str("date", key).Msg("rate store write failed")
		}
	}
	r.fetched = true
	log.Info().Int("records", len(records)).Str("url", r.url).Msg("exchange rate table loaded")
	return nil
}

// Refresh downloads the archive immediately and publishes new records to
// the store. It is used by the scheduled cache refresh job.
func (r *Rates) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetched = false
	return r.fill(ctx)
}

// decodeRecord parses a stored currency→rate-string mapping.
func decodeRecord(day Date, stored ratestore.Record) (RateRecord, error) {
	rec := RateRecord{Date: day, Rates: make(map[string]decimal.Decimal, len(stored))}
	for currency, value := range stored {
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return RateRecord{}, fmt.Errorf("rate %s=%q: %w", currency, value, err)
		}
		rec.Rates[currency] = rate
	}
	return rec, nil
}

// encodeRecord renders a record as the currency→rate-string mapping the
// store persists.
func encodeRecord(rec RateRecord) ratestore.Record {
	stored := make(ratestore.Record, len(rec.Rates))
	for currency, rate := range rec.Rates {
		stored[currency] = rate.String()
	}
	return stored
}
