package capgains

import (
	"context"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Deemed acquisition cost percentages of the selling price, per holding
// duration. See https://www.vero.fi/en/individuals/property/investments/selling-shares/
var (
	deemedCostShort = decimal.RequireFromString("0.2") // held less than ten years
	deemedCostLong  = decimal.RequireFromString("0.4") // held ten years or more
)

// Ledger consumes trades in chronological order and matches each sell
// against the open buy lots of its instrument, earliest lot first. Lot
// queues persist across AddTrades calls, so statements from several
// files or accounts continue matching against lots opened earlier.
//
// Matching within an instrument is inherently sequential; a Ledger must
// not be used from multiple goroutines at once.
type Ledger struct {
	rates             *Rates
	reportingCurrency string
	deemedCost        bool
	queues            map[string]*lotQueue
}

// NewLedger creates a ledger reporting in the given currency. When
// deemedCost is set, each matched portion uses the deemed acquisition
// cost instead of the actual cost whenever it is larger.
func NewLedger(rates *Rates, reportingCurrency string, deemedCost bool) (*Ledger, error) {
	if money.GetCurrency(reportingCurrency) == nil {
		return nil, fmt.Errorf("unknown reporting currency %q", reportingCurrency)
	}
	return &Ledger{
		rates:             rates,
		reportingCurrency: reportingCurrency,
		deemedCost:        deemedCost,
		queues:            make(map[string]*lotQueue),
	}, nil
}

// AddTrades validates the trades, orders them chronologically (stable;
// same-day buys before sells), and feeds them through the matcher,
// appending realized results to agg.
//
// Validation happens before any matching, so a malformed row leaves the
// ledger and the report untouched. A conversion failure or an uncovered
// sell mid-batch aborts the call; the ledger and report must then be
// discarded as a whole.
func (l *Ledger) AddTrades(ctx context.Context, agg *Report, trades []Trade) error {
	for _, t := range trades {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sortTrades(sorted)

	for _, t := range sorted {
		var err error
		switch t.Side {
		case Buy:
			err = l.buy(ctx, t)
		case Sell:
			err = l.sell(ctx, agg, t)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// OpenQuantity returns the unconsumed quantity held for a symbol.
func (l *Ledger) OpenQuantity(symbol string) Quantity {
	q, ok := l.queues[symbol]
	if !ok {
		return Quantity{}
	}
	return q.available()
}

func (l *Ledger) queue(symbol string) *lotQueue {
	q, ok := l.queues[symbol]
	if !ok {
		q = &lotQueue{}
		l.queues[symbol] = q
	}
	return q
}

// buy converts the acquisition cost to the reporting currency once, at
// lot creation, and pushes the lot at the back of the instrument queue.
func (l *Ledger) buy(ctx context.Context, t Trade) error {
	rate, err := l.rates.GetRate(ctx, t.Currency, l.reportingCurrency, t.Date)
	if err != nil {
		return fmt.Errorf("buy %s on %s: %w", t.Symbol, t.Date, err)
	}
	native := t.Amount.Add(t.Fee)
	l.queue(t.Symbol).push(lot{
		Date:       t.Date,
		Quantity:   t.Quantity,
		Cost:       native.Convert(l.reportingCurrency, rate),
		NativeCost: native,
	})
	return nil
}

// sell consumes lots from the front of the queue until the quantity is
// fully matched, emitting one MatchResult per portion. The final portion
// takes the remaining proceeds exactly, so the portions sum to the
// sell's total proceeds with nothing lost to rounding.
func (l *Ledger) sell(ctx context.Context, agg *Report, t Trade) error {
	queue := l.queue(t.Symbol)
	if available := queue.available(); t.Quantity.GreaterThan(available) {
		return &UncoveredSellError{
			Symbol:    t.Symbol,
			SellDate:  t.Date,
			Requested: t.Quantity,
			Available: available,
		}
	}

	rate, err := l.rates.GetRate(ctx, t.Currency, l.reportingCurrency, t.Date)
	if err != nil {
		return fmt.Errorf("sell %s on %s: %w", t.Symbol, t.Date, err)
	}
	proceeds := t.Amount.Sub(t.Fee).Convert(l.reportingCurrency, rate)

	remaining := t.Quantity
	for remaining.IsPositive() {
		taken, buyDate, basis := queue.consume(remaining)

		var portion Money
		if taken.Equal(remaining) {
			portion = proceeds
		} else {
			portion = proceeds.Mul(taken).Div(remaining)
		}
		proceeds = proceeds.Sub(portion)
		remaining = remaining.Sub(taken)

		if l.deemedCost {
			basis = basis.Max(deemedCost(portion, buyDate, t.Date))
		}
		agg.add(MatchResult{
			Symbol:    t.Symbol,
			Quantity:  taken,
			BuyDate:   buyDate,
			SellDate:  t.Date,
			Proceeds:  portion,
			CostBasis: basis,
			Realized:  portion.Sub(basis),
		})
	}
	return nil
}

// deemedCost is the alternative basis: a fixed share of the portion's
// selling price, higher once the holding spans at least ten years.
func deemedCost(proceeds Money, buyDate, sellDate Date) Money {
	pct := deemedCostShort
	if !buyDate.After(sellDate.AddYears(-10)) {
		pct = deemedCostLong
	}
	return proceeds.MulDec(pct)
}
