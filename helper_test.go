package capgains

import (
	"time"

	"github.com/shopspring/decimal"
)

// EUR is a helper for tests to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for tests to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

func day(y int, m time.Month, d int) Date { return NewDate(y, m, d) }

// record builds a RateRecord from currency/rate-string pairs.
func record(on Date, pairs ...string) RateRecord {
	r := RateRecord{Date: on, Rates: make(map[string]decimal.Decimal)}
	for i := 0; i < len(pairs); i += 2 {
		r.Rates[pairs[i]] = decimal.RequireFromString(pairs[i+1])
	}
	return r
}

// buyOf and sellOf build fee-less trades with a total native amount.
func buyOf(symbol string, on Date, qty float64, amount Money) Trade {
	return Trade{Symbol: symbol, Date: on, Side: Buy, Quantity: Q(qty),
		Currency: amount.Currency(), Amount: amount, Fee: M(0, amount.Currency())}
}

func sellOf(symbol string, on Date, qty float64, amount Money) Trade {
	return Trade{Symbol: symbol, Date: on, Side: Sell, Quantity: Q(qty),
		Currency: amount.Currency(), Amount: amount, Fee: M(0, amount.Currency())}
}
