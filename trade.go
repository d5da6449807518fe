package capgains

import (
	"fmt"
	"sort"
)

// Side distinguishes buy executions from sell executions.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide parses a string into a Side.
func ParseSide(str string) (Side, error) {
	switch str {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown trade side: %q", str)
	}
}

// Trade is one parsed execution row from a brokerage statement. It is
// immutable once parsed.
//
// Amount is the total gross value of the execution in the trade's native
// currency: what the buyer paid before fees, or what the seller received
// before fees. Fee is the commission charged on the execution, also in
// the native currency. Quantity is always positive; the direction is
// carried by Side.
type Trade struct {
	Symbol   string
	Date     Date
	Side     Side
	Quantity Quantity
	Currency string
	Amount   Money
	Fee      Money
	Row      string // source row identifier, for error context
}

// Validate reports the first logical inconsistency in the trade, or nil.
func (t Trade) Validate() error {
	switch {
	case t.Symbol == "":
		return &MalformedTradeError{Row: t.Row, Reason: "missing symbol"}
	case t.Date.IsZero():
		return &MalformedTradeError{Row: t.Row, Reason: "missing trade date"}
	case t.Currency == "":
		return &MalformedTradeError{Row: t.Row, Reason: "missing currency"}
	case !t.Quantity.IsPositive():
		return &MalformedTradeError{Row: t.Row, Reason: fmt.Sprintf("non-positive quantity %s", t.Quantity)}
	case t.Amount.IsNegative():
		return &MalformedTradeError{Row: t.Row, Reason: fmt.Sprintf("negative amount %s", t.Amount.Amount())}
	case t.Fee.IsNegative():
		return &MalformedTradeError{Row: t.Row, Reason: fmt.Sprintf("negative fee %s", t.Fee.Amount())}
	}
	return nil
}

// sortTrades orders trades chronologically. Same-day buys sort before
// same-day sells so that a buy on the morning of a sale still provides
// basis for it; ties otherwise preserve input order.
func sortTrades(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].Date != trades[j].Date {
			return trades[i].Date.Before(trades[j].Date)
		}
		return trades[i].Side == Buy && trades[j].Side == Sell
	})
}
