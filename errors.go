package capgains

import (
	"errors"
	"fmt"
)

// ErrRateUnavailable is returned when no exchange rate record can be
// resolved within the lookback window.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrRemoteFetch is returned when the historical rate source is
// unreachable and no cached data can satisfy the request.
var ErrRemoteFetch = errors.New("exchange rate source unreachable")

// MalformedTradeError reports a trade row that is unparseable or
// logically inconsistent. Row identifies the offending input row so the
// caller can report it without aborting unrelated rows.
type MalformedTradeError struct {
	Row    string
	Reason string
}

func (e *MalformedTradeError) Error() string {
	return fmt.Sprintf("malformed trade %s: %s", e.Row, e.Reason)
}

// UncoveredSellError reports a sell whose quantity exceeds the total
// quantity held in open lots for that instrument, typically because buy
// history is missing from the supplied statements.
type UncoveredSellError struct {
	Symbol    string
	SellDate  Date
	Requested Quantity
	Available Quantity
}

func (e *UncoveredSellError) Error() string {
	return fmt.Sprintf("sell of %s %s on %s exceeds open lots (%s available)",
		e.Requested, e.Symbol, e.SellDate, e.Available)
}
