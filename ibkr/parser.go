// Package ibkr parses Interactive Brokers activity-statement CSV exports
// into trade records.
//
// An activity statement interleaves many sections; only the "Trades"
// section rows of asset categories Stocks and Equity and Index Options
// are relevant here. Both the single-account and the multi-account
// layout (one extra Account column) are recognized. The Proceeds and
// Comm/Fee columns carry execution totals, so the 100-share options
// contract multiplier is already folded in.
package ibkr

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/tkos/capgains"
)

// Column indices of the single-account layout.
const (
	fieldTrades = iota
	fieldHeader
	fieldDataDiscriminator
	fieldAssetCategory
	fieldCurrency
	fieldSymbol
	fieldDateTime
	fieldExchange
	fieldQuantity
	fieldTransactionPrice
	fieldProceeds
	fieldCommissionAndFees
	fieldBasis
	fieldRealizedPL
	fieldCode
)

var (
	headerSingle = strings.Split("Trades,Header,DataDiscriminator,Asset Category,Currency,Symbol,Date/Time,Exchange,Quantity,T. Price,Proceeds,Comm/Fee,Basis,Realized P/L,Code", ",")
	headerMulti  = strings.Split("Trades,Header,DataDiscriminator,Asset Category,Currency,Account,Symbol,Date/Time,Exchange,Quantity,T. Price,Proceeds,Comm/Fee,Basis,Realized P/L,Code", ",")
)

// numericJunkRE strips thousands separators and stray spaces.
var numericJunkRE = regexp.MustCompile(`[,\s]+`)

// Parse reads an activity statement and returns its stock and option
// executions in file order. Rows from sections other than Trades are
// ignored; a malformed row inside the Trades section is an error.
func Parse(r io.Reader) ([]capgains.Trade, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // sections have differing widths
	reader.LazyQuotes = true

	var (
		trades []capgains.Trade
		offset = -1 // column offset; -1 until a Trades header was seen
		line   int
	)
	for {
		items, err := reader.Read()
		if err == io.EOF {
			return trades, nil
		}
		if err != nil {
			return nil, fmt.Errorf("ibkr statement: %w", err)
		}
		line++
		for _, item := range items {
			if !utf8.ValidString(item) {
				return nil, fmt.Errorf("ibkr statement: input not in UTF-8 text format (line %d)", line)
			}
		}

		if o, ok := headerOffset(items); ok {
			offset = o
			continue
		}
		if offset < 0 || !isTradeRow(items, offset) {
			continue
		}
		t, err := parseTrade(items, offset, line)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
}

// headerOffset recognizes the Trades section header and returns the
// column offset of the layout it announces.
func headerOffset(items []string) (int, bool) {
	if equal(items, headerSingle) {
		return 0, true
	}
	if equal(items, headerMulti) {
		return len(headerMulti) - len(headerSingle), true
	}
	return 0, false
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isTradeRow checks for an executed stock or options trade data row.
// ClosedLot rows are intentionally not consumed: matching sells against
// lots is done here, not delegated to the broker's own pairing.
func isTradeRow(items []string, offset int) bool {
	return len(items) == len(headerSingle)+offset &&
		items[fieldTrades] == "Trades" &&
		items[fieldHeader] == "Data" &&
		items[fieldDataDiscriminator] == "Trade" &&
		(items[fieldAssetCategory] == "Stocks" ||
			items[fieldAssetCategory] == "Equity and Index Options")
}

func parseTrade(items []string, offset, line int) (capgains.Trade, error) {
	row := fmt.Sprintf("line %d (%s)", line, items[fieldSymbol+offset])
	fail := func(reason string) (capgains.Trade, error) {
		return capgains.Trade{}, &capgains.MalformedTradeError{Row: row, Reason: reason}
	}

	date, err := capgains.ParseDate(items[fieldDateTime+offset])
	if err != nil {
		return fail(err.Error())
	}
	quantity, err := cleanDecimal(items[fieldQuantity+offset])
	if err != nil {
		return fail(fmt.Sprintf("quantity: %v", err))
	}
	proceeds, err := cleanDecimal(items[fieldProceeds+offset])
	if err != nil {
		return fail(fmt.Sprintf("proceeds: %v", err))
	}
	fee, err := cleanDecimal(items[fieldCommissionAndFees+offset])
	if err != nil {
		return fail(fmt.Sprintf("commission: %v", err))
	}

	// Sold positions have a negative Quantity; buys a negative Proceeds.
	// Commissions are always reported as a charge (negative).
	side := capgains.Buy
	if quantity.IsNegative() {
		side = capgains.Sell
	}
	currency := items[fieldCurrency]
	t := capgains.Trade{
		Symbol:   items[fieldSymbol+offset],
		Date:     date,
		Side:     side,
		Quantity: capgains.Q(quantity.Abs()),
		Currency: currency,
		Amount:   capgains.M(proceeds.Abs(), currency),
		Fee:      capgains.M(fee.Abs(), currency),
		Row:      row,
	}
	if err := t.Validate(); err != nil {
		return capgains.Trade{}, err
	}
	return t, nil
}

// cleanDecimal converts a statement numeric, tolerating thousands
// separators and spaces ("1,234.5").
func cleanDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(numericJunkRE.ReplaceAllString(s, ""))
}
