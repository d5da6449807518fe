package capgains

import (
	"errors"
	"testing"
	"time"
)

func TestTrade_Validate(t *testing.T) {
	valid := buyOf("ACME", day(2023, time.June, 2), 10, EUR(100))
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v on a valid trade", err)
	}

	tests := []struct {
		name   string
		mutate func(*Trade)
	}{
		{"missing symbol", func(tr *Trade) { tr.Symbol = "" }},
		{"missing date", func(tr *Trade) { tr.Date = Date{} }},
		{"missing currency", func(tr *Trade) { tr.Currency = "" }},
		{"zero quantity", func(tr *Trade) { tr.Quantity = Q(0) }},
		{"negative quantity", func(tr *Trade) { tr.Quantity = Q(-1) }},
		{"negative amount", func(tr *Trade) { tr.Amount = EUR(-1) }},
		{"negative fee", func(tr *Trade) { tr.Fee = EUR(-1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := valid
			tr.Row = "row 7"
			tc.mutate(&tr)
			err := tr.Validate()
			var malformed *MalformedTradeError
			if !errors.As(err, &malformed) {
				t.Fatalf("Validate() = %v, want MalformedTradeError", err)
			}
			if malformed.Row != "row 7" {
				t.Errorf("error row = %q, want %q", malformed.Row, "row 7")
			}
		})
	}
}

func TestSortTrades(t *testing.T) {
	d1 := day(2023, time.January, 1)
	d2 := day(2023, time.January, 2)
	trades := []Trade{
		sellOf("ACME", d2, 1, EUR(1)),
		buyOf("NOVA", d2, 1, EUR(1)),
		buyOf("ACME", d2, 1, EUR(1)),
		sellOf("ACME", d1, 1, EUR(1)),
	}
	sortTrades(trades)

	// Chronological, same-day buys first, insertion order among equals.
	if trades[0].Date != d1 {
		t.Errorf("trades[0].Date = %s, want %s", trades[0].Date, d1)
	}
	if trades[1].Side != Buy || trades[1].Symbol != "NOVA" {
		t.Errorf("trades[1] = %s %s, want buy NOVA first among same-day buys", trades[1].Side, trades[1].Symbol)
	}
	if trades[2].Side != Buy || trades[2].Symbol != "ACME" {
		t.Errorf("trades[2] = %s %s, want buy ACME", trades[2].Side, trades[2].Symbol)
	}
	if trades[3].Side != Sell {
		t.Errorf("trades[3].Side = %s, want sell last", trades[3].Side)
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide("buy"); err != nil || s != Buy {
		t.Errorf("ParseSide(buy) = %v, %v", s, err)
	}
	if s, err := ParseSide("sell"); err != nil || s != Sell {
		t.Errorf("ParseSide(sell) = %v, %v", s, err)
	}
	if _, err := ParseSide("short"); err == nil {
		t.Error("ParseSide accepted an unknown side")
	}
}
