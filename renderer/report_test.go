package renderer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tkos/capgains"
)

func TestReportMarkdown_Empty(t *testing.T) {
	md := ReportMarkdown(capgains.NewReport("EUR"))
	if !strings.Contains(md, "# Capital Gains Report") {
		t.Errorf("missing title in:\n%s", md)
	}
	if strings.Contains(md, "## Disposals") {
		t.Errorf("empty report rendered a disposal table:\n%s", md)
	}
}

func TestReportMarkdown_Disposals(t *testing.T) {
	ledger, err := capgains.NewLedger(capgains.NewStaticRates(), "EUR", false)
	if err != nil {
		t.Fatal(err)
	}
	report := capgains.NewReport("EUR")
	trades := []capgains.Trade{
		{Symbol: "ACME", Date: capgains.NewDate(2023, time.June, 2), Side: capgains.Buy,
			Quantity: capgains.Q(10), Currency: "EUR",
			Amount: capgains.M(1000, "EUR"), Fee: capgains.M(0, "EUR")},
		{Symbol: "ACME", Date: capgains.NewDate(2023, time.July, 3), Side: capgains.Sell,
			Quantity: capgains.Q(10), Currency: "EUR",
			Amount: capgains.M(1250, "EUR"), Fee: capgains.M(0, "EUR")},
	}
	if err := ledger.AddTrades(context.Background(), report, trades); err != nil {
		t.Fatal(err)
	}

	md := ReportMarkdown(report)
	for _, want := range []string{"## Disposals", "ACME", "2023-06-02", "2023-07-03"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q in:\n%s", want, md)
		}
	}
}
