// Package renderer renders computed reports to markdown strings.
package renderer

import (
	"fmt"
	"strings"

	"github.com/tkos/capgains"
)

// ReportMarkdown renders the report totals and the per-disposal detail
// table to a markdown string.
func ReportMarkdown(r *capgains.Report) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Capital Gains Report\n\n")
	fmt.Fprintln(&b, "| Total Sell Proceeds | Capital Gains | Capital Losses | Net |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n",
		r.Prices, r.Gains, r.Losses, r.Net().SignedString())

	if r.Len() == 0 {
		return b.String()
	}

	fmt.Fprint(&b, "## Disposals\n\n")
	fmt.Fprintln(&b, "| Symbol | Quantity | Buy Date | Sell Date | Proceeds | Cost Basis | Realized |")
	fmt.Fprintln(&b, "|:---|---:|:---|:---|---:|---:|---:|")
	for m := range r.Details() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			m.Symbol,
			m.Quantity,
			m.BuyDate,
			m.SellDate,
			m.Proceeds,
			m.CostBasis,
			m.Realized.SignedString(),
		)
	}
	return b.String()
}
