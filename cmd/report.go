package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tkos/capgains"
	"github.com/tkos/capgains/ibkr"
	"github.com/tkos/capgains/renderer"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	currency string
	deemed   bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "realized capital gains from activity statements" }
func (*reportCmd) Usage() string {
	return `cgt report [-currency <code>] [-deemed=<bool>] <statement.csv> [<statement.csv>...]

  Parses one or more activity statement CSV files and prints the realized
  capital gains report. Several files (e.g. consecutive years, or several
  accounts) share one ledger, so sells in a later file match buy lots
  opened in an earlier one.

`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "EUR", "Reporting currency of the output")
	f.BoolVar(&c.deemed, "deemed", true, "Apply the deemed acquisition cost when it is more favorable")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no statement file given")
		return subcommands.ExitUsageError
	}

	rates, err := openRates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rate storage: %v\n", err)
		return subcommands.ExitFailure
	}
	ledger, err := capgains.NewLedger(rates, c.currency, c.deemed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report := capgains.NewReport(c.currency)
	for _, name := range f.Args() {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening statement %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		trades, err := ibkr.Parse(file)
		file.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing statement %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		if err := ledger.AddTrades(ctx, report, trades); err != nil {
			fmt.Fprintf(os.Stderr, "Error computing gains for %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.ReportMarkdown(report))
	return subcommands.ExitSuccess
}
