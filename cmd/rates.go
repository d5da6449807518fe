package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// ratesCmd refreshes the exchange rate cache once.
type ratesCmd struct{}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "download exchange rates into the configured cache" }
func (*ratesCmd) Usage() string {
	return `cgt rates

  Downloads the historical exchange rate archive and stores one record
  per published date in the configured storage backend, so later report
  runs are served from the cache.

`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {}

func (c *ratesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rates, err := openRates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rate storage: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := rates.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing rates: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
