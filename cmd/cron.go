package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// cronCmd keeps the exchange rate cache warm on a schedule.
type cronCmd struct {
	schedule string
}

func (*cronCmd) Name() string     { return "cron" }
func (*cronCmd) Synopsis() string { return "periodically refresh the exchange rate cache" }
func (*cronCmd) Usage() string {
	return `cgt cron [-schedule <spec>]

  Runs until interrupted, refreshing the exchange rate cache on the given
  cron schedule. The ECB publishes reference rates every working day
  around 16:00 CET, so the default refreshes daily in the evening.

`
}

func (c *cronCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "0 18 * * *", "Cron schedule for the refresh")
}

func (c *cronCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rates, err := openRates(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening rate storage: %v\n", err)
		return subcommands.ExitFailure
	}

	refresh := func() {
		if err := rates.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("rate refresh failed")
		}
	}
	refresh() // warm the cache immediately, then follow the schedule

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(c.schedule, refresh); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", c.schedule, err)
		return subcommands.ExitUsageError
	}
	scheduler.Start()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	<-ctx.Done()
	return subcommands.ExitSuccess
}
