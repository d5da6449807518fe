// Package cmd implements the CLI application to compute capital gains
// reports from brokerage statements.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tkos/capgains"
	"github.com/tkos/capgains/ratestore"
)

// Register the subcommands.
// A main package calls Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&ratesCmd{}, "rates")
	c.Register(&cronCmd{}, "rates")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storageFlag  = flag.String("storage", "", "Rate cache backend (disabled, local, aws, gcp).\n If missing it will read the environment variable STORAGE_TYPE; defaults to local.")
	storageDir   = flag.String("storage-dir", "", "Directory for the local rate cache backend.\n If missing it will read the environment variable STORAGE_DIR; defaults to .rates.")
	bucketFlag   = flag.String("bucket", "", "Bucket for the aws and gcp rate cache backends.\n If missing it will read the environment variable BUCKET_ID.")
	ratesURLFlag = flag.String("rates-url", "", "Override the historical exchange rate archive URL.\n If missing it will read the environment variable EXCHANGE_RATES_URL.")
	logLevelFlag = flag.String("log-level", "", "Logging level (debug, info, warn, error).\n If missing it will read the environment variable LOGGING_LEVEL; defaults to info.")
)

// flagOr resolves a flag with its environment variable fallback.
func flagOr(flagValue *string, env, fallback string) string {
	if *flagValue != "" {
		return *flagValue
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}

// SetupLogging configures the global zerolog logger for console output.
func SetupLogging() {
	level, err := zerolog.ParseLevel(strings.ToLower(flagOr(logLevelFlag, "LOGGING_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

// openRates builds the rate resolver from the storage flags.
func openRates(ctx context.Context) (*capgains.Rates, error) {
	kind, err := ratestore.ParseKind(flagOr(storageFlag, "STORAGE_TYPE", "local"))
	if err != nil {
		return nil, err
	}
	location := flagOr(storageDir, "STORAGE_DIR", ".rates")
	if kind == ratestore.KindAWS || kind == ratestore.KindGCP {
		location = flagOr(bucketFlag, "BUCKET_ID", "")
	}
	store, err := ratestore.Open(ctx, ratestore.Config{Kind: kind, Location: location})
	if err != nil {
		return nil, err
	}
	return capgains.NewRates(store, flagOr(ratesURLFlag, "EXCHANGE_RATES_URL", "")), nil
}

// printMarkdown renders markdown to the terminal, falling back to the
// raw text when the terminal renderer is unavailable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
