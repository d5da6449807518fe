package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/tkos/capgains/cmd"
)

func main() {
	godotenv.Load() // optional .env, flags and real env win

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLogging()
	os.Exit(int(commander.Execute(context.Background())))
}
