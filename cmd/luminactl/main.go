package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"lumina/internal/cli"
	"lumina/internal/commands"
	"lumina/internal/log"
)

var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal.")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	flag.Parse()

	cli.LoadEnvFile()
	// Command output goes to stdout; keep stderr quiet unless asked.
	if os.Getenv("LOG_LEVEL") == "" {
		_ = os.Setenv("LOG_LEVEL", "warn")
	}
	cfg, logger := cli.LoadAndValidateConfig(os.Stderr)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	res := cli.InitStore(ctx, logger, cfg)
	fin, err := cli.OpenFinance(ctx, logger, cfg, res)
	if err != nil {
		logger.Error("Failed to load data", log.FieldError, err)
		cli.Cleanup(logger, res)
		os.Exit(1)
	}

	commands.Register(commander, commands.NewApp(fin, logger, *plain))
	status := commander.Execute(log.NewContext(ctx, logger.WithComponent(log.ComponentCLI)))

	cli.Cleanup(logger, res)
	stop()
	os.Exit(int(status))
}
