package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Ledger  LedgerCmd        `cmd:"" help:"Replay a PHH session and print per-stage pot ledgers"`
	Chips   ChipsCmd         `cmd:"" help:"Break an amount into a chip stack"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("potledger"),
		kong.Description("Per-stage pot, bet and rake ledgers for poker hand histories"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
