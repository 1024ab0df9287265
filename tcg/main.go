// Command tcg tracks the value of a trading card collection.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/tcgtracker/cmd"
	"github.com/google/subcommands"
)

func main() {
	// handles COMP_LINE and COMP_INSTALL, exits when completing.
	cmd.Completion().Complete("tcg")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	if name := flag.Arg(0); name != "" && !cmd.Known(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}

	ctx := cmd.Context(context.Background())
	os.Exit(int(commander.Execute(ctx)))
}
