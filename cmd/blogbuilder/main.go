package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/cmd/blogbuilder/commands"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli,
		kong.Name("blogbuilder"),
		kong.Description("Generate a static blog from Markdown sections."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	global := &commands.Global{}
	if err := ctx.Run(global, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, nil)
		os.Exit(adapter.Report(os.Stderr, err))
	}
}
