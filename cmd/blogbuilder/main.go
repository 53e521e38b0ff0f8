package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/kalkulator/blogbuilder/cmd/blogbuilder/commands"
	ferrors "github.com/kalkulator/blogbuilder/internal/foundation/errors"
	"github.com/kalkulator/blogbuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogbuilder"),
		kong.Description("Blog post generator and build-time indexer for the calculator site."),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		panic(err)
	}

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage errors exit 1 like every other failure.
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	if err := kctx.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
