package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	app struct {
		Version kong.VersionFlag `help:"Show version information"`
		cli.Commands
	}
)

func main() {
	ctx := kong.Parse(&app,
		cli.Vars(buildVersion()),
		kong.Name("bookkeeper"),
		kong.Description("Double-entry bookkeeping with budgets and scheduled transactions, stored in SQLite."),
		kong.UsageOnError(),
		kong.Bind(&app.Globals),
	)

	os.Exit(cli.Execute(ctx))
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
