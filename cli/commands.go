package cli

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/config"
	"github.com/robinvdvleuten/bookkeeper/model"
)

// Globals defines global flags available to all commands.
type Globals struct {
	DB        string `help:"SQLite database file (overrides config and ${env_db})." type:"path"`
	Config    string `help:"YAML configuration file." type:"existingfile"`
	LogLevel  string `help:"Log level: debug, info, warn or error." name:"log-level"`
	AsOf      string `help:"Treat this date (YYYY-MM-DD) as today." name:"as-of"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Accounts  AccountsCmd  `cmd:"" help:"Manage the chart of accounts."`
	Txn       TxnCmd       `cmd:"" help:"Record and list transactions."`
	Scheduled ScheduledCmd `cmd:"" help:"Manage scheduled transactions."`
	Budget    BudgetCmd    `cmd:"" help:"Manage budgets and show budget reports."`
	Payees    PayeesCmd    `cmd:"" help:"List payees."`
	Export    ExportCmd    `cmd:"" help:"Export accounts, ledgers and budgets as TSV files."`
}

// Vars returns the interpolation variables the command help refers to.
func Vars(version string) kong.Vars {
	return kong.Vars{
		"version": version,
		"env_db":  config.EnvDB,
		"actions": actionNames(),
	}
}

func actionNames() string {
	var names []string
	for _, a := range model.TransactionActions {
		if a != model.ActionNone {
			names = append(names, string(a))
		}
	}
	return strings.Join(names, ", ")
}
