package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// AccountsCmd groups the chart of accounts commands.
type AccountsCmd struct {
	List   AccountsListCmd   `cmd:"" default:"withargs" help:"List accounts with their current balances."`
	Add    AccountsAddCmd    `cmd:"" help:"Add an account."`
	Delete AccountsDeleteCmd `cmd:"" help:"Delete an account."`
}

type AccountsListCmd struct {
	Types []string `help:"Only list accounts of these types." name:"type" short:"t" enum:"asset,security,liability,equity,income,expense" placeholder:"TYPE"`
}

func (cmd *AccountsListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	types := make([]model.AccountType, 0, len(cmd.Types))
	for _, name := range cmd.Types {
		typ, err := model.ParseAccountType(name)
		if err != nil {
			return err
		}
		types = append(types, typ)
	}

	accounts, err := s.Accounts(s.ctx, types...)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		printInfof(ctx.Stdout, "No accounts")
		return nil
	}

	t := newTable("Type", "Number", "Name", "Balance", "Cleared").
		alignRight(3, 4).
		style(2, s.styles.Account).
		style(3, s.styles.Amount)
	for _, a := range accounts {
		balances, err := s.CurrentBalances(s.ctx, a)
		if err != nil {
			return err
		}
		t.add(a.Type.String(), a.Number, strings.Repeat("  ", a.ChildLevel)+a.Name,
			model.FormatAmount(balances.Current), model.FormatAmount(balances.CurrentCleared))
	}
	t.render(ctx.Stdout)
	return nil
}

type AccountsAddCmd struct {
	Name        string `arg:"" help:"Account name."`
	Type        string `help:"Account type." short:"t" required:"" enum:"asset,security,liability,equity,income,expense"`
	Number      string `help:"Account number." short:"n"`
	Parent      string `help:"Parent account number or name." short:"p"`
	Commodity   string `help:"Commodity code the account is held in." default:"USD"`
	Description string `help:"Free-form description." short:"d"`
}

func (cmd *AccountsAddCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	typ, err := model.ParseAccountType(cmd.Type)
	if err != nil {
		return err
	}
	commodity, err := s.CommodityByCode(s.ctx, cmd.Commodity)
	if err != nil {
		return err
	}

	opts := []model.AccountOption{
		model.WithNumber(cmd.Number),
		model.WithCommodity(commodity),
		model.WithAccountDescription(cmd.Description),
	}
	if cmd.Parent != "" {
		parent, err := s.FindAccount(s.ctx, cmd.Parent)
		if err != nil {
			return err
		}
		opts = append(opts, model.WithParentID(parent.ID))
	}

	a, err := model.NewAccount(typ, cmd.Name, opts...)
	if err != nil {
		return err
	}
	if err := s.SaveAccount(s.ctx, a); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Added account %s (id %d)", s.styles.Account(a.String()), a.ID))
	return nil
}

type AccountsDeleteCmd struct {
	Account  string `arg:"" help:"Account number or name."`
	Reparent bool   `help:"Move child accounts to the top level instead of refusing."`
	Yes      bool   `help:"Don't ask for confirmation." short:"y"`
}

func (cmd *AccountsDeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	a, err := s.FindAccount(s.ctx, cmd.Account)
	if err != nil {
		return err
	}

	if !cmd.Yes {
		ok, err := promptYesNo(fmt.Sprintf("Delete account %s?", a))
		if err != nil {
			return err
		}
		if !ok {
			printInfof(ctx.Stderr, "Not deleted; pass --yes to delete without asking")
			return NewCommandError(1)
		}
	}

	if err := s.DeleteAccount(s.ctx, a.ID, cmd.Reparent); err != nil {
		return err
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted account %s", s.styles.Account(a.String())))
	return nil
}
