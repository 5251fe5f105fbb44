package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/engine"
	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/model"
)

// TxnCmd groups the transaction commands.
type TxnCmd struct {
	Add    TxnAddCmd    `cmd:"" help:"Record a transaction."`
	List   TxnListCmd   `cmd:"" help:"List the transactions of an account."`
	Delete TxnDeleteCmd `cmd:"" help:"Delete a transaction."`
	Toggle TxnToggleCmd `cmd:"" help:"Cycle the status of one split: unset, cleared, reconciled."`
}

// EntryFlags are the header fields shared by transactions and scheduled
// transactions.
type EntryFlags struct {
	Splits      []string `help:"Split as ACCOUNT=AMOUNT[@QUANTITY][:STATUS]; repeat for every leg." name:"split" short:"s" required:"" sep:"none" placeholder:"SPLIT"`
	Payee       string   `help:"Payee name; new payees are created." short:"p"`
	Description string   `help:"Transaction description." short:"d"`
	Type        string   `help:"Free-form transaction type, e.g. a check number."`
	Action      string   `help:"Action for security account splits: ${actions}."`
}

func (f EntryFlags) options() []model.Option {
	opts := []model.Option{model.WithDescription(f.Description), model.WithType(f.Type)}
	if f.Payee != "" {
		opts = append(opts, model.WithPayeeName(f.Payee))
	}
	return opts
}

type TxnAddCmd struct {
	EntryFlags

	Date string `help:"Transaction date (YYYY-MM-DD); defaults to today."`
}

func (cmd *TxnAddCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	date, err := parseDateOr(cmd.Date, s.Today())
	if err != nil {
		return err
	}
	splits, err := resolveSplits(s.ctx, s.Engine, cmd.Splits, model.TransactionAction(cmd.Action))
	if err != nil {
		return err
	}

	txn, err := model.NewTransaction(date, splits, cmd.options()...)
	if err != nil {
		return err
	}
	if err := s.SaveTransaction(s.ctx, txn); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Recorded transaction %d on %s", txn.ID, model.FormatDate(txn.Date)))
	return nil
}

type TxnListCmd struct {
	Account string `arg:"" help:"Account number or name."`
	Status  string `help:"Only splits with this status (C or R) in the account."`
	With    string `help:"Only transactions that also touch this account."`
	Search  string `help:"Only transactions whose payee or description contains this text." short:"q"`
	Reverse bool   `help:"Newest first." short:"r"`
}

func (cmd *TxnListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	account, err := s.FindAccount(s.ctx, cmd.Account)
	if err != nil {
		return err
	}

	q := engine.Query{Filter: ledger.Filter{Status: strings.ToUpper(cmd.Status), Query: cmd.Search}, Reverse: cmd.Reverse}
	if cmd.With != "" {
		other, err := s.FindAccount(s.ctx, cmd.With)
		if err != nil {
			return err
		}
		q.AccountID = other.ID
	}

	posted, err := s.Transactions(s.ctx, account, q)
	if err != nil {
		return err
	}

	t := newTable("ID", "Date", "Type", "Payee", "Description", "Categories", "Withdrawal", "Deposit", "Status", "Balance").
		alignRight(0, 6, 7, 9).
		style(9, s.styles.Amount)
	if account.Type == model.AccountTypeSecurity {
		t.headers[7] = "Deposit/Shares"
	}
	for _, p := range posted {
		d := p.Display(account)
		deposit := d.Deposit
		if account.Type == model.AccountTypeSecurity && d.Quantity != "" {
			deposit = fmt.Sprintf("%s (%s)", deposit, d.Quantity)
		}
		t.add(strconv.FormatInt(p.Transaction.ID, 10), d.Date, d.Type, d.Payee, d.Description, d.Categories,
			d.Withdrawal, deposit, d.Status, d.Balance)
	}
	t.render(ctx.Stdout)

	balances, err := s.CurrentBalances(s.ctx, account)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(ctx.Stdout, "\nCurrent balance: %s   Cleared: %s\n",
		s.styles.Amount(model.FormatAmount(balances.Current)),
		s.styles.Amount(model.FormatAmount(balances.CurrentCleared)))
	return nil
}

type TxnDeleteCmd struct {
	ID int64 `arg:"" help:"Transaction id."`
}

func (cmd *TxnDeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteTransaction(s.ctx, cmd.ID); err != nil {
		return err
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted transaction %d", cmd.ID))
	return nil
}

type TxnToggleCmd struct {
	ID      int64  `arg:"" help:"Transaction id."`
	Account string `arg:"" help:"Account number or name of the split."`
}

func (cmd *TxnToggleCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	account, err := s.FindAccount(s.ctx, cmd.Account)
	if err != nil {
		return err
	}
	txn, err := s.ToggleSplitStatus(s.ctx, cmd.ID, account.ID)
	if err != nil {
		return err
	}

	split, _ := txn.Split(account.ID)
	status := split.Status
	if status == "" {
		status = "unset"
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Split status of %s in transaction %d is now %s", account, txn.ID, status))
	return nil
}
