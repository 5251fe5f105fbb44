package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// ScheduledCmd groups the scheduled transaction commands.
type ScheduledCmd struct {
	List   ScheduledListCmd   `cmd:"" default:"withargs" help:"List scheduled transactions."`
	Add    ScheduledAddCmd    `cmd:"" help:"Add a scheduled transaction."`
	Due    ScheduledDueCmd    `cmd:"" help:"List scheduled transactions that are due."`
	Enter  ScheduledEnterCmd  `cmd:"" help:"Record a due scheduled transaction and advance it."`
	Skip   ScheduledSkipCmd   `cmd:"" help:"Advance a scheduled transaction without recording it."`
	Delete ScheduledDeleteCmd `cmd:"" help:"Delete a scheduled transaction."`
}

type ScheduledListCmd struct{}

func (cmd *ScheduledListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	scheduled, err := s.ScheduledTransactions(s.ctx)
	if err != nil {
		return err
	}
	renderScheduled(ctx, s, scheduled, "No scheduled transactions")
	return nil
}

type ScheduledAddCmd struct {
	EntryFlags

	Name      string `arg:"" help:"Unique name of the schedule."`
	Frequency string `help:"How often it recurs." short:"f" required:"" enum:"weekly,monthly,semi_monthly,quarterly,yearly"`
	NextDue   string `help:"Next due date (YYYY-MM-DD); defaults to today." name:"next-due"`
}

func (cmd *ScheduledAddCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	freq, err := model.ParseFrequency(cmd.Frequency)
	if err != nil {
		return err
	}
	nextDue, err := parseDateOr(cmd.NextDue, s.Today())
	if err != nil {
		return err
	}
	splits, err := resolveSplits(s.ctx, s.Engine, cmd.Splits, model.TransactionAction(cmd.Action))
	if err != nil {
		return err
	}

	st, err := model.NewScheduledTransaction(cmd.Name, freq, nextDue, splits, cmd.options()...)
	if err != nil {
		return err
	}
	if err := s.SaveScheduledTransaction(s.ctx, st); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Scheduled %q %s from %s (id %d)", st.Name, st.Frequency, model.FormatDate(st.NextDueDate), st.ID))
	return nil
}

type ScheduledDueCmd struct {
	Accounts []string `arg:"" optional:"" help:"Only schedules touching all of these accounts."`
	AsOf     string   `help:"List what is due on this date (YYYY-MM-DD) instead of today." name:"on"`
}

func (cmd *ScheduledDueCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	asOf, err := parseDateOr(cmd.AsOf, time.Time{})
	if err != nil {
		return err
	}
	accounts := make([]*model.Account, 0, len(cmd.Accounts))
	for _, ref := range cmd.Accounts {
		a, err := s.FindAccount(s.ctx, ref)
		if err != nil {
			return err
		}
		accounts = append(accounts, a)
	}

	due, err := s.DueScheduledTransactions(s.ctx, asOf, accounts...)
	if err != nil {
		return err
	}
	renderScheduled(ctx, s, due, "Nothing is due")
	return nil
}

type ScheduledEnterCmd struct {
	ID int64 `arg:"" help:"Scheduled transaction id."`
}

func (cmd *ScheduledEnterCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	txn, err := s.EnterScheduledTransaction(s.ctx, cmd.ID)
	if err != nil {
		return err
	}
	st, err := s.ScheduledTransaction(s.ctx, cmd.ID)
	if err != nil {
		return err
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Recorded transaction %d on %s; %q is next due %s",
		txn.ID, model.FormatDate(txn.Date), st.Name, model.FormatDate(st.NextDueDate)))
	return nil
}

type ScheduledSkipCmd struct {
	ID int64 `arg:"" help:"Scheduled transaction id."`
}

func (cmd *ScheduledSkipCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.SkipScheduledTransaction(s.ctx, cmd.ID)
	if err != nil {
		return err
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Skipped; %q is next due %s", st.Name, model.FormatDate(st.NextDueDate)))
	return nil
}

type ScheduledDeleteCmd struct {
	ID int64 `arg:"" help:"Scheduled transaction id."`
}

func (cmd *ScheduledDeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeleteScheduledTransaction(s.ctx, cmd.ID); err != nil {
		return err
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted scheduled transaction %d", cmd.ID))
	return nil
}

func renderScheduled(ctx *kong.Context, s *session, scheduled []*model.ScheduledTransaction, empty string) {
	if len(scheduled) == 0 {
		printInfof(ctx.Stdout, "%s", empty)
		return
	}

	t := newTable("ID", "Name", "Frequency", "Next Due", "Payee", "Splits").alignRight(0)
	for _, st := range scheduled {
		legs := make([]string, len(st.Splits))
		for i, split := range st.Splits {
			legs[i] = fmt.Sprintf("%s %s", split.Account.Name, model.FormatAmount(split.Amount))
		}
		t.add(strconv.FormatInt(st.ID, 10), st.Name, st.Frequency.String(), model.FormatDate(st.NextDueDate),
			st.PayeeName(), strings.Join(legs, ", "))
	}
	t.render(ctx.Stdout)
}
