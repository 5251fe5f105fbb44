package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/budget"
	"github.com/robinvdvleuten/bookkeeper/model"
)

// BudgetCmd groups the budget commands.
type BudgetCmd struct {
	List   BudgetListCmd   `cmd:"" default:"withargs" help:"List budgets."`
	Add    BudgetAddCmd    `cmd:"" help:"Add a budget."`
	Report BudgetReportCmd `cmd:"" help:"Show a budget report."`
}

type BudgetListCmd struct{}

func (cmd *BudgetListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	budgets, err := s.Budgets(s.ctx)
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		printInfof(ctx.Stdout, "No budgets")
		return nil
	}

	t := newTable("ID", "Name", "Start", "End", "Entries").alignRight(0, 4)
	for _, b := range budgets {
		t.add(strconv.FormatInt(b.ID, 10), b.Name, model.FormatDate(b.StartDate), model.FormatDate(b.EndDate),
			strconv.Itoa(len(b.Entries)))
	}
	t.render(ctx.Stdout)
	return nil
}

type BudgetAddCmd struct {
	Name    string   `help:"Budget name." short:"n"`
	Year    int      `help:"Budget the whole calendar year." xor:"period"`
	Start   string   `help:"First day of the period (YYYY-MM-DD)." xor:"period" and:"range"`
	End     string   `help:"Last day of the period (YYYY-MM-DD)." and:"range"`
	Entries []string `help:"Entry as ACCOUNT=AMOUNT[:CARRYOVER]; repeat for every account." name:"entry" short:"e" sep:"none" placeholder:"ENTRY"`
}

func (cmd *BudgetAddCmd) Run(ctx *kong.Context, globals *Globals) error {
	if cmd.Year == 0 && cmd.Start == "" {
		return errors.New("either --year or --start and --end is required")
	}

	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := resolveEntries(s.ctx, s.Engine, cmd.Entries)
	if err != nil {
		return err
	}

	var b *model.Budget
	if cmd.Year != 0 {
		b, err = model.NewBudgetForYear(cmd.Year, entries, model.WithBudgetName(cmd.Name))
	} else {
		var start, end time.Time
		if start, err = model.ParseDate(cmd.Start); err != nil {
			return err
		}
		if end, err = model.ParseDate(cmd.End); err != nil {
			return err
		}
		b, err = model.NewBudget(start, end, entries, model.WithBudgetName(cmd.Name))
	}
	if err != nil {
		return err
	}
	if err := s.SaveBudget(s.ctx, b); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Added budget %d for %s to %s", b.ID, model.FormatDate(b.StartDate), model.FormatDate(b.EndDate)))
	return nil
}

type BudgetReportCmd struct {
	ID int64 `arg:"" help:"Budget id."`
}

func (cmd *BudgetReportCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := globals.open(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := s.BudgetReport(s.ctx, cmd.ID)
	if err != nil {
		return err
	}

	b := report.Budget
	_, _ = fmt.Fprintf(ctx.Stdout, "%s %s to %s\n\n", s.styles.Keyword("Budget "+b.Name),
		model.FormatDate(b.StartDate), model.FormatDate(b.EndDate))

	renderBudgetRows(ctx, s, "Income", report.Income)
	_, _ = fmt.Fprintln(ctx.Stdout)
	renderBudgetRows(ctx, s, "Expense", report.Expense)
	return nil
}

func renderBudgetRows(ctx *kong.Context, s *session, title string, rows []budget.Row) {
	if len(rows) == 0 {
		printInfof(ctx.Stdout, "No %s accounts", title)
		return
	}

	t := newTable(title, "Amount", "Carryover", "Income", "Total Budget", "Spent", "Remaining", "Remaining %", "Status", "Notes").
		alignRight(1, 2, 3, 4, 5, 6, 7, 8).
		style(6, s.styles.Amount).
		style(8, s.styles.Status)
	for _, r := range rows {
		d := r.Display()
		cells := []string{d.Name, d.Amount, d.Carryover, d.Income, d.TotalBudget, d.Spent, d.Remaining,
			d.RemainingPercent, d.CurrentStatus, d.Notes}
		if r.Kind == budget.RowAccount {
			t.add(cells...)
		} else {
			t.addBold(cells...)
		}
	}
	t.render(ctx.Stdout)
}
