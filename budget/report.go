// Package budget generates budget reports: budgeted figures merged with the
// actual income and spending of each account, rolled up per top-level
// account and per account group.
//
// A report has an income section and an expense section. Each section lists
// its top-level accounts sorted by account number, each followed by its
// descendants and, when it has any, a "Total <Parent>" row. The section ends
// with a "Total Income" or "Total Expense" row.
//
// Expense rows:
//
//	total_budget      = amount + carryover + income
//	remaining         = total_budget - spent
//	remaining_percent = remaining / total_budget * 100
//
// Income rows:
//
//	remaining         = amount - income
//	remaining_percent = income / amount * 100
//
// Percentages round half up. A zero divisor leaves the percent empty.
//
// Example usage:
//
//	report, err := budget.Generate(b, accounts, time.Now())
//	if err != nil {
//	    return err
//	}
//	for _, row := range report.Expense {
//	    fmt.Println(row.Display())
//	}
package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/bookkeeper/model"
)

var hundred = decimal.NewFromInt(100)

// RowKind tells account rows apart from total rows
type RowKind int

const (
	RowAccount RowKind = iota
	RowGroupTotal
	RowSectionTotal
)

// Row is one line of a budget report. Zero figures mean the value is absent.
type Row struct {
	Kind      RowKind
	AccountID int64
	Name      string

	Amount      decimal.Decimal
	Carryover   decimal.Decimal
	Income      decimal.Decimal
	TotalBudget decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	Notes       string

	RemainingPercent string
	CurrentStatus    string
}

// RowDisplay is a Row rendered for display. Zero figures become empty
// strings.
type RowDisplay struct {
	Name             string
	Amount           string
	Carryover        string
	Income           string
	TotalBudget      string
	Spent            string
	Remaining        string
	RemainingPercent string
	CurrentStatus    string
	Notes            string
}

// Display renders the row.
func (r Row) Display() RowDisplay {
	return RowDisplay{
		Name:             r.Name,
		Amount:           amountDisplay(r.Amount),
		Carryover:        amountDisplay(r.Carryover),
		Income:           amountDisplay(r.Income),
		TotalBudget:      amountDisplay(r.TotalBudget),
		Spent:            amountDisplay(r.Spent),
		Remaining:        amountDisplay(r.Remaining),
		RemainingPercent: r.RemainingPercent,
		CurrentStatus:    r.CurrentStatus,
		Notes:            r.Notes,
	}
}

func amountDisplay(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return model.FormatAmount(d)
}

// Report is a generated budget report.
type Report struct {
	Budget  *model.Budget
	Income  []Row
	Expense []Row
}

// Generate builds the report for b over the given accounts. Accounts that are
// neither INCOME nor EXPENSE are ignored. The current date positions the
// report inside the budget period for the current status column; pass the
// zero time to leave that column empty.
//
// The budget must carry actual figures (see model.Budget.SetActuals).
func Generate(b *model.Budget, accounts []*model.Account, current time.Time) (*Report, error) {
	actuals, ok := b.Actuals()
	if !ok {
		return nil, &model.BudgetError{Reason: "actual income and spending figures are required for a budget report"}
	}

	g := &generator{
		budget:   b,
		actuals:  actuals,
		current:  current,
		children: make(map[int64][]*model.Account),
	}

	var topIncome, topExpense []*model.Account
	for _, a := range accounts {
		if a.Type != model.AccountTypeIncome && a.Type != model.AccountTypeExpense {
			continue
		}
		if a.HasParent() {
			g.children[a.ParentID] = append(g.children[a.ParentID], a)
			continue
		}
		if a.Type == model.AccountTypeIncome {
			topIncome = append(topIncome, a)
		} else {
			topExpense = append(topExpense, a)
		}
	}

	report := &Report{Budget: b}
	report.Income = g.section(model.AccountTypeIncome, "Total Income", sortAccounts(topIncome))
	report.Expense = g.section(model.AccountTypeExpense, "Total Expense", sortAccounts(topExpense))
	return report, nil
}

// sortAccounts orders accounts by number, placing accounts without a number
// last. Ties keep their input order.
func sortAccounts(accounts []*model.Account) []*model.Account {
	sorted := slices.Clone(accounts)
	slices.SortStableFunc(sorted, func(a, b *model.Account) int {
		return strings.Compare(sortKey(a), sortKey(b))
	})
	return sorted
}

func sortKey(a *model.Account) string {
	if a.Number == "" {
		return "ZZZ"
	}
	return a.Number
}

type generator struct {
	budget   *model.Budget
	actuals  map[int64]model.IncomeSpending
	current  time.Time
	children map[int64][]*model.Account
}

// totals accumulates the figures of budgeted rows.
type totals struct {
	amount, carryover, income, spent decimal.Decimal
}

func (t *totals) add(r Row) {
	t.amount = t.amount.Add(r.Amount)
	t.carryover = t.carryover.Add(r.Carryover)
	t.income = t.income.Add(r.Income)
	t.spent = t.spent.Add(r.Spent)
}

func (g *generator) section(typ model.AccountType, totalName string, top []*model.Account) []Row {
	var rows []Row
	var section totals

	for _, parent := range top {
		var group totals

		row, budgeted := g.accountRow(parent)
		rows = append(rows, row)
		if budgeted {
			group.add(row)
		}

		descendants := g.descendants(parent)
		for _, child := range descendants {
			row, budgeted := g.accountRow(child)
			rows = append(rows, row)
			if budgeted {
				group.add(row)
			}
		}

		if len(descendants) > 0 {
			rows = append(rows, g.totalRow(RowGroupTotal, typ, "Total "+parent.Name, group))
		}

		section.amount = section.amount.Add(group.amount)
		section.carryover = section.carryover.Add(group.carryover)
		section.income = section.income.Add(group.income)
		section.spent = section.spent.Add(group.spent)
	}

	return append(rows, g.totalRow(RowSectionTotal, typ, totalName, section))
}

// descendants returns every account below parent, depth first, each level
// sorted by number.
func (g *generator) descendants(parent *model.Account) []*model.Account {
	var out []*model.Account
	for _, child := range sortAccounts(g.children[parent.ID]) {
		out = append(out, child)
		out = append(out, g.descendants(child)...)
	}
	return out
}

// accountRow builds the row for one account. Accounts without a budget entry
// produce a bare row holding only the name; the bool reports whether the
// account had an entry.
func (g *generator) accountRow(a *model.Account) (Row, bool) {
	row := Row{Kind: RowAccount, AccountID: a.ID, Name: a.Name}

	entry, ok := g.budget.Entry(a.ID)
	if !ok {
		return row, false
	}

	actual := g.actuals[a.ID]
	row.Amount = entry.Amount
	row.Carryover = entry.Carryover
	row.Notes = entry.Notes
	row.Income = actual.Income
	if a.Type == model.AccountTypeExpense {
		row.Spent = actual.Spent
	}

	if !row.Amount.IsZero() {
		g.fill(&row, a.Type)
	}
	return row, true
}

func (g *generator) totalRow(kind RowKind, typ model.AccountType, name string, t totals) Row {
	row := Row{
		Kind:      kind,
		Name:      name,
		Amount:    t.amount,
		Carryover: t.carryover,
		Income:    t.income,
	}
	if typ == model.AccountTypeExpense {
		row.Spent = t.spent
	}
	g.fill(&row, typ)
	return row
}

// fill computes the derived columns of a row from its figures.
func (g *generator) fill(row *Row, typ model.AccountType) {
	if typ == model.AccountTypeExpense {
		row.TotalBudget = row.Amount.Add(row.Carryover).Add(row.Income)
		row.Remaining = row.TotalBudget.Sub(row.Spent)
		if row.TotalBudget.IsZero() {
			return
		}
		percent := row.Remaining.Div(row.TotalBudget).Mul(hundred)
		row.RemainingPercent = formatPercent(RoundPercent(percent))
		row.CurrentStatus = CurrentStatus(g.current, g.budget.StartDate, g.budget.EndDate, percent, false)
		return
	}

	row.Remaining = row.Amount.Sub(row.Income)
	if row.Amount.IsZero() {
		return
	}
	percent := row.Income.Div(row.Amount).Mul(hundred)
	row.RemainingPercent = formatPercent(RoundPercent(percent))
	row.CurrentStatus = CurrentStatus(g.current, g.budget.StartDate, g.budget.EndDate, percent, true)
}

func formatPercent(d decimal.Decimal) string {
	return fmt.Sprintf("%s%%", d.String())
}
