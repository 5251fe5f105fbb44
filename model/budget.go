package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetEntry is the budgeted figure for one account. Zero fields mean the
// value was not given.
type BudgetEntry struct {
	Amount    decimal.Decimal
	Carryover decimal.Decimal
	Notes     string
}

// IsEmpty reports whether the entry carries no data.
func (e BudgetEntry) IsEmpty() bool {
	return e.Amount.IsZero() && e.Carryover.IsZero() && e.Notes == ""
}

// RawBudgetEntry is an unvalidated budget entry. Amount and Carryover accept
// the inputs ParseAmount accepts; nil and "" mean not given.
type RawBudgetEntry struct {
	Amount    any
	Carryover any
	Notes     string
}

// IncomeSpending holds the actual figures for one account over a budget
// period: negated negative split amounts as Income, positive ones as Spent.
type IncomeSpending struct {
	Income decimal.Decimal
	Spent  decimal.Decimal
}

// Budget is a set of per-account budget entries for a date range.
type Budget struct {
	ID        int64
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Entries   map[int64]BudgetEntry // keyed by account id

	actuals map[int64]IncomeSpending
}

// BudgetOption configures optional budget fields.
type BudgetOption func(*Budget)

// WithBudgetID sets the id of a budget that already exists in storage.
func WithBudgetID(id int64) BudgetOption {
	return func(b *Budget) { b.ID = id }
}

// WithBudgetName sets a display name.
func WithBudgetName(name string) BudgetOption {
	return func(b *Budget) { b.Name = strings.TrimSpace(name) }
}

// NewBudget creates a budget for an explicit date range. Entries without data
// are dropped.
func NewBudget(start, end time.Time, entries map[int64]RawBudgetEntry, opts ...BudgetOption) (*Budget, error) {
	if start.IsZero() || end.IsZero() {
		return nil, &BudgetError{Reason: "must pass in dates"}
	}
	start, end = DateOf(start), DateOf(end)
	if !start.Before(end) {
		return nil, &BudgetError{Reason: fmt.Sprintf("start date %s must be before end date %s", FormatDate(start), FormatDate(end))}
	}

	b := &Budget{
		StartDate: start,
		EndDate:   end,
		Entries:   make(map[int64]BudgetEntry, len(entries)),
	}
	for _, opt := range opts {
		opt(b)
	}

	for accountID, raw := range entries {
		entry, err := toBudgetEntry(raw)
		if err != nil {
			return nil, err
		}
		if !entry.IsEmpty() {
			b.Entries[accountID] = entry
		}
	}
	return b, nil
}

// NewBudgetForYear creates a budget covering January 1 to December 31.
func NewBudgetForYear(year int, entries map[int64]RawBudgetEntry, opts ...BudgetOption) (*Budget, error) {
	if year <= 0 {
		return nil, &BudgetError{Reason: fmt.Sprintf("invalid budget year %d", year)}
	}
	return NewBudget(Date(year, time.January, 1), Date(year, time.December, 31), entries, opts...)
}

func toBudgetEntry(raw RawBudgetEntry) (BudgetEntry, error) {
	var entry BudgetEntry
	if !isBlank(raw.Amount) {
		amount, err := ParseAmount(raw.Amount)
		if err != nil {
			return entry, &BudgetError{Reason: "invalid budget amount", Err: err}
		}
		entry.Amount = amount
	}
	if !isBlank(raw.Carryover) {
		carryover, err := ParseAmount(raw.Carryover)
		if err != nil {
			return entry, &BudgetError{Reason: "invalid budget carryover", Err: err}
		}
		entry.Carryover = carryover
	}
	entry.Notes = strings.TrimSpace(raw.Notes)
	return entry, nil
}

// Entry returns the budget entry for an account.
func (b *Budget) Entry(accountID int64) (BudgetEntry, bool) {
	e, ok := b.Entries[accountID]
	return e, ok
}

// SetActuals attaches the actual income and spending per account id. Storage
// computes these when it loads a budget.
func (b *Budget) SetActuals(actuals map[int64]IncomeSpending) {
	b.actuals = actuals
}

// Actuals returns the attached actual figures and whether any were attached.
func (b *Budget) Actuals() (map[int64]IncomeSpending, bool) {
	return b.actuals, b.actuals != nil
}

// Equal reports whether both budgets have the same id. Comparing unsaved
// budgets is an error.
func (b *Budget) Equal(other *Budget) (bool, error) {
	if b == nil || other == nil {
		return false, nil
	}
	if b.ID == 0 || other.ID == 0 {
		return false, &BudgetError{Reason: "can't compare budgets without an id"}
	}
	return b.ID == other.ID, nil
}

func (b *Budget) String() string {
	s := fmt.Sprintf("%s - %s", FormatDate(b.StartDate), FormatDate(b.EndDate))
	if b.Name != "" {
		s = fmt.Sprintf("%s (%s)", b.Name, s)
	}
	return s
}
