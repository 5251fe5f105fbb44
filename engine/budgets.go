package engine

import (
	"context"

	"github.com/robinvdvleuten/bookkeeper/budget"
	"github.com/robinvdvleuten/bookkeeper/model"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

// SaveBudget inserts or updates a budget with its entries.
func (e *Engine) SaveBudget(ctx context.Context, b *model.Budget) error {
	if err := e.store.SaveBudget(ctx, b); err != nil {
		return err
	}
	e.log.Info().Int64("budget_id", b.ID).
		Str("start", model.FormatDate(b.StartDate)).
		Str("end", model.FormatDate(b.EndDate)).
		Msg("budget saved")
	return nil
}

// Budget returns the budget with the given id, including its actual income
// and spending.
func (e *Engine) Budget(ctx context.Context, id int64) (*model.Budget, error) {
	return e.store.Budget(ctx, id)
}

// Budgets lists every budget, most recent period first.
func (e *Engine) Budgets(ctx context.Context) ([]*model.Budget, error) {
	return e.store.Budgets(ctx)
}

// BudgetReport generates the report of a budget as of today.
func (e *Engine) BudgetReport(ctx context.Context, id int64) (*budget.Report, error) {
	ctx, timer := telemetry.StartTimer(ctx, "budget report")
	defer timer.End()

	_, load := telemetry.StartTimer(ctx, "load budget")
	b, err := e.store.Budget(ctx, id)
	if err != nil {
		load.End()
		return nil, err
	}
	accounts, err := e.store.Accounts(ctx, model.AccountTypeIncome, model.AccountTypeExpense)
	load.End()
	if err != nil {
		return nil, err
	}

	_, generate := telemetry.StartTimer(ctx, "generate")
	defer generate.End()
	return budget.Generate(b, accounts, e.Today())
}
