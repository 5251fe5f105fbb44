package storage

import (
	"cmp"
	"context"
	"database/sql"
	"errors"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// SaveBudget inserts or updates a budget and replaces its stored entries.
func (s *Store) SaveBudget(ctx context.Context, b *model.Budget) error {
	const op = "save budget"
	prevID := b.ID

	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		args := []any{model.Normalize(b.Name), model.FormatDate(b.StartDate), model.FormatDate(b.EndDate)}

		if b.ID != 0 {
			res, err := tx.ExecContext(ctx, `UPDATE budgets SET name = ?, start_date = ?, end_date = ? WHERE id = ?`, append(args, b.ID)...)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n < 1 {
				return errNoUpdate(op, "budget", b.ID)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM budget_values WHERE budget_id = ?`, b.ID); err != nil {
				return err
			}
		} else {
			res, err := tx.ExecContext(ctx, `INSERT INTO budgets(name, start_date, end_date) VALUES (?, ?, ?)`, args...)
			if err != nil {
				return err
			}
			if b.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}

		accountIDs := make([]int64, 0, len(b.Entries))
		for id := range b.Entries {
			accountIDs = append(accountIDs, id)
		}
		slices.SortFunc(accountIDs, cmp.Compare[int64])

		for _, accountID := range accountIDs {
			entry := b.Entries[accountID]
			if entry.IsEmpty() {
				continue
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO budget_values(budget_id, account_id, amount, carryover, notes) VALUES (?, ?, ?, ?, ?)`,
				b.ID, accountID, model.FormatFraction(entry.Amount), model.FormatFraction(entry.Carryover), model.Normalize(entry.Notes))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.ID = prevID
		return err
	}
	return nil
}

// Budget returns the budget with the given id, with its actual income and
// spending attached.
func (s *Store) Budget(ctx context.Context, id int64) (*model.Budget, error) {
	const op = "get budget"

	var name, start, end string
	err := s.db.QueryRowContext(ctx, `SELECT name, start_date, end_date FROM budgets WHERE id = ?`, id).Scan(&name, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "budget", ID: id}
	}
	if err != nil {
		return nil, wrap(op, err)
	}

	entries, err := s.budgetEntries(ctx, id)
	if err != nil {
		return nil, err
	}

	startDate, err := model.ParseDate(start)
	if err != nil {
		return nil, wrap(op, err)
	}
	endDate, err := model.ParseDate(end)
	if err != nil {
		return nil, wrap(op, err)
	}

	b, err := model.NewBudget(startDate, endDate, entries, model.WithBudgetID(id), model.WithBudgetName(name))
	if err != nil {
		return nil, wrap(op, err)
	}

	actuals, err := s.Actuals(ctx, b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}
	b.SetActuals(actuals)
	return b, nil
}

func (s *Store) budgetEntries(ctx context.Context, budgetID int64) (map[int64]model.RawBudgetEntry, error) {
	const op = "get budget"

	rows, err := s.db.QueryContext(ctx, `SELECT account_id, amount, carryover, notes FROM budget_values WHERE budget_id = ?`, budgetID)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	entries := make(map[int64]model.RawBudgetEntry)
	for rows.Next() {
		var (
			accountID                int64
			amount, carryover, notes string
		)
		if err := rows.Scan(&accountID, &amount, &carryover, &notes); err != nil {
			return nil, wrap(op, err)
		}
		a, err := model.ParseFraction(amount)
		if err != nil {
			return nil, wrap(op, err)
		}
		c, err := model.ParseFraction(carryover)
		if err != nil {
			return nil, wrap(op, err)
		}
		entries[accountID] = model.RawBudgetEntry{Amount: a, Carryover: c, Notes: notes}
	}
	return entries, wrap(op, rows.Err())
}

// Budgets returns every budget, most recent period first.
func (s *Store) Budgets(ctx context.Context) ([]*model.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM budgets ORDER BY start_date DESC`)
	if err != nil {
		return nil, wrap("list budgets", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, wrap("list budgets", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list budgets", err)
	}

	budgets := make([]*model.Budget, 0, len(ids))
	for _, id := range ids {
		b, err := s.Budget(ctx, id)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, nil
}
