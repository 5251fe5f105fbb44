package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/robinvdvleuten/bookkeeper/model"
)

const transactionColumns = `id, date, type, payee_id, description, entry_date`

// SaveTransaction inserts or updates a transaction together with its splits.
// The stored splits are replaced by the transaction's current splits. A payee
// without an id is linked to the saved payee with the same name, or inserted.
//
// The save is atomic: on failure neither the transaction, its splits nor a
// new payee are written, and the ids of t and its payee are left unchanged.
func (s *Store) SaveTransaction(ctx context.Context, t *model.Transaction) error {
	const op = "save transaction"
	if err := checkSplits(op, t.Splits); err != nil {
		return err
	}

	prevID := t.ID
	var prevPayeeID int64
	if t.Payee != nil {
		prevPayeeID = t.Payee.ID
	}

	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		return writeTransaction(ctx, tx, op, t)
	})
	if err != nil {
		t.ID = prevID
		if t.Payee != nil {
			t.Payee.ID = prevPayeeID
		}
		return err
	}

	s.log.Debug().Int64("transaction_id", t.ID).Int("splits", len(t.Splits)).Msg("transaction saved")
	return nil
}

// writeTransaction stores t and its splits through q, assigning t.ID on
// insert.
func writeTransaction(ctx context.Context, q querier, op string, t *model.Transaction) error {
	payeeID, err := resolvePayee(ctx, q, t.Payee)
	if err != nil {
		return err
	}

	if t.ID != 0 {
		res, err := q.ExecContext(ctx,
			`UPDATE transactions SET date = ?, type = ?, payee_id = ?, description = ?, entry_date = COALESCE(?, entry_date) WHERE id = ?`,
			model.FormatDate(t.Date), model.Normalize(t.Type), nullInt(payeeID), model.Normalize(t.Description),
			nullString(model.FormatDate(t.EntryDate)), t.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n < 1 {
			return errNoUpdate(op, "transaction", t.ID)
		}
	} else {
		res, err := q.ExecContext(ctx,
			`INSERT INTO transactions(date, type, payee_id, description, entry_date) VALUES (?, ?, ?, ?, COALESCE(?, date('now', 'localtime')))`,
			model.FormatDate(t.Date), model.Normalize(t.Type), nullInt(payeeID), model.Normalize(t.Description),
			nullString(model.FormatDate(t.EntryDate)))
		if err != nil {
			return err
		}
		if t.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	return transactionSplits.replaceSplits(ctx, q, t.ID, t.Splits)
}

// Transaction returns the transaction with the given id.
func (s *Store) Transaction(ctx context.Context, id int64) (*model.Transaction, error) {
	txns, err := s.loadTransactions(ctx, "= ?", id)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, &NotFoundError{Entity: "transaction", ID: id}
	}
	return txns[0], nil
}

// Transactions returns the transactions with a split in the given account,
// ordered by date. An account id of 0 returns every transaction.
func (s *Store) Transactions(ctx context.Context, accountID int64) ([]*model.Transaction, error) {
	if accountID == 0 {
		return s.loadTransactions(ctx, "")
	}
	return s.loadTransactions(ctx,
		"IN (SELECT transaction_id FROM transaction_splits WHERE account_id = ?)", accountID)
}

// DeleteTransaction deletes a transaction and its splits.
func (s *Store) DeleteTransaction(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete transaction", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transaction_splits WHERE transaction_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n < 1 {
			return &NotFoundError{Entity: "transaction", ID: id}
		}
		return nil
	})
}

// loadTransactions loads the transactions whose id matches where, e.g.
// "= ?". An empty where loads every transaction.
func (s *Store) loadTransactions(ctx context.Context, where string, args ...any) ([]*model.Transaction, error) {
	const op = "load transactions"

	accounts, err := s.accountMap(ctx, s.db)
	if err != nil {
		return nil, err
	}
	payees, err := s.payeeMap(ctx, s.db)
	if err != nil {
		return nil, err
	}
	splits, err := transactionSplits.loadSplits(ctx, s.db, where, args...)
	if err != nil {
		return nil, wrap(op, err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if where != "" {
		query += " WHERE id " + where
	}
	query += " ORDER BY date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var txns []*model.Transaction
	for rows.Next() {
		var (
			id              int64
			date, typ, desc string
			payeeID         sql.NullInt64
			entryDate       string
		)
		if err := rows.Scan(&id, &date, &typ, &payeeID, &desc, &entryDate); err != nil {
			return nil, wrap(op, err)
		}

		txn, err := buildTransaction(id, date, typ, desc, entryDate, payees[payeeID.Int64], splits[id], accounts)
		if err != nil {
			return nil, wrap(op, err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return txns, nil
}

func buildTransaction(id int64, date, typ, desc, entryDate string, payee *model.Payee, rows []splitRow, accounts map[int64]*model.Account) (*model.Transaction, error) {
	txnDate, err := model.ParseDate(date)
	if err != nil {
		return nil, err
	}
	raw, err := rawSplits(rows, accounts)
	if err != nil {
		return nil, err
	}

	opts := []model.Option{model.WithID(id), model.WithType(typ), model.WithDescription(desc)}
	if payee != nil {
		opts = append(opts, model.WithPayee(payee))
	}
	if entryDate != "" {
		entered, err := model.ParseDate(entryDate)
		if err != nil {
			return nil, err
		}
		opts = append(opts, model.WithEntryDate(entered))
	}
	return model.NewTransaction(txnDate, raw, opts...)
}

// Actuals sums the income and spending of every INCOME and EXPENSE account
// from transactions dated strictly between start and end. Negative split
// amounts count as income, positive ones as spending.
func (s *Store) Actuals(ctx context.Context, start, end time.Time) (map[int64]model.IncomeSpending, error) {
	const op = "load actuals"

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_splits.account_id, transaction_splits.amount
		FROM transaction_splits
		INNER JOIN transactions ON transaction_splits.transaction_id = transactions.id
		INNER JOIN accounts ON transaction_splits.account_id = accounts.id
		WHERE accounts.type IN ('INCOME', 'EXPENSE')
		AND transactions.date > ? AND transactions.date < ?`,
		model.FormatDate(start), model.FormatDate(end))
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	actuals := make(map[int64]model.IncomeSpending)
	for rows.Next() {
		var (
			accountID int64
			amount    string
		)
		if err := rows.Scan(&accountID, &amount); err != nil {
			return nil, wrap(op, err)
		}
		d, err := model.ParseFraction(amount)
		if err != nil {
			return nil, wrap(op, err)
		}

		figures := actuals[accountID]
		if d.IsNegative() {
			figures.Income = figures.Income.Add(d.Neg())
		} else {
			figures.Spent = figures.Spent.Add(d)
		}
		actuals[accountID] = figures
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return actuals, nil
}
