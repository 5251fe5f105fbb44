package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robinvdvleuten/bookkeeper/model"
)

const scheduledColumns = `id, name, frequency, next_due_date, type, payee_id, description`

// SaveScheduledTransaction inserts or updates a scheduled transaction and
// replaces its splits. Payees resolve the same way as in SaveTransaction, and
// the save is equally atomic.
func (s *Store) SaveScheduledTransaction(ctx context.Context, st *model.ScheduledTransaction) error {
	const op = "save scheduled transaction"
	if err := checkSplits(op, st.Splits); err != nil {
		return err
	}

	prevID := st.ID
	var prevPayeeID int64
	if st.Payee != nil {
		prevPayeeID = st.Payee.ID
	}

	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		payeeID, err := resolvePayee(ctx, tx, st.Payee)
		if err != nil {
			return err
		}
		args := []any{
			model.Normalize(st.Name), st.Frequency.String(), model.FormatDate(st.NextDueDate),
			model.Normalize(st.Type), nullInt(payeeID), model.Normalize(st.Description),
		}

		if st.ID != 0 {
			res, err := tx.ExecContext(ctx,
				`UPDATE scheduled_transactions SET name = ?, frequency = ?, next_due_date = ?, type = ?, payee_id = ?, description = ? WHERE id = ?`,
				append(args, st.ID)...)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n < 1 {
				return errNoUpdate(op, "scheduled transaction", st.ID)
			}
		} else {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO scheduled_transactions(name, frequency, next_due_date, type, payee_id, description) VALUES (?, ?, ?, ?, ?, ?)`,
				args...)
			if err != nil {
				return err
			}
			if st.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}

		return scheduledSplits.replaceSplits(ctx, tx, st.ID, st.Splits)
	})
	if err != nil {
		st.ID = prevID
		if st.Payee != nil {
			st.Payee.ID = prevPayeeID
		}
		return err
	}

	s.log.Debug().Int64("scheduled_transaction_id", st.ID).
		Str("next_due_date", model.FormatDate(st.NextDueDate)).
		Msg("scheduled transaction saved")
	return nil
}

// ScheduledTransaction returns the scheduled transaction with the given id.
func (s *Store) ScheduledTransaction(ctx context.Context, id int64) (*model.ScheduledTransaction, error) {
	scheduled, err := s.loadScheduled(ctx, "= ?", id)
	if err != nil {
		return nil, err
	}
	if len(scheduled) == 0 {
		return nil, &NotFoundError{Entity: "scheduled transaction", ID: id}
	}
	return scheduled[0], nil
}

// ScheduledTransactions returns every scheduled transaction ordered by next
// due date, then name.
func (s *Store) ScheduledTransactions(ctx context.Context) ([]*model.ScheduledTransaction, error) {
	return s.loadScheduled(ctx, "")
}

// EnterScheduledTransaction saves txn, the transaction produced by st, and
// advances st to its next due date in one database transaction. On failure
// nothing is written and txn and st keep their previous ids and due date.
func (s *Store) EnterScheduledTransaction(ctx context.Context, st *model.ScheduledTransaction, txn *model.Transaction) error {
	const op = "enter scheduled transaction"
	if st.ID == 0 {
		return &StorageError{Op: op, Reason: fmt.Sprintf("scheduled transaction %q must be saved before it is entered", st.Name)}
	}
	if err := checkSplits(op, txn.Splits); err != nil {
		return err
	}

	prevID, prevDue := txn.ID, st.NextDueDate
	var prevPayeeID int64
	if txn.Payee != nil {
		prevPayeeID = txn.Payee.ID
	}

	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		if err := writeTransaction(ctx, tx, op, txn); err != nil {
			return err
		}
		st.AdvanceToNextDueDate()
		res, err := tx.ExecContext(ctx, `UPDATE scheduled_transactions SET next_due_date = ? WHERE id = ?`,
			model.FormatDate(st.NextDueDate), st.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n < 1 {
			return errNoUpdate(op, "scheduled transaction", st.ID)
		}
		return nil
	})
	if err != nil {
		txn.ID, st.NextDueDate = prevID, prevDue
		if txn.Payee != nil {
			txn.Payee.ID = prevPayeeID
		}
		return err
	}

	s.log.Info().Int64("scheduled_transaction_id", st.ID).Int64("transaction_id", txn.ID).
		Str("next_due_date", model.FormatDate(st.NextDueDate)).
		Msg("scheduled transaction entered")
	return nil
}

// DeleteScheduledTransaction deletes a scheduled transaction and its splits.
func (s *Store) DeleteScheduledTransaction(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete scheduled transaction", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_transaction_splits WHERE scheduled_transaction_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM scheduled_transactions WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n < 1 {
			return &NotFoundError{Entity: "scheduled transaction", ID: id}
		}
		return nil
	})
}

func (s *Store) loadScheduled(ctx context.Context, where string, args ...any) ([]*model.ScheduledTransaction, error) {
	const op = "load scheduled transactions"

	accounts, err := s.accountMap(ctx, s.db)
	if err != nil {
		return nil, err
	}
	payees, err := s.payeeMap(ctx, s.db)
	if err != nil {
		return nil, err
	}
	splits, err := scheduledSplits.loadSplits(ctx, s.db, where, args...)
	if err != nil {
		return nil, wrap(op, err)
	}

	query := `SELECT ` + scheduledColumns + ` FROM scheduled_transactions`
	if where != "" {
		query += " WHERE id " + where
	}
	query += " ORDER BY next_due_date, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var scheduled []*model.ScheduledTransaction
	for rows.Next() {
		var (
			id                   int64
			name, frequency, due string
			typ, desc            string
			payeeID              sql.NullInt64
		)
		if err := rows.Scan(&id, &name, &frequency, &due, &typ, &payeeID, &desc); err != nil {
			return nil, wrap(op, err)
		}

		st, err := buildScheduled(id, name, frequency, due, typ, desc, payees[payeeID.Int64], splits[id], accounts)
		if err != nil {
			return nil, wrap(op, err)
		}
		scheduled = append(scheduled, st)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return scheduled, nil
}

func buildScheduled(id int64, name, frequency, due, typ, desc string, payee *model.Payee, rows []splitRow, accounts map[int64]*model.Account) (*model.ScheduledTransaction, error) {
	freq, err := model.ParseFrequency(frequency)
	if err != nil {
		return nil, err
	}
	nextDue, err := model.ParseDate(due)
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
	return model.NewScheduledTransaction(name, freq, nextDue, raw, opts...)
}
