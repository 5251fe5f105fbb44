package engine

import (
	"context"
	"time"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// SaveScheduledTransaction inserts or updates a scheduled transaction.
func (e *Engine) SaveScheduledTransaction(ctx context.Context, st *model.ScheduledTransaction) error {
	if err := e.store.SaveScheduledTransaction(ctx, st); err != nil {
		return err
	}
	e.log.Info().Int64("scheduled_txn_id", st.ID).Str("name", st.Name).Msg("scheduled transaction saved")
	return nil
}

// ScheduledTransaction returns the scheduled transaction with the given id.
func (e *Engine) ScheduledTransaction(ctx context.Context, id int64) (*model.ScheduledTransaction, error) {
	return e.store.ScheduledTransaction(ctx, id)
}

// ScheduledTransactions lists every scheduled transaction by next due date.
func (e *Engine) ScheduledTransactions(ctx context.Context) ([]*model.ScheduledTransaction, error) {
	return e.store.ScheduledTransactions(ctx)
}

// DeleteScheduledTransaction deletes a scheduled transaction.
func (e *Engine) DeleteScheduledTransaction(ctx context.Context, id int64) error {
	if err := e.store.DeleteScheduledTransaction(ctx, id); err != nil {
		return err
	}
	e.log.Info().Int64("scheduled_txn_id", id).Msg("scheduled transaction deleted")
	return nil
}

// DueScheduledTransactions returns the scheduled transactions due on or
// before asOf. When accounts are given, only schedules touching every one of
// them are returned. A zero asOf means today.
func (e *Engine) DueScheduledTransactions(ctx context.Context, asOf time.Time, accounts ...*model.Account) ([]*model.ScheduledTransaction, error) {
	if asOf.IsZero() {
		asOf = e.Today()
	}

	all, err := e.store.ScheduledTransactions(ctx)
	if err != nil {
		return nil, err
	}

	var due []*model.ScheduledTransaction
	for _, st := range all {
		if st.IsDue(asOf) && touchesAll(st, accounts) {
			due = append(due, st)
		}
	}
	return due, nil
}

func touchesAll(st *model.ScheduledTransaction, accounts []*model.Account) bool {
	for _, a := range accounts {
		if !st.Touches(a.ID) {
			return false
		}
	}
	return true
}

// EnterScheduledTransaction records the transaction a schedule produces for
// its current due date and advances the schedule by one period. Both happen
// together or not at all.
func (e *Engine) EnterScheduledTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	st, err := e.store.ScheduledTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	txn, err := st.Transaction()
	if err != nil {
		return nil, err
	}
	if err := e.store.EnterScheduledTransaction(ctx, st, txn); err != nil {
		return nil, err
	}

	e.log.Info().Int64("scheduled_txn_id", id).Int64("txn_id", txn.ID).
		Str("next_due_date", model.FormatDate(st.NextDueDate)).
		Msg("scheduled transaction entered")
	return txn, nil
}

// SkipScheduledTransaction advances a schedule by one period without
// recording a transaction.
func (e *Engine) SkipScheduledTransaction(ctx context.Context, id int64) (*model.ScheduledTransaction, error) {
	st, err := e.store.ScheduledTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	skipped := st.NextDueDate
	st.AdvanceToNextDueDate()
	if err := e.store.SaveScheduledTransaction(ctx, st); err != nil {
		return nil, err
	}

	e.log.Info().Int64("scheduled_txn_id", id).
		Str("skipped", model.FormatDate(skipped)).
		Str("next_due_date", model.FormatDate(st.NextDueDate)).
		Msg("scheduled transaction skipped")
	return st, nil
}
