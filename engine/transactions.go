package engine

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/model"
)

// Query selects the transactions of one account.
type Query struct {
	ledger.Filter

	// Reverse lists the newest transaction first.
	Reverse bool
}

// SaveTransaction inserts or updates a transaction.
func (e *Engine) SaveTransaction(ctx context.Context, t *model.Transaction) error {
	if err := e.store.SaveTransaction(ctx, t); err != nil {
		return err
	}
	e.log.Info().Int64("txn_id", t.ID).Str("date", model.FormatDate(t.Date)).Msg("transaction saved")
	return nil
}

// Transaction returns the transaction with the given id.
func (e *Engine) Transaction(ctx context.Context, id int64) (*model.Transaction, error) {
	return e.store.Transaction(ctx, id)
}

// DeleteTransaction deletes a transaction and its splits.
func (e *Engine) DeleteTransaction(ctx context.Context, id int64) error {
	if err := e.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	e.log.Info().Int64("txn_id", id).Msg("transaction deleted")
	return nil
}

// Ledger builds the ledger of account from its saved transactions and
// scheduled transactions.
func (e *Engine) Ledger(ctx context.Context, account *model.Account) (*ledger.Ledger, error) {
	txns, err := e.store.Transactions(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	scheduled, err := e.store.ScheduledTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.New(account, txns, scheduled), nil
}

// Transactions lists the transactions of account in date order. Running
// balances are only attached when q filters nothing, because a balance over
// a subset of the transactions means nothing.
func (e *Engine) Transactions(ctx context.Context, account *model.Account, q Query) ([]ledger.Posted, error) {
	l, err := e.Ledger(ctx, account)
	if err != nil {
		return nil, err
	}

	if q.Filter.IsZero() {
		return l.SortedWithBalance(q.Reverse), nil
	}

	txns := l.Filter(q.Filter)
	posted := make([]ledger.Posted, len(txns))
	for i, txn := range txns {
		posted[i] = ledger.Posted{Transaction: txn}
	}
	if q.Reverse {
		slices.Reverse(posted)
	}
	return posted, nil
}

// CurrentBalances returns the balances of account as of today.
func (e *Engine) CurrentBalances(ctx context.Context, account *model.Account) (ledger.Balances, error) {
	l, err := e.Ledger(ctx, account)
	if err != nil {
		return ledger.Balances{}, err
	}
	return l.CurrentBalances(e.Today()), nil
}

// ToggleSplitStatus moves the status of one split of a transaction to the
// next state (unset, cleared, reconciled) and saves the transaction.
func (e *Engine) ToggleSplitStatus(ctx context.Context, txnID, accountID int64) (*model.Transaction, error) {
	txn, err := e.store.Transaction(ctx, txnID)
	if err != nil {
		return nil, err
	}
	split, ok := txn.Split(accountID)
	if !ok {
		return nil, &model.InvalidTransactionError{Reason: fmt.Sprintf("transaction %d has no split for account %d", txnID, accountID)}
	}

	updated, err := txn.WithSplitStatus(accountID, model.NextStatus(split.Status))
	if err != nil {
		return nil, err
	}
	if err := e.store.SaveTransaction(ctx, updated); err != nil {
		return nil, err
	}

	next, _ := updated.Split(accountID)
	e.log.Debug().Int64("txn_id", txnID).Int64("account_id", accountID).Str("status", next.Status).Msg("split status changed")
	return updated, nil
}
