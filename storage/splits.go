package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// splitTable describes one of the two split tables: transaction_splits and
// scheduled_transaction_splits.
type splitTable struct {
	name   string
	parent string
}

var (
	transactionSplits = splitTable{name: "transaction_splits", parent: "transaction_id"}
	scheduledSplits   = splitTable{name: "scheduled_transaction_splits", parent: "scheduled_transaction_id"}
)

// splitRow is a split as read from the database, before its account is
// resolved.
type splitRow struct {
	parentID    int64
	accountID   int64
	amount      string
	quantity    string
	status      string
	action      sql.NullString
	description string
}

// checkSplits validates splits again, since callers can edit them after
// construction, and ensures every split references a saved account.
func checkSplits(op string, splits []model.Split) error {
	raw := make([]model.RawSplit, len(splits))
	for i, sp := range splits {
		raw[i] = sp.Raw()
	}
	if _, err := model.ValidateSplits(raw); err != nil {
		return err
	}

	for _, sp := range splits {
		if sp.Account == nil || sp.Account.ID == 0 {
			name := ""
			if sp.Account != nil {
				name = sp.Account.Name
			}
			return &StorageError{Op: op, Reason: fmt.Sprintf("account %q must be saved before its splits", name)}
		}
	}
	return nil
}

// replaceSplits deletes the stored splits of parentID and inserts splits in
// their place.
func (t splitTable) replaceSplits(ctx context.Context, q querier, parentID int64, splits []model.Split) error {
	if _, err := q.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, t.name, t.parent), parentID); err != nil {
		return err
	}

	insert := fmt.Sprintf(
		`INSERT INTO %s(%s, account_id, amount, quantity, reconciled_state, action, description) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.name, t.parent)
	for _, sp := range splits {
		_, err := q.ExecContext(ctx, insert,
			parentID, sp.Account.ID,
			model.FormatFraction(sp.Amount), model.FormatFraction(sp.Quantity),
			sp.Status, nullString(string(sp.Action)), model.Normalize(sp.Description))
		if err != nil {
			return err
		}
	}
	return nil
}

// loadSplits returns the split rows grouped by parent id, in insertion
// order. where filters on the parent id column and may be empty.
func (t splitTable) loadSplits(ctx context.Context, q querier, where string, args ...any) (map[int64][]splitRow, error) {
	query := fmt.Sprintf(
		`SELECT %s, account_id, amount, quantity, reconciled_state, action, description FROM %s`,
		t.parent, t.name)
	if where != "" {
		query += " WHERE " + t.parent + " " + where
	}
	query += " ORDER BY " + t.parent + ", id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	splits := make(map[int64][]splitRow)
	for rows.Next() {
		var r splitRow
		if err := rows.Scan(&r.parentID, &r.accountID, &r.amount, &r.quantity, &r.status, &r.action, &r.description); err != nil {
			return nil, err
		}
		splits[r.parentID] = append(splits[r.parentID], r)
	}
	return splits, rows.Err()
}

// rawSplits turns stored rows back into caller input for the model
// constructors.
func rawSplits(rows []splitRow, accounts map[int64]*model.Account) ([]model.RawSplit, error) {
	raw := make([]model.RawSplit, 0, len(rows))
	for _, r := range rows {
		account, ok := accounts[r.accountID]
		if !ok {
			return nil, &NotFoundError{Entity: "account", ID: r.accountID}
		}
		amount, err := model.ParseFraction(r.amount)
		if err != nil {
			return nil, err
		}
		quantity, err := model.ParseFraction(r.quantity)
		if err != nil {
			return nil, err
		}
		raw = append(raw, model.RawSplit{
			Account:     account,
			Amount:      amount,
			Quantity:    quantity,
			Status:      r.status,
			Action:      model.TransactionAction(r.action.String),
			Description: r.description,
		})
	}
	return raw, nil
}
