package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/robinvdvleuten/bookkeeper/model"
)

const accountColumns = `id, type, commodity_id, number, name, parent_id, description, closed`

// SaveAccount inserts or updates an account. Accounts without a commodity
// are saved with the default commodity.
func (s *Store) SaveAccount(ctx context.Context, a *model.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}

	commodityID := int64(DefaultCommodityID)
	if a.Commodity != nil && a.Commodity.ID != 0 {
		commodityID = a.Commodity.ID
	}
	closed := 0
	if a.Closed {
		closed = 1
	}
	args := []any{
		a.Type.String(), commodityID, nullString(model.Normalize(a.Number)), model.Normalize(a.Name),
		nullInt(a.ParentID), model.Normalize(a.Description), closed,
	}

	return s.withTx(ctx, "save account", func(tx *sql.Tx) error {
		if a.ID != 0 {
			if err := checkParentCycle(ctx, tx, a); err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`UPDATE accounts SET type = ?, commodity_id = ?, number = ?, name = ?, parent_id = ?, description = ?, closed = ? WHERE id = ?`,
				append(args, a.ID)...)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n < 1 {
				return errNoUpdate("save account", "account", a.ID)
			}
			return nil
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO accounts(type, commodity_id, number, name, parent_id, description, closed) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			args...)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		a.ID = id
		return nil
	})
}

// checkParentCycle rejects a parent whose own chain of parents leads back to
// a.
func checkParentCycle(ctx context.Context, q querier, a *model.Account) error {
	if a.ParentID == 0 {
		return nil
	}

	var n int
	err := q.QueryRowContext(ctx, `
		WITH RECURSIVE ancestors(id) AS (
			SELECT ?
			UNION
			SELECT accounts.parent_id FROM accounts JOIN ancestors ON accounts.id = ancestors.id
			WHERE accounts.parent_id IS NOT NULL
		)
		SELECT COUNT(*) FROM ancestors WHERE id = ?`, a.ParentID, a.ID).Scan(&n)
	if err != nil {
		return err
	}
	if n > 0 {
		return &model.InvalidAccountError{Name: a.Name, Reason: fmt.Sprintf("parent %d is a descendant of the account", a.ParentID)}
	}
	return nil
}

// Account returns the account with the given id.
func (s *Store) Account(ctx context.Context, id int64) (*model.Account, error) {
	accounts, err := s.accountMap(ctx, s.db)
	if err != nil {
		return nil, err
	}
	a, ok := accounts[id]
	if !ok {
		return nil, &NotFoundError{Entity: "account", ID: id}
	}
	return a, nil
}

// AccountByNumber returns the account with the given number.
func (s *Store) AccountByNumber(ctx context.Context, number string) (*model.Account, error) {
	return s.accountBy(ctx, "number", number)
}

// AccountByName returns the account with the given name. When accounts under
// different parents share the name, the oldest one wins.
func (s *Store) AccountByName(ctx context.Context, name string) (*model.Account, error) {
	return s.accountBy(ctx, "name", name)
}

func (s *Store) accountBy(ctx context.Context, column, value string) (*model.Account, error) {
	var id int64
	query := fmt.Sprintf(`SELECT id FROM accounts WHERE %s = ? ORDER BY id LIMIT 1`, column)
	err := s.db.QueryRowContext(ctx, query, model.Normalize(value)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "account with " + column, Key: value}
	}
	if err != nil {
		return nil, wrap("get account", err)
	}
	return s.Account(ctx, id)
}

// Accounts returns the open accounts of the given types, or of every type
// when none are given. Types come in the order of model.AccountTypes. Within
// a type each top-level account is followed by its descendants, depth first,
// with ChildLevel set to the nesting depth. Siblings are ordered by number,
// then name.
func (s *Store) Accounts(ctx context.Context, types ...model.AccountType) ([]*model.Account, error) {
	ordered, err := s.orderedAccounts(ctx, s.db)
	if err != nil {
		return nil, err
	}

	children := make(map[int64][]*model.Account)
	for _, a := range ordered {
		if a.HasParent() && !a.Closed {
			children[a.ParentID] = append(children[a.ParentID], a)
		}
	}

	var walk func(parent *model.Account, level int) []*model.Account
	walk = func(parent *model.Account, level int) []*model.Account {
		var out []*model.Account
		for _, child := range children[parent.ID] {
			child.ChildLevel = level
			out = append(out, child)
			out = append(out, walk(child, level+1)...)
		}
		return out
	}

	want := make(map[model.AccountType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	var accounts []*model.Account
	for _, t := range model.AccountTypes {
		if len(want) > 0 && !want[t] {
			continue
		}
		for _, a := range ordered {
			if a.Type != t || a.HasParent() || a.Closed {
				continue
			}
			accounts = append(accounts, a)
			accounts = append(accounts, walk(a, 1)...)
		}
	}
	return accounts, nil
}

// DeleteAccount deletes an account. With reparentChildren its child accounts
// become top-level accounts first; otherwise an account with children can't
// be deleted. Accounts referenced by splits or budgets can never be deleted.
func (s *Store) DeleteAccount(ctx context.Context, id int64, reparentChildren bool) error {
	return s.withTx(ctx, "delete account", func(tx *sql.Tx) error {
		if reparentChildren {
			if _, err := tx.ExecContext(ctx, `UPDATE accounts SET parent_id = NULL WHERE parent_id = ?`, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n < 1 {
			return &NotFoundError{Entity: "account", ID: id}
		}
		s.log.Debug().Int64("account_id", id).Msg("account deleted")
		return nil
	})
}

// accountMap loads every account keyed by id.
func (s *Store) accountMap(ctx context.Context, q querier) (map[int64]*model.Account, error) {
	ordered, err := s.orderedAccounts(ctx, q)
	if err != nil {
		return nil, err
	}
	accounts := make(map[int64]*model.Account, len(ordered))
	for _, a := range ordered {
		accounts[a.ID] = a
	}
	return accounts, nil
}

// orderedAccounts loads every account ordered by number, then name.
// Accounts without a number come last.
func (s *Store) orderedAccounts(ctx context.Context, q querier) ([]*model.Account, error) {
	commodities, err := s.commodityMap(ctx, q)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY number IS NULL, number, name`)
	if err != nil {
		return nil, wrap("load accounts", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var (
			a           model.Account
			typ         string
			commodityID int64
			number      sql.NullString
			parentID    sql.NullInt64
			closed      int
		)
		if err := rows.Scan(&a.ID, &typ, &commodityID, &number, &a.Name, &parentID, &a.Description, &closed); err != nil {
			return nil, wrap("load accounts", err)
		}
		if a.Type, err = model.ParseAccountType(typ); err != nil {
			return nil, wrap("load accounts", err)
		}
		a.Commodity = commodities[commodityID]
		a.Number = number.String
		a.ParentID = parentID.Int64
		a.Closed = closed == 1
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("load accounts", err)
	}
	return accounts, nil
}
