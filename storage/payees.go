package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// SavePayee inserts or updates a payee.
func (s *Store) SavePayee(ctx context.Context, p *model.Payee) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.withTx(ctx, "save payee", func(tx *sql.Tx) error {
		return savePayee(ctx, tx, p)
	})
}

func savePayee(ctx context.Context, q querier, p *model.Payee) error {
	name, notes := model.Normalize(p.Name), model.Normalize(p.Notes)
	if p.ID != 0 {
		res, err := q.ExecContext(ctx, `UPDATE payees SET name = ?, notes = ? WHERE id = ?`, name, notes, p.ID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n < 1 {
			return errNoUpdate("save payee", "payee", p.ID)
		}
		return nil
	}

	res, err := q.ExecContext(ctx, `INSERT INTO payees(name, notes) VALUES (?, ?)`, name, notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// resolvePayee gives an unsaved payee the id of the saved payee with the same
// name, inserting it when there is none.
func resolvePayee(ctx context.Context, q querier, p *model.Payee) (int64, error) {
	if p == nil {
		return 0, nil
	}
	if p.ID != 0 {
		return p.ID, nil
	}

	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM payees WHERE name = ?`, model.Normalize(p.Name)).Scan(&id)
	switch {
	case err == nil:
		p.ID = id
		return id, nil
	case errors.Is(err, sql.ErrNoRows):
		if err := savePayee(ctx, q, p); err != nil {
			return 0, err
		}
		return p.ID, nil
	default:
		return 0, err
	}
}

// Payee returns the payee with the given id.
func (s *Store) Payee(ctx context.Context, id int64) (*model.Payee, error) {
	p := &model.Payee{}
	err := s.db.QueryRowContext(ctx, `SELECT id, name, notes FROM payees WHERE id = ?`, id).Scan(&p.ID, &p.Name, &p.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "payee", ID: id}
	}
	if err != nil {
		return nil, wrap("get payee", err)
	}
	return p, nil
}

// PayeeByName returns the payee with the given name.
func (s *Store) PayeeByName(ctx context.Context, name string) (*model.Payee, error) {
	p := &model.Payee{}
	err := s.db.QueryRowContext(ctx, `SELECT id, name, notes FROM payees WHERE name = ?`, model.Normalize(name)).Scan(&p.ID, &p.Name, &p.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "payee", Key: name}
	}
	if err != nil {
		return nil, wrap("get payee", err)
	}
	return p, nil
}

// Payees returns every payee ordered by name.
func (s *Store) Payees(ctx context.Context) ([]*model.Payee, error) {
	return listPayees(ctx, s.db)
}

func listPayees(ctx context.Context, q querier) ([]*model.Payee, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, notes FROM payees ORDER BY name`)
	if err != nil {
		return nil, wrap("list payees", err)
	}
	defer rows.Close()

	var payees []*model.Payee
	for rows.Next() {
		p := &model.Payee{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Notes); err != nil {
			return nil, wrap("list payees", err)
		}
		payees = append(payees, p)
	}
	return payees, wrap("list payees", rows.Err())
}

func (s *Store) payeeMap(ctx context.Context, q querier) (map[int64]*model.Payee, error) {
	payees, err := listPayees(ctx, q)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Payee, len(payees))
	for _, p := range payees {
		byID[p.ID] = p
	}
	return byID, nil
}
