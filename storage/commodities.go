package storage

import (
	"cmp"
	"context"
	"database/sql"
	"errors"

	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// DefaultCommodityID is the id of the USD commodity every new database
// starts with. Accounts saved without a commodity use it.
const DefaultCommodityID = 1

const commodityColumns = `id, type, code, name, trading_currency_id, trading_market`

// SaveCommodity inserts or updates a commodity.
func (s *Store) SaveCommodity(ctx context.Context, c *model.Commodity) error {
	if err := c.Validate(); err != nil {
		return err
	}

	var tradingCurrencyID int64
	if c.TradingCurrency != nil {
		tradingCurrencyID = c.TradingCurrency.ID
	}

	return s.withTx(ctx, "save commodity", func(tx *sql.Tx) error {
		if c.ID != 0 {
			res, err := tx.ExecContext(ctx,
				`UPDATE commodities SET type = ?, code = ?, name = ?, trading_currency_id = ?, trading_market = ? WHERE id = ?`,
				c.Type.String(), model.Normalize(c.Code), model.Normalize(c.Name), nullInt(tradingCurrencyID), c.TradingMarket, c.ID)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n < 1 {
				return errNoUpdate("save commodity", "commodity", c.ID)
			}
			return nil
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO commodities(type, code, name, trading_currency_id, trading_market) VALUES (?, ?, ?, ?, ?)`,
			c.Type.String(), model.Normalize(c.Code), model.Normalize(c.Name), nullInt(tradingCurrencyID), c.TradingMarket)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = id
		return nil
	})
}

// Commodity returns the commodity with the given id.
func (s *Store) Commodity(ctx context.Context, id int64) (*model.Commodity, error) {
	commodities, err := s.commodityMap(ctx, s.db)
	if err != nil {
		return nil, err
	}
	c, ok := commodities[id]
	if !ok {
		return nil, &NotFoundError{Entity: "commodity", ID: id}
	}
	return c, nil
}

// CommodityByCode returns the commodity with the given code, e.g. "USD".
func (s *Store) CommodityByCode(ctx context.Context, code string) (*model.Commodity, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM commodities WHERE code = ?`, model.Normalize(code)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Entity: "commodity", Key: code}
	}
	if err != nil {
		return nil, wrap("get commodity", err)
	}
	return s.Commodity(ctx, id)
}

// Commodities returns every commodity ordered by id.
func (s *Store) Commodities(ctx context.Context) ([]*model.Commodity, error) {
	commodities, err := s.commodityMap(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Commodity, 0, len(commodities))
	for _, c := range commodities {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *model.Commodity) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// commodityMap loads every commodity keyed by id with trading currencies
// resolved.
func (s *Store) commodityMap(ctx context.Context, q querier) (map[int64]*model.Commodity, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+commodityColumns+` FROM commodities`)
	if err != nil {
		return nil, wrap("load commodities", err)
	}
	defer rows.Close()

	commodities := make(map[int64]*model.Commodity)
	tradingCurrencies := make(map[int64]int64)
	for rows.Next() {
		var (
			c               model.Commodity
			typ             string
			tradingCurrency sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &typ, &c.Code, &c.Name, &tradingCurrency, &c.TradingMarket); err != nil {
			return nil, wrap("load commodities", err)
		}
		if c.Type, err = model.ParseCommodityType(typ); err != nil {
			return nil, wrap("load commodities", err)
		}
		if tradingCurrency.Valid {
			tradingCurrencies[c.ID] = tradingCurrency.Int64
		}
		commodities[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("load commodities", err)
	}

	for id, currencyID := range tradingCurrencies {
		commodities[id].TradingCurrency = commodities[currencyID]
	}
	return commodities, nil
}
