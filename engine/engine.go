// Package engine is the application facade over storage, ledgers and budget
// reports. Command-line front ends talk to an Engine and never to storage
// directly.
//
// Every method takes a context.Context. The context carries the logger (see
// package logging) and the telemetry collector, and its deadline reaches the
// database.
//
// Example usage:
//
//	e, err := engine.Open(ctx, "books.sqlite")
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	checking, err := e.AccountByName(ctx, "Checking")
//	balances, err := e.CurrentBalances(ctx, checking)
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/robinvdvleuten/bookkeeper/config"
	"github.com/robinvdvleuten/bookkeeper/logging"
	"github.com/robinvdvleuten/bookkeeper/model"
	"github.com/robinvdvleuten/bookkeeper/storage"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

// Engine runs bookkeeping operations against one store.
type Engine struct {
	store *storage.Store
	log   zerolog.Logger
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the function that supplies "today" for balances, due
// schedules, budget reports and export timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New opens the engine on the database configured in cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return Open(ctx, cfg.DB, opts...)
}

// Open opens the engine on the database at path, creating it if needed.
func Open(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	ctx, timer := telemetry.StartTimer(ctx, "open "+path)
	defer timer.End()

	store, err := storage.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store: store,
		log:   logging.Component(ctx, "engine"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Close closes the underlying store.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Path returns the database path.
func (e *Engine) Path() string {
	return e.store.Path()
}

// Today returns the engine's current date.
func (e *Engine) Today() time.Time {
	return model.DateOf(e.now())
}

// SaveAccount inserts or updates an account.
func (e *Engine) SaveAccount(ctx context.Context, a *model.Account) error {
	if err := e.store.SaveAccount(ctx, a); err != nil {
		return err
	}
	e.log.Info().Int64("account_id", a.ID).Str("name", a.Name).Msg("account saved")
	return nil
}

// Account returns the account with the given id.
func (e *Engine) Account(ctx context.Context, id int64) (*model.Account, error) {
	return e.store.Account(ctx, id)
}

// AccountByNumber returns the account with the given number.
func (e *Engine) AccountByNumber(ctx context.Context, number string) (*model.Account, error) {
	return e.store.AccountByNumber(ctx, number)
}

// AccountByName returns the account with the given name.
func (e *Engine) AccountByName(ctx context.Context, name string) (*model.Account, error) {
	return e.store.AccountByName(ctx, name)
}

// FindAccount resolves ref as an account number first and as a name second.
func (e *Engine) FindAccount(ctx context.Context, ref string) (*model.Account, error) {
	a, err := e.store.AccountByNumber(ctx, ref)
	if err == nil || !storage.IsNotFound(err) {
		return a, err
	}
	return e.store.AccountByName(ctx, ref)
}

// Accounts lists open accounts in hierarchy order, optionally limited to the
// given types.
func (e *Engine) Accounts(ctx context.Context, types ...model.AccountType) ([]*model.Account, error) {
	return e.store.Accounts(ctx, types...)
}

// DeleteAccount deletes an account. Child accounts are moved to the top level
// when reparentChildren is set; otherwise an account with children, splits or
// budget values can't be deleted.
func (e *Engine) DeleteAccount(ctx context.Context, id int64, reparentChildren bool) error {
	if err := e.store.DeleteAccount(ctx, id, reparentChildren); err != nil {
		return err
	}
	e.log.Info().Int64("account_id", id).Msg("account deleted")
	return nil
}

// SaveCommodity inserts or updates a commodity.
func (e *Engine) SaveCommodity(ctx context.Context, c *model.Commodity) error {
	return e.store.SaveCommodity(ctx, c)
}

// Commodity returns the commodity with the given id.
func (e *Engine) Commodity(ctx context.Context, id int64) (*model.Commodity, error) {
	return e.store.Commodity(ctx, id)
}

// CommodityByCode returns the commodity with the given code.
func (e *Engine) CommodityByCode(ctx context.Context, code string) (*model.Commodity, error) {
	return e.store.CommodityByCode(ctx, code)
}

// Currencies returns the commodities of type currency.
func (e *Engine) Currencies(ctx context.Context) ([]*model.Commodity, error) {
	all, err := e.store.Commodities(ctx)
	if err != nil {
		return nil, err
	}
	var currencies []*model.Commodity
	for _, c := range all {
		if c.Type == model.CommodityTypeCurrency {
			currencies = append(currencies, c)
		}
	}
	return currencies, nil
}

// SavePayee inserts or updates a payee.
func (e *Engine) SavePayee(ctx context.Context, p *model.Payee) error {
	return e.store.SavePayee(ctx, p)
}

// Payee returns the payee with the given id.
func (e *Engine) Payee(ctx context.Context, id int64) (*model.Payee, error) {
	return e.store.Payee(ctx, id)
}

// PayeeByName returns the payee with the given name.
func (e *Engine) PayeeByName(ctx context.Context, name string) (*model.Payee, error) {
	return e.store.PayeeByName(ctx, name)
}

// Payees lists every payee sorted by name.
func (e *Engine) Payees(ctx context.Context) ([]*model.Payee, error) {
	return e.store.Payees(ctx)
}
