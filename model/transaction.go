package model

import (
	"fmt"
	"strings"
	"time"
)

// Transaction is a balanced, dated set of splits.
//
// Splits are validated at construction and never change afterwards. To edit a
// transaction, build a new one with the same ID and save it; storage replaces
// the whole split set.
type Transaction struct {
	ID          int64
	Date        time.Time
	Type        string
	Splits      []Split
	Payee       *Payee
	Description string
	EntryDate   time.Time
}

// entryOptions are the optional fields shared by transactions and scheduled
// transactions.
type entryOptions struct {
	id          int64
	txnType     string
	payee       *Payee
	payeeName   string
	description string
	entryDate   time.Time
}

// Option configures optional transaction and scheduled transaction fields.
type Option func(*entryOptions)

// WithID sets the id of an entry that already exists in storage.
func WithID(id int64) Option {
	return func(o *entryOptions) { o.id = id }
}

// WithType sets the free-form transaction type, e.g. a check number.
func WithType(txnType string) Option {
	return func(o *entryOptions) { o.txnType = strings.TrimSpace(txnType) }
}

// WithPayee sets an existing payee.
func WithPayee(p *Payee) Option {
	return func(o *entryOptions) {
		o.payee = p
		o.payeeName = ""
	}
}

// WithPayeeName sets the payee by name. A new Payee is created for it and
// storage links it to an existing payee with the same name on save.
func WithPayeeName(name string) Option {
	return func(o *entryOptions) {
		o.payee = nil
		o.payeeName = strings.TrimSpace(name)
	}
}

// WithDescription sets the entry description.
func WithDescription(description string) Option {
	return func(o *entryOptions) { o.description = description }
}

// WithEntryDate sets the date the transaction was recorded. Scheduled
// transactions ignore it.
func WithEntryDate(t time.Time) Option {
	return func(o *entryOptions) { o.entryDate = DateOf(t) }
}

func applyOptions(opts []Option) (entryOptions, error) {
	var o entryOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.payeeName != "" {
		o.payee = &Payee{Name: o.payeeName}
	}
	if o.payee != nil {
		if err := o.payee.Validate(); err != nil {
			return o, err
		}
	}
	return o, nil
}

// NewTransaction creates a transaction after validating its date and splits.
//
// Example:
//
//	txn, err := model.NewTransaction(model.Date(2018, 1, 25), []model.RawSplit{
//	    {Account: checking, Amount: "-101"},
//	    {Account: housing, Amount: "101"},
//	}, model.WithPayeeName("Landlord"))
func NewTransaction(date time.Time, raw []RawSplit, opts ...Option) (*Transaction, error) {
	if date.IsZero() {
		return nil, &InvalidTransactionError{Reason: "transaction must have a txn_date"}
	}

	splits, err := ValidateSplits(raw)
	if err != nil {
		return nil, err
	}

	o, err := applyOptions(opts)
	if err != nil {
		return nil, &InvalidTransactionError{Reason: "invalid payee", Err: err}
	}

	return &Transaction{
		ID:          o.id,
		Date:        DateOf(date),
		Type:        o.txnType,
		Splits:      splits,
		Payee:       o.payee,
		Description: o.description,
		EntryDate:   o.entryDate,
	}, nil
}

// Split returns this transaction's split for the given account.
func (t *Transaction) Split(accountID int64) (Split, bool) {
	return findSplit(t.Splits, accountID)
}

// Touches reports whether any split references the given account.
func (t *Transaction) Touches(accountID int64) bool {
	_, ok := t.Split(accountID)
	return ok
}

// RawSplits returns the splits as caller input for rebuilding.
func (t *Transaction) RawSplits() []RawSplit {
	raw := make([]RawSplit, len(t.Splits))
	for i, s := range t.Splits {
		raw[i] = s.Raw()
	}
	return raw
}

// Options returns the options that rebuild this transaction's header.
func (t *Transaction) Options() []Option {
	opts := []Option{WithID(t.ID), WithType(t.Type), WithDescription(t.Description)}
	if t.Payee != nil {
		opts = append(opts, WithPayee(t.Payee))
	}
	if !t.EntryDate.IsZero() {
		opts = append(opts, WithEntryDate(t.EntryDate))
	}
	return opts
}

// PayeeName returns the payee's name, or "" when there is none.
func (t *Transaction) PayeeName() string {
	if t.Payee == nil {
		return ""
	}
	return t.Payee.Name
}

// WithSplitStatus returns a copy of the transaction with the split status for
// one account replaced.
func (t *Transaction) WithSplitStatus(accountID int64, status string) (*Transaction, error) {
	if !t.Touches(accountID) {
		return nil, &InvalidTransactionError{Reason: fmt.Sprintf("transaction has no split for account %d", accountID)}
	}
	raw := t.RawSplits()
	for i := range raw {
		if raw[i].Account.ID == accountID {
			raw[i].Status = status
		}
	}
	return NewTransaction(t.Date, raw, t.Options()...)
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%d: %s", t.ID, FormatDate(t.Date))
}
