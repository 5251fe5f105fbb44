package model

import (
	"fmt"
	"strings"
)

// AccountType represents the type of account
type AccountType int

const (
	AccountTypeUnknown AccountType = iota
	AccountTypeAsset
	AccountTypeSecurity
	AccountTypeLiability
	AccountTypeEquity
	AccountTypeIncome
	AccountTypeExpense
)

// AccountTypes lists the account types in the order account listings use.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeSecurity,
	AccountTypeLiability,
	AccountTypeIncome,
	AccountTypeExpense,
	AccountTypeEquity,
}

// String returns the string representation of the account type
func (t AccountType) String() string {
	switch t {
	case AccountTypeAsset:
		return "ASSET"
	case AccountTypeSecurity:
		return "SECURITY"
	case AccountTypeLiability:
		return "LIABILITY"
	case AccountTypeEquity:
		return "EQUITY"
	case AccountTypeIncome:
		return "INCOME"
	case AccountTypeExpense:
		return "EXPENSE"
	default:
		return "UNKNOWN"
	}
}

// ParseAccountType parses an account type name, ignoring case.
func ParseAccountType(s string) (AccountType, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range AccountTypes {
		if t.String() == want {
			return t, nil
		}
	}
	return AccountTypeUnknown, &InvalidAccountError{Reason: fmt.Sprintf("invalid account type %q", s)}
}

// Account is a node in the chart of accounts.
//
// Parent relationships are kept as ids and resolved through storage, so an
// Account never holds a live pointer to its parent.
type Account struct {
	ID          int64
	Type        AccountType
	Commodity   *Commodity // nil means the default currency
	Number      string
	Name        string
	ParentID    int64
	Description string
	Closed      bool

	// ChildLevel is the depth below a top-level account. It is only set by
	// hierarchy listings.
	ChildLevel int
}

// AccountOption configures optional account fields.
type AccountOption func(*Account)

// WithAccountID sets the id of an account that already exists in storage.
func WithAccountID(id int64) AccountOption {
	return func(a *Account) { a.ID = id }
}

// WithNumber sets the account number.
func WithNumber(number string) AccountOption {
	return func(a *Account) { a.Number = strings.TrimSpace(number) }
}

// WithParentID sets the parent account by id.
func WithParentID(id int64) AccountOption {
	return func(a *Account) { a.ParentID = id }
}

// WithCommodity sets the commodity the account is denominated in.
func WithCommodity(c *Commodity) AccountOption {
	return func(a *Account) { a.Commodity = c }
}

// WithAccountDescription sets a free-form description.
func WithAccountDescription(description string) AccountOption {
	return func(a *Account) { a.Description = description }
}

// NewAccount creates and validates an account.
//
// Example:
//
//	checking, err := model.NewAccount(model.AccountTypeAsset, "Checking", model.WithNumber("1000"))
func NewAccount(typ AccountType, name string, opts ...AccountOption) (*Account, error) {
	a := &Account{Type: typ, Name: strings.TrimSpace(name)}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the account invariants and reports every violation.
func (a *Account) Validate() error {
	var errs []error
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, &InvalidAccountError{Reason: "account must have a name"})
	}
	if a.Type == AccountTypeUnknown || a.Type > AccountTypeExpense {
		errs = append(errs, &InvalidAccountError{Name: a.Name, Reason: "invalid account type"})
	}
	if a.ID != 0 && a.ParentID == a.ID {
		errs = append(errs, &InvalidAccountError{Name: a.Name, Reason: "account can't be its own parent"})
	}
	return collect(errs)
}

// Equal reports whether both accounts have the same id. Comparing unsaved
// accounts is an error.
func (a *Account) Equal(other *Account) (bool, error) {
	if a == nil || other == nil {
		return false, nil
	}
	if a.ID == 0 || other.ID == 0 {
		return false, ErrUnsavedComparison
	}
	return a.ID == other.ID, nil
}

// HasParent reports whether the account is nested under another account
func (a *Account) HasParent() bool {
	return a.ParentID != 0
}

func (a *Account) String() string {
	if a.Number != "" {
		return fmt.Sprintf("%s - %s", a.Number, a.Name)
	}
	return a.Name
}
