package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Split statuses. An empty status means the split is not yet cleared.
const (
	StatusCleared    = "C"
	StatusReconciled = "R"
)

// TransactionAction describes what a split does to a security position
type TransactionAction string

const (
	ActionNone          TransactionAction = ""
	ActionShareBuy      TransactionAction = "share-buy"
	ActionShareSell     TransactionAction = "share-sell"
	ActionShareSplit    TransactionAction = "share-split"
	ActionShareReinvest TransactionAction = "share-reinvest"
	ActionShareAdd      TransactionAction = "share-add"
	ActionShareRemove   TransactionAction = "share-remove"
)

// TransactionActions lists every known action, including ActionNone.
var TransactionActions = []TransactionAction{
	ActionNone,
	ActionShareBuy,
	ActionShareSell,
	ActionShareSplit,
	ActionShareReinvest,
	ActionShareAdd,
	ActionShareRemove,
}

// Valid reports whether the action is known.
func (a TransactionAction) Valid() bool {
	for _, known := range TransactionActions {
		if a == known {
			return true
		}
	}
	return false
}

// RawSplit is one unvalidated leg of a transaction as supplied by a caller.
// Amount and Quantity accept the inputs ParseAmount and ParseQuantity accept.
type RawSplit struct {
	Account     *Account
	Amount      any
	Quantity    any // nil or "" means the quantity equals the amount
	Status      string
	Action      TransactionAction
	Description string
}

// Split is one validated leg of a transaction.
//
// Amount is the value in the transaction's settlement currency. Quantity is
// the native unit count: equal to Amount for currency accounts, tracked
// separately for security accounts.
type Split struct {
	Account     *Account
	Amount      decimal.Decimal
	Quantity    decimal.Decimal
	Status      string
	Action      TransactionAction
	Description string
}

// Raw converts the split back into caller input, e.g. to rebuild a
// transaction with one leg replaced.
func (s Split) Raw() RawSplit {
	return RawSplit{
		Account:     s.Account,
		Amount:      s.Amount,
		Quantity:    s.Quantity,
		Status:      s.Status,
		Action:      s.Action,
		Description: s.Description,
	}
}

// Balance returns the figure that accumulates into the account balance:
// Quantity for security accounts, Amount otherwise.
func (s Split) Balance() decimal.Decimal {
	if s.Account != nil && s.Account.Type == AccountTypeSecurity {
		return s.Quantity
	}
	return s.Amount
}

// IsCleared reports whether the split has been marked cleared.
func (s Split) IsCleared() bool {
	return s.Status == StatusCleared
}

// NextStatus cycles a split status: unset, cleared, reconciled, unset.
func NextStatus(status string) string {
	switch status {
	case StatusCleared:
		return StatusReconciled
	case StatusReconciled:
		return ""
	default:
		return StatusCleared
	}
}

// ValidateSplits converts and checks raw splits. It is the only way Split
// values get built, so a Transaction can never hold an unbalanced or
// sub-cent split set.
//
// The splits must number at least two, reference distinct accounts, carry
// exact amounts with no fractions of cents and sum exactly to zero.
func ValidateSplits(raw []RawSplit) ([]Split, error) {
	if len(raw) < 2 {
		return nil, &InvalidTransactionError{Reason: "transaction must have at least 2 splits"}
	}

	splits := make([]Split, 0, len(raw))
	seen := make(map[*Account]bool, len(raw))
	seenIDs := make(map[int64]bool, len(raw))
	total := decimal.Zero

	for _, r := range raw {
		if r.Account == nil {
			return nil, &InvalidTransactionError{Reason: "must have a valid account in splits"}
		}
		if seen[r.Account] || (r.Account.ID != 0 && seenIDs[r.Account.ID]) {
			return nil, &InvalidTransactionError{Reason: fmt.Sprintf("account %q appears in more than one split", r.Account.Name)}
		}
		seen[r.Account] = true
		if r.Account.ID != 0 {
			seenIDs[r.Account.ID] = true
		}

		amount, err := ParseAmount(r.Amount)
		if err != nil {
			return nil, &InvalidTransactionError{Reason: "invalid split", Err: err}
		}

		quantity := amount
		if !isBlank(r.Quantity) {
			quantity, err = ParseQuantity(r.Quantity)
			if err != nil {
				return nil, &InvalidTransactionError{Reason: "invalid split quantity", Err: err}
			}
		}

		status := strings.ToUpper(strings.TrimSpace(r.Status))
		if status != "" && status != StatusCleared && status != StatusReconciled {
			return nil, &InvalidTransactionError{Reason: fmt.Sprintf("invalid split status %q", r.Status)}
		}

		if !r.Action.Valid() {
			return nil, &InvalidTransactionError{Reason: fmt.Sprintf("invalid split action %q", r.Action)}
		}
		if r.Action != ActionNone && r.Account.Type != AccountTypeSecurity {
			return nil, &InvalidTransactionError{Reason: "actions can only be used with SECURITY accounts"}
		}

		total = total.Add(amount)
		splits = append(splits, Split{
			Account:     r.Account,
			Amount:      amount,
			Quantity:    quantity,
			Status:      status,
			Action:      r.Action,
			Description: r.Description,
		})
	}

	if !total.IsZero() {
		lo, hi := splits[0].Amount, splits[0].Amount
		for _, s := range splits[1:] {
			lo = decimal.Min(lo, s.Amount)
			hi = decimal.Max(hi, s.Amount)
		}
		return nil, &InvalidTransactionError{
			Reason: fmt.Sprintf("splits don't balance: %s, %s", FormatAmount(lo), FormatAmount(hi)),
		}
	}

	return splits, nil
}

// findSplit returns the split for the given account id.
func findSplit(splits []Split, accountID int64) (Split, bool) {
	for _, s := range splits {
		if s.Account != nil && s.Account.ID == accountID {
			return s, true
		}
	}
	return Split{}, false
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
