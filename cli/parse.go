package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robinvdvleuten/bookkeeper/engine"
	"github.com/robinvdvleuten/bookkeeper/model"
)

// splitArg is one --split value: ACCOUNT=AMOUNT[@QUANTITY][:STATUS].
type splitArg struct {
	account  string
	amount   string
	quantity string
	status   string
}

func parseSplitArg(s string) (splitArg, error) {
	account, value, ok := strings.Cut(s, "=")
	account = strings.TrimSpace(account)
	if !ok || account == "" {
		return splitArg{}, fmt.Errorf("invalid split %q: want ACCOUNT=AMOUNT[@QUANTITY][:STATUS]", s)
	}

	var arg splitArg
	arg.account = account
	value, arg.status, _ = strings.Cut(value, ":")
	arg.amount, arg.quantity, _ = strings.Cut(value, "@")
	arg.amount = strings.TrimSpace(arg.amount)
	arg.quantity = strings.TrimSpace(arg.quantity)
	arg.status = strings.TrimSpace(arg.status)
	if arg.amount == "" {
		return splitArg{}, fmt.Errorf("invalid split %q: missing amount", s)
	}
	return arg, nil
}

// resolveSplits turns --split values into raw splits, looking accounts up by
// number or name.
func resolveSplits(ctx context.Context, e *engine.Engine, args []string, action model.TransactionAction) ([]model.RawSplit, error) {
	raw := make([]model.RawSplit, 0, len(args))
	for _, s := range args {
		arg, err := parseSplitArg(s)
		if err != nil {
			return nil, err
		}
		account, err := e.FindAccount(ctx, arg.account)
		if err != nil {
			return nil, err
		}

		split := model.RawSplit{Account: account, Amount: arg.amount, Status: arg.status}
		if arg.quantity != "" {
			split.Quantity = arg.quantity
		}
		if account.Type == model.AccountTypeSecurity {
			split.Action = action
		}
		raw = append(raw, split)
	}
	return raw, nil
}

// resolveEntries turns --entry values of the form ACCOUNT=AMOUNT[:CARRYOVER]
// into budget entries keyed by account id.
func resolveEntries(ctx context.Context, e *engine.Engine, args []string) (map[int64]model.RawBudgetEntry, error) {
	entries := make(map[int64]model.RawBudgetEntry, len(args))
	for _, s := range args {
		ref, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(ref) == "" {
			return nil, fmt.Errorf("invalid entry %q: want ACCOUNT=AMOUNT[:CARRYOVER]", s)
		}
		account, err := e.FindAccount(ctx, strings.TrimSpace(ref))
		if err != nil {
			return nil, err
		}
		amount, carryover, _ := strings.Cut(value, ":")
		entries[account.ID] = model.RawBudgetEntry{
			Amount:    strings.TrimSpace(amount),
			Carryover: strings.TrimSpace(carryover),
		}
	}
	return entries, nil
}

// parseDateOr parses s, or returns fallback when s is empty.
func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return model.ParseDate(s)
}
