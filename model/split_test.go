package model_test

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/bookkeeper/model"
)

func testAccounts(t *testing.T) (checking, savings, housing *model.Account) {
	t.Helper()
	var err error
	checking, err = model.NewAccount(model.AccountTypeAsset, "Checking", model.WithAccountID(1))
	assert.NoError(t, err)
	savings, err = model.NewAccount(model.AccountTypeAsset, "Savings", model.WithAccountID(2))
	assert.NoError(t, err)
	housing, err = model.NewAccount(model.AccountTypeExpense, "Housing", model.WithAccountID(3))
	assert.NoError(t, err)
	return checking, savings, housing
}

func TestValidateSplits(t *testing.T) {
	checking, savings, housing := testAccounts(t)
	shares, err := model.NewAccount(model.AccountTypeSecurity, "Shares", model.WithAccountID(4))
	assert.NoError(t, err)

	tests := []struct {
		name  string
		input []model.RawSplit
		err   string
	}{
		{
			name: "balanced",
			input: []model.RawSplit{
				{Account: checking, Amount: -101},
				{Account: housing, Amount: "101"},
			},
		},
		{
			name: "three way",
			input: []model.RawSplit{
				{Account: checking, Amount: "-100.50"},
				{Account: savings, Amount: "50.25"},
				{Account: housing, Amount: "50.25"},
			},
		},
		{
			name:  "single split",
			input: []model.RawSplit{{Account: checking, Amount: 0}},
			err:   "at least 2 splits",
		},
		{
			name: "missing account",
			input: []model.RawSplit{
				{Account: nil, Amount: -1},
				{Account: housing, Amount: 1},
			},
			err: "must have a valid account",
		},
		{
			name: "duplicate account",
			input: []model.RawSplit{
				{Account: checking, Amount: -1},
				{Account: checking, Amount: 1},
			},
			err: "more than one split",
		},
		{
			name: "unbalanced",
			input: []model.RawSplit{
				{Account: checking, Amount: -100},
				{Account: savings, Amount: 30},
				{Account: housing, Amount: 101},
			},
			err: "splits don't balance: -100.00, 101.00",
		},
		{
			name: "fraction of cents",
			input: []model.RawSplit{
				{Account: checking, Amount: "-123.456"},
				{Account: housing, Amount: "123.456"},
			},
			err: "no fractions of cents allowed: -123.456",
		},
		{
			name: "float input",
			input: []model.RawSplit{
				{Account: checking, Amount: -1.5},
				{Account: housing, Amount: 1.5},
			},
			err: "invalid value type",
		},
		{
			name: "bad status",
			input: []model.RawSplit{
				{Account: checking, Amount: -1, Status: "x"},
				{Account: housing, Amount: 1},
			},
			err: "invalid split status",
		},
		{
			name: "action on non security",
			input: []model.RawSplit{
				{Account: checking, Amount: -1, Action: model.ActionShareBuy},
				{Account: housing, Amount: 1},
			},
			err: "actions can only be used with SECURITY accounts",
		},
		{
			name: "action on security",
			input: []model.RawSplit{
				{Account: checking, Amount: -50},
				{Account: shares, Amount: 50, Quantity: "2.5", Action: model.ActionShareBuy},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := model.ValidateSplits(tt.input)
			if tt.err != "" {
				assert.Error(t, err)
				var terr *model.InvalidTransactionError
				assert.True(t, errors.As(err, &terr))
				assert.Contains(t, err.Error(), tt.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, len(tt.input), len(splits))
		})
	}
}

func TestValidateSplitsNormalizes(t *testing.T) {
	checking, _, housing := testAccounts(t)

	splits, err := model.ValidateSplits([]model.RawSplit{
		{Account: checking, Amount: "-1,000.10", Status: "c"},
		{Account: housing, Amount: "1000.10", Status: "r"},
	})
	assert.NoError(t, err)

	assert.Equal(t, "-1000.1", splits[0].Amount.String())
	assert.Equal(t, "-1000.1", splits[0].Quantity.String())
	assert.Equal(t, model.StatusCleared, splits[0].Status)
	assert.Equal(t, model.StatusReconciled, splits[1].Status)
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, model.StatusCleared, model.NextStatus(""))
	assert.Equal(t, model.StatusReconciled, model.NextStatus(model.StatusCleared))
	assert.Equal(t, "", model.NextStatus(model.StatusReconciled))
}
