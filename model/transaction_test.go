package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/bookkeeper/model"
)

func TestNewTransaction(t *testing.T) {
	checking, _, housing := testAccounts(t)

	txn, err := model.NewTransaction(model.Date(2018, 1, 25), []model.RawSplit{
		{Account: checking, Amount: -101},
		{Account: housing, Amount: 101},
	}, model.WithPayeeName("  Landlord "), model.WithType("1234"), model.WithDescription("rent"))
	assert.NoError(t, err)

	assert.Equal(t, "Landlord", txn.PayeeName())
	assert.Equal(t, int64(0), txn.Payee.ID)
	assert.Equal(t, "1234", txn.Type)
	assert.True(t, txn.Touches(checking.ID))
	assert.False(t, txn.Touches(99))
}

func TestNewTransactionRequiresDate(t *testing.T) {
	checking, _, housing := testAccounts(t)

	_, err := model.NewTransaction(time.Time{}, []model.RawSplit{
		{Account: checking, Amount: -1},
		{Account: housing, Amount: 1},
	})
	var terr *model.InvalidTransactionError
	assert.True(t, errors.As(err, &terr))
	assert.Contains(t, err.Error(), "txn_date")
}

func TestTransactionWithSplitStatus(t *testing.T) {
	checking, _, housing := testAccounts(t)
	txn, err := model.NewTransaction(model.Date(2018, 1, 25), []model.RawSplit{
		{Account: checking, Amount: -101},
		{Account: housing, Amount: 101},
	}, model.WithID(7))
	assert.NoError(t, err)

	updated, err := txn.WithSplitStatus(checking.ID, model.StatusCleared)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), updated.ID)

	split, _ := updated.Split(checking.ID)
	assert.Equal(t, model.StatusCleared, split.Status)

	original, _ := txn.Split(checking.ID)
	assert.Equal(t, "", original.Status)

	_, err = txn.WithSplitStatus(99, model.StatusCleared)
	assert.Error(t, err)
}

func TestAccountValidation(t *testing.T) {
	_, err := model.NewAccount(model.AccountTypeAsset, "  ")
	var aerr *model.InvalidAccountError
	assert.True(t, errors.As(err, &aerr))

	_, err = model.NewAccount(model.AccountTypeUnknown, "")
	var verr *model.ValidationErrors
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, 2, len(verr.Errors))

	typ, err := model.ParseAccountType("expense")
	assert.NoError(t, err)
	assert.Equal(t, model.AccountTypeExpense, typ)
}

func TestAccountEqual(t *testing.T) {
	a := &model.Account{ID: 1, Name: "Checking"}
	b := &model.Account{ID: 1, Name: "Renamed"}
	unsaved := &model.Account{Name: "Checking"}

	eq, err := a.Equal(b)
	assert.NoError(t, err)
	assert.True(t, eq)

	_, err = a.Equal(unsaved)
	assert.IsError(t, err, model.ErrUnsavedComparison)
}

func TestCommodityValidation(t *testing.T) {
	usd, err := model.NewCommodity(model.CommodityTypeCurrency, "USD", "US Dollar", nil)
	assert.NoError(t, err)

	_, err = model.NewCommodity(model.CommodityTypeSecurity, "ABC", "ABC Corp", usd)
	assert.NoError(t, err)

	_, err = model.NewCommodity(model.CommodityTypeSecurity, "ABC", "ABC Corp", nil)
	assert.Contains(t, err.Error(), "trading currency")

	_, err = model.NewCommodity(model.CommodityTypeCurrency, "", "", nil)
	var verr *model.ValidationErrors
	assert.True(t, errors.As(err, &verr))
}
