package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/bookkeeper/model"
	"github.com/robinvdvleuten/bookkeeper/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	st, err := storage.Open(context.Background(), storage.Memory)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func saveAccount(t *testing.T, st *storage.Store, typ model.AccountType, name string, opts ...model.AccountOption) *model.Account {
	t.Helper()
	a, err := model.NewAccount(typ, name, opts...)
	assert.NoError(t, err)
	assert.NoError(t, st.SaveAccount(context.Background(), a))
	return a
}

func assertIntegrity(t *testing.T, err error, kind storage.IntegrityKind) {
	t.Helper()
	var integrity *storage.IntegrityError
	assert.True(t, errors.As(err, &integrity), "expected IntegrityError, got %v", err)
	assert.Equal(t, kind, integrity.Kind)
}

func TestOpenSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	usd, err := st.Commodity(ctx, storage.DefaultCommodityID)
	assert.NoError(t, err)
	assert.Equal(t, "USD", usd.Code)
	assert.Equal(t, model.CommodityTypeCurrency, usd.Type)

	byCode, err := st.CommodityByCode(ctx, "USD")
	assert.NoError(t, err)
	assert.Equal(t, usd.ID, byCode.ID)
}

func TestOpenExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "books", "data.sqlite")

	st, err := storage.Open(ctx, path)
	assert.NoError(t, err)
	checking, err := model.NewAccount(model.AccountTypeAsset, "Checking")
	assert.NoError(t, err)
	assert.NoError(t, st.SaveAccount(ctx, checking))
	assert.NoError(t, st.Close())

	st, err = storage.Open(ctx, path)
	assert.NoError(t, err)
	defer st.Close()

	got, err := st.Account(ctx, checking.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)
	assert.Equal(t, path, st.Path())
}

func TestOpenWithoutPath(t *testing.T) {
	_, err := storage.Open(context.Background(), " ")
	var storageErr *storage.StorageError
	assert.True(t, errors.As(err, &storageErr))
}

func TestSaveCommodity(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	usd, err := st.CommodityByCode(ctx, "USD")
	assert.NoError(t, err)

	fund, err := model.NewCommodity(model.CommodityTypeSecurity, "VTSAX", "Total Stock Market", usd)
	assert.NoError(t, err)
	assert.NoError(t, st.SaveCommodity(ctx, fund))
	assert.NotEqual(t, int64(0), fund.ID)

	got, err := st.Commodity(ctx, fund.ID)
	assert.NoError(t, err)
	assert.Equal(t, "VTSAX", got.Code)
	assert.Equal(t, usd.ID, got.TradingCurrency.ID)

	all, err := st.Commodities(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(all))

	dup, err := model.NewCommodity(model.CommodityTypeCurrency, "USD", "Dollar again", nil)
	assert.NoError(t, err)
	assertIntegrity(t, st.SaveCommodity(ctx, dup), storage.IntegrityUnique)
}

func TestSaveAccountAssignsID(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	checking := saveAccount(t, st, model.AccountTypeAsset, "Checking", model.WithNumber("1000"))
	assert.NotEqual(t, int64(0), checking.ID)

	got, err := st.Account(ctx, checking.ID)
	assert.NoError(t, err)
	assert.Equal(t, "1000", got.Number)
	assert.Equal(t, "USD", got.Commodity.Code)

	got.Description = "main account"
	assert.NoError(t, st.SaveAccount(ctx, got))

	byNumber, err := st.AccountByNumber(ctx, "1000")
	assert.NoError(t, err)
	assert.Equal(t, "main account", byNumber.Description)

	byName, err := st.AccountByName(ctx, "Checking")
	assert.NoError(t, err)
	assert.Equal(t, checking.ID, byName.ID)

	_, err = st.AccountByName(ctx, "Nope")
	assert.True(t, storage.IsNotFound(err))
}

func TestSaveAccountUnknownID(t *testing.T) {
	st := openStore(t)
	a, err := model.NewAccount(model.AccountTypeAsset, "Ghost", model.WithAccountID(42))
	assert.NoError(t, err)

	err = st.SaveAccount(context.Background(), a)
	assert.EqualError(t, err, "save account: no account with id 42 to update")
}

func TestAccountUniqueness(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	saveAccount(t, st, model.AccountTypeAsset, "Checking", model.WithNumber("1000"))

	sameNumber, err := model.NewAccount(model.AccountTypeAsset, "Savings", model.WithNumber("1000"))
	assert.NoError(t, err)
	assertIntegrity(t, st.SaveAccount(ctx, sameNumber), storage.IntegrityUnique)
	assert.Equal(t, int64(0), sameNumber.ID)

	sameTopLevelName, err := model.NewAccount(model.AccountTypeAsset, "Checking")
	assert.NoError(t, err)
	assertIntegrity(t, st.SaveAccount(ctx, sameTopLevelName), storage.IntegrityUnique)
	assert.Equal(t, int64(0), sameTopLevelName.ID)

	parent := saveAccount(t, st, model.AccountTypeExpense, "Food")
	saveAccount(t, st, model.AccountTypeExpense, "Restaurants", model.WithParentID(parent.ID))
	saveAccount(t, st, model.AccountTypeExpense, "Checking", model.WithParentID(parent.ID))
	dupChild, err := model.NewAccount(model.AccountTypeExpense, "Restaurants", model.WithParentID(parent.ID))
	assert.NoError(t, err)
	assertIntegrity(t, st.SaveAccount(ctx, dupChild), storage.IntegrityUnique)

	orphan, err := model.NewAccount(model.AccountTypeExpense, "Orphan", model.WithParentID(999))
	assert.NoError(t, err)
	assertIntegrity(t, st.SaveAccount(ctx, orphan), storage.IntegrityForeignKey)
}

func TestAccountParentCycle(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	food := saveAccount(t, st, model.AccountTypeExpense, "Food")
	groceries := saveAccount(t, st, model.AccountTypeExpense, "Groceries", model.WithParentID(food.ID))
	produce := saveAccount(t, st, model.AccountTypeExpense, "Produce", model.WithParentID(groceries.ID))

	for _, parentID := range []int64{groceries.ID, produce.ID} {
		food.ParentID = parentID
		err := st.SaveAccount(ctx, food)
		var invalid *model.InvalidAccountError
		assert.True(t, errors.As(err, &invalid), "parent %d: got %v", parentID, err)
	}

	accounts, err := st.Accounts(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(accounts))

	got, err := st.Account(ctx, food.ID)
	assert.NoError(t, err)
	assert.False(t, got.HasParent())

	other := saveAccount(t, st, model.AccountTypeExpense, "Dining")
	produce.ParentID = other.ID
	assert.NoError(t, st.SaveAccount(ctx, produce))
}

func TestAccountsHierarchy(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	food := saveAccount(t, st, model.AccountTypeExpense, "Food", model.WithNumber("5000"))
	saveAccount(t, st, model.AccountTypeExpense, "Restaurants", model.WithNumber("5020"), model.WithParentID(food.ID))
	groceries := saveAccount(t, st, model.AccountTypeExpense, "Groceries", model.WithNumber("5010"), model.WithParentID(food.ID))
	saveAccount(t, st, model.AccountTypeExpense, "Produce", model.WithNumber("5011"), model.WithParentID(groceries.ID))
	saveAccount(t, st, model.AccountTypeExpense, "Housing", model.WithNumber("4000"))
	saveAccount(t, st, model.AccountTypeIncome, "Wages", model.WithNumber("3000"))
	saveAccount(t, st, model.AccountTypeAsset, "Checking", model.WithNumber("1000"))
	saveAccount(t, st, model.AccountTypeEquity, "Opening Balances", model.WithNumber("0100"))

	accounts, err := st.Accounts(ctx)
	assert.NoError(t, err)

	var names []string
	var levels []int
	for _, a := range accounts {
		names = append(names, a.Name)
		levels = append(levels, a.ChildLevel)
	}
	assert.Equal(t, []string{
		"Checking", "Wages", "Housing", "Food", "Groceries", "Produce", "Restaurants", "Opening Balances",
	}, names)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 2, 1, 0}, levels)

	expenses, err := st.Accounts(ctx, model.AccountTypeExpense)
	assert.NoError(t, err)
	assert.Equal(t, 5, len(expenses))
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	parent := saveAccount(t, st, model.AccountTypeExpense, "Food")
	child := saveAccount(t, st, model.AccountTypeExpense, "Groceries", model.WithParentID(parent.ID))

	assertIntegrity(t, st.DeleteAccount(ctx, parent.ID, false), storage.IntegrityForeignKey)

	assert.NoError(t, st.DeleteAccount(ctx, parent.ID, true))
	got, err := st.Account(ctx, child.ID)
	assert.NoError(t, err)
	assert.False(t, got.HasParent())

	err = st.DeleteAccount(ctx, parent.ID, false)
	assert.True(t, storage.IsNotFound(err))
}

func TestPayees(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	zed, err := model.NewPayee("Zed", "")
	assert.NoError(t, err)
	assert.NoError(t, st.SavePayee(ctx, zed))
	acme, err := model.NewPayee("Acme", "hardware")
	assert.NoError(t, err)
	assert.NoError(t, st.SavePayee(ctx, acme))

	payees, err := st.Payees(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(payees))
	assert.Equal(t, "Acme", payees[0].Name)

	got, err := st.PayeeByName(ctx, "Acme")
	assert.NoError(t, err)
	assert.Equal(t, "hardware", got.Notes)

	dup, err := model.NewPayee("Zed", "")
	assert.NoError(t, err)
	assertIntegrity(t, st.SavePayee(ctx, dup), storage.IntegrityUnique)
}
