package ledger_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/model"
)

type fixture struct {
	checking *model.Account
	savings  *model.Account
	housing  *model.Account
	shares   *model.Account
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return fixture{
		checking: mustAccount(t, model.AccountTypeAsset, "Checking", 1),
		savings:  mustAccount(t, model.AccountTypeAsset, "Savings", 2),
		housing:  mustAccount(t, model.AccountTypeExpense, "Housing", 3),
		shares:   mustAccount(t, model.AccountTypeSecurity, "Shares", 4),
	}
}

func mustAccount(t *testing.T, typ model.AccountType, name string, id int64) *model.Account {
	t.Helper()
	a, err := model.NewAccount(typ, name, model.WithAccountID(id))
	assert.NoError(t, err)
	return a
}

func mustTxn(t *testing.T, day int, splits []model.RawSplit, opts ...model.Option) *model.Transaction {
	t.Helper()
	txn, err := model.NewTransaction(model.Date(2018, 1, day), splits, opts...)
	assert.NoError(t, err)
	return txn
}

func balances(entries []ledger.Posted) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Balance.String()
	}
	return out
}

func TestSortedWithBalance(t *testing.T) {
	f := newFixture(t)

	// Deliberately out of date order.
	txns := []*model.Transaction{
		mustTxn(t, 3, []model.RawSplit{{Account: f.checking, Amount: 1}, {Account: f.savings, Amount: -1}}),
		mustTxn(t, 1, []model.RawSplit{{Account: f.checking, Amount: 10}, {Account: f.savings, Amount: -10}}),
		mustTxn(t, 2, []model.RawSplit{{Account: f.checking, Amount: -20}, {Account: f.savings, Amount: 20}}),
		mustTxn(t, 2, []model.RawSplit{{Account: f.savings, Amount: -5}, {Account: f.housing, Amount: 5}}),
	}

	l := ledger.New(f.checking, txns, nil)
	assert.Equal(t, 3, l.Len())

	assert.Equal(t, []string{"10", "-10", "-9"}, balances(l.SortedWithBalance(false)))
	assert.Equal(t, []string{"-9", "-10", "10"}, balances(l.SortedWithBalance(true)))

	reversed := l.SortedWithBalance(true)
	assert.Equal(t, model.Date(2018, 1, 3), reversed[0].Transaction.Date)
}

func TestSortedWithBalanceIsStable(t *testing.T) {
	f := newFixture(t)
	first := mustTxn(t, 5, []model.RawSplit{{Account: f.checking, Amount: 1}, {Account: f.savings, Amount: -1}}, model.WithID(1))
	second := mustTxn(t, 5, []model.RawSplit{{Account: f.checking, Amount: 2}, {Account: f.savings, Amount: -2}}, model.WithID(2))

	entries := ledger.New(f.checking, []*model.Transaction{first, second}, nil).SortedWithBalance(false)
	assert.Equal(t, int64(1), entries[0].Transaction.ID)
	assert.Equal(t, int64(2), entries[1].Transaction.ID)
}

func TestSecurityBalanceUsesQuantity(t *testing.T) {
	f := newFixture(t)
	txns := []*model.Transaction{
		mustTxn(t, 1, []model.RawSplit{
			{Account: f.checking, Amount: -100},
			{Account: f.shares, Amount: 100, Quantity: "4", Action: model.ActionShareBuy},
		}),
		mustTxn(t, 2, []model.RawSplit{
			{Account: f.checking, Amount: -60},
			{Account: f.shares, Amount: 60, Quantity: "2.5", Action: model.ActionShareBuy},
		}),
	}

	entries := ledger.New(f.shares, txns, nil).SortedWithBalance(false)
	assert.Equal(t, []string{"4", "6.5"}, balances(entries))
}

func TestCurrentBalances(t *testing.T) {
	f := newFixture(t)
	txns := []*model.Transaction{
		mustTxn(t, 1, []model.RawSplit{{Account: f.checking, Amount: 10, Status: "C"}, {Account: f.savings, Amount: -10}}),
		mustTxn(t, 2, []model.RawSplit{{Account: f.checking, Amount: -20, Status: "R"}, {Account: f.savings, Amount: 20}}),
		mustTxn(t, 3, []model.RawSplit{{Account: f.checking, Amount: 5, Status: "C"}, {Account: f.savings, Amount: -5}}),
		mustTxn(t, 20, []model.RawSplit{{Account: f.checking, Amount: 100, Status: "C"}, {Account: f.savings, Amount: -100}}),
	}
	l := ledger.New(f.checking, txns, nil)

	tests := []struct {
		name    string
		day     int
		current string
		cleared string
	}{
		{"before any", 0, "0", "0"},
		{"first day", 1, "10", "10"},
		{"reconciled split not counted as cleared", 2, "-10", "10"},
		{"third day", 3, "-5", "15"},
		{"future excluded", 10, "-5", "15"},
		{"everything", 31, "95", "115"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asOf := model.Date(2018, 1, 1).AddDate(0, 0, tt.day-1)
			b := l.CurrentBalances(asOf)
			assert.Equal(t, tt.current, b.Current.String())
			assert.Equal(t, tt.cleared, b.CurrentCleared.String())
		})
	}
}

func TestSearchAndFilter(t *testing.T) {
	f := newFixture(t)
	txns := []*model.Transaction{
		mustTxn(t, 4, []model.RawSplit{{Account: f.checking, Amount: -101}, {Account: f.housing, Amount: 101}},
			model.WithPayeeName("Landlord"), model.WithDescription("January rent")),
		mustTxn(t, 2, []model.RawSplit{{Account: f.checking, Amount: -5, Status: "C"}, {Account: f.housing, Amount: 5}},
			model.WithPayeeName("Hardware Store")),
		mustTxn(t, 1, []model.RawSplit{{Account: f.checking, Amount: 50, Status: "C"}, {Account: f.savings, Amount: -50}},
			model.WithDescription("transfer from savings")),
	}
	l := ledger.New(f.checking, txns, nil)

	results := l.Search("RENT")
	assert.Equal(t, 1, len(results))
	assert.Equal(t, "Landlord", results[0].PayeeName())

	results = l.Search("land")
	assert.Equal(t, 1, len(results))

	results = l.Search("s")
	assert.Equal(t, 2, len(results))
	assert.Equal(t, model.Date(2018, 1, 1), results[0].Date)

	assert.Equal(t, 0, len(l.Search("nothing")))

	cleared := l.Filter(ledger.Filter{Status: model.StatusCleared})
	assert.Equal(t, 2, len(cleared))

	withHousing := l.Filter(ledger.Filter{AccountID: f.housing.ID})
	assert.Equal(t, 2, len(withHousing))

	both := l.Filter(ledger.Filter{AccountID: f.housing.ID, Status: model.StatusCleared})
	assert.Equal(t, 1, len(both))
}

func TestDueScheduledTransactions(t *testing.T) {
	f := newFixture(t)
	splits := []model.RawSplit{{Account: f.checking, Amount: -10}, {Account: f.housing, Amount: 10}}

	due, err := model.NewScheduledTransaction("rent", model.FrequencyMonthly, model.Date(2018, 1, 1), splits)
	assert.NoError(t, err)
	later, err := model.NewScheduledTransaction("insurance", model.FrequencyYearly, model.Date(2018, 6, 1), splits)
	assert.NoError(t, err)
	other, err := model.NewScheduledTransaction("savings", model.FrequencyMonthly, model.Date(2018, 1, 1), []model.RawSplit{
		{Account: f.savings, Amount: -10}, {Account: f.housing, Amount: 10},
	})
	assert.NoError(t, err)

	l := ledger.New(f.checking, nil, []*model.ScheduledTransaction{due, later, other})

	got := l.DueScheduledTransactions(model.Date(2018, 1, 15))
	assert.Equal(t, 1, len(got))
	assert.Equal(t, "rent", got[0].Name)

	assert.Equal(t, 2, len(l.DueScheduledTransactions(model.Date(2018, 6, 1))))
}

func TestPayees(t *testing.T) {
	f := newFixture(t)
	txns := []*model.Transaction{
		mustTxn(t, 1, []model.RawSplit{{Account: f.checking, Amount: -1}, {Account: f.housing, Amount: 1}}, model.WithPayeeName("Zed")),
		mustTxn(t, 2, []model.RawSplit{{Account: f.checking, Amount: -1}, {Account: f.housing, Amount: 1}}, model.WithPayeeName("Acme")),
		mustTxn(t, 3, []model.RawSplit{{Account: f.checking, Amount: -1}, {Account: f.housing, Amount: 1}}, model.WithPayeeName("Zed")),
		mustTxn(t, 4, []model.RawSplit{{Account: f.checking, Amount: -1}, {Account: f.housing, Amount: 1}}),
	}

	payees := ledger.New(f.checking, txns, nil).Payees()
	assert.Equal(t, 2, len(payees))
	assert.Equal(t, "Acme", payees[0].Name)
	assert.Equal(t, "Zed", payees[1].Name)
}
