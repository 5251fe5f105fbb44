// Package ledger provides the per-account view of transactions and scheduled
// transactions. A Ledger is built on demand from already-loaded entries and
// derives sorted order, running balances, current balances, searches and due
// schedules from them.
//
// Ledgers are read-only: they never change the entries they were built from
// and hold no storage handle. Rebuild a Ledger whenever the underlying
// transactions change.
//
// Balances accumulate split amounts, except for SECURITY accounts where they
// accumulate share quantities.
//
// Example usage:
//
//	l := ledger.New(checking, txns, scheduled)
//	for _, entry := range l.SortedWithBalance(true) {
//	    fmt.Println(entry.Transaction.Date, entry.Balance)
//	}
//
//	balances := l.CurrentBalances(time.Now())
//	fmt.Println(balances.Current, balances.CurrentCleared)
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// Ledger is the projection of a set of transactions onto one account.
type Ledger struct {
	account   *model.Account
	txns      []*model.Transaction
	scheduled []*model.ScheduledTransaction
}

// Balances are the current figures of an account.
type Balances struct {
	// Current is the running balance after the last transaction dated on or
	// before the reference date.
	Current decimal.Decimal
	// CurrentCleared sums the cleared splits dated on or before the
	// reference date.
	CurrentCleared decimal.Decimal
}

// Filter restricts the transactions a listing returns.
type Filter struct {
	Status    string // this account's split status, e.g. model.StatusCleared
	AccountID int64  // only transactions that also touch this account
	Query     string // case-insensitive payee or description match
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return f.Status == "" && f.AccountID == 0 && f.Query == ""
}

// New creates a ledger for account. Transactions and scheduled transactions
// that don't touch the account are ignored.
func New(account *model.Account, txns []*model.Transaction, scheduled []*model.ScheduledTransaction) *Ledger {
	l := &Ledger{account: account}
	for _, txn := range txns {
		if txn.Touches(account.ID) {
			l.txns = append(l.txns, txn)
		}
	}
	for _, st := range scheduled {
		if st.Touches(account.ID) {
			l.scheduled = append(l.scheduled, st)
		}
	}
	return l
}

// Account returns the account this ledger projects onto.
func (l *Ledger) Account() *model.Account {
	return l.account
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// sorted returns the transactions in ascending date order. Transactions on the
// same date keep their input order.
func (l *Ledger) sorted() []*model.Transaction {
	txns := slices.Clone(l.txns)
	slices.SortStableFunc(txns, func(a, b *model.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return txns
}

// SortedWithBalance returns the transactions annotated with their running
// balance. Balances are always accumulated in ascending date order; reverse
// only changes the display order.
func (l *Ledger) SortedWithBalance(reverse bool) []Posted {
	txns := l.sorted()
	entries := make([]Posted, 0, len(txns))

	balance := decimal.Zero
	for _, txn := range txns {
		split, _ := txn.Split(l.account.ID)
		balance = balance.Add(split.Balance())
		entries = append(entries, Posted{Transaction: txn, Balance: balance, HasBalance: true})
	}

	if reverse {
		slices.Reverse(entries)
	}
	return entries
}

// CurrentBalances returns the balances as of the given date.
func (l *Ledger) CurrentBalances(asOf time.Time) Balances {
	asOf = model.DateOf(asOf)
	balances := Balances{Current: decimal.Zero, CurrentCleared: decimal.Zero}

	for _, entry := range l.SortedWithBalance(false) {
		if entry.Transaction.Date.After(asOf) {
			break
		}
		balances.Current = entry.Balance

		split, _ := entry.Transaction.Split(l.account.ID)
		if split.IsCleared() {
			balances.CurrentCleared = balances.CurrentCleared.Add(split.Balance())
		}
	}
	return balances
}

// Search returns the transactions whose payee name or description contains
// term, ignoring case, in ascending date order.
func (l *Ledger) Search(term string) []*model.Transaction {
	return l.Filter(Filter{Query: term})
}

// Filter returns the transactions matching every set field of f, in ascending
// date order.
func (l *Ledger) Filter(f Filter) []*model.Transaction {
	query := strings.ToLower(f.Query)

	var results []*model.Transaction
	for _, txn := range l.sorted() {
		if f.Status != "" {
			split, _ := txn.Split(l.account.ID)
			if split.Status != f.Status {
				continue
			}
		}
		if f.AccountID != 0 && !txn.Touches(f.AccountID) {
			continue
		}
		if query != "" && !matches(txn, query) {
			continue
		}
		results = append(results, txn)
	}
	return results
}

func matches(txn *model.Transaction, query string) bool {
	if txn.Payee != nil && strings.Contains(strings.ToLower(txn.Payee.Name), query) {
		return true
	}
	return strings.Contains(strings.ToLower(txn.Description), query)
}

// DueScheduledTransactions returns the scheduled transactions due on or
// before asOf.
func (l *Ledger) DueScheduledTransactions(asOf time.Time) []*model.ScheduledTransaction {
	var due []*model.ScheduledTransaction
	for _, st := range l.scheduled {
		if st.IsDue(asOf) {
			due = append(due, st)
		}
	}
	return due
}

// Entries returns every posted transaction with its balance in date order,
// followed by the scheduled transactions due as of asOf.
func (l *Ledger) Entries(asOf time.Time, reverse bool) []Entry {
	posted := l.SortedWithBalance(reverse)
	due := l.DueScheduledTransactions(asOf)

	entries := make([]Entry, 0, len(posted)+len(due))
	for _, p := range posted {
		entries = append(entries, p)
	}
	for _, st := range due {
		entries = append(entries, Due{Scheduled: st})
	}
	return entries
}

// Payees returns the distinct payees of the ledger's transactions, sorted by
// name.
func (l *Ledger) Payees() []*model.Payee {
	seen := make(map[string]bool)
	var payees []*model.Payee
	for _, txn := range l.txns {
		if txn.Payee == nil || seen[txn.Payee.Name] {
			continue
		}
		seen[txn.Payee.Name] = true
		payees = append(payees, txn.Payee)
	}
	slices.SortFunc(payees, func(a, b *model.Payee) int {
		return strings.Compare(a.Name, b.Name)
	})
	return payees
}
