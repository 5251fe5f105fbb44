// Package model provides the domain types of the bookkeeping engine:
// commodities, accounts, payees, transactions with balanced splits, scheduled
// transactions and budgets.
//
// Every constructor validates its input and either returns a complete value or
// an error; nothing half-built is ever returned. Amounts use exact decimal
// arithmetic, never binary floating point. The package performs no I/O.
//
// The core invariants enforced here are:
//   - A transaction has at least two splits and its amounts sum exactly to zero
//   - No amount carries a fraction of a cent
//   - Split statuses are empty, cleared (C) or reconciled (R)
//
// Example usage:
//
//	checking, _ := model.NewAccount(model.AccountTypeAsset, "Checking", model.WithAccountID(1))
//	housing, _ := model.NewAccount(model.AccountTypeExpense, "Housing", model.WithAccountID(2))
//
//	txn, err := model.NewTransaction(model.Date(2018, time.January, 25), []model.RawSplit{
//	    {Account: checking, Amount: -101},
//	    {Account: housing, Amount: 101},
//	})
//	if err != nil {
//	    var terr *model.InvalidTransactionError
//	    if errors.As(err, &terr) {
//	        fmt.Println(terr.Reason)
//	    }
//	}
package model
