package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// Entry is one row of an account ledger: either a Posted transaction or a
// Due scheduled transaction.
type Entry interface {
	// Date is the transaction date, or the next due date for schedules.
	Date() time.Time
	// Display projects the entry onto account as display strings.
	Display(account *model.Account) Display

	isEntry()
}

// Posted is a saved transaction, optionally annotated with the running
// balance of the ledger account.
type Posted struct {
	Transaction *model.Transaction
	Balance     decimal.Decimal
	HasBalance  bool
}

// Due is a scheduled transaction that has come due.
type Due struct {
	Scheduled *model.ScheduledTransaction
}

func (Posted) isEntry() {}
func (Due) isEntry()    {}

func (p Posted) Date() time.Time { return p.Transaction.Date }
func (d Due) Date() time.Time    { return d.Scheduled.NextDueDate }

// Display holds the display strings for one ledger row. Fields that don't
// apply to an entry kind stay empty.
type Display struct {
	Date        string
	Withdrawal  string
	Deposit     string
	Quantity    string
	Payee       string
	Description string
	Categories  string
	Status      string
	Type        string
	Action      string
	Balance     string

	// Scheduled transactions only
	Name        string
	Frequency   string
	NextDueDate string
}

// Display projects the posted transaction onto account.
func (p Posted) Display(account *model.Account) Display {
	txn := p.Transaction
	split, _ := txn.Split(account.ID)

	d := splitDisplay(split, txn.Splits, account)
	d.Date = model.FormatDate(txn.Date)
	d.Payee = txn.PayeeName()
	d.Description = description(split, txn.Description)
	d.Status = split.Status
	d.Type = txn.Type
	if p.HasBalance {
		d.Balance = model.FormatAmount(p.Balance)
	}
	return d
}

// Display projects the scheduled transaction onto account.
func (d Due) Display(account *model.Account) Display {
	st := d.Scheduled
	split, _ := st.Split(account.ID)

	out := splitDisplay(split, st.Splits, account)
	out.Date = model.FormatDate(st.NextDueDate)
	out.Payee = st.PayeeName()
	out.Description = description(split, st.Description)
	out.Type = st.Type
	out.Name = st.Name
	out.Frequency = st.Frequency.String()
	out.NextDueDate = model.FormatDate(st.NextDueDate)
	return out
}

// splitDisplay fills the fields shared by both entry kinds. Negative amounts
// show as positive withdrawals.
func splitDisplay(split model.Split, splits []model.Split, account *model.Account) Display {
	var d Display
	if split.Amount.IsNegative() {
		d.Withdrawal = model.FormatAmount(split.Amount.Neg())
	} else {
		d.Deposit = model.FormatAmount(split.Amount)
	}
	d.Quantity = model.FormatQuantity(split.Quantity)
	d.Categories = Categories(splits, account)
	d.Action = string(split.Action)
	return d
}

func description(split model.Split, fallback string) string {
	if split.Description != "" {
		return split.Description
	}
	return fallback
}

// Categories names the other side of a transaction from account's point of
// view: the other account for two-way splits, "multiple" otherwise.
func Categories(splits []model.Split, account *model.Account) string {
	if len(splits) == 2 {
		for _, s := range splits {
			if s.Account.ID != account.ID {
				return s.Account.String()
			}
		}
	}
	return "multiple"
}
