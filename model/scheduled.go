package model

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a scheduled transaction recurs
type Frequency int

const (
	FrequencyUnknown Frequency = iota
	FrequencyWeekly
	FrequencyMonthly
	FrequencySemiMonthly
	FrequencyQuarterly
	FrequencyYearly
)

// Frequencies lists every valid frequency.
var Frequencies = []Frequency{
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencySemiMonthly,
	FrequencyQuarterly,
	FrequencyYearly,
}

// String returns the persisted name of the frequency
func (f Frequency) String() string {
	switch f {
	case FrequencyWeekly:
		return "weekly"
	case FrequencyMonthly:
		return "monthly"
	case FrequencySemiMonthly:
		return "semi_monthly"
	case FrequencyQuarterly:
		return "quarterly"
	case FrequencyYearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// ParseFrequency parses a frequency name, ignoring case.
func ParseFrequency(s string) (Frequency, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Frequencies {
		if f.String() == want {
			return f, nil
		}
	}
	return FrequencyUnknown, &InvalidScheduledTransactionError{Reason: fmt.Sprintf("invalid frequency %q", s)}
}

// ScheduledTransaction is a template that produces a Transaction each time
// it comes due.
type ScheduledTransaction struct {
	ID          int64
	Name        string
	Frequency   Frequency
	NextDueDate time.Time
	Splits      []Split
	Type        string
	Payee       *Payee
	Description string
}

// NewScheduledTransaction creates a scheduled transaction after validating
// its name, frequency, due date and splits.
func NewScheduledTransaction(name string, freq Frequency, nextDue time.Time, raw []RawSplit, opts ...Option) (*ScheduledTransaction, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &InvalidScheduledTransactionError{Reason: "scheduled transaction must have a name"}
	}
	if freq == FrequencyUnknown || freq > FrequencyYearly {
		return nil, &InvalidScheduledTransactionError{Name: name, Reason: fmt.Sprintf("invalid frequency %d", freq)}
	}
	if nextDue.IsZero() {
		return nil, &InvalidScheduledTransactionError{Name: name, Reason: "must have a next due date"}
	}

	splits, err := ValidateSplits(raw)
	if err != nil {
		return nil, err
	}

	o, err := applyOptions(opts)
	if err != nil {
		return nil, &InvalidScheduledTransactionError{Name: name, Reason: err.Error()}
	}

	return &ScheduledTransaction{
		ID:          o.id,
		Name:        name,
		Frequency:   freq,
		NextDueDate: DateOf(nextDue),
		Splits:      splits,
		Type:        o.txnType,
		Payee:       o.payee,
		Description: o.description,
	}, nil
}

// IsDue reports whether the next due date falls on or before asOf.
func (st *ScheduledTransaction) IsDue(asOf time.Time) bool {
	return !st.NextDueDate.After(DateOf(asOf))
}

// AdvanceToNextDueDate moves NextDueDate forward by one period.
func (st *ScheduledTransaction) AdvanceToNextDueDate() {
	st.NextDueDate = nextDueDate(st.NextDueDate, st.Frequency)
}

// Split returns the scheduled split for the given account.
func (st *ScheduledTransaction) Split(accountID int64) (Split, bool) {
	return findSplit(st.Splits, accountID)
}

// Touches reports whether any split references the given account.
func (st *ScheduledTransaction) Touches(accountID int64) bool {
	_, ok := st.Split(accountID)
	return ok
}

// PayeeName returns the payee's name, or "" when there is none.
func (st *ScheduledTransaction) PayeeName() string {
	if st.Payee == nil {
		return ""
	}
	return st.Payee.Name
}

// Transaction builds the ordinary transaction this schedule produces for its
// current due date. Split statuses are not carried over.
func (st *ScheduledTransaction) Transaction() (*Transaction, error) {
	raw := make([]RawSplit, len(st.Splits))
	for i, s := range st.Splits {
		raw[i] = s.Raw()
		raw[i].Status = ""
	}
	opts := []Option{WithType(st.Type), WithDescription(st.Description)}
	if st.Payee != nil {
		opts = append(opts, WithPayee(st.Payee))
	}
	return NewTransaction(st.NextDueDate, raw, opts...)
}

func (st *ScheduledTransaction) String() string {
	return fmt.Sprintf("%d: %s (%s %s)", st.ID, st.Name, st.Frequency, FormatDate(st.NextDueDate))
}
