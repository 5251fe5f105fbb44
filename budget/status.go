package budget

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/bookkeeper/model"
)

// RoundPercent rounds a percentage to a whole number, halves away from zero.
func RoundPercent(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// RemainingTime returns the percentage of the budget period left on current.
// The period counts both its start and end day.
func RemainingTime(current, start, end time.Time) decimal.Decimal {
	current, start, end = model.DateOf(current), model.DateOf(start), model.DateOf(end)
	daysInBudget := decimal.NewFromInt(days(start, end) + 1)
	daysPassed := decimal.NewFromInt(days(start, current))
	return hundred.Sub(daysPassed.Div(daysInBudget).Mul(hundred))
}

func days(from, to time.Time) int64 {
	return int64(to.Sub(from).Hours() / 24)
}

// CurrentStatus compares how far current is into the budget period with the
// given percentage and returns the signed difference, e.g. "+12%". A positive
// difference is favorable: for expenses more budget is left than time, for
// income more has come in than time has passed.
//
// For expenses percent is the remaining budget; for income it is the share of
// the budgeted income received. The status is empty unless current lies
// strictly inside the period.
func CurrentStatus(current, start, end time.Time, percent decimal.Decimal, income bool) string {
	if current.IsZero() {
		return ""
	}
	current = model.DateOf(current)
	if !current.After(model.DateOf(start)) || !current.Before(model.DateOf(end)) {
		return ""
	}

	remaining := RemainingTime(current, start, end)

	var diff decimal.Decimal
	if income {
		elapsed := hundred.Sub(remaining)
		diff = percent.Sub(elapsed)
	} else {
		diff = percent.Sub(remaining)
	}

	diff = RoundPercent(diff)
	if diff.IsPositive() {
		return fmt.Sprintf("+%s%%", diff.String())
	}
	return formatPercent(diff)
}
