package model

import "time"

// nextDueDate advances d by one period of f using calendar-aware rules.
// Days that don't exist in the target month clamp to its last day.
func nextDueDate(d time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return addMonths(d, 1)
	case FrequencySemiMonthly:
		return addHalfMonth(d)
	case FrequencyQuarterly:
		return addMonths(d, 3)
	case FrequencyYearly:
		return addMonths(d, 12)
	default:
		return d
	}
}

// addMonths adds n calendar months, clamping the day to the target month.
// time.AddDate normalizes overflow instead (Jan 31 + 1 month = Mar 3).
func addMonths(d time.Time, n int) time.Time {
	year, month, day := d.Date()
	target := Date(year, month+time.Month(n), 1)
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	return Date(target.Year(), target.Month(), day)
}

// addHalfMonth moves the first half of a month to the second half of the
// same month, and the second half to the first half of the next month.
// February is split at the 14th.
//
//	Jan 10 -> Jan 25, Jan 20 -> Feb 5, Jan 31 -> Feb 14, Mar 31 -> Apr 15
//	Feb 14 -> Feb 28, Feb 20 -> Mar 6, Feb 28 -> Mar 15
func addHalfMonth(d time.Time) time.Time {
	year, month, day := d.Date()
	switch {
	case month == time.February && day > 27:
		return Date(year, time.March, 15)
	case month == time.February && day > 14:
		return Date(year, time.March, day%14)
	case month == time.February:
		return Date(year, time.February, day+14)
	case day >= 30 && month == time.January:
		return Date(year, time.February, 14)
	case day >= 30:
		return Date(year, month+1, 15)
	case day > 15:
		return Date(year, month+1, day%15)
	}
	return Date(year, month, day+15)
}
