package core

import (
	"fmt"
	"time"
)

// NextDue computes the next due date for the weekly, monthly and yearly
// frequencies. Biweekly is never handled here: callers dispatch it to
// BiweeklySmart or BiweeklyExact depending on the payment's mode.
func NextDue(freq Frequency, from Date) (Date, error) {
	switch freq {
	case Weekly:
		return from.AddDays(7), nil
	case Monthly:
		return addMonthsClamped(from, 1), nil
	case Yearly:
		return addMonthsClamped(from, 12), nil
	case Biweekly:
		return Date{}, fmt.Errorf("biweekly dispatch is mode-dependent")
	default:
		return Date{}, fmt.Errorf("unknown frequency: %s", freq)
	}
}

// BiweeklySmart aligns the next due date with the 1st/15th payroll semicycle:
// before the 15th the payment is due on the 15th of the same month, on or
// after the 15th it is due on the 1st of the next month.
func BiweeklySmart(from Date) Date {
	if from.Day() < 15 {
		return NewDate(from.Year(), int(from.Month()), 15)
	}
	first := NewDate(from.Year(), int(from.Month()), 1)
	return addMonthsClamped(first, 1)
}

// BiweeklyExact is due exactly 15 days after the previous due date.
func BiweeklyExact(from Date) Date {
	return from.AddDays(15)
}

// DaysInMonth returns the number of days in the given month, leap years
// included.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsClamped advances by whole calendar months keeping the day of
// month, clamped to the target month's length. time.AddDate would normalize
// Jan 31 + 1 month into Mar 3, which is never a valid due date here.
func addMonthsClamped(d Date, months int) Date {
	year := d.Year()
	month := int(d.Month()) + months
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	day := d.Day()
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}
