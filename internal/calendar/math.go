// Package calendar holds the proleptic Gregorian arithmetic and range checks
// the picker grids are built from. Months are zero-based.
package calendar

import (
	"time"

	"datepick/internal/model"
)

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	// Day 0 of next month is last day of this month.
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves c by delta months, carrying into the year as needed.
func AddMonths(c model.Cursor, delta int) model.Cursor {
	return Normalize(c.Year, c.Month+delta)
}

// Normalize folds any month value into [0,11], adjusting the year.
func Normalize(year, month int) model.Cursor {
	year += floorDiv(month, 12)
	month -= floorDiv(month, 12) * 12
	return model.Cursor{Year: year, Month: month}
}

// WeekdayOfFirst returns the ISO weekday (Monday=1 .. Sunday=7) of day 1.
func WeekdayOfFirst(year, month int) int {
	return ISOWeekday(time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

func ISOWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// LeadingCount is the number of previous-month days shown before day 1 in a
// Monday-first grid. It is never zero: a month that starts on Monday gets a
// full leading week.
func LeadingCount(year, month int) int {
	n := WeekdayOfFirst(year, month) - 1
	if n == 0 {
		n = 7
	}
	return n
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
