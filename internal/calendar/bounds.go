package calendar

import "datepick/internal/model"

// Bounds is an optional inclusive [From, To] range. A zero date on either side
// leaves that side open.
type Bounds struct {
	From model.CalendarDate `json:"from"`
	To   model.CalendarDate `json:"to"`
}

func (b Bounds) HasFrom() bool { return !b.From.IsZero() }
func (b Bounds) HasTo() bool   { return !b.To.IsZero() }

// YearAvailable compares years only.
func (b Bounds) YearAvailable(year int) bool {
	if b.HasFrom() && year < b.From.Year {
		return false
	}
	if b.HasTo() && year > b.To.Year {
		return false
	}
	return true
}

// MonthAvailable compares (year, month) and ignores the bound's day.
func (b Bounds) MonthAvailable(year, month int) bool {
	if b.HasFrom() && compare(year, month, 0, b.From, false) < 0 {
		return false
	}
	if b.HasTo() && compare(year, month, 0, b.To, false) > 0 {
		return false
	}
	return true
}

// DayAvailable compares the full date.
func (b Bounds) DayAvailable(d model.CalendarDate) bool {
	if b.HasFrom() && compare(d.Year, d.Month, d.Day, b.From, true) < 0 {
		return false
	}
	if b.HasTo() && compare(d.Year, d.Month, d.Day, b.To, true) > 0 {
		return false
	}
	return true
}

// compare stops at the coarsest field that differs.
func compare(year, month, day int, bound model.CalendarDate, withDay bool) int {
	switch {
	case year != bound.Year:
		return sign(year - bound.Year)
	case month != bound.Month:
		return sign(month - bound.Month)
	case withDay:
		return sign(day - bound.Day)
	}
	return 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
