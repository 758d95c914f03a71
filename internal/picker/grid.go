package picker

import (
	"datepick/internal/calendar"
	"datepick/internal/model"
)

const (
	DefaultWeeksToShow = 6
	// MaxWeeksToShow caps the day grid; larger requests are clamped.
	MaxWeeksToShow = 12
	// MaxYearsToShow caps the year window.
	MaxYearsToShow = 99

	yearsToShowMonthMode = 7
	yearsToShowDefault   = 9
)

// YearsToShow is the year window size for a granularity.
func YearsToShow(g model.Granularity) int {
	if g == model.GranularityMonth {
		return yearsToShowMonthMode
	}
	return yearsToShowDefault
}

func clampWeeks(weeks int) int {
	switch {
	case weeks <= 0:
		return DefaultWeeksToShow
	case weeks > MaxWeeksToShow:
		return MaxWeeksToShow
	}
	return weeks
}

// Env carries what every cell flag is computed against.
type Env struct {
	Bounds   calendar.Bounds
	Today    model.CalendarDate
	Selected model.CalendarDate
}

func (e Env) dayCell(d model.CalendarDate, outside bool) model.DayCell {
	return model.DayCell{
		Day:      d.Day,
		Date:     d,
		Active:   e.Bounds.DayAvailable(d),
		Current:  d == e.Today,
		Selected: !e.Selected.IsZero() && d == e.Selected,
		Outside:  outside,
	}
}

// CurrentMonthDays returns one cell per day of the cursor month.
func CurrentMonthDays(c model.Cursor, env Env) []model.DayCell {
	n := calendar.DaysInMonth(c.Year, c.Month)
	out := make([]model.DayCell, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, env.dayCell(model.CalendarDate{Year: c.Year, Month: c.Month, Day: i}, false))
	}
	return out
}

// LeadingDays returns the last days of the previous month that pad the first
// row to a Monday start, in ascending order. There is always at least one.
func LeadingDays(c model.Cursor, env Env) []model.DayCell {
	count := calendar.LeadingCount(c.Year, c.Month)
	prev := calendar.AddMonths(c, -1)
	last := calendar.DaysInMonth(prev.Year, prev.Month)
	out := make([]model.DayCell, 0, count)
	for i := last - count + 1; i <= last; i++ {
		out = append(out, env.dayCell(model.CalendarDate{Year: prev.Year, Month: prev.Month, Day: i}, true))
	}
	return out
}

// TrailingDays fills the grid up to weeks*7 cells with days of the next month.
func TrailingDays(c model.Cursor, weeks int, env Env) []model.DayCell {
	weeks = clampWeeks(weeks)
	count := weeks*7 - calendar.LeadingCount(c.Year, c.Month) - calendar.DaysInMonth(c.Year, c.Month)
	if count <= 0 {
		return []model.DayCell{}
	}
	next := calendar.AddMonths(c, 1)
	out := make([]model.DayCell, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, env.dayCell(model.CalendarDate{Year: next.Year, Month: next.Month, Day: i}, true))
	}
	return out
}

// MonthGrid returns the twelve months of year.
func MonthGrid(year int, env Env) []model.MonthCell {
	out := make([]model.MonthCell, 12)
	for m := range out {
		out[m] = model.MonthCell{
			Month:    m,
			Active:   env.Bounds.MonthAvailable(year, m),
			Current:  env.Today.Year == year && env.Today.Month == m,
			Selected: !env.Selected.IsZero() && env.Selected.Year == year && env.Selected.Month == m,
		}
	}
	return out
}

// YearGrid returns size consecutive years centred on center.
func YearGrid(center, size int, env Env) []model.YearCell {
	if size <= 0 {
		size = yearsToShowDefault
	}
	start := center - size/2
	out := make([]model.YearCell, size)
	for i := range out {
		y := start + i
		out[i] = model.YearCell{
			Year:     y,
			Active:   env.Bounds.YearAvailable(y),
			Current:  env.Today.Year == y,
			Selected: !env.Selected.IsZero() && env.Selected.Year == y,
		}
	}
	return out
}
