package model

import (
	"fmt"
	"time"
)

// CalendarDate is a date-only value. Month is zero-based (0 = January).
//
// The zero value means "no date"; use IsZero to test for it.
type CalendarDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewCalendarDate returns the date for (year, month, day), rolling month and
// day overflow into neighbouring months and years (e.g. month 12 is January of
// the next year, day 0 is the last day of the previous month).
func NewCalendarDate(year, month, day int) CalendarDate {
	return DateOf(time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: int(m) - 1, Day: d}
}

func (d CalendarDate) IsZero() bool { return d.Day == 0 }

// Time returns midnight UTC of d.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, 0, 0, 0, 0, time.UTC)
}

// ISO returns d as YYYY-MM-DD, or "" for the zero date.
func (d CalendarDate) ISO() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Day)
}

func (d CalendarDate) String() string { return d.ISO() }

// Cursor returns the (year, month) of d with the day dropped.
func (d CalendarDate) Cursor() Cursor { return Cursor{Year: d.Year, Month: d.Month} }

// Cursor is the displayed (year, month). Its day is always 1.
type Cursor struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Date returns day 1 of the cursor month.
func (c Cursor) Date() CalendarDate { return NewCalendarDate(c.Year, c.Month, 1) }

// Granularity is the precision a picker resolves to.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// Selection is emitted whenever a picker selects a date.
type Selection struct {
	Date      CalendarDate `json:"date"`
	Formatted string       `json:"formatted"`
}
