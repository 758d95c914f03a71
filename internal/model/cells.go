package model

// DayCell is one day in the day view.
//
// Leading and trailing cells belong to the neighbouring months; they carry
// Outside=true and their flags are computed for their own date.
type DayCell struct {
	Day      int          `json:"day"`
	Date     CalendarDate `json:"date"`
	Active   bool         `json:"active"`
	Current  bool         `json:"current"`
	Selected bool         `json:"selected"`
	Outside  bool         `json:"outside,omitempty"`
}

// MonthCell is one month (0-11) in the month view.
type MonthCell struct {
	Month    int  `json:"month"`
	Active   bool `json:"active"`
	Current  bool `json:"current"`
	Selected bool `json:"selected"`
}

// YearCell is one year in the year window.
type YearCell struct {
	Year     int  `json:"year"`
	Active   bool `json:"active"`
	Current  bool `json:"current"`
	Selected bool `json:"selected"`
}
