// Package picker is the date-picker state machine. A Picker owns the displayed
// month, the selected date and the year window, and rebuilds its grids after
// every command so that queries are plain reads.
//
// A Picker is not safe for concurrent use; each UI owns its own.
package picker

import (
	"slices"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/dateformat"
	"datepick/internal/model"
)

type Options struct {
	// Pattern is the token pattern; empty means dateformat.DefaultPattern.
	Pattern string
	// From and To are optional bounds, parsed with Pattern ("today" works).
	From string
	To   string
	// Value is the initial selection, parsed with Pattern.
	Value string

	// WeeksToShow is clamped to 1..MaxWeeksToShow; 0 means the default.
	WeeksToShow int
	// YearsToShow overrides the year window size derived from the pattern.
	YearsToShow int

	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// State is the mutable part of a Picker.
type State struct {
	Cursor      model.Cursor       `json:"cursor"`
	Selected    model.CalendarDate `json:"selected"`
	VisibleYear int                `json:"visibleYear"`
}

type Picker struct {
	pattern string
	mode    model.Granularity
	bounds  calendar.Bounds
	weeks   int
	years   int
	now     func() time.Time

	state     State
	listeners []func(model.Selection)

	today    model.CalendarDate
	leading  []model.DayCell
	current  []model.DayCell
	trailing []model.DayCell
	months   []model.MonthCell
	yearList []model.YearCell
}

// New builds a Picker displaying the current month, then applies opts.Value.
// An unparseable bound or value is ignored.
func New(opts Options) *Picker {
	p := &Picker{
		pattern: opts.Pattern,
		weeks:   opts.WeeksToShow,
		years:   opts.YearsToShow,
		now:     opts.Now,
	}
	if p.pattern == "" {
		p.pattern = dateformat.DefaultPattern
	}
	if p.now == nil {
		p.now = time.Now
	}
	p.mode = dateformat.GranularityOf(p.pattern)
	p.weeks = clampWeeks(p.weeks)
	if p.years <= 0 {
		p.years = YearsToShow(p.mode)
	}
	p.years = min(p.years, MaxYearsToShow)
	if d, ok := dateformat.ParseAt(opts.From, p.pattern, p.now); ok {
		p.bounds.From = d
	}
	if d, ok := dateformat.ParseAt(opts.To, p.pattern, p.now); ok {
		p.bounds.To = d
	}

	today := p.clock()
	p.state = State{Cursor: today.Cursor(), VisibleYear: today.Year}
	p.initFromValue(opts.Value)
	p.rebuild(today)
	return p
}

func (p *Picker) clock() model.CalendarDate { return model.DateOf(p.now()) }

// apply runs fn against a single reading of the clock and rebuilds the grids.
func (p *Picker) apply(fn func(today model.CalendarDate)) {
	today := p.clock()
	fn(today)
	p.rebuild(today)
}

func (p *Picker) rebuild(today model.CalendarDate) {
	env := Env{Bounds: p.bounds, Today: today, Selected: p.state.Selected}
	c := p.state.Cursor
	p.today = today
	p.leading = LeadingDays(c, env)
	p.current = CurrentMonthDays(c, env)
	p.trailing = TrailingDays(c, p.weeks, env)
	p.months = MonthGrid(c.Year, env)
	p.yearList = YearGrid(p.state.VisibleYear, p.years, env)
}

// OnSelect registers fn to receive every selection.
func (p *Picker) OnSelect(fn func(model.Selection)) {
	if fn != nil {
		p.listeners = append(p.listeners, fn)
	}
}

func (p *Picker) emit(sel model.Selection) {
	for _, fn := range p.listeners {
		fn(sel)
	}
}

// setMonth steps at most one year: any month below 0 is December of the
// previous year and any month above 11 is January of the next.
func (p *Picker) setMonth(m int) {
	c := p.state.Cursor
	switch {
	case m < 0:
		c = model.Cursor{Year: c.Year - 1, Month: 11}
	case m > 11:
		c = model.Cursor{Year: c.Year + 1, Month: 0}
	default:
		c.Month = m
	}
	p.state.Cursor = c
}

func (p *Picker) setYear(y int) {
	p.state.Cursor.Year = y
}

func (p *Picker) selectDay(d int) model.Selection {
	c := p.state.Cursor
	p.state.Selected = model.NewCalendarDate(c.Year, c.Month, d)
	return model.Selection{Date: p.state.Selected, Formatted: dateformat.Format(p.state.Selected, p.pattern)}
}

func (p *Picker) initFromValue(text string) bool {
	d, ok := dateformat.ParseAt(text, p.pattern, p.now)
	if !ok {
		return false
	}
	p.state.Selected = d
	p.state.Cursor = d.Cursor()
	p.state.VisibleYear = d.Year
	return true
}

// SetMonth displays month m of the current year. A month below 0 shows
// December of the previous year and one above 11 shows January of the next.
func (p *Picker) SetMonth(m int) {
	p.apply(func(model.CalendarDate) { p.setMonth(m) })
}

func (p *Picker) SetYear(y int) {
	p.apply(func(model.CalendarDate) { p.setYear(y) })
}

// NavigateMonth moves the displayed month by delta months.
func (p *Picker) NavigateMonth(delta int) {
	p.apply(func(model.CalendarDate) {
		p.state.Cursor = calendar.Normalize(p.state.Cursor.Year, p.state.Cursor.Month+delta)
	})
}

// ShiftVisibleYearWindow moves the centre of the year window.
func (p *Picker) ShiftVisibleYearWindow(delta int) {
	p.apply(func(model.CalendarDate) { p.state.VisibleYear += delta })
}

// StepYear moves the displayed year by delta and re-centres the year window on
// it, as scrolling over the month list does.
func (p *Picker) StepYear(delta int) {
	p.apply(func(model.CalendarDate) {
		y := p.state.Cursor.Year + delta
		p.state.VisibleYear = y
		p.setYear(y)
	})
}

// SyncVisibleYear centres the year window on the displayed year.
func (p *Picker) SyncVisibleYear() {
	p.apply(func(model.CalendarDate) { p.state.VisibleYear = p.state.Cursor.Year })
}

// SelectDay selects day d of the displayed month. Bounds are not enforced;
// callers check the cell's Active flag first.
func (p *Picker) SelectDay(d int) model.Selection {
	var sel model.Selection
	p.apply(func(model.CalendarDate) { sel = p.selectDay(d) })
	p.emit(sel)
	return sel
}

// SelectMonth displays month m and selects its first day.
func (p *Picker) SelectMonth(m int) model.Selection {
	var sel model.Selection
	p.apply(func(model.CalendarDate) {
		p.setMonth(m)
		sel = p.selectDay(1)
	})
	p.emit(sel)
	return sel
}

// SelectYear displays January of y and selects 1 January.
func (p *Picker) SelectYear(y int) model.Selection {
	var sel model.Selection
	p.apply(func(model.CalendarDate) {
		p.setYear(y)
		p.setMonth(0)
		sel = p.selectDay(1)
	})
	p.emit(sel)
	return sel
}

// JumpToToday displays and selects today.
func (p *Picker) JumpToToday() model.Selection {
	var sel model.Selection
	p.apply(func(today model.CalendarDate) {
		p.state.Cursor = today.Cursor()
		p.state.VisibleYear = today.Year
		sel = p.selectDay(today.Day)
	})
	p.emit(sel)
	return sel
}

// InitFromValue selects and displays the date in text. It reports whether
// text parsed; on failure nothing changes.
func (p *Picker) InitFromValue(text string) bool {
	var ok bool
	p.apply(func(model.CalendarDate) { ok = p.initFromValue(text) })
	return ok
}

// State returns the mutable state for persisting.
func (p *Picker) State() State { return p.state }

// Restore replaces the mutable state, normalizing the cursor.
func (p *Picker) Restore(st State) {
	p.apply(func(model.CalendarDate) {
		p.state.Cursor = calendar.Normalize(st.Cursor.Year, st.Cursor.Month)
		p.state.VisibleYear = st.VisibleYear
		p.state.Selected = model.CalendarDate{}
		if !st.Selected.IsZero() {
			p.state.Selected = model.NewCalendarDate(st.Selected.Year, st.Selected.Month, st.Selected.Day)
		}
	})
}

func (p *Picker) Pattern() string { return p.pattern }

func (p *Picker) Mode() model.Granularity { return p.mode }

func (p *Picker) Bounds() calendar.Bounds { return p.bounds }

func (p *Picker) WeeksToShow() int { return p.weeks }

func (p *Picker) YearsToShow() int { return p.years }

func (p *Picker) DisplayedMonth() int { return p.state.Cursor.Month }

func (p *Picker) DisplayedYear() int { return p.state.Cursor.Year }

// VisibleYear is the centre of the year window.
func (p *Picker) VisibleYear() int { return p.state.VisibleYear }

// Today is the date the grids were last built against.
func (p *Picker) Today() model.CalendarDate { return p.today }

func (p *Picker) LeadingDays() []model.DayCell { return slices.Clone(p.leading) }

func (p *Picker) CurrentMonthDays() []model.DayCell { return slices.Clone(p.current) }

func (p *Picker) TrailingDays() []model.DayCell { return slices.Clone(p.trailing) }

func (p *Picker) MonthGrid() []model.MonthCell { return slices.Clone(p.months) }

func (p *Picker) YearGrid() []model.YearCell { return slices.Clone(p.yearList) }

// Selected returns the selected date, if any.
func (p *Picker) Selected() (model.CalendarDate, bool) {
	return p.state.Selected, !p.state.Selected.IsZero()
}

// Formatted returns the selection formatted with the pattern, or "".
func (p *Picker) Formatted() string {
	return dateformat.Format(p.state.Selected, p.pattern)
}
