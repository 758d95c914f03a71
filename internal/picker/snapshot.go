package picker

import "datepick/internal/model"

// Snapshot is every query result of a Picker in one render-ready record.
type Snapshot struct {
	Pattern     string              `json:"pattern"`
	Mode        model.Granularity   `json:"mode"`
	Today       model.CalendarDate  `json:"today"`
	Cursor      model.Cursor        `json:"cursor"`
	VisibleYear int                 `json:"visibleYear"`
	From        *model.CalendarDate `json:"from,omitempty"`
	To          *model.CalendarDate `json:"to,omitempty"`
	Selected    *model.CalendarDate `json:"selected,omitempty"`
	Formatted   string              `json:"formatted,omitempty"`

	LeadingDays      []model.DayCell   `json:"leadingDays"`
	CurrentMonthDays []model.DayCell   `json:"currentMonthDays"`
	TrailingDays     []model.DayCell   `json:"trailingDays"`
	Months           []model.MonthCell `json:"months"`
	Years            []model.YearCell  `json:"years"`
}

func (p *Picker) Snapshot() Snapshot {
	s := Snapshot{
		Pattern:          p.pattern,
		Mode:             p.mode,
		Today:            p.today,
		Cursor:           p.state.Cursor,
		VisibleYear:      p.state.VisibleYear,
		Formatted:        p.Formatted(),
		LeadingDays:      p.LeadingDays(),
		CurrentMonthDays: p.CurrentMonthDays(),
		TrailingDays:     p.TrailingDays(),
		Months:           p.MonthGrid(),
		Years:            p.YearGrid(),
	}
	if p.bounds.HasFrom() {
		d := p.bounds.From
		s.From = &d
	}
	if p.bounds.HasTo() {
		d := p.bounds.To
		s.To = &d
	}
	if d, ok := p.Selected(); ok {
		s.Selected = &d
	}
	return s
}

// Days returns the full day grid: leading, current and trailing cells.
func (s Snapshot) Days() []model.DayCell {
	out := make([]model.DayCell, 0, len(s.LeadingDays)+len(s.CurrentMonthDays)+len(s.TrailingDays))
	out = append(out, s.LeadingDays...)
	out = append(out, s.CurrentMonthDays...)
	return append(out, s.TrailingDays...)
}
