package picker

import (
	"testing"
	"time"

	"datepick/internal/model"
)

func clockAt(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 30, 0, 0, time.UTC) }
}

func TestNew_DefaultsToToday(t *testing.T) {
	t.Parallel()

	p := New(Options{Pattern: "dd.mm.yyyy", Now: clockAt(2026, time.October, 17)})

	if p.DisplayedYear() != 2026 || p.DisplayedMonth() != 9 {
		t.Fatalf("expected cursor 2026/9, got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
	if p.VisibleYear() != 2026 {
		t.Fatalf("expected visible year 2026, got %d", p.VisibleYear())
	}
	if _, ok := p.Selected(); ok {
		t.Fatalf("expected no selection before any select call")
	}
	if p.Mode() != model.GranularityDay {
		t.Fatalf("expected day mode, got %s", p.Mode())
	}
	if p.YearsToShow() != 9 || p.WeeksToShow() != 6 {
		t.Fatalf("unexpected window sizes: years=%d weeks=%d", p.YearsToShow(), p.WeeksToShow())
	}
	if p.Formatted() != "" {
		t.Fatalf("expected empty formatted value, got %q", p.Formatted())
	}
}

func TestNew_EmptyPatternUsesDefault(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "05.03.2021", Now: clockAt(2026, time.October, 17)})
	if p.Pattern() != "dd.mm.yyyy" {
		t.Fatalf("expected default pattern, got %q", p.Pattern())
	}
	if got, _ := p.Selected(); got != (model.CalendarDate{Year: 2021, Month: 2, Day: 5}) {
		t.Fatalf("unexpected selection %+v", got)
	}
}

func TestEndToEnd_NavigateThroughYear(t *testing.T) {
	t.Parallel()

	p := New(Options{Pattern: "dd.mm.yyyy", Value: "01.01.2024", Now: clockAt(2026, time.October, 17)})

	if p.DisplayedMonth() != 0 || p.DisplayedYear() != 2024 {
		t.Fatalf("expected 2024/0, got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
	if got, ok := p.Selected(); !ok || got != (model.CalendarDate{Year: 2024, Month: 0, Day: 1}) {
		t.Fatalf("unexpected selection %+v ok=%v", got, ok)
	}

	for i := 0; i < 11; i++ {
		p.NavigateMonth(+1)
	}
	if p.DisplayedMonth() != 11 || p.DisplayedYear() != 2024 {
		t.Fatalf("expected 2024/11, got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
	if got, _ := p.Selected(); got != (model.CalendarDate{Year: 2024, Month: 0, Day: 1}) {
		t.Fatalf("navigation must not change the selection; got %+v", got)
	}

	p.NavigateMonth(+1)
	if p.DisplayedMonth() != 0 || p.DisplayedYear() != 2025 {
		t.Fatalf("expected rollover to 2025/0, got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
}

func TestSetMonth_Rollover(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "15.01.2024", Now: clockAt(2026, time.October, 17)})
	p.SetMonth(-1)
	if p.DisplayedYear() != 2023 || p.DisplayedMonth() != 11 {
		t.Fatalf("SetMonth(-1): got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}

	p.SetYear(2024)
	p.SetMonth(11)
	p.SetMonth(12)
	if p.DisplayedYear() != 2025 || p.DisplayedMonth() != 0 {
		t.Fatalf("SetMonth(12): got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
}

func TestSetMonth_FarOutOfRangeStepsOneYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		month     int
		wantYear  int
		wantMonth int
	}{
		{-5, 2023, 11},
		{-13, 2023, 11},
		{25, 2025, 0},
		{12, 2025, 0},
		{7, 2024, 7},
	}
	for _, tt := range tests {
		p := New(Options{Value: "15.03.2024", Now: clockAt(2026, time.October, 17)})
		p.SetMonth(tt.month)
		if p.DisplayedYear() != tt.wantYear || p.DisplayedMonth() != tt.wantMonth {
			t.Fatalf("SetMonth(%d): got %d/%d, want %d/%d", tt.month, p.DisplayedYear(), p.DisplayedMonth(), tt.wantYear, tt.wantMonth)
		}
	}
}

func TestNavigateMonth_MultiMonthDelta(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "15.03.2024", Now: clockAt(2026, time.October, 17)})
	p.NavigateMonth(14)
	if p.DisplayedYear() != 2025 || p.DisplayedMonth() != 4 {
		t.Fatalf("NavigateMonth(14): got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
	p.NavigateMonth(-5)
	if p.DisplayedYear() != 2024 || p.DisplayedMonth() != 11 {
		t.Fatalf("NavigateMonth(-5): got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
}

func TestNew_ClampsGridSizes(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "15.02.2024", WeeksToShow: 100000000, YearsToShow: 1 << 30, Now: clockAt(2026, time.October, 17)})
	if p.WeeksToShow() != MaxWeeksToShow || p.YearsToShow() != MaxYearsToShow {
		t.Fatalf("expected clamped sizes, got weeks=%d years=%d", p.WeeksToShow(), p.YearsToShow())
	}
	snap := p.Snapshot()
	if n := len(snap.LeadingDays) + len(snap.CurrentMonthDays) + len(snap.TrailingDays); n != MaxWeeksToShow*7 {
		t.Fatalf("expected %d day cells, got %d", MaxWeeksToShow*7, n)
	}
}

func TestSelectMonth_SelectsFirstDay(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "20.08.2023", Now: clockAt(2026, time.October, 17)})
	var events []model.Selection
	p.OnSelect(func(s model.Selection) { events = append(events, s) })

	sel := p.SelectMonth(5)
	want := model.CalendarDate{Year: 2023, Month: 5, Day: 1}
	if got, _ := p.Selected(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if sel.Formatted != "01.06.2023" || sel.Date != want {
		t.Fatalf("unexpected selection event %+v", sel)
	}
	if len(events) != 1 || events[0] != sel {
		t.Fatalf("expected one emitted event equal to the returned one; got %+v", events)
	}
}

func TestSelectYear_ResetsToJanuaryFirst(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "20.08.2023", Now: clockAt(2026, time.October, 17)})
	sel := p.SelectYear(2030)
	if sel.Date != (model.CalendarDate{Year: 2030, Month: 0, Day: 1}) {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if p.DisplayedYear() != 2030 || p.DisplayedMonth() != 0 {
		t.Fatalf("expected cursor 2030/0, got %d/%d", p.DisplayedYear(), p.DisplayedMonth())
	}
}

func TestSelectDay_DoesNotEnforceBounds(t *testing.T) {
	t.Parallel()

	p := New(Options{From: "10.04.2024", Value: "15.04.2024", Now: clockAt(2026, time.October, 17)})
	cells := p.CurrentMonthDays()
	if cells[8].Active {
		t.Fatalf("expected 9 April to be inactive")
	}
	sel := p.SelectDay(9)
	if sel.Date != (model.CalendarDate{Year: 2024, Month: 3, Day: 9}) {
		t.Fatalf("expected selection of an inactive day to go through; got %+v", sel)
	}
}

func TestSelectDay_OverflowRollsOver(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "01.02.2023", Now: clockAt(2026, time.October, 17)})
	sel := p.SelectDay(30)
	if sel.Date != (model.CalendarDate{Year: 2023, Month: 2, Day: 2}) {
		t.Fatalf("expected 30 Feb 2023 to roll to 2 Mar; got %+v", sel.Date)
	}
	if p.DisplayedMonth() != 1 {
		t.Fatalf("selection must not move the cursor; got month %d", p.DisplayedMonth())
	}
}

func TestJumpToToday(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "01.01.2000", Now: clockAt(2026, time.October, 17)})
	p.ShiftVisibleYearWindow(-12)

	sel := p.JumpToToday()
	if sel.Date != (model.CalendarDate{Year: 2026, Month: 9, Day: 17}) || sel.Formatted != "17.10.2026" {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if p.VisibleYear() != 2026 || p.DisplayedYear() != 2026 || p.DisplayedMonth() != 9 {
		t.Fatalf("unexpected state %+v", p.State())
	}
	cells := p.CurrentMonthDays()
	if !cells[16].Current || !cells[16].Selected {
		t.Fatalf("expected 17th to be current and selected; got %+v", cells[16])
	}
}

func TestInitFromValue(t *testing.T) {
	t.Parallel()

	p := New(Options{Now: clockAt(2026, time.October, 17)})
	before := p.State()

	if p.InitFromValue("1.1.2020") {
		t.Fatalf("expected short value to fail")
	}
	if p.State() != before {
		t.Fatalf("failed parse must not change state; got %+v", p.State())
	}

	if !p.InitFromValue("29.02.2020") {
		t.Fatalf("expected valid value to parse")
	}
	st := p.State()
	if st.Cursor != (model.Cursor{Year: 2020, Month: 1}) || st.VisibleYear != 2020 {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.Selected != (model.CalendarDate{Year: 2020, Month: 1, Day: 29}) {
		t.Fatalf("unexpected selection %+v", st.Selected)
	}
}

func TestYearWindow(t *testing.T) {
	t.Parallel()

	p := New(Options{Pattern: "yyyy", Value: "2024", From: "2022", To: "2026", Now: clockAt(2026, time.October, 17)})
	years := p.YearGrid()
	if len(years) != 9 {
		t.Fatalf("expected 9 years, got %d", len(years))
	}
	for i, y := range years {
		if y.Year != 2020+i {
			t.Fatalf("years[%d] = %d", i, y.Year)
		}
		wantActive := y.Year >= 2022 && y.Year <= 2026
		if y.Active != wantActive {
			t.Fatalf("year %d active=%v want %v", y.Year, y.Active, wantActive)
		}
		if y.Selected != (y.Year == 2024) {
			t.Fatalf("year %d selected=%v", y.Year, y.Selected)
		}
		if y.Current != (y.Year == 2026) {
			t.Fatalf("year %d current=%v", y.Year, y.Current)
		}
	}

	p.ShiftVisibleYearWindow(6)
	if got := p.YearGrid()[0].Year; got != 2026 {
		t.Fatalf("expected window to start at 2026 after shift, got %d", got)
	}

	p.SyncVisibleYear()
	if got := p.YearGrid()[4].Year; got != 2024 {
		t.Fatalf("expected window centred on displayed year, got %d", got)
	}
}

func TestMonthMode_SevenYearWindow(t *testing.T) {
	t.Parallel()

	p := New(Options{Pattern: "mm.yyyy", Value: "03.2024", Now: clockAt(2026, time.October, 17)})
	if p.Mode() != model.GranularityMonth {
		t.Fatalf("expected month mode, got %s", p.Mode())
	}
	years := p.YearGrid()
	if len(years) != 7 || years[0].Year != 2021 || years[6].Year != 2027 {
		t.Fatalf("unexpected window %+v", years)
	}
}

func TestStepYear(t *testing.T) {
	t.Parallel()

	p := New(Options{Pattern: "mm.yyyy", Value: "03.2024", Now: clockAt(2026, time.October, 17)})
	p.StepYear(-1)
	if p.DisplayedYear() != 2023 || p.VisibleYear() != 2023 || p.DisplayedMonth() != 2 {
		t.Fatalf("unexpected state after StepYear: %+v", p.State())
	}
}

func TestRestore_NormalizesCursor(t *testing.T) {
	t.Parallel()

	p := New(Options{Now: clockAt(2026, time.October, 17)})
	p.Restore(State{
		Cursor:      model.Cursor{Year: 2024, Month: 13},
		Selected:    model.CalendarDate{Year: 2024, Month: 1, Day: 30},
		VisibleYear: 2019,
	})
	st := p.State()
	if st.Cursor != (model.Cursor{Year: 2025, Month: 1}) {
		t.Fatalf("unexpected cursor %+v", st.Cursor)
	}
	if st.Selected != (model.CalendarDate{Year: 2024, Month: 2, Day: 1}) {
		t.Fatalf("unexpected selection %+v", st.Selected)
	}
	if p.YearGrid()[4].Year != 2019 {
		t.Fatalf("expected restored visible year")
	}
}

func TestQueriesReturnCopies(t *testing.T) {
	t.Parallel()

	p := New(Options{Now: clockAt(2026, time.October, 17)})
	days := p.CurrentMonthDays()
	days[0].Day = 99
	if p.CurrentMonthDays()[0].Day != 1 {
		t.Fatalf("query result must not alias picker state")
	}
}

func TestTodayIsReadPerCommand(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 17, 23, 59, 0, 0, time.UTC)
	p := New(Options{Now: func() time.Time { return now }})
	if p.Today() != (model.CalendarDate{Year: 2026, Month: 9, Day: 17}) {
		t.Fatalf("unexpected today %+v", p.Today())
	}

	now = now.Add(2 * time.Minute)
	p.NavigateMonth(0)
	if p.Today() != (model.CalendarDate{Year: 2026, Month: 9, Day: 18}) {
		t.Fatalf("expected the next command to observe the new day; got %+v", p.Today())
	}
	if !p.CurrentMonthDays()[17].Current || p.CurrentMonthDays()[16].Current {
		t.Fatalf("expected current flag to move to the 18th")
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	p := New(Options{Value: "15.02.2024", From: "10.02.2024", Now: clockAt(2026, time.October, 17)})
	s := p.Snapshot()
	if s.Selected == nil || *s.Selected != (model.CalendarDate{Year: 2024, Month: 1, Day: 15}) {
		t.Fatalf("unexpected selected %+v", s.Selected)
	}
	if s.Formatted != "15.02.2024" || s.From == nil || s.To != nil {
		t.Fatalf("unexpected snapshot header %+v", s)
	}
	if got := len(s.Days()); got != 42 {
		t.Fatalf("expected 42 day cells, got %d", got)
	}
	if len(s.Months) != 12 || len(s.Years) != 9 {
		t.Fatalf("unexpected grid sizes months=%d years=%d", len(s.Months), len(s.Years))
	}
}
