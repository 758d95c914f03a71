package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"datepick/internal/model"
	"datepick/internal/picker"
)

// View is one of the three calendar screens.
type View string

const (
	ViewDays   View = "days"
	ViewMonths View = "months"
	ViewYears  View = "years"
)

// StartView is the screen a picker of granularity g opens on.
func StartView(g model.Granularity) View {
	switch g {
	case model.GranularityMonth:
		return ViewMonths
	case model.GranularityYear:
		return ViewYears
	default:
		return ViewDays
	}
}

// ParseView accepts a view name; the empty string is ViewDays.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewDays:
		return ViewDays, nil
	case ViewMonths:
		return ViewMonths, nil
	case ViewYears:
		return ViewYears, nil
	}
	return "", fmt.Errorf("unknown view %q (want days, months or years)", s)
}

const gridColumns = 3 // months and years

// Calendar renders picker snapshots as text. Cell markers ("*" selected,
// "+" today) keep the output readable when colour is off.
type Calendar struct {
	names  model.Names
	styles cellStyles
}

func NewCalendar(r *lipgloss.Renderer, names model.Names, p Palette) *Calendar {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Calendar{names: names, styles: newCellStyles(r, p)}
}

// Render draws view. focus is an index into the view's cells (current-month
// days, months, or years) or -1 for none.
func (c *Calendar) Render(s picker.Snapshot, v View, focus int) string {
	switch v {
	case ViewMonths:
		return c.Months(s, focus)
	case ViewYears:
		return c.Years(s, focus)
	default:
		return c.Days(s, focus)
	}
}

func marker(selected, current bool) string {
	switch {
	case selected:
		return "*"
	case current:
		return "+"
	default:
		return " "
	}
}

func (c *Calendar) cell(text string, width int, active, current, selected, outside, focused bool) string {
	st := c.styles.base
	switch {
	case focused:
		st = c.styles.focus
	case selected:
		st = c.styles.selected
	case outside:
		st = c.styles.outside
	case !active:
		st = c.styles.inactive
	case current:
		st = c.styles.today
	}
	return st.Render(padLeft(text, width)) + marker(selected, current)
}

func (c *Calendar) Days(s picker.Snapshot, focus int) string {
	var b strings.Builder
	title := fmt.Sprintf("%s %d", c.names.Month(s.Cursor.Month), s.Cursor.Year)
	b.WriteString(c.styles.header.Render(title))
	b.WriteByte('\n')

	heads := make([]string, 0, 7)
	for _, w := range c.names.ShortWeekday {
		heads = append(heads, c.styles.weekday.Render(padRight(xansi.Truncate(w, 2, ""), 3)))
	}
	b.WriteString(strings.Join(heads, " "))

	lead := len(s.LeadingDays)
	row := make([]string, 0, 7)
	for i, d := range s.Days() {
		focused := !d.Outside && focus >= 0 && i-lead == focus
		row = append(row, c.cell(strconv.Itoa(d.Day), 2, d.Active, d.Current, d.Selected, d.Outside, focused))
		if len(row) == 7 {
			b.WriteByte('\n')
			b.WriteString(strings.Join(row, " "))
			row = row[:0]
		}
	}
	return trimLines(b.String())
}

func (c *Calendar) Months(s picker.Snapshot, focus int) string {
	width := 0
	for _, n := range c.names.Months {
		width = max(width, xansi.StringWidth(n))
	}

	var b strings.Builder
	b.WriteString(c.styles.header.Render(strconv.Itoa(s.Cursor.Year)))
	for i, m := range s.Months {
		if i%gridColumns == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(c.cell(padRight(c.names.Month(m.Month), width), width, m.Active, m.Current, m.Selected, false, i == focus))
	}
	return trimLines(b.String())
}

func (c *Calendar) Years(s picker.Snapshot, focus int) string {
	var b strings.Builder
	if n := len(s.Years); n > 0 {
		b.WriteString(c.styles.header.Render(fmt.Sprintf("%d-%d", s.Years[0].Year, s.Years[n-1].Year)))
	}
	for i, y := range s.Years {
		if i%gridColumns == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(c.cell(strconv.Itoa(y.Year), 4, y.Active, y.Current, y.Selected, false, i == focus))
	}
	return trimLines(b.String())
}

func padLeft(s string, width int) string {
	if w := xansi.StringWidth(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return s
}

func padRight(s string, width int) string {
	if w := xansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
