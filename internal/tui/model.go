package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"datepick/internal/model"
	"datepick/internal/picker"
)

type Options struct {
	Names   model.Names
	Palette Palette
	// View overrides the start view derived from the picker's granularity.
	View View
	// Renderer defaults to lipgloss.DefaultRenderer().
	Renderer *lipgloss.Renderer
}

// Model is the bubbletea model of an interactive picker. Selecting a cell at
// the picker's granularity ends the program; coarser cells drill down.
type Model struct {
	p     *picker.Picker
	cal   *Calendar
	view  View
	focus int

	keys   keyMap
	help   help.Model
	input  textinput.Model
	typing bool
	flash  string

	result model.Selection
	done   bool
}

func New(p *picker.Picker, opts Options) Model {
	pal := opts.Palette
	if pal.Accent == nil {
		pal = defaultPalette
	}
	in := textinput.New()
	in.Prompt = "date: "
	in.Placeholder = p.Pattern()
	in.CharLimit = 64

	m := Model{
		p:     p,
		cal:   NewCalendar(opts.Renderer, opts.Names, pal),
		view:  opts.View,
		keys:  newKeyMap(),
		help:  help.New(),
		input: in,
	}
	if m.view == "" {
		m.view = StartView(p.Mode())
	}
	if m.view == ViewYears {
		p.SyncVisibleYear()
	}
	m.refocus()
	return m
}

// Result returns the selection that ended the program, if any.
func (m Model) Result() (model.Selection, bool) { return m.result, m.done }

func (m Model) Picker() *picker.Picker { return m.p }

func (m Model) CurrentView() View { return m.view }

// Focus is the focused cell index within the current view.
func (m Model) Focus() int { return m.focus }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}
		m.flash = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Left):
			m.move(-1)
		case key.Matches(msg, m.keys.Right):
			m.move(1)
		case key.Matches(msg, m.keys.Up):
			m.move(-m.rowWidth())
		case key.Matches(msg, m.keys.Down):
			m.move(m.rowWidth())
		case key.Matches(msg, m.keys.Prev):
			m.page(-1)
		case key.Matches(msg, m.keys.Next):
			m.page(1)
		case key.Matches(msg, m.keys.Tab):
			m.cycleView()
		case key.Matches(msg, m.keys.Today):
			if !m.todayAvailable() {
				m.flash = "today is out of range"
				return m, nil
			}
			return m.finish(m.p.JumpToToday())
		case key.Matches(msg, m.keys.Type):
			m.typing = true
			m.input.SetValue("")
			return m, m.input.Focus()
		case key.Matches(msg, m.keys.Select):
			return m.selectFocused()
		}
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.typing = false
		m.input.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		m.typing = false
		m.input.Blur()
		if !m.p.InitFromValue(text) {
			m.flash = fmt.Sprintf("cannot read %q as %s", text, m.p.Pattern())
			return m, nil
		}
		m.setView(StartView(m.p.Mode()))
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// todayAvailable checks today against the bounds at the picker's granularity.
func (m Model) todayAvailable() bool {
	b, today := m.p.Bounds(), m.p.Today()
	switch m.p.Mode() {
	case model.GranularityYear:
		return b.YearAvailable(today.Year)
	case model.GranularityMonth:
		return b.MonthAvailable(today.Year, today.Month)
	default:
		return b.DayAvailable(today)
	}
}

func (m Model) finish(sel model.Selection) (tea.Model, tea.Cmd) {
	m.result = sel
	m.done = true
	return m, tea.Quit
}

func (m *Model) rowWidth() int {
	if m.view == ViewDays {
		return 7
	}
	return gridColumns
}

func (m *Model) setView(v View) {
	m.view = v
	if v == ViewYears {
		m.p.SyncVisibleYear()
	}
	m.refocus()
}

func (m *Model) cycleView() {
	switch m.view {
	case ViewDays:
		m.setView(ViewMonths)
	case ViewMonths:
		m.setView(ViewYears)
	default:
		m.setView(ViewDays)
	}
}

// refocus puts the focus on the selection when it is on screen, then on
// today, then on the first cell.
func (m *Model) refocus() {
	sel, hasSel := m.p.Selected()
	today := m.p.Today()
	switch m.view {
	case ViewDays:
		c := model.Cursor{Year: m.p.DisplayedYear(), Month: m.p.DisplayedMonth()}
		switch {
		case hasSel && sel.Cursor() == c:
			m.focus = sel.Day - 1
		case today.Cursor() == c:
			m.focus = today.Day - 1
		default:
			m.focus = 0
		}
	case ViewMonths:
		m.focus = m.p.DisplayedMonth()
	case ViewYears:
		years := m.p.YearGrid()
		m.focus = len(years) / 2
		for i, y := range years {
			if y.Year == m.p.DisplayedYear() {
				m.focus = i
			}
		}
	}
}

func (m *Model) move(delta int) {
	switch m.view {
	case ViewDays:
		i := m.focus + delta
		if n := len(m.p.CurrentMonthDays()); i >= n {
			m.p.NavigateMonth(1)
			i -= n
		} else if i < 0 {
			m.p.NavigateMonth(-1)
			i += len(m.p.CurrentMonthDays())
		}
		m.focus = i
	case ViewMonths:
		i := m.focus + delta
		if i >= 12 {
			m.p.StepYear(1)
			i -= 12
		} else if i < 0 {
			m.p.StepYear(-1)
			i += 12
		}
		m.focus = i
	case ViewYears:
		years := m.p.YearGrid()
		target := years[m.focus].Year + delta
		for target < years[0].Year {
			m.p.ShiftVisibleYearWindow(-yearPage)
			years = m.p.YearGrid()
		}
		for target > years[len(years)-1].Year {
			m.p.ShiftVisibleYearWindow(yearPage)
			years = m.p.YearGrid()
		}
		m.focus = target - years[0].Year
	}
}

const yearPage = 6

func (m *Model) page(dir int) {
	switch m.view {
	case ViewDays:
		m.p.NavigateMonth(dir)
		m.focus = min(m.focus, len(m.p.CurrentMonthDays())-1)
	case ViewMonths:
		m.p.StepYear(dir)
	case ViewYears:
		m.p.ShiftVisibleYearWindow(dir * yearPage)
	}
}

func (m Model) selectFocused() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewDays:
		d := m.p.CurrentMonthDays()[m.focus]
		if !d.Active {
			m.flash = "out of range"
			return m, nil
		}
		return m.finish(m.p.SelectDay(d.Day))
	case ViewMonths:
		mc := m.p.MonthGrid()[m.focus]
		if !mc.Active {
			m.flash = "out of range"
			return m, nil
		}
		if m.p.Mode() == model.GranularityDay {
			m.p.SetMonth(mc.Month)
			m.setView(ViewDays)
			return m, nil
		}
		return m.finish(m.p.SelectMonth(mc.Month))
	case ViewYears:
		yc := m.p.YearGrid()[m.focus]
		if !yc.Active {
			m.flash = "out of range"
			return m, nil
		}
		if m.p.Mode() == model.GranularityYear {
			return m.finish(m.p.SelectYear(yc.Year))
		}
		m.p.SetYear(yc.Year)
		m.setView(ViewMonths)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	st := m.cal.styles
	parts := []string{m.cal.Render(m.p.Snapshot(), m.view, m.focus)}

	status := "pattern " + m.p.Pattern()
	if v := m.p.Formatted(); v != "" {
		status += "  value " + v
	}
	parts = append(parts, st.footer.Render(status))
	if m.flash != "" {
		parts = append(parts, st.flash.Render(m.flash))
	}
	if m.typing {
		parts = append(parts, m.input.View())
	}
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n\n")
}
