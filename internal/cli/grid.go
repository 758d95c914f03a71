package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"datepick/internal/model"
	"datepick/internal/picker"
	"datepick/internal/tui"
)

// pickerFlags are the options shared by commands that build a picker.
type pickerFlags struct {
	pattern string
	from    string
	to      string
	value   string
	weeks   int
	strict  bool
}

func (f *pickerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "Date pattern (default from config, else dd.mm.yyyy)")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest selectable date, in the pattern or \"today\"")
	cmd.Flags().StringVar(&f.to, "to", "", "Latest selectable date, in the pattern or \"today\"")
	cmd.Flags().StringVar(&f.value, "value", "", "Initial selection, in the pattern or \"today\"")
	cmd.Flags().IntVar(&f.weeks, "weeks", 0, "Rows in the day grid (default from config, else 6)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Fail on questionable patterns instead of warning")
}

// options resolves the flags against config. It fails only under --strict.
func (f *pickerFlags) options(cmd *cobra.Command, app *App) (picker.Options, error) {
	cfg := app.config(cmd)
	pattern := f.pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = cfg.PatternOrDefault()
	}
	if err := checkPattern(cmd, pattern, f.strict); err != nil {
		return picker.Options{}, err
	}
	weeks := f.weeks
	if weeks > picker.MaxWeeksToShow {
		return picker.Options{}, writeErr(cmd, fmt.Errorf("--weeks: want at most %d, got %d", picker.MaxWeeksToShow, weeks))
	}
	if weeks <= 0 {
		weeks = cfg.WeeksToShow
	}
	return picker.Options{
		Pattern:     pattern,
		From:        f.from,
		To:          f.to,
		Value:       f.value,
		WeeksToShow: weeks,
		Now:         app.Now,
	}, nil
}

// gridView is one named grid of a snapshot.
type gridView struct {
	View        tui.View     `json:"view"`
	Cursor      model.Cursor `json:"cursor"`
	VisibleYear int          `json:"visibleYear"`
	Cells       any          `json:"cells"`
}

func viewOf(s picker.Snapshot, v tui.View) gridView {
	out := gridView{View: v, Cursor: s.Cursor, VisibleYear: s.VisibleYear}
	switch v {
	case tui.ViewMonths:
		out.Cells = s.Months
	case tui.ViewYears:
		out.Cells = s.Years
	default:
		out.Cells = s.Days()
	}
	return out
}

func newGridCmd(app *App) *cobra.Command {
	var (
		pf          pickerFlags
		month       int
		year        int
		visibleYear int
	)

	cmd := &cobra.Command{
		Use:   "grid [days|months|years]",
		Short: "Print the calendar grids of a picker",
		Example: strings.TrimSpace(`
  # Full snapshot (all three grids)
  datepick grid --value 17.10.2026

  # One grid, drawn as a calendar
  datepick grid months --pattern mm.yyyy --format text

  # Bounded range
  datepick grid --from today --to 31.12.2026
`),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(tui.ViewDays), string(tui.ViewMonths), string(tui.ViewYears)},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := pf.options(cmd, app)
			if err != nil {
				return err
			}
			var view tui.View
			if len(args) == 1 {
				if view, err = tui.ParseView(args[0]); err != nil {
					return writeErr(cmd, err)
				}
			}

			p := picker.New(opts)
			if cmd.Flags().Changed("year") {
				p.SetYear(year)
			}
			if cmd.Flags().Changed("month") {
				p.SetMonth(month)
			}
			if cmd.Flags().Changed("visible-year") {
				p.ShiftVisibleYearWindow(visibleYear - p.VisibleYear())
			}

			snap := p.Snapshot()
			if view == "" {
				return writeCalendar(cmd, app, snap, tui.StartView(p.Mode()), snap)
			}
			return writeCalendar(cmd, app, snap, view, viewOf(snap, view))
		},
	}

	pf.bind(cmd)
	cmd.Flags().IntVar(&month, "month", 0, "Displayed month, 0-11 (out-of-range values roll over)")
	cmd.Flags().IntVar(&year, "year", 0, "Displayed year")
	cmd.Flags().IntVar(&visibleYear, "visible-year", 0, "Centre of the year grid")

	return cmd
}
