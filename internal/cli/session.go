package cli

import (
	"errors"
	"fmt"
	"strings"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"

	"datepick/internal/model"
	"datepick/internal/picker"
	"datepick/internal/store"
	"datepick/internal/tui"
)

type sessionOut struct {
	Session  store.Session   `json:"session"`
	Snapshot picker.Snapshot `json:"snapshot"`
}

type sessionSelectOut struct {
	sessionOut
	Selections []store.HistoryEntry `json:"selections"`
}

// openSession loads name and rebuilds its picker at the saved state.
func openSession(cmd *cobra.Command, app *App, name string) (store.Store, store.Session, *picker.Picker, error) {
	s, err := app.store()
	if err != nil {
		return store.Store{}, store.Session{}, nil, err
	}
	sess, err := s.LoadSession(cmd.Context(), name)
	if err != nil {
		return s, store.Session{}, nil, sessionErr(name, err)
	}
	p := picker.New(sess.Options(app.Now))
	p.Restore(sess.State)
	return s, sess, p, nil
}

// saveSession stores the picker's state under sess and returns the reloaded row.
func saveSession(cmd *cobra.Command, s store.Store, sess store.Session, p *picker.Picker) (store.Session, error) {
	sess.State = p.State()
	if err := s.SaveSession(cmd.Context(), sess); err != nil {
		return sess, err
	}
	return s.LoadSession(cmd.Context(), sess.Name)
}

func writeSession(cmd *cobra.Command, app *App, sess store.Session, p *picker.Picker) error {
	snap := p.Snapshot()
	return writeCalendar(cmd, app, snap, tui.StartView(p.Mode()), sessionOut{Session: sess, Snapshot: snap})
}

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Named pickers persisted in the store",
	}

	cmd.AddCommand(newSessionNewCmd(app))
	cmd.AddCommand(newSessionShowCmd(app))
	cmd.AddCommand(newSessionListCmd(app))
	cmd.AddCommand(newSessionDeleteCmd(app))
	cmd.AddCommand(newSessionNavCmd(app))
	cmd.AddCommand(newSessionSelectCmd(app))
	cmd.AddCommand(newSessionHistoryCmd(app))

	return cmd
}

func newSessionNewCmd(app *App) *cobra.Command {
	var pf pickerFlags

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			opts, err := pf.options(cmd, app)
			if err != nil {
				return err
			}
			s, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := s.LoadSession(cmd.Context(), name); err == nil {
				return writeErr(cmd, fmt.Errorf("session already exists: %s", name))
			} else if !errors.Is(err, store.ErrSessionNotFound) {
				return writeErr(cmd, err)
			}

			p := picker.New(opts)
			sess := store.Session{
				Name:    name,
				Pattern: p.Pattern(),
				From:    opts.From,
				To:      opts.To,
				Weeks:   opts.WeeksToShow,
			}
			sess, err = saveSession(cmd, s, sess, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			ctxlog.Logger(cmd.Context()).Info("created session", "name", name, "pattern", sess.Pattern)
			return writeSession(cmd, app, sess, p)
		},
	}

	pf.bind(cmd)
	return cmd
}

func newSessionShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a session and its grids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, sess, p, err := openSession(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeSession(cmd, app, sess, p)
		},
	}
}

func newSessionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			sessions, err := s.ListSessions(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.textOutput() {
				lines := make([]string, 0, len(sessions))
				for _, sess := range sessions {
					p := picker.New(sess.Options(app.Now))
					p.Restore(sess.State)
					lines = append(lines, strings.TrimRight(fmt.Sprintf("%s\t%s\t%s", sess.Name, sess.Pattern, p.Formatted()), "\t"))
				}
				return writeOut(cmd, app, strings.Join(lines, "\n"))
			}
			return writeOut(cmd, app, sessions)
		},
	}
}

func newSessionDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a session and its history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.TrimSpace(args[0])
			if err := s.DeleteSession(cmd.Context(), name); err != nil {
				return writeErr(cmd, sessionErr(name, err))
			}
			return writeOut(cmd, app, map[string]any{"deleted": name})
		},
	}
}

func newSessionNavCmd(app *App) *cobra.Command {
	var (
		months     int
		setMonth   int
		setYear    int
		shiftYears int
		stepYear   int
		sync       bool
	)

	cmd := &cobra.Command{
		Use:   "nav <name>",
		Short: "Move a session's displayed month or year window",
		Long: strings.TrimSpace(`
Move a session's display. Flags apply in a fixed order: --set-year,
--set-month, --months, --step-year, --shift-years, --sync-years.
`),
		Example: strings.TrimSpace(`
  datepick session nav trip --months -1
  datepick session nav trip --set-year 2027 --set-month 0
  datepick session nav trip --shift-years 6
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cmds []picker.Command
			f := cmd.Flags()
			if f.Changed("set-year") {
				cmds = append(cmds, picker.Command{Op: picker.OpSetYear, N: setYear})
			}
			if f.Changed("set-month") {
				cmds = append(cmds, picker.Command{Op: picker.OpSetMonth, N: setMonth})
			}
			if f.Changed("months") {
				cmds = append(cmds, picker.Command{Op: picker.OpNavigateMonth, N: months})
			}
			if f.Changed("step-year") {
				cmds = append(cmds, picker.Command{Op: picker.OpStepYear, N: stepYear})
			}
			if f.Changed("shift-years") {
				cmds = append(cmds, picker.Command{Op: picker.OpShiftYears, N: shiftYears})
			}
			if sync {
				cmds = append(cmds, picker.Command{Op: picker.OpSyncYear})
			}
			if len(cmds) == 0 {
				return writeErr(cmd, errors.New("nothing to do (pass --months, --set-month, --set-year, --step-year, --shift-years or --sync-years)"))
			}

			s, sess, p, err := openSession(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := p.Apply(cmds...); err != nil {
				return writeErr(cmd, err)
			}
			sess, err = saveSession(cmd, s, sess, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeSession(cmd, app, sess, p)
		},
	}

	cmd.Flags().IntVar(&months, "months", 0, "Move the displayed month by N")
	cmd.Flags().IntVar(&setMonth, "set-month", 0, "Display month M (0-11; other values roll over)")
	cmd.Flags().IntVar(&setYear, "set-year", 0, "Display year Y")
	cmd.Flags().IntVar(&stepYear, "step-year", 0, "Move the displayed year by N and re-centre the year grid")
	cmd.Flags().IntVar(&shiftYears, "shift-years", 0, "Move the centre of the year grid by N")
	cmd.Flags().BoolVar(&sync, "sync-years", false, "Centre the year grid on the displayed year")

	return cmd
}

// outOfRange reports whether the cell a selection command targets is
// disabled by the session bounds.
func outOfRange(p *picker.Picker, c picker.Command) bool {
	b := p.Bounds()
	switch c.Op {
	case picker.OpSelectDay:
		return !b.DayAvailable(model.NewCalendarDate(p.DisplayedYear(), p.DisplayedMonth(), c.N))
	case picker.OpSelectMonth:
		cur := model.Cursor{Year: p.DisplayedYear(), Month: c.N}.Date()
		return !b.MonthAvailable(cur.Year, cur.Month)
	case picker.OpSelectYear:
		return !b.YearAvailable(c.N)
	case picker.OpToday:
		return !b.DayAvailable(p.Today())
	}
	return false
}

func newSessionSelectCmd(app *App) *cobra.Command {
	var (
		day   int
		month int
		year  int
		today bool
		value string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "select <name>",
		Short: "Select a date in a session and record it in the history",
		Example: strings.TrimSpace(`
  datepick session select trip --day 14
  datepick session select trip --today
  datepick session select trip --value 01.11.2026
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, sess, p, err := openSession(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			var sels []model.Selection
			p.OnSelect(func(sel model.Selection) { sels = append(sels, sel) })

			f := cmd.Flags()
			var c picker.Command
			switch {
			case f.Changed("day"):
				c = picker.Command{Op: picker.OpSelectDay, N: day}
			case f.Changed("month"):
				c = picker.Command{Op: picker.OpSelectMonth, N: month}
			case f.Changed("year"):
				c = picker.Command{Op: picker.OpSelectYear, N: year}
			case today:
				c = picker.Command{Op: picker.OpToday}
			case f.Changed("value"):
				if !p.InitFromValue(value) {
					return writeErr(cmd, fmt.Errorf("cannot parse %q with pattern %q", value, p.Pattern()))
				}
				d, _ := p.Selected()
				sels = append(sels, model.Selection{Date: d, Formatted: p.Formatted()})
			}
			if c.Op != "" {
				if !force && outOfRange(p, c) {
					return writeErr(cmd, fmt.Errorf("%s %d is out of range for session %s (use --force to select anyway)", c.Op, c.N, sess.Name))
				}
				if _, err := p.Apply(c); err != nil {
					return writeErr(cmd, err)
				}
			}

			sess, err = saveSession(cmd, s, sess, p)
			if err != nil {
				return writeErr(cmd, err)
			}
			entries := make([]store.HistoryEntry, 0, len(sels))
			for _, sel := range sels {
				e, err := s.AppendSelection(cmd.Context(), sess.Name, sel)
				if err != nil {
					return writeErr(cmd, err)
				}
				entries = append(entries, e)
			}
			if app.textOutput() {
				return writeOut(cmd, app, p.Formatted())
			}
			return writeOut(cmd, app, sessionSelectOut{
				sessionOut: sessionOut{Session: sess, Snapshot: p.Snapshot()},
				Selections: entries,
			})
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Select day D of the displayed month")
	cmd.Flags().IntVar(&month, "month", 0, "Select the first day of month M (0-11) of the displayed year")
	cmd.Flags().IntVar(&year, "year", 0, "Select 1 January of year Y")
	cmd.Flags().BoolVar(&today, "today", false, "Select today")
	cmd.Flags().StringVar(&value, "value", "", "Select the date TEXT parsed with the session pattern")
	cmd.Flags().BoolVar(&force, "force", false, "Select even when the date is outside the session range")
	cmd.MarkFlagsMutuallyExclusive("day", "month", "year", "today", "value")
	cmd.MarkFlagsOneRequired("day", "month", "year", "today", "value")

	return cmd
}

func newSessionHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <name>",
		Short: "List a session's selections, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.store()
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.TrimSpace(args[0])
			entries, err := s.Selections(cmd.Context(), name, limit)
			if err != nil {
				return writeErr(cmd, sessionErr(name, err))
			}
			if app.textOutput() {
				lines := make([]string, 0, len(entries))
				for _, e := range entries {
					lines = append(lines, e.Formatted)
				}
				return writeOut(cmd, app, strings.Join(lines, "\n"))
			}
			return writeOut(cmd, app, entries)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max entries (0 = all)")
	return cmd
}
