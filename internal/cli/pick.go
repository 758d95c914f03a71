package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloudeng.io/logging/ctxlog"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"datepick/internal/picker"
	"datepick/internal/store"
	"datepick/internal/tui"
)

var errNoSelection = errors.New("no date selected")

type pickOptions struct {
	session string
	view    string
	flags   pickerFlags
}

func newPickCmd(app *App) *cobra.Command {
	var opts pickOptions

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a date interactively and print it",
		Long: strings.TrimSpace(`
Open the interactive picker. The calendar is drawn on stderr and the selected
value, formatted with the pattern, is printed on stdout, so the command works
inside $(...). Quitting without a selection exits 1.

Without --session, the picker reopens at the last value picked with the same
pattern.
`),
		Example: strings.TrimSpace(`
  when=$(datepick pick --pattern yyyy-mm-dd)
  datepick pick --session trip
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, app, opts)
		},
	}

	opts.flags.bind(cmd)
	cmd.Flags().StringVar(&opts.session, "session", "", "Pick within a saved session and record the selection")
	cmd.Flags().StringVar(&opts.view, "view", "", "Start view (days|months|years; default from the pattern)")

	return cmd
}

func runPick(cmd *cobra.Command, app *App, opts pickOptions) error {
	ctx := cmd.Context()
	log := ctxlog.Logger(ctx)
	cfg := app.config(cmd)

	view, err := tui.ParseView(opts.view)
	if err != nil {
		return writeErr(cmd, err)
	}
	if strings.TrimSpace(opts.view) == "" {
		view = ""
	}

	s, err := app.store()
	if err != nil {
		return writeErr(cmd, err)
	}

	var (
		p    *picker.Picker
		sess store.Session
	)
	if opts.session != "" {
		_, sess, p, err = openSession(cmd, app, opts.session)
		if err != nil {
			return writeErr(cmd, err)
		}
	} else {
		po, err := opts.flags.options(cmd, app)
		if err != nil {
			return err
		}
		if po.Value == "" {
			if st, err := s.LoadTUIState(); err != nil {
				log.Debug("tui state unreadable", "error", err)
			} else if st.Pattern == po.Pattern {
				po.Value = st.Value
			}
		}
		p = picker.New(po)
	}

	m := tui.New(p, tui.Options{
		Names:    cfg.Names(),
		Palette:  tui.PaletteFor(cfg.Profile()),
		View:     view,
		Renderer: lipgloss.NewRenderer(cmd.ErrOrStderr()),
	})

	progOpts := []tea.ProgramOption{tea.WithOutput(cmd.ErrOrStderr())}
	if in := cmd.InOrStdin(); in != io.Reader(os.Stdin) {
		progOpts = append(progOpts, tea.WithInput(in))
	}
	fm, err := tui.Run(ctx, m, progOpts...)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("picker: %w", err))
	}

	sel, ok := fm.Result()
	if !ok {
		return writeErr(cmd, errNoSelection)
	}

	if opts.session != "" {
		sess.State = p.State()
		if err := s.SaveSession(ctx, sess); err != nil {
			return writeErr(cmd, err)
		}
		if _, err := s.AppendSelection(ctx, sess.Name, sel); err != nil {
			return writeErr(cmd, err)
		}
	} else {
		st := &store.TUIState{View: string(fm.CurrentView()), Pattern: p.Pattern(), Value: sel.Formatted}
		if err := s.SaveTUIState(st); err != nil {
			log.Warn("could not save tui state", "error", err)
		}
	}
	log.Info("picked", "date", sel.Date.ISO(), "formatted", sel.Formatted)

	_, err = fmt.Fprintln(cmd.OutOrStdout(), sel.Formatted)
	return err
}
