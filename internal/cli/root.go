package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"datepick/internal/format"
	"datepick/internal/picker"
	"datepick/internal/store"
	"datepick/internal/tui"
)

type App struct {
	Dir       string
	Format    string
	Pretty    bool
	LogLevel  string
	LogFormat string
	Color     string

	// Now is the engine clock; nil means time.Now.
	Now func() time.Time
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "datepick",
		Short:        "Calendar date picker (CLI + TUI + HTTP)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Pick a date interactively
  datepick

  # Show the month around a date
  datepick grid --value 17.10.2026 --format text

  # Shortcut for: datepick grid --value <value>
  datepick today

  # Persisted pickers
  datepick session new trip --pattern dd.mm.yyyy --from today
  datepick session nav trip --months 2
  datepick session select trip --day 14
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive picker.
			if len(args) == 0 {
				return runPick(cmd, app, pickOptions{})
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.ParseKind(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		ctx, err := withLogger(cmd.Context(), cmd.ErrOrStderr(), app.LogLevel, app.LogFormat)
		if err != nil {
			return writeErr(cmd, err)
		}
		cmd.SetContext(ctx)
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DATEPICK_DIR", ""), "Path to store dir (default ~/.datepick)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DATEPICK_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("DATEPICK_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFormat, "log-format", envOr("DATEPICK_LOG_FORMAT", "text"), "Log format (text|json)")
	cmd.PersistentFlags().StringVar(&app.Color, "color", envOr("DATEPICK_COLOR", "auto"), "Colour for --format text (auto|always|never)")

	cmd.AddCommand(newFormatCmd(app))
	cmd.AddCommand(newParseCmd(app))
	cmd.AddCommand(newGridCmd(app))
	cmd.AddCommand(newSessionCmd(app))
	cmd.AddCommand(newPickCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// withLogger installs a stderr logger on ctx. Commands and the store read it
// back with ctxlog.Logger.
func withLogger(ctx context.Context, w io.Writer, level, logFormat string) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return ctx, fmt.Errorf("invalid --log-level %q (want debug, info, warn or error)", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.TrimSpace(logFormat) {
	case "", "text":
		return ctxlog.WithLogger(ctx, slog.New(slog.NewTextHandler(w, opts))), nil
	case "json":
		return ctxlog.NewJSONLogger(ctx, w, opts), nil
	}
	return ctx, fmt.Errorf("invalid --log-format %q (want text or json)", logFormat)
}

func (app *App) now() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

func (app *App) store() (store.Store, error) {
	dir := strings.TrimSpace(app.Dir)
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		app.Dir = d
		dir = d
	}
	return store.Store{Dir: dir}, nil
}

// config loads config.json best effort; a store dir that cannot be resolved
// yields the defaults.
func (app *App) config(cmd *cobra.Command) store.Config {
	s, err := app.store()
	if err != nil {
		ctxlog.Logger(cmd.Context()).Debug("no store dir; using default config", "error", err)
		return store.Config{}
	}
	cfg, err := s.LoadConfig(cmd.Context())
	if err != nil {
		ctxlog.Logger(cmd.Context()).Warn("config unreadable; using defaults", "error", err)
		return store.Config{}
	}
	return cfg
}

// textOutput reports whether --format resolves to text. An invalid value has
// already been rejected by the root command.
func (app *App) textOutput() bool {
	kind, err := format.ParseKind(app.Format)
	return err == nil && kind == format.Text
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes v inside the data envelope. In text mode, v is printed as
// plain text when it is a string and as indented JSON otherwise.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	kind, err := format.ParseKind(app.Format)
	if err != nil {
		return writeErr(cmd, err)
	}
	if kind == format.Text {
		if s, ok := v.(string); ok {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		}
		return format.WriteJSON(cmd.OutOrStdout(), v, true)
	}
	return format.Write(cmd.OutOrStdout(), format.Envelope{Data: v}, kind, app.Pretty)
}

// writeCalendar renders view of snap for --format text and falls back to
// writeOut(data) otherwise.
func writeCalendar(cmd *cobra.Command, app *App, snap picker.Snapshot, view tui.View, data any) error {
	if !app.textOutput() {
		return writeOut(cmd, app, data)
	}
	cfg := app.config(cmd)
	r, err := textRenderer(cmd.OutOrStdout(), app.Color)
	if err != nil {
		return writeErr(cmd, err)
	}
	cal := tui.NewCalendar(r, cfg.Names(), tui.PaletteFor(cfg.Profile()))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cal.Render(snap, view, -1))
	return err
}

func textRenderer(w io.Writer, color string) (*lipgloss.Renderer, error) {
	var profile termenv.Profile
	switch strings.TrimSpace(color) {
	case "", "auto":
		return lipgloss.NewRenderer(w), nil
	case "always":
		profile = termenv.ANSI256
	case "never":
		profile = termenv.Ascii
	default:
		return nil, fmt.Errorf("invalid --color %q (want auto, always or never)", color)
	}
	r := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	r.SetColorProfile(profile)
	return r, nil
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
