package cli

import (
	"fmt"
	"strings"
	"time"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"

	"datepick/internal/dateformat"
	"datepick/internal/model"
)

// resolvePattern returns flag when set, else the configured pattern.
func resolvePattern(cmd *cobra.Command, app *App, flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return app.config(cmd).PatternOrDefault()
}

// checkPattern rejects a dubious pattern under --strict and only warns
// otherwise; the codec accepts any pattern.
func checkPattern(cmd *cobra.Command, pattern string, strict bool) error {
	err := dateformat.Validate(pattern)
	if err == nil {
		return nil
	}
	if strict {
		return writeErr(cmd, err)
	}
	ctxlog.Logger(cmd.Context()).Warn("questionable pattern", "pattern", pattern, "error", err)
	return nil
}

func parseISODate(s string) (model.CalendarDate, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return model.CalendarDate{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return model.DateOf(t), nil
}

func newFormatCmd(app *App) *cobra.Command {
	var (
		pattern string
		date    string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Format a date with a pattern",
		Example: strings.TrimSpace(`
  datepick format --pattern mm/yyyy --date 2026-10-17
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern = resolvePattern(cmd, app, pattern)
			if err := checkPattern(cmd, pattern, strict); err != nil {
				return err
			}
			d := model.DateOf(app.now())
			if strings.TrimSpace(date) != "" {
				var err error
				if d, err = parseISODate(date); err != nil {
					return writeErr(cmd, err)
				}
			}
			out := dateformat.Format(d, pattern)
			if app.textOutput() {
				return writeOut(cmd, app, out)
			}
			return writeOut(cmd, app, map[string]any{
				"pattern":   pattern,
				"date":      d,
				"formatted": out,
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Date pattern (default from config, else dd.mm.yyyy)")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on questionable patterns instead of warning")

	return cmd
}

func newParseCmd(app *App) *cobra.Command {
	var (
		pattern string
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Parse text with a pattern",
		Long: strings.TrimSpace(`
Parse text with a pattern. Unparseable text is not an error: the result has
ok=false and date=null, and the command exits 0. The literal "today" parses to
the current date.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern = resolvePattern(cmd, app, pattern)
			if err := checkPattern(cmd, pattern, strict); err != nil {
				return err
			}
			d, ok := dateformat.ParseAt(args[0], pattern, app.now)
			if app.textOutput() {
				if !ok {
					return writeOut(cmd, app, "")
				}
				return writeOut(cmd, app, d.ISO())
			}
			out := map[string]any{"ok": ok, "pattern": pattern, "date": nil}
			if ok {
				out["date"] = d
				out["iso"] = d.ISO()
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Date pattern (default from config, else dd.mm.yyyy)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on questionable patterns instead of warning")

	return cmd
}
