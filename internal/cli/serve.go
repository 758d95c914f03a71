package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"

	"datepick/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		addr      string
		pattern   string
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the picker engine as a JSON API",
		Example: strings.TrimSpace(`
  datepick serve --addr :8080
  curl 'localhost:8080/api/calendar?value=17.10.2026'
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.config(cmd)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sc := web.ServerConfig{
				Addr:        addr,
				Pattern:     resolvePattern(cmd, app, pattern),
				WeeksToShow: cfg.WeeksToShow,
				Now:         app.Now,
			}
			if accessLog {
				sc.AccessLog = cmd.ErrOrStderr()
			}
			srv := web.NewServer(ctx, sc)
			ctxlog.Logger(ctx).Info("serving", "addr", srv.Addr(), "pattern", sc.Pattern)
			if err := srv.Serve(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("DATEPICK_ADDR", ":8080"), "Listen address")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Default pattern for requests that name none")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "Log requests to stderr")

	return cmd
}
